package report

import (
	"strings"
	"testing"

	"github.com/derekprior/fairplay/internal/roster"
	"github.com/derekprior/fairplay/internal/schedule"
)

func TestFormatSchedule(t *testing.T) {
	ps := roster.GeneratePlayerList(8)
	result, err := schedule.BuildRotationSchedule(ps, roster.Names("Player 3", "Player 4", "Player 8"), schedule.DefaultConfig, nil)
	if err != nil {
		t.Fatalf("BuildRotationSchedule() error: %v", err)
	}
	out := FormatSchedule(result)

	for _, want := range []string{
		"Rotation Schedule:",
		"Period 1:",
		"Period 3:",
		"Goalie:",
		"Field Players:",
		"Bench:",
		"Accumulated Field Minutes per Player:",
		"Goalie: Player 3",
		"Bench: Player 1",
		" 5' Player 1 on for Player 2",
		"Target field minutes per player: 45.0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	t.Run("every player listed once in the minute table", func(t *testing.T) {
		table := out[strings.Index(out, "Accumulated Field Minutes per Player:"):]
		for _, p := range ps {
			if n := strings.Count(table, string(p)+" "); n != 1 {
				t.Errorf("%s appears %d times", p, n)
			}
		}
	})
}

func TestFormatScheduleWithoutBench(t *testing.T) {
	result, err := schedule.BuildRotationSchedule(roster.GeneratePlayerList(7), roster.Names("Player 1"), schedule.DefaultConfig, nil)
	if err != nil {
		t.Fatalf("BuildRotationSchedule() error: %v", err)
	}
	out := FormatSchedule(result)

	if !strings.Contains(out, "Bench: (none)") {
		t.Error("expected empty bench to render as (none)")
	}
	if strings.Contains(out, "Substitutions:") {
		t.Error("expected no substitution log")
	}
	if !strings.Contains(out, "Player 1             -      60") {
		t.Errorf("fixed goalie row not rendered as expected:\n%s", out)
	}
}

func TestFormatBalance(t *testing.T) {
	got := FormatBalance(schedule.Balance{Players: 8, Min: 40, Max: 50, Spread: 10, Mean: 45, StdDev: 4.5, WithinTolerance: 8}, 5)
	want := "Field minutes: min 40, max 50, spread 10, mean 45.0, stddev 4.5; 8 of 8 within 5 of fair share"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
