package strategy

import (
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/derekprior/fairplay/internal/roster"
	"github.com/derekprior/fairplay/internal/schedule"
)

func TestGet(t *testing.T) {
	for _, name := range []string{NameCheckpoint, NameInterval} {
		s, err := Get(name)
		if err != nil {
			t.Fatalf("Get(%q) error: %v", name, err)
		}
		if s.Name() != name {
			t.Errorf("Get(%q).Name() = %q", name, s.Name())
		}
	}

	_, err := Get("random")
	if err == nil || !strings.Contains(err.Error(), "unknown strategy") {
		t.Errorf("Get(random) error = %v, want unknown strategy", err)
	}
}

func TestNames(t *testing.T) {
	if got, want := Names(), []string{"checkpoint", "interval"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if !slices.Contains(Names(), Default) {
		t.Errorf("Names() does not include default %q", Default)
	}
}

func build(t *testing.T, s Strategy, n, goalies int) *schedule.Result {
	t.Helper()
	r, err := roster.New(roster.GeneratePlayerList(n), roster.GeneratePlayerList(goalies))
	if err != nil {
		t.Fatalf("roster.New() error: %v", err)
	}
	result, err := schedule.Build(r, schedule.DefaultConfig, nil, s)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return result
}

func TestCheckpointMatchesReferenceBuilder(t *testing.T) {
	ps := roster.GeneratePlayerList(8)
	goalies := roster.Names("Player 3", "Player 4", "Player 8")

	want, err := schedule.BuildRotationSchedule(ps, goalies, schedule.DefaultConfig, nil)
	if err != nil {
		t.Fatalf("BuildRotationSchedule() error: %v", err)
	}

	r, err := roster.New(ps, goalies)
	if err != nil {
		t.Fatalf("roster.New() error: %v", err)
	}
	got, err := schedule.Build(r, schedule.DefaultConfig, nil, Checkpoint{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build(Checkpoint) = %+v, want %+v", got, want)
	}
}

func TestIntervalInvariants(t *testing.T) {
	s := Interval{}
	for n := 7; n <= 10; n++ {
		for k := 1; k <= roster.MaxGoalies; k++ {
			result := build(t, s, n, k)
			cfg := result.Config

			if total := result.FieldMinutes.Total(); total != cfg.TotalFieldMinutes() {
				t.Errorf("n=%d k=%d: field minutes total %d, want %d", n, k, total, cfg.TotalFieldMinutes())
			}

			for _, plan := range result.Schedule {
				for _, sub := range plan.Substitutions {
					if !schedule.IsCheckpoint(cfg.PeriodLength, sub.Minute) {
						t.Errorf("n=%d k=%d period %d: substitution at %d", n, k, plan.Index, sub.Minute)
					}
				}
				for _, seg := range plan.Segments(cfg.PeriodLength) {
					if len(seg.Field) != cfg.FieldPlayersOnPitch {
						t.Errorf("n=%d k=%d: %d on the field, want %d", n, k, len(seg.Field), cfg.FieldPlayersOnPitch)
					}
					if want := n - 1 - cfg.FieldPlayersOnPitch; len(seg.Bench) != want {
						t.Errorf("n=%d k=%d: %d on the bench, want %d", n, k, len(seg.Bench), want)
					}
					if slices.Contains(seg.Field, seg.Goalie) || slices.Contains(seg.Bench, seg.Goalie) {
						t.Errorf("n=%d k=%d: goalie %s also listed outfield", n, k, seg.Goalie)
					}
					for _, p := range seg.Bench {
						if slices.Contains(seg.Field, p) {
							t.Errorf("n=%d k=%d: %s on field and bench", n, k, p)
						}
					}
				}
			}
		}
	}
}

func TestIntervalRotatesWholeBench(t *testing.T) {
	result := build(t, Interval{}, 9, 1)

	first := result.Schedule[0]
	if len(first.Substitutions) != 6 {
		t.Fatalf("got %d substitutions in period 1, want 6", len(first.Substitutions))
	}
	for i, minute := range []int{5, 5, 10, 10, 15, 15} {
		if first.Substitutions[i].Minute != minute {
			t.Errorf("substitution %d at %d, want %d", i, first.Substitutions[i].Minute, minute)
		}
	}

	for _, p := range roster.GeneratePlayerList(9)[1:] {
		if result.FieldMinutes[p] != 45 {
			t.Errorf("%s: %d field minutes, want 45", p, result.FieldMinutes[p])
		}
	}
}

func TestIntervalWithoutBench(t *testing.T) {
	result := build(t, Interval{}, 7, 1)
	for _, plan := range result.Schedule {
		if len(plan.Substitutions) != 0 {
			t.Errorf("period %d: substitutions %v, want none", plan.Index, plan.Substitutions)
		}
	}
}
