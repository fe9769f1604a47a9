package report

import (
	"fmt"
	"strings"

	"github.com/derekprior/fairplay/internal/roster"
	"github.com/derekprior/fairplay/internal/schedule"
)

// FormatSchedule renders the schedule as plain text: one block per period
// with the kickoff lineup and substitutions, then the minute table.
func FormatSchedule(result *schedule.Result) string {
	var b strings.Builder

	b.WriteString("Rotation Schedule:\n")
	b.WriteString("==================\n")

	for _, plan := range result.Schedule {
		fmt.Fprintf(&b, "\nPeriod %d:\n", plan.Index)
		fmt.Fprintf(&b, "  Goalie: %s\n", plan.Goalie)
		fmt.Fprintf(&b, "  Field Players: %s\n", join(plan.StartingField))
		fmt.Fprintf(&b, "  Bench: %s\n", join(plan.StartingBench))
		if len(plan.Substitutions) > 0 {
			b.WriteString("  Substitutions:\n")
			for _, s := range plan.Substitutions {
				fmt.Fprintf(&b, "    %2d' %s on for %s\n", s.Minute, s.In, s.Out)
			}
		}
	}

	b.WriteString("\nAccumulated Field Minutes per Player:\n")
	fmt.Fprintf(&b, "  %-15s %6s %7s\n", "Player", "Field", "Goalie")
	for _, p := range result.Players {
		field := "-"
		if m, ok := result.FieldMinutes[p]; ok {
			field = fmt.Sprintf("%d", m)
		}
		fmt.Fprintf(&b, "  %-15s %6s %7d\n", p, field, result.GoalieMinutes[p])
	}
	fmt.Fprintf(&b, "\nTarget field minutes per player: %.1f\n", result.TargetFieldMinutes)

	return b.String()
}

// FormatBalance renders a one-line fairness summary.
func FormatBalance(b schedule.Balance, tolerance float64) string {
	return fmt.Sprintf("Field minutes: min %d, max %d, spread %d, mean %.1f, stddev %.1f; %d of %d within %.0f of fair share",
		b.Min, b.Max, b.Spread, b.Mean, b.StdDev, b.WithinTolerance, b.Players, tolerance)
}

func join(players []roster.Player) string {
	if len(players) == 0 {
		return "(none)"
	}
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}
