package validator

import (
	"fmt"
	"math"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/fairplay/internal/config"
	"github.com/derekprior/fairplay/internal/excel"
	"github.com/derekprior/fairplay/internal/roster"
	"github.com/derekprior/fairplay/internal/schedule"
	"github.com/derekprior/fairplay/internal/strategy"
)

// Violation represents a rule or guideline broken by a rotation.
type Violation struct {
	Period  int    // 0 when the violation spans the match
	Type    string // "error" or "warning"
	Message string
}

// Validate reads a rotation workbook and checks it against the match file.
func Validate(cfg *config.Config, path string) ([]Violation, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	segments, err := excel.ReadRotation(f)
	if err != nil {
		return nil, fmt.Errorf("reading rotation: %w", err)
	}

	r, err := roster.New(cfg.Players(), cfg.Goalies())
	if err != nil {
		return nil, err
	}
	strat, err := strategy.Get(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	return Check(cfg, r, strat, segments), nil
}

// Check runs every rule and guideline over parsed segments.
func Check(cfg *config.Config, r *roster.Roster, strat strategy.Strategy, segments []schedule.Segment) []Violation {
	rc := cfg.Rotation()
	var violations []Violation

	// Rules
	violations = append(violations, checkCoverage(rc, segments)...)
	violations = append(violations, checkPartition(r, segments)...)
	violations = append(violations, checkFieldSize(rc, segments)...)
	violations = append(violations, checkGoalieOrder(r, segments)...)
	violations = append(violations, checkSubstitutions(rc, segments, strat.CapsSubstitutions())...)
	violations = append(violations, checkFieldTotal(rc, r, segments)...)

	// Guidelines
	violations = append(violations, checkBenchAssignment(cfg.BenchAssignment(), segments)...)
	violations = append(violations, checkBalance(rc, r, segments, cfg.Tolerance())...)

	return violations
}

// byPeriod groups segments by period in sheet order.
func byPeriod(segments []schedule.Segment) map[int][]schedule.Segment {
	periods := make(map[int][]schedule.Segment)
	for _, seg := range segments {
		periods[seg.Period] = append(periods[seg.Period], seg)
	}
	return periods
}

func checkCoverage(rc schedule.Config, segments []schedule.Segment) []Violation {
	periods := byPeriod(segments)
	var violations []Violation

	for period := 1; period <= rc.NumPeriods; period++ {
		segs := periods[period]
		if len(segs) == 0 {
			violations = append(violations, Violation{
				Period:  period,
				Type:    "error",
				Message: fmt.Sprintf("period %d has no rows", period),
			})
			continue
		}
		clock := 0
		for _, seg := range segs {
			if seg.Start != clock {
				violations = append(violations, Violation{
					Period:  period,
					Type:    "error",
					Message: fmt.Sprintf("period %d: row starting at %d' should start at %d'", period, seg.Start, clock),
				})
			}
			if seg.End <= seg.Start {
				violations = append(violations, Violation{
					Period:  period,
					Type:    "error",
					Message: fmt.Sprintf("period %d: row %d'-%d' has no duration", period, seg.Start, seg.End),
				})
			}
			clock = seg.End
		}
		if clock != rc.PeriodLength {
			violations = append(violations, Violation{
				Period:  period,
				Type:    "error",
				Message: fmt.Sprintf("period %d ends at %d', want %d'", period, clock, rc.PeriodLength),
			})
		}
	}

	var extra []int
	for period := range periods {
		if period < 1 || period > rc.NumPeriods {
			extra = append(extra, period)
		}
	}
	sort.Ints(extra)
	for _, period := range extra {
		violations = append(violations, Violation{
			Period:  period,
			Type:    "error",
			Message: fmt.Sprintf("period %d is outside the match (%d periods)", period, rc.NumPeriods),
		})
	}
	return violations
}

func checkPartition(r *roster.Roster, segments []schedule.Segment) []Violation {
	var violations []Violation
	for _, seg := range segments {
		count := make(map[roster.Player]int)
		count[seg.Goalie]++
		for _, p := range seg.Field {
			count[p]++
		}
		for _, p := range seg.Bench {
			count[p]++
		}

		for _, p := range r.Players {
			switch n := count[p]; {
			case n == 0:
				violations = append(violations, Violation{
					Period:  seg.Period,
					Type:    "error",
					Message: fmt.Sprintf("period %d %d'-%d': %s is missing", seg.Period, seg.Start, seg.End, p),
				})
			case n > 1:
				violations = append(violations, Violation{
					Period:  seg.Period,
					Type:    "error",
					Message: fmt.Sprintf("period %d %d'-%d': %s is listed %d times", seg.Period, seg.Start, seg.End, p, n),
				})
			}
		}

		var unknown []string
		for p := range count {
			if p != "" && !r.Contains(p) {
				unknown = append(unknown, string(p))
			}
		}
		sort.Strings(unknown)
		for _, p := range unknown {
			violations = append(violations, Violation{
				Period:  seg.Period,
				Type:    "error",
				Message: fmt.Sprintf("period %d %d'-%d': %s is not on the roster", seg.Period, seg.Start, seg.End, p),
			})
		}
	}
	return violations
}

func checkFieldSize(rc schedule.Config, segments []schedule.Segment) []Violation {
	var violations []Violation
	for _, seg := range segments {
		if len(seg.Field) != rc.FieldPlayersOnPitch {
			violations = append(violations, Violation{
				Period:  seg.Period,
				Type:    "error",
				Message: fmt.Sprintf("period %d %d'-%d': %d field players (want %d)", seg.Period, seg.Start, seg.End, len(seg.Field), rc.FieldPlayersOnPitch),
			})
		}
	}
	return violations
}

func checkGoalieOrder(r *roster.Roster, segments []schedule.Segment) []Violation {
	var violations []Violation
	for _, seg := range segments {
		if seg.Period < 1 {
			continue
		}
		if want := r.GoalieFor(seg.Period); seg.Goalie != want {
			violations = append(violations, Violation{
				Period:  seg.Period,
				Type:    "error",
				Message: fmt.Sprintf("period %d %d'-%d': goalie is %q, want %s", seg.Period, seg.Start, seg.End, seg.Goalie, want),
			})
		}
	}
	return violations
}

// checkSubstitutions requires every change of lineup to fall on a
// checkpoint and, when capped, limits changes per period. Rows that only
// reorder the field or split a period without a change are ignored.
func checkSubstitutions(rc schedule.Config, segments []schedule.Segment, capped bool) []Violation {
	limit := rc.MaxSubstitutions
	if limit == 0 {
		limit = schedule.DefaultMaxSubstitutions
	}

	periods := byPeriod(segments)
	var numbers []int
	for period := range periods {
		numbers = append(numbers, period)
	}
	sort.Ints(numbers)

	var violations []Violation
	for _, period := range numbers {
		segs := periods[period]
		count := 0
		for i := 1; i < len(segs); i++ {
			changes := schedule.Changes(segs[i-1], segs[i])
			if len(changes) == 0 {
				continue
			}
			minute := segs[i].Start
			if !schedule.IsCheckpoint(rc.PeriodLength, minute) {
				violations = append(violations, Violation{
					Period:  period,
					Type:    "error",
					Message: fmt.Sprintf("period %d: lineup changes at %d', substitutions happen at %v", period, minute, schedule.Checkpoints(rc.PeriodLength)),
				})
			}
			count += len(changes)
		}
		if capped && count > limit {
			violations = append(violations, Violation{
				Period:  period,
				Type:    "error",
				Message: fmt.Sprintf("period %d has %d substitutions (max %d)", period, count, limit),
			})
		}
	}
	return violations
}

func checkFieldTotal(rc schedule.Config, r *roster.Roster, segments []schedule.Segment) []Violation {
	field, _ := schedule.Tally(r, segments)
	if total := field.Total(); total != rc.TotalFieldMinutes() {
		return []Violation{{
			Type:    "error",
			Message: fmt.Sprintf("field minutes total %d, want %d", total, rc.TotalFieldMinutes()),
		}}
	}
	return nil
}

// checkBenchAssignment warns when a player listed in the match file's bench
// section does not start that period on the bench.
func checkBenchAssignment(bench schedule.BenchAssignment, segments []schedule.Segment) []Violation {
	if len(bench) == 0 {
		return nil
	}
	first := make(map[int]schedule.Segment)
	for _, seg := range segments {
		if _, ok := first[seg.Period]; !ok {
			first[seg.Period] = seg
		}
	}

	var players []roster.Player
	for p := range bench {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i] < players[j] })

	var violations []Violation
	for _, p := range players {
		period := bench[p]
		seg, ok := first[period]
		if !ok {
			continue
		}
		onBench := false
		for _, q := range seg.Bench {
			if q == p {
				onBench = true
			}
		}
		if !onBench {
			violations = append(violations, Violation{
				Period:  period,
				Type:    "warning",
				Message: fmt.Sprintf("%s was due to start period %d on the bench", p, period),
			})
		}
	}
	return violations
}

// checkBalance warns for each player further than tolerance from their
// fair share of field time.
func checkBalance(rc schedule.Config, r *roster.Roster, segments []schedule.Segment, tolerance int) []Violation {
	field, _ := schedule.Tally(r, segments)
	shares := schedule.FairShares(r, rc)

	var violations []Violation
	for _, p := range r.Outfield() {
		share := shares[p]
		if diff := float64(field[p]) - share; math.Abs(diff) > float64(tolerance) {
			violations = append(violations, Violation{
				Type:    "warning",
				Message: fmt.Sprintf("%s plays %d field minutes, %.1f from a fair share of %.1f (max %d)", p, field[p], diff, share, tolerance),
			})
		}
	}
	return violations
}
