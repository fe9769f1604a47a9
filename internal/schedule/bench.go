package schedule

import (
	"fmt"

	"github.com/derekprior/fairplay/internal/roster"
)

// BenchAssignment maps a non-goalie player to the 1-based period they start
// on the bench. Only used with rotating goalies.
type BenchAssignment map[roster.Player]int

// PerPeriod counts assigned players for each of numPeriods periods.
func (b BenchAssignment) PerPeriod(numPeriods int) []int {
	counts := make([]int, numPeriods)
	for _, period := range b {
		if period >= 1 && period <= numPeriods {
			counts[period-1]++
		}
	}
	return counts
}

// AssignBenchPeriods spreads one forced bench period per non-goalie over the
// match, round-robin in roster order, until every candidate has one or every
// bench seat is taken. Per-period counts differ by at most one.
func AssignBenchPeriods(players, goalies []roster.Player, totalPlayers, fieldPlayersOnPitch, numPeriods int) BenchAssignment {
	assignment := make(BenchAssignment)

	seats := totalPlayers - 1 - fieldPlayersOnPitch
	if seats <= 0 || numPeriods <= 0 {
		return assignment
	}

	isGoalie := make(map[roster.Player]bool, len(goalies))
	for _, g := range goalies {
		isGoalie[g] = true
	}
	var candidates []roster.Player
	for _, p := range players {
		if !isGoalie[p] {
			candidates = append(candidates, p)
		}
	}

	limit := min(len(candidates), numPeriods*seats)
	for k := 0; k < limit; k++ {
		assignment[candidates[k]] = k%numPeriods + 1
	}
	return assignment
}

// validateBench checks a caller-supplied assignment against the roster.
func validateBench(b BenchAssignment, r *roster.Roster, cfg Config) error {
	if len(b) == 0 {
		return nil
	}
	if r.Mode == roster.Fixed {
		return fmt.Errorf("%w: bench periods only apply to rotating goalies", ErrInvalidBenchAssignment)
	}
	seats := cfg.BenchSeats(r.Size())
	for _, p := range r.Players {
		period, ok := b[p]
		if !ok {
			continue
		}
		if r.IsGoalie(p) {
			return fmt.Errorf("%w: goalie %q cannot be pre-assigned to the bench", ErrInvalidBenchAssignment, p)
		}
		if period < 1 || period > cfg.NumPeriods {
			return fmt.Errorf("%w: %q assigned to period %d, match has %d", ErrInvalidBenchAssignment, p, period, cfg.NumPeriods)
		}
	}
	for p := range b {
		if !r.Contains(p) {
			return fmt.Errorf("%w: %q is not on the roster", ErrInvalidBenchAssignment, p)
		}
	}
	for i, n := range b.PerPeriod(cfg.NumPeriods) {
		if n > seats {
			return fmt.Errorf("%w: period %d has %d players for %d bench seats", ErrInvalidBenchAssignment, i+1, n, seats)
		}
	}
	return nil
}
