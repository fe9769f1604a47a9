package schedule

import (
	"sort"

	"github.com/derekprior/fairplay/internal/roster"
)

// FieldMinutes maps each player to accumulated non-goalie minutes.
type FieldMinutes map[roster.Player]int

// Total sums the minutes across all players.
func (m FieldMinutes) Total() int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

// InitializeFieldMinutes returns a zeroed tally for players.
func InitializeFieldMinutes(players []roster.Player) FieldMinutes {
	m := make(FieldMinutes, len(players))
	for _, p := range players {
		m[p] = 0
	}
	return m
}

// CalculateTargetFieldMinutes returns each player's fair share of field time.
// A fixed goalie never plays in the field, so the pool is split among the
// other players; with rotating goalies everyone shares it.
func CalculateTargetFieldMinutes(cfg Config, totalPlayers int, fixedGoalieMode bool) float64 {
	eligible := totalPlayers
	if fixedGoalieMode {
		eligible--
	}
	if eligible <= 0 {
		return 0
	}
	return float64(cfg.TotalFieldMinutes()) / float64(eligible)
}

// FairShares returns each field-eligible player's target minutes. A
// rotating goalie cannot play the field while in goal, so their share is
// capped at the minutes left to them and the remainder spread over everyone
// else. It matches CalculateTargetFieldMinutes when no cap binds.
func FairShares(r *roster.Roster, cfg Config) map[roster.Player]float64 {
	outfield := r.Outfield()
	caps := make(map[roster.Player]int, len(outfield))
	for _, p := range outfield {
		caps[p] = cfg.NumPeriods * cfg.PeriodLength
		for period := 1; period <= cfg.NumPeriods; period++ {
			if r.GoalieFor(period) == p {
				caps[p] -= cfg.PeriodLength
			}
		}
	}
	return fairShares(outfield, caps, cfg.TotalFieldMinutes())
}

// fairShares splits total over players by water-filling: nobody gets more
// than their cap, and everyone below the cap gets the same level.
func fairShares(players []roster.Player, caps map[roster.Player]int, total int) map[roster.Player]float64 {
	sorted := append([]roster.Player(nil), players...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return caps[sorted[i]] < caps[sorted[j]]
	})

	shares := make(map[roster.Player]float64, len(players))
	remaining := float64(total)
	for i, p := range sorted {
		level := remaining / float64(len(sorted)-i)
		c := float64(caps[p])
		if c < level {
			shares[p] = c
			remaining -= c
			continue
		}
		for _, q := range sorted[i:] {
			shares[q] = level
		}
		break
	}
	return shares
}
