package schedule

import (
	"github.com/derekprior/fairplay/internal/roster"
)

// Checkpoints returns the in-period minutes at which substitutions may
// happen: the quarter marks of the period, excluding kickoff and the end.
// A 20-minute period yields 5, 10 and 15.
func Checkpoints(periodLength int) []int {
	var marks []int
	for k := 1; k <= 3; k++ {
		m := periodLength * k / 4
		if m <= 0 || m >= periodLength {
			continue
		}
		if len(marks) > 0 && marks[len(marks)-1] == m {
			continue
		}
		marks = append(marks, m)
	}
	return marks
}

// IsCheckpoint reports whether minute is one of the substitution marks.
func IsCheckpoint(periodLength, minute int) bool {
	for _, m := range Checkpoints(periodLength) {
		if m == minute {
			return true
		}
	}
	return false
}

// Segment is a stretch of a period with unchanged roles.
type Segment struct {
	Period int
	Start  int
	End    int
	Goalie roster.Player
	Field  []roster.Player
	Bench  []roster.Player
}

// Length returns the segment duration in minutes.
func (s Segment) Length() int { return s.End - s.Start }

// Segments splits the period at each substitution minute. A substitution
// puts the incoming player in the outgoing player's field position, so
// positions are stable across segments.
func (p PeriodPlan) Segments(periodLength int) []Segment {
	field := append([]roster.Player(nil), p.StartingField...)
	bench := append([]roster.Player(nil), p.StartingBench...)

	var segments []Segment
	start := 0
	for i := 0; i < len(p.Substitutions); {
		minute := p.Substitutions[i].Minute
		if minute > start {
			segments = append(segments, p.segment(start, minute, field, bench))
			start = minute
		}
		for ; i < len(p.Substitutions) && p.Substitutions[i].Minute == minute; i++ {
			sub := p.Substitutions[i]
			replace(field, sub.Out, sub.In)
			replace(bench, sub.In, sub.Out)
		}
	}
	return append(segments, p.segment(start, periodLength, field, bench))
}

// Changes returns the substitutions that turn prev into next. Only players
// leaving or joining the field count, so a reordered row is no change. An
// outgoing player is paired with whoever took their position when that
// player is incoming, and the rest pair up in field order. Unequal counts
// leave the surplus with an empty Out or In.
func Changes(prev, next Segment) []Substitution {
	out := missing(prev.Field, next.Field)
	in := missing(next.Field, prev.Field)
	if len(out) == 0 && len(in) == 0 {
		return nil
	}

	incoming := make(map[roster.Player]bool, len(in))
	for _, p := range in {
		incoming[p] = true
	}
	paired := make(map[roster.Player]bool)

	var subs []Substitution
	var outRest []roster.Player
	for _, p := range out {
		i := indexOf(prev.Field, p)
		if i < len(next.Field) && incoming[next.Field[i]] && !paired[next.Field[i]] {
			paired[next.Field[i]] = true
			subs = append(subs, Substitution{Minute: next.Start, Out: p, In: next.Field[i]})
			continue
		}
		outRest = append(outRest, p)
	}
	var inRest []roster.Player
	for _, p := range in {
		if !paired[p] {
			inRest = append(inRest, p)
		}
	}
	for i := 0; i < max(len(outRest), len(inRest)); i++ {
		sub := Substitution{Minute: next.Start}
		if i < len(outRest) {
			sub.Out = outRest[i]
		}
		if i < len(inRest) {
			sub.In = inRest[i]
		}
		subs = append(subs, sub)
	}
	return subs
}

// missing returns the players of a that are not in b, in a's order.
func missing(a, b []roster.Player) []roster.Player {
	var out []roster.Player
	for _, p := range a {
		if indexOf(b, p) < 0 {
			out = append(out, p)
		}
	}
	return out
}

func indexOf(players []roster.Player, p roster.Player) int {
	for i, q := range players {
		if q == p {
			return i
		}
	}
	return -1
}

// Tally sums field and goalie minutes over segments. Players in fixed goal
// get no field entry, matching Result.FieldMinutes.
func Tally(r *roster.Roster, segments []Segment) (FieldMinutes, map[roster.Player]int) {
	field := InitializeFieldMinutes(r.Outfield())
	goalie := make(map[roster.Player]int)
	for _, seg := range segments {
		for _, p := range seg.Field {
			field[p] += seg.Length()
		}
		if seg.Goalie != "" {
			goalie[seg.Goalie] += seg.Length()
		}
	}
	return field, goalie
}

func (p PeriodPlan) segment(start, end int, field, bench []roster.Player) Segment {
	return Segment{
		Period: p.Index,
		Start:  start,
		End:    end,
		Goalie: p.Goalie,
		Field:  append([]roster.Player(nil), field...),
		Bench:  append([]roster.Player(nil), bench...),
	}
}

func replace(players []roster.Player, from, to roster.Player) bool {
	for i, p := range players {
		if p == from {
			players[i] = to
			return true
		}
	}
	return false
}
