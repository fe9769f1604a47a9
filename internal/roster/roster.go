package roster

import (
	"errors"
	"fmt"
)

// Player is a unique name within a roster.
type Player string

// Mode says how goalkeeping is shared across the match.
type Mode int

const (
	// Fixed keeps one goalie in goal for every period.
	Fixed Mode = iota
	// Rotating cycles two or three goalies, one per period.
	Rotating
)

func (m Mode) String() string {
	switch m {
	case Fixed:
		return "fixed"
	case Rotating:
		return "rotating"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// MaxGoalies is the largest goalie group a rotation supports.
const MaxGoalies = 3

var (
	ErrEmptyPlayer        = errors.New("empty player name")
	ErrDuplicatePlayer    = errors.New("duplicate player")
	ErrUnknownGoalie      = errors.New("unknown goalie")
	ErrInvalidGoalieCount = errors.New("invalid goalie count")
)

// Roster is a validated player list. Players keeps the order the caller
// supplied; that order breaks ties and drives display.
type Roster struct {
	Players []Player
	Goalies []Player
	Mode    Mode

	index map[Player]int
}

// New validates players and goalies and returns a Roster. One goalie means
// Fixed mode, two or three means Rotating.
func New(players, goalies []Player) (*Roster, error) {
	index := make(map[Player]int, len(players))
	for i, p := range players {
		if p == "" {
			return nil, fmt.Errorf("%w at position %d", ErrEmptyPlayer, i+1)
		}
		if prev, ok := index[p]; ok {
			return nil, fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicatePlayer, p, prev+1, i+1)
		}
		index[p] = i
	}

	if len(goalies) == 0 || len(goalies) > MaxGoalies {
		return nil, fmt.Errorf("%w: got %d, want 1 to %d", ErrInvalidGoalieCount, len(goalies), MaxGoalies)
	}
	seen := make(map[Player]bool, len(goalies))
	for _, g := range goalies {
		if _, ok := index[g]; !ok {
			return nil, fmt.Errorf("%w: %q is not on the roster", ErrUnknownGoalie, g)
		}
		if seen[g] {
			return nil, fmt.Errorf("%w: goalie %q listed twice", ErrDuplicatePlayer, g)
		}
		seen[g] = true
	}

	mode := Fixed
	if len(goalies) > 1 {
		mode = Rotating
	}

	return &Roster{
		Players: append([]Player(nil), players...),
		Goalies: append([]Player(nil), goalies...),
		Mode:    mode,
		index:   index,
	}, nil
}

// Size returns the number of players.
func (r *Roster) Size() int { return len(r.Players) }

// Index returns the roster position of p, or -1 if p is not on the roster.
func (r *Roster) Index(p Player) int {
	if i, ok := r.index[p]; ok {
		return i
	}
	return -1
}

// Contains reports whether p is on the roster.
func (r *Roster) Contains(p Player) bool {
	_, ok := r.index[p]
	return ok
}

// IsGoalie reports whether p is one of the designated goalies.
func (r *Roster) IsGoalie(p Player) bool {
	for _, g := range r.Goalies {
		if g == p {
			return true
		}
	}
	return false
}

// GoalieFor returns the goalie for the 1-based period.
func (r *Roster) GoalieFor(period int) Player {
	return r.Goalies[(period-1)%len(r.Goalies)]
}

// Outfield returns the players who can take a field slot at some point in
// the match, in roster order. A fixed goalie never can.
func (r *Roster) Outfield() []Player {
	if r.Mode == Rotating {
		return append([]Player(nil), r.Players...)
	}
	var out []Player
	for _, p := range r.Players {
		if p != r.Goalies[0] {
			out = append(out, p)
		}
	}
	return out
}

// NonGoalies returns players who are never a designated goalie, in roster order.
func (r *Roster) NonGoalies() []Player {
	var out []Player
	for _, p := range r.Players {
		if !r.IsGoalie(p) {
			out = append(out, p)
		}
	}
	return out
}

// GeneratePlayerList returns n placeholder names: "Player 1" .. "Player n".
func GeneratePlayerList(n int) []Player {
	players := make([]Player, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		players = append(players, Player(fmt.Sprintf("Player %d", i)))
	}
	return players
}

// Names converts string names to players.
func Names(names ...string) []Player {
	out := make([]Player, len(names))
	for i, n := range names {
		out[i] = Player(n)
	}
	return out
}
