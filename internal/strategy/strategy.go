package strategy

import (
	"fmt"
	"sort"

	"github.com/derekprior/fairplay/internal/schedule"
)

// Strategy decides substitutions during a period.
type Strategy interface {
	schedule.Policy
	// Name is the key the strategy is registered under.
	Name() string
	// CapsSubstitutions reports whether the per-period substitution cap in
	// schedule.Config applies.
	CapsSubstitutions() bool
}

const (
	NameCheckpoint = "checkpoint"
	NameInterval   = "interval"
)

// Default is the strategy used when a match file names none.
const Default = NameCheckpoint

var registry = map[string]Strategy{
	NameCheckpoint: Checkpoint{},
	NameInterval:   Interval{},
}

// Get returns a Strategy by name.
func Get(name string) (Strategy, error) {
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy: %q", name)
	}
	return s, nil
}

// Names lists the registered strategies alphabetically.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Checkpoint makes at most one fairness swap per checkpoint, up to the
// configured cap per period.
type Checkpoint struct {
	schedule.CheckpointPolicy
}

func (Checkpoint) Name() string            { return NameCheckpoint }
func (Checkpoint) CapsSubstitutions() bool { return true }

// Interval rotates the whole bench at every checkpoint: each bench player,
// neediest first, replaces the field player with the most allowance. There
// is no per-period cap.
type Interval struct{}

func (Interval) Name() string            { return NameInterval }
func (Interval) CapsSubstitutions() bool { return false }

func (Interval) Substitute(l *schedule.Lineup, minute int) []schedule.Swap {
	bench := l.BenchByNeed()
	field := l.FieldBySurplus()

	n := min(len(bench), len(field))
	swaps := make([]schedule.Swap, 0, n)
	for i := 0; i < n; i++ {
		swaps = append(swaps, schedule.Swap{Out: field[i], In: bench[i]})
	}
	return swaps
}
