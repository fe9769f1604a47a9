package schedule

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig          = errors.New("invalid config")
	ErrInsufficientRoster     = errors.New("insufficient roster")
	ErrInvalidBenchAssignment = errors.New("invalid bench assignment")
)

// DefaultMaxSubstitutions caps substitutions per period when Config leaves
// MaxSubstitutions at zero.
const DefaultMaxSubstitutions = 2

// Config describes the shape of a match.
type Config struct {
	NumPeriods          int
	PeriodLength        int // minutes
	FieldPlayersOnPitch int // excluding the goalie

	// SwapThreshold is the fairness gap, in minutes, a bench player must
	// trail a field player by before they swap. Zero means one checkpoint
	// interval.
	SwapThreshold int
	// MaxSubstitutions caps substitutions per period. Zero means
	// DefaultMaxSubstitutions.
	MaxSubstitutions int
}

// DefaultConfig is three 20-minute periods with six field players.
var DefaultConfig = Config{NumPeriods: 3, PeriodLength: 20, FieldPlayersOnPitch: 6}

// TotalFieldMinutes is the field time available across the whole match.
func (c Config) TotalFieldMinutes() int {
	return c.NumPeriods * c.PeriodLength * c.FieldPlayersOnPitch
}

// BenchSeats returns how many players sit out at any instant.
func (c Config) BenchSeats(totalPlayers int) int {
	return max(totalPlayers-1-c.FieldPlayersOnPitch, 0)
}

func (c Config) swapThreshold() int {
	if c.SwapThreshold > 0 {
		return c.SwapThreshold
	}
	return max(c.PeriodLength/4, 1)
}

func (c Config) maxSubstitutions() int {
	if c.MaxSubstitutions > 0 {
		return c.MaxSubstitutions
	}
	return DefaultMaxSubstitutions
}

// Validate checks the numeric fields.
func (c Config) Validate() error {
	if c.NumPeriods <= 0 {
		return fmt.Errorf("%w: number of periods must be positive, got %d", ErrInvalidConfig, c.NumPeriods)
	}
	if c.PeriodLength <= 0 {
		return fmt.Errorf("%w: period length must be positive, got %d", ErrInvalidConfig, c.PeriodLength)
	}
	if c.FieldPlayersOnPitch <= 0 {
		return fmt.Errorf("%w: field players must be positive, got %d", ErrInvalidConfig, c.FieldPlayersOnPitch)
	}
	if c.SwapThreshold < 0 {
		return fmt.Errorf("%w: swap threshold cannot be negative", ErrInvalidConfig)
	}
	if c.MaxSubstitutions < 0 {
		return fmt.Errorf("%w: substitution cap cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// checkRosterSize ensures the pitch can be filled with a goalie in goal.
func (c Config) checkRosterSize(totalPlayers int) error {
	if c.FieldPlayersOnPitch+1 > totalPlayers {
		return fmt.Errorf("%w: %d field players plus a goalie need %d players, roster has %d",
			ErrInsufficientRoster, c.FieldPlayersOnPitch, c.FieldPlayersOnPitch+1, totalPlayers)
	}
	return nil
}
