package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/derekprior/fairplay/internal/roster"
	"github.com/derekprior/fairplay/internal/schedule"
	"github.com/derekprior/fairplay/internal/strategy"
)

// Match is the shape of a single match.
type Match struct {
	Periods      int `yaml:"periods"`
	PeriodLength int `yaml:"period_length"`
	FieldPlayers int `yaml:"field_players"`
}

// Roster lists players explicitly or asks for Size generated names.
type Roster struct {
	Players []string `yaml:"players"`
	Size    int      `yaml:"size"`
	Goalies []string `yaml:"goalies"`
}

type Substitutions struct {
	MaxPerPeriod  int `yaml:"max_per_period"`
	SwapThreshold int `yaml:"swap_threshold"`
}

// Guidelines are soft targets. Breaking them produces warnings only.
type Guidelines struct {
	MaxDeviation int `yaml:"max_deviation"` // minutes from fair share
}

type Config struct {
	Match         Match          `yaml:"match"`
	Roster        Roster         `yaml:"roster"`
	Strategy      string         `yaml:"strategy"`
	Substitutions Substitutions  `yaml:"substitutions"`
	Bench         map[string]int `yaml:"bench"`
	Guidelines    Guidelines     `yaml:"guidelines"`
}

// Default returns the configuration used when no match file exists: eight
// generated players with Player 1 in goal.
func Default() *Config {
	cfg := &Config{
		Roster: Roster{Size: 8, Goalies: []string{"Player 1"}},
	}
	if err := cfg.validate(); err != nil {
		panic(err)
	}
	return cfg
}

// LoadFromBytes parses YAML bytes into a Config and validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

// Overrides carries command-line values. Zero values leave the file alone.
type Overrides struct {
	Players      int
	Goalies      []string
	Periods      int
	PeriodLength int
	FieldPlayers int
	Strategy     string
}

// Apply merges o into c and validates the result. A player count replaces
// any explicit player list with generated names and drops bench entries for
// players no longer on the roster.
func (c *Config) Apply(o Overrides) error {
	if o.Players > 0 {
		c.Roster.Players = nil
		c.Roster.Size = o.Players
		generated := make(map[string]bool, o.Players)
		for _, p := range roster.GeneratePlayerList(o.Players) {
			generated[string(p)] = true
		}
		for name := range c.Bench {
			if !generated[name] {
				delete(c.Bench, name)
			}
		}
	}
	if len(o.Goalies) > 0 {
		c.Roster.Goalies = append([]string(nil), o.Goalies...)
	}
	if o.Periods > 0 {
		c.Match.Periods = o.Periods
	}
	if o.PeriodLength > 0 {
		c.Match.PeriodLength = o.PeriodLength
	}
	if o.FieldPlayers > 0 {
		c.Match.FieldPlayers = o.FieldPlayers
	}
	if o.Strategy != "" {
		c.Strategy = o.Strategy
	}
	return c.validate()
}

// Players returns the roster in file order.
func (c *Config) Players() []roster.Player {
	if len(c.Roster.Players) > 0 {
		return roster.Names(c.Roster.Players...)
	}
	return roster.GeneratePlayerList(c.Roster.Size)
}

func (c *Config) Goalies() []roster.Player {
	return roster.Names(c.Roster.Goalies...)
}

// Rotation returns the engine configuration.
func (c *Config) Rotation() schedule.Config {
	return schedule.Config{
		NumPeriods:          c.Match.Periods,
		PeriodLength:        c.Match.PeriodLength,
		FieldPlayersOnPitch: c.Match.FieldPlayers,
		SwapThreshold:       c.Substitutions.SwapThreshold,
		MaxSubstitutions:    c.Substitutions.MaxPerPeriod,
	}
}

// BenchAssignment returns the pre-assigned bench periods, or nil to let the
// engine choose.
func (c *Config) BenchAssignment() schedule.BenchAssignment {
	if len(c.Bench) == 0 {
		return nil
	}
	b := make(schedule.BenchAssignment, len(c.Bench))
	for name, period := range c.Bench {
		b[roster.Player(name)] = period
	}
	return b
}

func (c *Config) validate() error {
	if c.Match.Periods == 0 {
		c.Match.Periods = schedule.DefaultConfig.NumPeriods
	}
	if c.Match.PeriodLength == 0 {
		c.Match.PeriodLength = schedule.DefaultConfig.PeriodLength
	}
	if c.Match.FieldPlayers == 0 {
		c.Match.FieldPlayers = schedule.DefaultConfig.FieldPlayersOnPitch
	}
	if c.Strategy == "" {
		c.Strategy = strategy.Default
	}
	if _, err := strategy.Get(c.Strategy); err != nil {
		return err
	}
	if err := c.Rotation().Validate(); err != nil {
		return err
	}

	if len(c.Roster.Players) > 0 && c.Roster.Size > 0 {
		return fmt.Errorf("roster: use either 'players' or 'size', not both")
	}
	if len(c.Roster.Players) == 0 && c.Roster.Size <= 0 {
		return fmt.Errorf("roster: 'players' or a positive 'size' is required")
	}
	r, err := roster.New(c.Players(), c.Goalies())
	if err != nil {
		return fmt.Errorf("roster: %w", err)
	}
	for name := range c.Bench {
		if !r.Contains(roster.Player(name)) {
			return fmt.Errorf("bench: %q is not on the roster", name)
		}
	}

	if c.Guidelines.MaxDeviation < 0 {
		return fmt.Errorf("guidelines: max_deviation cannot be negative")
	}
	return nil
}

// Tolerance is the allowed distance from fair share before a player's
// minutes draw a warning. Half a period unless set.
func (c *Config) Tolerance() int {
	if c.Guidelines.MaxDeviation > 0 {
		return c.Guidelines.MaxDeviation
	}
	return max(c.Match.PeriodLength/2, 1)
}
