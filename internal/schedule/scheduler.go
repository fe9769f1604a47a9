package schedule

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/derekprior/fairplay/internal/roster"
)

// Substitution records a bench player coming on for a field player.
type Substitution struct {
	Minute int // minutes since the start of the period
	Out    roster.Player
	In     roster.Player
}

// PeriodPlan is the lineup for one period. StartingField and StartingBench
// are the kickoff roles; Field and Bench are the roles at the final whistle.
type PeriodPlan struct {
	Index         int // 1-based
	Goalie        roster.Player
	StartingField []roster.Player
	StartingBench []roster.Player
	Field         []roster.Player
	Bench         []roster.Player
	Substitutions []Substitution
}

// Result is the output of the scheduling process.
type Result struct {
	Config        Config
	Mode          roster.Mode
	Players       []roster.Player // roster order
	Schedule      []PeriodPlan
	FieldMinutes  FieldMinutes // fixed goalie has no entry
	GoalieMinutes map[roster.Player]int

	// TargetFieldMinutes is the equal share from CalculateTargetFieldMinutes.
	TargetFieldMinutes float64
	// FairShare is each player's target after capping goalies at the
	// minutes they can actually play.
	FairShare map[roster.Player]float64
}

// Swap asks the scheduler to bring In on in place of Out.
type Swap struct {
	Out roster.Player
	In  roster.Player
}

// Policy decides substitutions at each checkpoint of a period.
type Policy interface {
	Substitute(l *Lineup, minute int) []Swap
}

// Option configures a build.
type Option func(*options)

type options struct {
	logger zerolog.Logger
}

// WithLogger sends substitution decisions to logger at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// BuildRotationSchedule validates the roster and builds a schedule with the
// checkpoint policy. A nil bench assignment is computed with
// AssignBenchPeriods when goalies rotate.
func BuildRotationSchedule(players, goalies []roster.Player, cfg Config, bench BenchAssignment, opts ...Option) (*Result, error) {
	r, err := roster.New(players, goalies)
	if err != nil {
		return nil, err
	}
	return Build(r, cfg, bench, CheckpointPolicy{}, opts...)
}

// Build runs the period-by-period rotation for r using policy. All input
// checks happen before the first period is planned.
func Build(r *roster.Roster, cfg Config, bench BenchAssignment, policy Policy, opts ...Option) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.checkRosterSize(r.Size()); err != nil {
		return nil, err
	}
	if bench == nil && r.Mode == roster.Rotating {
		bench = AssignBenchPeriods(r.Players, r.Goalies, r.Size(), cfg.FieldPlayersOnPitch, cfg.NumPeriods)
	}
	if err := validateBench(bench, r, cfg); err != nil {
		return nil, err
	}
	if policy == nil {
		policy = CheckpointPolicy{}
	}

	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	s := newScheduler(r, cfg, bench, policy, o.logger)
	return s.run()
}

// epsilon absorbs float noise when comparing allowances.
const epsilon = 1e-9

type scheduler struct {
	roster *roster.Roster
	cfg    Config
	bench  BenchAssignment
	policy Policy
	log    zerolog.Logger

	outfield      []roster.Player
	shares        map[roster.Player]float64
	minutes       FieldMinutes
	goalieMinutes map[roster.Player]int
}

func newScheduler(r *roster.Roster, cfg Config, bench BenchAssignment, policy Policy, log zerolog.Logger) *scheduler {
	s := &scheduler{
		roster:        r,
		cfg:           cfg,
		bench:         bench,
		policy:        policy,
		log:           log,
		outfield:      r.Outfield(),
		goalieMinutes: make(map[roster.Player]int),
	}
	s.minutes = InitializeFieldMinutes(s.outfield)
	s.shares = FairShares(r, cfg)
	return s
}

func (s *scheduler) run() (*Result, error) {
	plans := make([]PeriodPlan, 0, s.cfg.NumPeriods)
	for period := 1; period <= s.cfg.NumPeriods; period++ {
		plan, err := s.playPeriod(period)
		if err != nil {
			return nil, fmt.Errorf("period %d: %w", period, err)
		}
		plans = append(plans, plan)
	}

	return &Result{
		Config:             s.cfg,
		Mode:               s.roster.Mode,
		Players:            append([]roster.Player(nil), s.roster.Players...),
		Schedule:           plans,
		FieldMinutes:       s.minutes,
		GoalieMinutes:      s.goalieMinutes,
		TargetFieldMinutes: CalculateTargetFieldMinutes(s.cfg, s.roster.Size(), s.roster.Mode == roster.Fixed),
		FairShare:          s.shares,
	}, nil
}

// playPeriod picks kickoff roles, walks the checkpoints and accrues minutes.
func (s *scheduler) playPeriod(period int) (PeriodPlan, error) {
	goalie := s.roster.GoalieFor(period)

	var forced, candidates []roster.Player
	for _, p := range s.outfield {
		switch {
		case p == goalie:
		case s.bench[p] == period:
			forced = append(forced, p)
		default:
			candidates = append(candidates, p)
		}
	}
	if len(candidates) < s.cfg.FieldPlayersOnPitch {
		return PeriodPlan{}, fmt.Errorf("only %d players available for %d field slots", len(candidates), s.cfg.FieldPlayersOnPitch)
	}

	ordered := s.byNeed(candidates, period, 0)
	field := s.inRosterOrder(ordered[:s.cfg.FieldPlayersOnPitch])
	bench := s.inRosterOrder(append(forced, ordered[s.cfg.FieldPlayersOnPitch:]...))

	l := &Lineup{s: s, period: period, goalie: goalie, field: field, bench: bench}
	plan := PeriodPlan{
		Index:         period,
		Goalie:        goalie,
		StartingField: append([]roster.Player(nil), field...),
		StartingBench: append([]roster.Player(nil), bench...),
	}

	for _, minute := range Checkpoints(s.cfg.PeriodLength) {
		s.accrue(l, minute)
		for _, sw := range s.policy.Substitute(l, minute) {
			if err := l.apply(sw); err != nil {
				return PeriodPlan{}, err
			}
			s.log.Debug().
				Int("period", period).
				Int("minute", minute).
				Str("out", string(sw.Out)).
				Str("in", string(sw.In)).
				Msg("substitution")
		}
	}
	s.accrue(l, s.cfg.PeriodLength)

	plan.Field = l.field
	plan.Bench = l.bench
	plan.Substitutions = l.subs

	s.log.Debug().
		Int("period", period).
		Str("goalie", string(goalie)).
		Int("substitutions", len(l.subs)).
		Msg("period planned")
	return plan, nil
}

// accrue credits field and goalie time from the lineup's clock up to minute.
func (s *scheduler) accrue(l *Lineup, minute int) {
	elapsed := minute - l.minute
	if elapsed <= 0 {
		return
	}
	for _, p := range l.field {
		s.minutes[p] += elapsed
	}
	s.goalieMinutes[l.goalie] += elapsed
	l.minute = minute
}

// available returns the field minutes p could still play from minute of
// period to the final whistle.
func (s *scheduler) available(p roster.Player, period, minute int) int {
	total := 0
	for i := period; i <= s.cfg.NumPeriods; i++ {
		if s.roster.GoalieFor(i) == p {
			continue
		}
		if i == period {
			total += s.cfg.PeriodLength - minute
		} else {
			total += s.cfg.PeriodLength
		}
	}
	return total
}

// gap returns allowance(a) - allowance(b). The integer part is kept apart
// from the shares so players with equal shares compare exactly.
func (s *scheduler) gap(a, b roster.Player, period, minute int) float64 {
	baseA := s.available(a, period, minute) + s.minutes[a]
	baseB := s.available(b, period, minute) + s.minutes[b]
	return float64(baseA-baseB) - (s.shares[a] - s.shares[b])
}

// byNeed orders players by allowance ascending: the player furthest from
// their share, relative to the time left, comes first. Ties go to fewer
// minutes, then roster order.
func (s *scheduler) byNeed(players []roster.Player, period, minute int) []roster.Player {
	out := append([]roster.Player(nil), players...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if g := s.gap(a, b, period, minute); math.Abs(g) > epsilon {
			return g < 0
		}
		if s.minutes[a] != s.minutes[b] {
			return s.minutes[a] < s.minutes[b]
		}
		return s.roster.Index(a) < s.roster.Index(b)
	})
	return out
}

// bySurplus orders players by allowance descending. Ties go to more
// minutes, then roster order.
func (s *scheduler) bySurplus(players []roster.Player, period, minute int) []roster.Player {
	out := append([]roster.Player(nil), players...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if g := s.gap(a, b, period, minute); math.Abs(g) > epsilon {
			return g > 0
		}
		if s.minutes[a] != s.minutes[b] {
			return s.minutes[a] > s.minutes[b]
		}
		return s.roster.Index(a) < s.roster.Index(b)
	})
	return out
}

func (s *scheduler) inRosterOrder(players []roster.Player) []roster.Player {
	out := append([]roster.Player(nil), players...)
	sort.SliceStable(out, func(i, j int) bool {
		return s.roster.Index(out[i]) < s.roster.Index(out[j])
	})
	return out
}

// Lineup is the live state of a period, handed to a Policy at each
// checkpoint. Its clock reads the checkpoint minute.
type Lineup struct {
	s      *scheduler
	period int
	minute int
	goalie roster.Player
	field  []roster.Player
	bench  []roster.Player
	subs   []Substitution
}

// Period returns the 1-based period number.
func (l *Lineup) Period() int { return l.period }

// Minute returns the checkpoint minute within the period.
func (l *Lineup) Minute() int { return l.minute }

// Config returns the match configuration being scheduled.
func (l *Lineup) Config() Config { return l.s.cfg }

// Goalie returns the player in goal this period.
func (l *Lineup) Goalie() roster.Player { return l.goalie }

// Field returns the current field players by position.
func (l *Lineup) Field() []roster.Player { return append([]roster.Player(nil), l.field...) }

// Bench returns the current bench players.
func (l *Lineup) Bench() []roster.Player { return append([]roster.Player(nil), l.bench...) }

// Substitutions returns the substitutions made so far this period.
func (l *Lineup) Substitutions() []Substitution {
	return append([]Substitution(nil), l.subs...)
}

// Minutes returns p's field minutes up to now.
func (l *Lineup) Minutes(p roster.Player) int { return l.s.minutes[p] }

// Allowance is how many more minutes p can sit and still reach their fair
// share: minutes still playable plus minutes played minus the share.
func (l *Lineup) Allowance(p roster.Player) float64 {
	return float64(l.s.available(p, l.period, l.minute)+l.s.minutes[p]) - l.s.shares[p]
}

// Gap returns Allowance(a) - Allowance(b).
func (l *Lineup) Gap(a, b roster.Player) float64 {
	return l.s.gap(a, b, l.period, l.minute)
}

// BenchByNeed returns the bench with the player who most needs field time first.
func (l *Lineup) BenchByNeed() []roster.Player {
	return l.s.byNeed(l.bench, l.period, l.minute)
}

// FieldBySurplus returns the field with the player who can best afford a
// rest first.
func (l *Lineup) FieldBySurplus() []roster.Player {
	return l.s.bySurplus(l.field, l.period, l.minute)
}

func (l *Lineup) apply(sw Swap) error {
	if sw.Out == sw.In {
		return fmt.Errorf("swap of %q for itself", sw.Out)
	}
	if !contains(l.field, sw.Out) {
		return fmt.Errorf("%q is not on the field at minute %d", sw.Out, l.minute)
	}
	if !contains(l.bench, sw.In) {
		return fmt.Errorf("%q is not on the bench at minute %d", sw.In, l.minute)
	}
	replace(l.field, sw.Out, sw.In)
	replace(l.bench, sw.In, sw.Out)
	l.subs = append(l.subs, Substitution{Minute: l.minute, Out: sw.Out, In: sw.In})
	return nil
}

func contains(players []roster.Player, p roster.Player) bool {
	for _, q := range players {
		if q == p {
			return true
		}
	}
	return false
}

// CheckpointPolicy makes at most one substitution per checkpoint: the
// bench player with the least allowance replaces the field player with the
// most, once the gap reaches the swap threshold. It stops at the period's
// substitution cap.
type CheckpointPolicy struct{}

func (CheckpointPolicy) Substitute(l *Lineup, minute int) []Swap {
	cfg := l.Config()
	if len(l.subs) >= cfg.maxSubstitutions() {
		return nil
	}
	bench := l.BenchByNeed()
	field := l.FieldBySurplus()
	if len(bench) == 0 || len(field) == 0 {
		return nil
	}
	in, out := bench[0], field[0]
	if l.Gap(out, in)+epsilon < float64(cfg.swapThreshold()) {
		return nil
	}
	return []Swap{{Out: out, In: in}}
}
