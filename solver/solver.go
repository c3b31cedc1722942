package solver

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"farkle/game"

	"github.com/rs/zerolog/log"
)

const (
	DefaultTarget    = 10000
	DefaultStep      = 50
	DefaultTolerance = 1e-7
	DefaultMaxSweeps = 10000
)

// ErrNotConverged reports that value iteration hit the sweep cap before the
// largest value delta fell below tolerance. An unconverged policy is never
// returned; callers can retry with a larger cap or a looser tolerance.
var ErrNotConverged = errors.New("value iteration did not converge")

type Option func(*Solver)

func WithTarget(target int) Option {
	return func(s *Solver) {
		if target > 0 {
			s.target = target
		}
	}
}

func WithStep(step int) Option {
	return func(s *Solver) {
		if step > 0 {
			s.step = step
		}
	}
}

func WithTolerance(tolerance float64) Option {
	return func(s *Solver) {
		if tolerance > 0 {
			s.tolerance = tolerance
		}
	}
}

func WithMaxSweeps(sweeps int) Option {
	return func(s *Solver) {
		if sweeps > 0 {
			s.maxSweeps = sweeps
		}
	}
}

func WithWorkers(workers int) Option {
	return func(s *Solver) {
		if workers > 0 {
			s.workers = workers
		}
	}
}

// Solver computes the expected-value-optimal bank-or-reroll policy by
// Bellman value iteration over the turn-state grid. V(s) is the probability
// of reaching the victory target before busting: won states are absorbing at
// 1 and a bust contributes 0 to the reroll expectation. The solver itself is
// deterministic; randomness only enters simulated gameplay that uses the
// resulting policy.
type Solver struct {
	target    int
	step      int
	tolerance float64
	maxSweeps int
	workers   int
}

func New(options ...Option) *Solver {
	s := &Solver{
		target:    DefaultTarget,
		step:      DefaultStep,
		tolerance: DefaultTolerance,
		maxSweeps: DefaultMaxSweeps,
		workers:   1,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// rollOutcome is a game.RollOutcome converted to lattice units.
type rollOutcome struct {
	prob   float64
	levels int
	used   int
}

type rollTable struct {
	outcomes []rollOutcome
}

// Solve runs double-buffered sweeps until the maximum value change falls
// below tolerance, then extracts the policy from the converged values.
func (s *Solver) Solve() (*Policy, error) {
	if s.target%s.step != 0 || 50%s.step != 0 {
		return nil, fmt.Errorf("invalid grid: step %d must divide both 50 and the target %d", s.step, s.target)
	}

	tables, err := s.buildTables()
	if err != nil {
		return nil, err
	}

	g := newGrid(s.target, s.step)
	prev := make([]float64, g.size())
	next := make([]float64, g.size())
	seedTerminal(g, prev)
	seedTerminal(g, next)

	log.Info().
		Int("states", g.size()).
		Int("target", s.target).
		Int("workers", s.workers).
		Msg("starting value iteration")

	var delta float64
	for sweep := 1; sweep <= s.maxSweeps; sweep++ {
		delta = s.sweep(g, tables, prev, next)
		prev, next = next, prev
		if delta < s.tolerance {
			log.Info().Int("sweeps", sweep).Float64("delta", delta).Msg("value iteration converged")
			return s.extract(g, tables, prev, sweep), nil
		}
	}
	return nil, fmt.Errorf("%w: %d sweeps, final delta %g above tolerance %g",
		ErrNotConverged, s.maxSweeps, delta, s.tolerance)
}

func (s *Solver) buildTables() ([]rollTable, error) {
	tables := make([]rollTable, game.MaxDice)
	for d := 1; d <= game.MaxDice; d++ {
		table, err := game.Outcomes(d)
		if err != nil {
			return nil, err
		}
		for _, o := range table.Outcomes {
			tables[d-1].outcomes = append(tables[d-1].outcomes, rollOutcome{
				prob:   o.Prob,
				levels: o.Points / s.step,
				used:   o.DiceUsed,
			})
		}
	}
	return tables, nil
}

// seedTerminal marks won states (total at the target) with value 1. They are
// never updated, so both buffers carry them.
func seedTerminal(g grid, values []float64) {
	for dice := 1; dice <= game.MaxDice; dice++ {
		for banked := 0; banked < g.levels; banked++ {
			values[g.index(dice, banked, g.levels-1)] = 1
		}
	}
}

// sweep computes one synchronous Bellman update of every state. Workers
// partition the state range and read only the previous sweep's values, so
// no update is visible mid-sweep.
func (s *Solver) sweep(g grid, tables []rollTable, prev, next []float64) float64 {
	if s.workers <= 1 {
		return sweepRange(g, tables, prev, next, 0, g.size())
	}

	deltas := make([]float64, s.workers)
	chunk := (g.size() + s.workers - 1) / s.workers
	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, g.size())
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			deltas[w] = sweepRange(g, tables, prev, next, lo, hi)
		}(w, lo, hi)
	}
	wg.Wait()

	maxDelta := 0.0
	for _, d := range deltas {
		if d > maxDelta {
			maxDelta = d
		}
	}
	return maxDelta
}

func sweepRange(g grid, tables []rollTable, prev, next []float64, lo, hi int) float64 {
	maxDelta := 0.0
	for idx := lo; idx < hi; idx++ {
		_, _, total := g.decompose(idx)
		if total == g.levels-1 { // Won state stays at 1
			continue
		}

		bankValue, bankOK, rollValue := update(g, tables, prev, idx)
		value := rollValue
		if bankOK && bankValue > value {
			value = bankValue
		}
		if d := math.Abs(value - prev[idx]); d > maxDelta {
			maxDelta = d
		}
		next[idx] = value
	}
	return maxDelta
}

// update computes the bank and reroll values of one state against the
// previous sweep's values. Banking is only legal with a non-zero banked
// score (a turn must open with a roll). Rerolling takes the best move of
// each outcome, re-arms all six dice when every die scored, and loses the
// banked score on a bust.
func update(g grid, tables []rollTable, prev []float64, idx int) (bankValue float64, bankOK bool, rollValue float64) {
	dice, banked, total := g.decompose(idx)

	bankOK = banked > 0
	if bankOK {
		if banked+total >= g.levels-1 {
			bankValue = 1
		} else {
			bankValue = prev[g.index(game.MaxDice, 0, banked+total)]
		}
	}

	for _, o := range tables[dice-1].outcomes {
		b := banked + o.levels
		if b > g.levels-1 {
			b = g.levels - 1
		}
		d := dice - o.used
		if d == 0 {
			d = game.MaxDice // hot dice
		}
		rollValue += o.prob * prev[g.index(d, b, total)]
	}
	return bankValue, bankOK, rollValue
}

// extract reads the policy off the converged values: for each state, the
// decision achieving the max, preferring bank on exact ties.
func (s *Solver) extract(g grid, tables []rollTable, values []float64, sweeps int) *Policy {
	decisions := make([]byte, g.size())
	for idx := 0; idx < g.size(); idx++ {
		_, _, total := g.decompose(idx)
		if total == g.levels-1 {
			decisions[idx] = decisionBank // already won
			continue
		}
		bankValue, bankOK, rollValue := update(g, tables, values, idx)
		if bankOK && bankValue >= rollValue {
			decisions[idx] = decisionBank
		}
	}
	return &Policy{
		target:    s.target,
		step:      s.step,
		tolerance: s.tolerance,
		sweeps:    sweeps,
		decisions: decisions,
		values:    values,
	}
}
