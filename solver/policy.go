package solver

import (
	"encoding/json"
	"fmt"

	"farkle/game"
)

const (
	decisionReroll byte = iota
	decisionBank
)

// BoundsError reports a policy query outside the solved grid. The policy
// never extrapolates; callers must clip scores to the configured target
// before querying.
type BoundsError struct {
	Field string
	Value int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("state out of policy bounds: %s = %d", e.Field, e.Value)
}

// Policy maps every grid state to a bank-or-reroll decision. It is produced
// once by the solver, read-only thereafter, and serializes to JSON for reuse
// without re-running value iteration.
type Policy struct {
	target    int
	step      int
	tolerance float64
	sweeps    int
	decisions []byte
	values    []float64
}

func (p *Policy) Target() int        { return p.target }
func (p *Policy) Step() int          { return p.step }
func (p *Policy) Tolerance() float64 { return p.tolerance }

// Sweeps is the number of sweeps value iteration took to converge.
func (p *Policy) Sweeps() int { return p.sweeps }

// StartValue is the converged value of a fresh game: six dice, nothing
// banked, zero total.
func (p *Policy) StartValue() float64 {
	return p.values[newGrid(p.target, p.step).index(game.MaxDice, 0, 0)]
}

// Decide returns the solved decision for the state.
func (p *Policy) Decide(state game.TurnState) (game.Action, error) {
	idx, err := p.stateIndex(state)
	if err != nil {
		return game.Reroll, err
	}
	if p.decisions[idx] == decisionBank {
		return game.Bank, nil
	}
	return game.Reroll, nil
}

// Value returns the converged win-before-bust probability for the state.
func (p *Policy) Value(state game.TurnState) (float64, error) {
	idx, err := p.stateIndex(state)
	if err != nil {
		return 0, err
	}
	return p.values[idx], nil
}

func (p *Policy) stateIndex(state game.TurnState) (int, error) {
	dice := state.DiceLeft
	if dice == 0 {
		dice = game.MaxDice // all dice banked re-arms the full hand
	}
	if dice < 1 || dice > game.MaxDice {
		return 0, &BoundsError{Field: "dice", Value: state.DiceLeft}
	}
	if state.Banked < 0 || state.Banked > p.target || state.Banked%p.step != 0 {
		return 0, &BoundsError{Field: "banked", Value: state.Banked}
	}
	if state.Total < 0 || state.Total > p.target || state.Total%p.step != 0 {
		return 0, &BoundsError{Field: "total", Value: state.Total}
	}
	g := newGrid(p.target, p.step)
	return g.index(dice, state.Banked/p.step, state.Total/p.step), nil
}

type policyJSON struct {
	Target    int       `json:"target"`
	Step      int       `json:"step"`
	Tolerance float64   `json:"tolerance"`
	Sweeps    int       `json:"sweeps"`
	Decisions []byte    `json:"decisions"`
	Values    []float64 `json:"values"`
}

func (p *Policy) MarshalJSON() ([]byte, error) {
	return json.Marshal(policyJSON{
		Target:    p.target,
		Step:      p.step,
		Tolerance: p.tolerance,
		Sweeps:    p.sweeps,
		Decisions: p.decisions,
		Values:    p.values,
	})
}

func (p *Policy) UnmarshalJSON(data []byte) error {
	var raw policyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode policy: %w", err)
	}
	if raw.Target <= 0 || raw.Step <= 0 || raw.Target%raw.Step != 0 {
		return fmt.Errorf("decode policy: invalid grid target=%d step=%d", raw.Target, raw.Step)
	}
	size := newGrid(raw.Target, raw.Step).size()
	if len(raw.Decisions) != size || len(raw.Values) != size {
		return fmt.Errorf("decode policy: expected %d states, got %d decisions and %d values",
			size, len(raw.Decisions), len(raw.Values))
	}
	p.target = raw.Target
	p.step = raw.Step
	p.tolerance = raw.Tolerance
	p.sweeps = raw.Sweeps
	p.decisions = raw.Decisions
	p.values = raw.Values
	return nil
}
