package strategy

import (
	"farkle/game"
	"farkle/solver"
)

// Optimal follows a solved policy. Scores beyond the policy's target are
// clipped to it before querying, since the grid treats them as won anyway.
type Optimal struct {
	policy *solver.Policy
}

func NewOptimal(policy *solver.Policy) *Optimal {
	return &Optimal{policy: policy}
}

func (o *Optimal) Name() string { return "optimal" }

func (o *Optimal) Decide(state game.TurnState) (game.Action, error) {
	target := o.policy.Target()
	if state.Banked > target {
		state.Banked = target
	}
	if state.Total > target {
		state.Total = target
	}
	return o.policy.Decide(state)
}
