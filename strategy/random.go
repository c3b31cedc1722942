package strategy

import (
	"golang.org/x/exp/rand"

	"farkle/game"
)

// Random banks on a coin flip. A baseline opponent for experiments, nothing
// more.
type Random struct {
	rng *rand.Rand
}

func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) Name() string { return "random" }

func (r *Random) Decide(state game.TurnState) (game.Action, error) {
	if state.Banked == 0 {
		return game.Reroll, nil
	}
	if r.rng.Intn(2) == 0 {
		return game.Bank, nil
	}
	return game.Reroll, nil
}
