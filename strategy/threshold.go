package strategy

import (
	"fmt"

	"farkle/game"
)

// Threshold is the simple heuristic: keep rolling while plenty of dice are
// left, bank once the turn score reaches a fixed threshold.
type Threshold struct {
	MinBank  int // bank at or above this turn score
	RollWith int // keep rolling whenever more than this many dice remain
}

func NewThreshold(minBank, rollWith int) *Threshold {
	return &Threshold{MinBank: minBank, RollWith: rollWith}
}

func (t *Threshold) Name() string {
	return fmt.Sprintf("threshold-%d-%d", t.MinBank, t.RollWith)
}

func (t *Threshold) Decide(state game.TurnState) (game.Action, error) {
	if state.Banked == 0 {
		return game.Reroll, nil
	}
	if state.DiceLeft > t.RollWith {
		return game.Reroll, nil
	}
	if state.Banked >= t.MinBank {
		return game.Bank, nil
	}
	return game.Reroll, nil
}
