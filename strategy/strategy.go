// Package strategy holds the bank-or-reroll decision makers that drive
// simulated play: a fixed-threshold heuristic, a coin-flip baseline, and the
// solved optimal policy.
package strategy

import "farkle/game"

// Strategy decides whether to bank or keep rolling at a turn state. The
// dice to keep are never part of the decision: the rule engine's best move
// fixes them.
type Strategy interface {
	Name() string
	Decide(state game.TurnState) (game.Action, error)
}
