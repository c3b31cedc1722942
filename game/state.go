package game

// Action is the decision available at a turn state.
type Action int

const (
	Reroll Action = iota
	Bank
)

func (a Action) String() string {
	if a == Bank {
		return "bank"
	}
	return "reroll"
}

// TurnState is a decision point inside a turn: how many dice are left to
// roll, the points accumulated (but not yet banked) this turn, and the
// player's banked total.
type TurnState struct {
	DiceLeft int
	Banked   int
	Total    int
}
