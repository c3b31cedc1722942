package game

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// MaxDice is the number of dice rolled at the start of a turn.
const MaxDice = 6

// Roll is an ordered sequence of die faces, each in [1,6].
type Roll []int

// InvalidRollError reports a roll that violates the dice constraints.
type InvalidRollError struct {
	Faces  []int
	Reason string
}

func (e *InvalidRollError) Error() string {
	return fmt.Sprintf("invalid roll %v: %s", e.Faces, e.Reason)
}

// Validate checks the roll against the dice constraints: 1 to 6 dice, every
// face in [1,6]. Duplicates are expected and meaningful.
func (r Roll) Validate() error {
	if len(r) == 0 {
		return &InvalidRollError{Faces: r, Reason: "no dice"}
	}
	if len(r) > MaxDice {
		return &InvalidRollError{Faces: r, Reason: fmt.Sprintf("more than %d dice", MaxDice)}
	}
	for _, f := range r {
		if f < 1 || f > 6 {
			return &InvalidRollError{Faces: r, Reason: fmt.Sprintf("face %d out of range", f)}
		}
	}
	return nil
}

// Counts tallies the roll into per-face counts, indexed by face value.
func (r Roll) Counts() [7]int {
	var counts [7]int
	for _, f := range r {
		counts[f]++
	}
	return counts
}

// DiceSource produces uniformly random rolls. It is used only during
// simulated gameplay - the solver itself is deterministic.
type DiceSource struct {
	rng *rand.Rand
}

func NewDiceSource(seed uint64) *DiceSource {
	return &DiceSource{rng: rand.New(rand.NewSource(seed))}
}

// Roll rolls n dice.
func (s *DiceSource) Roll(n int) Roll {
	faces := make(Roll, n)
	for i := range faces {
		faces[i] = s.rng.Intn(6) + 1
	}
	return faces
}
