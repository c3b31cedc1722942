package solver

import "farkle/game"

// grid discretizes (dice-remaining, banked, total) onto the score lattice.
// Scores live on multiples of step in [0, target]. The top level acts as an
// absorbing boundary: a total at or above the target is a won state, and a
// banked score is clipped there because banking it wins outright.
type grid struct {
	target int
	step   int
	levels int // score levels per axis: target/step + 1
}

func newGrid(target, step int) grid {
	return grid{target: target, step: step, levels: target/step + 1}
}

func (g grid) size() int {
	return game.MaxDice * g.levels * g.levels
}

// index maps (dice in 1..6, banked level, total level) to a flat offset.
func (g grid) index(dice, banked, total int) int {
	return ((dice-1)*g.levels+banked)*g.levels + total
}

func (g grid) decompose(idx int) (dice, banked, total int) {
	total = idx % g.levels
	idx /= g.levels
	banked = idx % g.levels
	dice = idx/g.levels + 1
	return dice, banked, total
}
