package game

import (
	"fmt"
	"math"
	"sort"
)

// RollOutcome aggregates every roll whose best move yields the same points
// and consumes the same number of dice.
type RollOutcome struct {
	Prob     float64
	Points   int
	DiceUsed int
}

// OutcomeTable is the exact probability distribution of best-move results
// for rolling a given number of dice.
type OutcomeTable struct {
	Dice     int
	BustProb float64
	Outcomes []RollOutcome
}

// Outcomes computes the distribution for d dice by enumerating face
// multisets and weighting each by its multinomial coefficient. The result is
// exact: probabilities (bust included) sum to 1.
func Outcomes(d int) (*OutcomeTable, error) {
	if d < 1 || d > MaxDice {
		return nil, &InvalidRollError{Reason: fmt.Sprintf("cannot roll %d dice", d)}
	}

	table := &OutcomeTable{Dice: d}
	denom := math.Pow(6, float64(d))
	grouped := map[[2]int]float64{}

	var walk func(face, left int, counts [7]int)
	walk = func(face, left int, counts [7]int) {
		if face == 6 {
			counts[6] = left
			prob := float64(permutations(d, counts)) / denom
			moves := scoreCounts(counts)
			if len(moves) == 0 {
				table.BustProb += prob
				return
			}
			best := moves[0]
			grouped[[2]int{best.Points, best.DiceUsed}] += prob
			return
		}
		for n := 0; n <= left; n++ {
			counts[face] = n
			walk(face+1, left-n, counts)
		}
	}
	walk(1, d, [7]int{})

	for key, prob := range grouped {
		table.Outcomes = append(table.Outcomes, RollOutcome{
			Prob:     prob,
			Points:   key[0],
			DiceUsed: key[1],
		})
	}
	sort.Slice(table.Outcomes, func(i, j int) bool {
		if table.Outcomes[i].Points != table.Outcomes[j].Points {
			return table.Outcomes[i].Points < table.Outcomes[j].Points
		}
		return table.Outcomes[i].DiceUsed < table.Outcomes[j].DiceUsed
	})
	return table, nil
}

// permutations counts the ordered rolls that produce the given face counts:
// d! / (c1! * ... * c6!).
func permutations(d int, counts [7]int) int {
	result := factorial(d)
	for face := 1; face <= 6; face++ {
		result /= factorial(counts[face])
	}
	return result
}

func factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}
