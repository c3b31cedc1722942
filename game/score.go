package game

import (
	"fmt"
	"sort"
)

// Move is a concrete selection of disjoint melds from one roll, with its
// total point value and the number of dice it consumes.
type Move struct {
	Melds    []Meld
	Points   int
	DiceUsed int
}

func (m Move) String() string {
	return fmt.Sprintf("%v = %d points, %d dice", m.Melds, m.Points, m.DiceUsed)
}

// ScoreRoll enumerates every maximal disjoint partition of the roll into
// scoring melds, sorted by points (then dice consumed) descending. A maximal
// partition is one whose unconsumed remainder contains no scoring pattern.
// An empty result means the roll is a bust. Note this explores true
// partitions of the multiset, not greedy per-meld sums: overlapping patterns
// (say a triple of 2s inside three pairs) are resolved by trying both.
func ScoreRoll(roll Roll) ([]Move, error) {
	if err := roll.Validate(); err != nil {
		return nil, err
	}
	return scoreCounts(roll.Counts()), nil
}

// BestMove returns the maximum-score partition of the roll. ok is false when
// the roll is a bust.
func BestMove(roll Roll) (Move, bool, error) {
	moves, err := ScoreRoll(roll)
	if err != nil {
		return Move{}, false, err
	}
	if len(moves) == 0 {
		return Move{}, false, nil
	}
	return moves[0], true, nil
}

func scoreCounts(counts [7]int) []Move {
	seen := map[string]bool{}
	var moves []Move

	var dfs func(counts [7]int, melds []Meld)
	dfs = func(counts [7]int, melds []Meld) {
		cands := candidates(counts)
		if len(cands) == 0 {
			if len(melds) == 0 {
				return
			}
			move := buildMove(melds)
			sig := fmt.Sprint(move.Melds)
			if !seen[sig] {
				seen[sig] = true
				moves = append(moves, move)
			}
			return
		}
		for _, c := range cands {
			dfs(consume(counts, c), append(melds, c))
		}
	}
	dfs(counts, nil)

	sort.Slice(moves, func(i, j int) bool {
		if moves[i].Points != moves[j].Points {
			return moves[i].Points > moves[j].Points
		}
		return moves[i].DiceUsed > moves[j].DiceUsed
	})
	return moves
}

// candidates lists every meld applicable to the remaining face counts. For
// n-of-a-kind only the largest kind is offered per face: splitting it into a
// smaller kind can never score more, since the freed dice score at most 100
// each while each escalation step adds at least the triple value. Smaller
// kinds of 1s and 5s are still reached through the single-consumption path.
func candidates(counts [7]int) []Meld {
	var cands []Meld
	total := 0
	allSingles, allEven := true, true
	for face := 1; face <= 6; face++ {
		total += counts[face]
		if counts[face] != 1 {
			allSingles = false
		}
		if counts[face]%2 != 0 {
			allEven = false
		}
	}

	if total == MaxDice && allSingles {
		cands = append(cands, Meld{Movelet: Straight})
	}
	if total == MaxDice && allEven {
		cands = append(cands, Meld{Movelet: ThreePairs})
	}
	for face := 1; face <= 6; face++ {
		switch {
		case counts[face] >= 6:
			cands = append(cands, Meld{Movelet: SixOfAKind, Face: face})
		case counts[face] == 5:
			cands = append(cands, Meld{Movelet: FiveOfAKind, Face: face})
		case counts[face] == 4:
			cands = append(cands, Meld{Movelet: FourOfAKind, Face: face})
		case counts[face] == 3:
			cands = append(cands, Meld{Movelet: ThreeOfAKind, Face: face})
		}
	}
	if counts[1] > 0 {
		cands = append(cands, Meld{Movelet: SingleOne, Face: 1})
	}
	if counts[5] > 0 {
		cands = append(cands, Meld{Movelet: SingleFive, Face: 5})
	}
	return cands
}

// consume removes the meld's dice from the counts. Counts are passed by
// value, so callers keep their own copy untouched.
func consume(counts [7]int, m Meld) [7]int {
	switch m.Movelet {
	case SingleOne, SingleFive:
		counts[m.Face]--
	case ThreeOfAKind:
		counts[m.Face] -= 3
	case FourOfAKind:
		counts[m.Face] -= 4
	case FiveOfAKind:
		counts[m.Face] -= 5
	case SixOfAKind:
		counts[m.Face] -= 6
	case Straight:
		for face := 1; face <= 6; face++ {
			counts[face]--
		}
	case ThreePairs:
		for face := 1; face <= 6; face++ {
			counts[face] = 0
		}
	}
	return counts
}

func buildMove(melds []Meld) Move {
	sorted := make([]Meld, len(melds))
	copy(sorted, melds)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Movelet != sorted[j].Movelet {
			return sorted[i].Movelet < sorted[j].Movelet
		}
		return sorted[i].Face < sorted[j].Face
	})

	move := Move{Melds: sorted}
	for _, m := range sorted {
		move.Points += m.Points()
		move.DiceUsed += m.DiceUsed()
	}
	return move
}
