package game

import "fmt"

// Movelet is one elementary scoring pattern from the fixed rule table.
type Movelet int

const (
	SingleOne Movelet = iota
	SingleFive
	ThreeOfAKind
	FourOfAKind
	FiveOfAKind
	SixOfAKind
	Straight
	ThreePairs
)

func (m Movelet) String() string {
	switch m {
	case SingleOne:
		return "single-1"
	case SingleFive:
		return "single-5"
	case ThreeOfAKind:
		return "three-of-a-kind"
	case FourOfAKind:
		return "four-of-a-kind"
	case FiveOfAKind:
		return "five-of-a-kind"
	case SixOfAKind:
		return "six-of-a-kind"
	case Straight:
		return "straight"
	case ThreePairs:
		return "three-pairs"
	default:
		return fmt.Sprintf("movelet(%d)", int(m))
	}
}

// Meld is a movelet applied to a concrete face. Face is 0 for the patterns
// that consume the whole roll (straight, three pairs).
type Meld struct {
	Movelet Movelet
	Face    int
}

// tripleValue is the base three-of-a-kind value for a face. Four, five, and
// six of a kind escalate from it by x2, x4, and x8.
func tripleValue(face int) int {
	if face == 1 {
		return 1000
	}
	return 100 * face
}

// Points returns the fixed point value of the meld.
func (m Meld) Points() int {
	switch m.Movelet {
	case SingleOne:
		return 100
	case SingleFive:
		return 50
	case ThreeOfAKind:
		return tripleValue(m.Face)
	case FourOfAKind:
		return 2 * tripleValue(m.Face)
	case FiveOfAKind:
		return 4 * tripleValue(m.Face)
	case SixOfAKind:
		return 8 * tripleValue(m.Face)
	case Straight, ThreePairs:
		return 1500
	default:
		panic(fmt.Sprintf("unknown movelet %d", m.Movelet))
	}
}

// DiceUsed returns how many dice the meld consumes.
func (m Meld) DiceUsed() int {
	switch m.Movelet {
	case SingleOne, SingleFive:
		return 1
	case ThreeOfAKind:
		return 3
	case FourOfAKind:
		return 4
	case FiveOfAKind:
		return 5
	case SixOfAKind:
		return 6
	case Straight, ThreePairs:
		return 6
	default:
		panic(fmt.Sprintf("unknown movelet %d", m.Movelet))
	}
}

func (m Meld) String() string {
	if m.Face > 0 {
		return fmt.Sprintf("%s(%d)", m.Movelet, m.Face)
	}
	return m.Movelet.String()
}
