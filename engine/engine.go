// Package engine plays full games between strategies: it rolls the dice,
// applies the rule engine's best move, enforces busts and hot dice, and asks
// each strategy when to bank.
package engine

import (
	"fmt"
	"time"

	"farkle/game"
	"farkle/strategy"

	"github.com/rs/zerolog/log"
)

// maxTurns caps runaway games so a stuck strategy cannot loop forever.
const maxTurns = 10000

// TurnRecord captures one completed turn.
type TurnRecord struct {
	Turn   int
	Player int
	Rolls  int
	Points int // 0 on a bust
	Busted bool
	Total  int // player total after the turn
}

// GameRecord captures one completed game.
type GameRecord struct {
	Winner    int
	Turns     int
	Totals    []int
	StartTime time.Time
	Duration  time.Duration
}

// Engine plays games to a victory target between two or more strategies
// sharing one dice source.
type Engine struct {
	target     int
	dice       *game.DiceSource
	strategies []strategy.Strategy
}

func New(target int, dice *game.DiceSource, strategies ...strategy.Strategy) *Engine {
	if target <= 0 {
		panic("victory target must be positive")
	}
	if len(strategies) < 2 {
		panic("need at least two strategies")
	}
	return &Engine{target: target, dice: dice, strategies: strategies}
}

// Run plays a single game to completion and returns its record plus every
// turn taken.
func (e *Engine) Run() (GameRecord, []TurnRecord, error) {
	totals := make([]int, len(e.strategies))
	start := time.Now()
	var turns []TurnRecord

	for turn := 1; turn <= maxTurns; turn++ {
		player := (turn - 1) % len(e.strategies)
		points, rolls, busted, err := e.playTurn(e.strategies[player], totals[player])
		if err != nil {
			return GameRecord{}, nil, fmt.Errorf("turn %d (%s): %w", turn, e.strategies[player].Name(), err)
		}
		totals[player] += points
		turns = append(turns, TurnRecord{
			Turn:   turn,
			Player: player,
			Rolls:  rolls,
			Points: points,
			Busted: busted,
			Total:  totals[player],
		})
		log.Debug().
			Int("turn", turn).
			Str("strategy", e.strategies[player].Name()).
			Int("points", points).
			Bool("busted", busted).
			Int("total", totals[player]).
			Msg("turn complete")

		if totals[player] >= e.target {
			record := GameRecord{
				Winner:    player,
				Turns:     turn,
				Totals:    totals,
				StartTime: start,
				Duration:  time.Since(start),
			}
			log.Info().
				Str("winner", e.strategies[player].Name()).
				Int("turns", turn).
				Ints("totals", totals).
				Msg("game over")
			return record, turns, nil
		}
	}
	return GameRecord{}, nil, fmt.Errorf("no winner after %d turns", maxTurns)
}

// playTurn rolls until the strategy banks, the target is reached, or the
// player busts. The first roll of a turn is mandatory; consuming every die
// re-arms all six.
func (e *Engine) playTurn(strat strategy.Strategy, total int) (points, rolls int, busted bool, err error) {
	diceLeft := game.MaxDice
	banked := 0
	for {
		roll := e.dice.Roll(diceLeft)
		rolls++
		best, ok, err := game.BestMove(roll)
		if err != nil {
			return 0, rolls, false, err
		}
		if !ok {
			return 0, rolls, true, nil // bust forfeits the whole turn score
		}

		banked += best.Points
		diceLeft -= best.DiceUsed
		if diceLeft == 0 {
			diceLeft = game.MaxDice // hot dice
		}
		if total+banked >= e.target {
			return banked, rolls, false, nil
		}

		action, err := strat.Decide(game.TurnState{DiceLeft: diceLeft, Banked: banked, Total: total})
		if err != nil {
			return 0, rolls, false, err
		}
		if action == game.Bank {
			return banked, rolls, false, nil
		}
	}
}
