package strategy

import (
	"testing"

	"farkle/game"
	"farkle/solver"

	"github.com/stretchr/testify/require"
)

func TestThreshold(t *testing.T) {
	strat := NewThreshold(300, 3)

	t.Run("never banks an empty turn score", func(t *testing.T) {
		action, err := strat.Decide(game.TurnState{DiceLeft: 2, Banked: 0, Total: 500})
		require.NoError(t, err)
		require.Equal(t, game.Reroll, action)
	})

	t.Run("keeps rolling with many dice left", func(t *testing.T) {
		action, err := strat.Decide(game.TurnState{DiceLeft: 5, Banked: 1000, Total: 0})
		require.NoError(t, err)
		require.Equal(t, game.Reroll, action)
	})

	t.Run("banks at the threshold with few dice left", func(t *testing.T) {
		action, err := strat.Decide(game.TurnState{DiceLeft: 2, Banked: 300, Total: 0})
		require.NoError(t, err)
		require.Equal(t, game.Bank, action)
	})

	t.Run("keeps rolling below the threshold", func(t *testing.T) {
		action, err := strat.Decide(game.TurnState{DiceLeft: 2, Banked: 250, Total: 0})
		require.NoError(t, err)
		require.Equal(t, game.Reroll, action)
	})
}

func TestRandomNeverBanksNothing(t *testing.T) {
	strat := NewRandom(1)
	for i := 0; i < 50; i++ {
		action, err := strat.Decide(game.TurnState{DiceLeft: 4, Banked: 0, Total: 0})
		require.NoError(t, err)
		require.Equal(t, game.Reroll, action)
	}
}

func TestOptimalClipsToTarget(t *testing.T) {
	policy, err := solver.New(solver.WithTarget(200)).Solve()
	require.NoError(t, err)
	strat := NewOptimal(policy)

	// Scores past the target would be a BoundsError on the raw policy; the
	// strategy clips them because banking from there wins regardless.
	action, err := strat.Decide(game.TurnState{DiceLeft: 3, Banked: 350, Total: 100})
	require.NoError(t, err)
	require.Equal(t, game.Bank, action)
}
