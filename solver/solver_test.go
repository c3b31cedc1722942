package solver

import (
	"encoding/json"
	"testing"

	"farkle/game"

	"github.com/stretchr/testify/require"
)

func TestSolveTinyTarget(t *testing.T) {
	// With a 50-point target any scoring roll can be banked for the win, so
	// the start value must equal the chance of not busting six dice, and the
	// single-die value is exactly the 2-in-6 chance of rolling a 1 or a 5.
	policy, err := New(WithTarget(50), WithTolerance(1e-9)).Solve()
	require.NoError(t, err)

	require.LessOrEqual(t, policy.Sweeps(), 10, "Tiny grid should converge almost immediately")

	table, err := game.Outcomes(6)
	require.NoError(t, err)
	require.InDelta(t, 1-table.BustProb, policy.StartValue(), 1e-7)

	oneDie, err := policy.Value(game.TurnState{DiceLeft: 1, Banked: 0, Total: 0})
	require.NoError(t, err)
	require.InDelta(t, 1.0/3.0, oneDie, 1e-7)

	twoDice, err := policy.Value(game.TurnState{DiceLeft: 2, Banked: 0, Total: 0})
	require.NoError(t, err)
	require.InDelta(t, 5.0/9.0, twoDice, 1e-7)
}

func TestSolveDeterminism(t *testing.T) {
	first, err := New(WithTarget(500)).Solve()
	require.NoError(t, err)
	second, err := New(WithTarget(500)).Solve()
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	require.Equal(t, a, b, "Identical configurations must produce bit-identical policies")
}

func TestSolveParallelMatchesSequential(t *testing.T) {
	// Sweeps are double-buffered, so the worker split must not change the
	// result in any way.
	sequential, err := New(WithTarget(500)).Solve()
	require.NoError(t, err)
	parallel, err := New(WithTarget(500), WithWorkers(4)).Solve()
	require.NoError(t, err)

	a, err := json.Marshal(sequential)
	require.NoError(t, err)
	b, err := json.Marshal(parallel)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestSolveNonConvergence(t *testing.T) {
	policy, err := New(WithTarget(200), WithMaxSweeps(1)).Solve()

	require.ErrorIs(t, err, ErrNotConverged, "Hitting the sweep cap must be reported")
	require.Nil(t, policy, "An unconverged policy must not be returned")
}

func TestSolveRejectsBadGrid(t *testing.T) {
	_, err := New(WithTarget(1000), WithStep(30)).Solve()
	require.Error(t, err, "Step must divide the 50-point score lattice")

	_, err = New(WithTarget(1025)).Solve()
	require.Error(t, err, "Step must divide the target")
}

func TestPolicyBanksWheneverBankingWins(t *testing.T) {
	policy, err := New(WithTarget(1000)).Solve()
	require.NoError(t, err)

	for dice := 1; dice <= game.MaxDice; dice++ {
		for banked := 50; banked <= 1000; banked += 50 {
			for total := 0; total <= 1000; total += 50 {
				if banked+total < 1000 {
					continue
				}
				action, err := policy.Decide(game.TurnState{DiceLeft: dice, Banked: banked, Total: total})
				require.NoError(t, err)
				require.Equal(t, game.Bank, action,
					"Banking wins outright at dice=%d banked=%d total=%d", dice, banked, total)
			}
		}
	}
}

func TestPolicyBankThresholdMonotonicity(t *testing.T) {
	// Regression check, not a proof: for fixed dice and total, once banking
	// becomes optimal it stays optimal at every higher banked score.
	policy, err := New(WithTarget(1000)).Solve()
	require.NoError(t, err)

	for dice := 1; dice <= game.MaxDice; dice++ {
		banking := false
		for banked := 50; banked <= 1000; banked += 50 {
			action, err := policy.Decide(game.TurnState{DiceLeft: dice, Banked: banked, Total: 0})
			require.NoError(t, err)
			if banking {
				require.Equal(t, game.Bank, action,
					"Bank decision should not flip back at dice=%d banked=%d", dice, banked)
			} else if action == game.Bank {
				banking = true
			}
		}
		require.True(t, banking, "Banking must eventually become optimal with %d dice", dice)
	}
}
