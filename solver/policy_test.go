package solver

import (
	"encoding/json"
	"testing"

	"farkle/game"

	"github.com/stretchr/testify/require"
)

func solveSmall(t *testing.T) *Policy {
	t.Helper()
	policy, err := New(WithTarget(200)).Solve()
	require.NoError(t, err)
	return policy
}

func TestPolicyBounds(t *testing.T) {
	policy := solveSmall(t)

	t.Run("zero dice left re-arms the full hand", func(t *testing.T) {
		fromZero, err := policy.Decide(game.TurnState{DiceLeft: 0, Banked: 100, Total: 0})
		require.NoError(t, err)
		fromSix, err := policy.Decide(game.TurnState{DiceLeft: 6, Banked: 100, Total: 0})
		require.NoError(t, err)
		require.Equal(t, fromSix, fromZero)
	})

	t.Run("rejects out of range dice", func(t *testing.T) {
		_, err := policy.Decide(game.TurnState{DiceLeft: 7})

		var bounds *BoundsError
		require.ErrorAs(t, err, &bounds)
		require.Equal(t, "dice", bounds.Field)
	})

	t.Run("rejects scores above the target instead of extrapolating", func(t *testing.T) {
		_, err := policy.Decide(game.TurnState{DiceLeft: 3, Banked: 0, Total: 250})

		var bounds *BoundsError
		require.ErrorAs(t, err, &bounds)
		require.Equal(t, "total", bounds.Field)
	})

	t.Run("rejects off-lattice scores", func(t *testing.T) {
		_, err := policy.Decide(game.TurnState{DiceLeft: 3, Banked: 25, Total: 0})

		var bounds *BoundsError
		require.ErrorAs(t, err, &bounds)
		require.Equal(t, "banked", bounds.Field)
	})

	t.Run("rejects negative scores", func(t *testing.T) {
		_, err := policy.Value(game.TurnState{DiceLeft: 3, Banked: -50, Total: 0})

		var bounds *BoundsError
		require.ErrorAs(t, err, &bounds)
	})
}

func TestPolicyRoundTrip(t *testing.T) {
	policy := solveSmall(t)

	data, err := json.Marshal(policy)
	require.NoError(t, err)

	var restored Policy
	require.NoError(t, json.Unmarshal(data, &restored))

	require.Equal(t, policy.Target(), restored.Target())
	require.Equal(t, policy.Sweeps(), restored.Sweeps())
	require.Equal(t, policy.StartValue(), restored.StartValue())

	again, err := json.Marshal(&restored)
	require.NoError(t, err)
	require.Equal(t, data, again, "Serialization must round-trip exactly")

	for dice := 1; dice <= game.MaxDice; dice++ {
		for banked := 0; banked <= 200; banked += 50 {
			state := game.TurnState{DiceLeft: dice, Banked: banked, Total: 50}
			want, err := policy.Decide(state)
			require.NoError(t, err)
			got, err := restored.Decide(state)
			require.NoError(t, err)
			require.Equal(t, want, got)
		}
	}
}

func TestPolicyRejectsCorruptEncodings(t *testing.T) {
	t.Run("mismatched state count", func(t *testing.T) {
		var p Policy
		err := json.Unmarshal([]byte(`{"target":200,"step":50,"decisions":"AAA=","values":[0.5]}`), &p)
		require.Error(t, err)
	})

	t.Run("invalid grid", func(t *testing.T) {
		var p Policy
		err := json.Unmarshal([]byte(`{"target":200,"step":0}`), &p)
		require.Error(t, err)
	})
}
