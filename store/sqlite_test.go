package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPolicyRoundTrip(t *testing.T) {
	db := newTestDB(t)

	rec := &PolicyRecord{
		Target:     1000,
		Step:       50,
		Tolerance:  1e-7,
		Sweeps:     42,
		StartValue: 0.95,
		PolicyJSON: []byte(`{"target":1000}`),
	}
	require.NoError(t, db.SavePolicy(rec))
	require.NotEmpty(t, rec.ID, "Expected save to assign an ID")
	require.False(t, rec.CreatedAt.IsZero(), "Expected save to set created_at")

	got, err := db.GetPolicy(rec.ID)
	require.NoError(t, err)
	require.Equal(t, rec.Target, got.Target)
	require.Equal(t, rec.Step, got.Step)
	require.Equal(t, rec.Tolerance, got.Tolerance)
	require.Equal(t, rec.Sweeps, got.Sweeps)
	require.Equal(t, rec.StartValue, got.StartValue)
	require.Equal(t, rec.PolicyJSON, got.PolicyJSON)
}

func TestGetPolicyNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetPolicy("nope")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}

func TestListPolicies(t *testing.T) {
	db := newTestDB(t)

	for i := 0; i < 3; i++ {
		rec := &PolicyRecord{
			Target:     1000 * (i + 1),
			Step:       50,
			Tolerance:  1e-7,
			Sweeps:     10,
			StartValue: 0.9,
			PolicyJSON: []byte(`{}`),
		}
		require.NoError(t, db.SavePolicy(rec))
	}

	records, err := db.ListPolicies(10)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Listing skips the potentially large policy blob
	require.Nil(t, records[0].PolicyJSON)

	limited, err := db.ListPolicies(2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
}

func TestRunRoundTrip(t *testing.T) {
	db := newTestDB(t)

	run := &SimRun{
		PolicyID:  "some-policy",
		Strategy1: "optimal",
		Strategy2: "threshold-300-4",
		Target:    10000,
		Seed:      42,
		Games:     100,
		Wins1:     61,
		Wins2:     39,
		AvgTurns:  18.4,
	}
	require.NoError(t, db.SaveRun(run))
	require.NotEmpty(t, run.ID)

	got, err := db.GetRun(run.ID)
	require.NoError(t, err)
	require.Equal(t, run.Strategy1, got.Strategy1)
	require.Equal(t, run.Strategy2, got.Strategy2)
	require.Equal(t, run.Seed, got.Seed)
	require.Equal(t, run.Wins1, got.Wins1)
	require.Equal(t, run.Wins2, got.Wins2)
	require.Equal(t, run.AvgTurns, got.AvgTurns)

	runs, err := db.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
}
