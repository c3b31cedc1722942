package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"farkle/store"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })
	return NewServer(db).Routes()
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func solvePolicy(t *testing.T, handler http.Handler) store.PolicyRecord {
	t.Helper()
	w := doJSON(t, handler, http.MethodPost, "/api/v1/solve", solveRequest{Target: 200})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var rec store.PolicyRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	return rec
}

func TestHealth(t *testing.T) {
	handler := newTestServer(t)

	w := doJSON(t, handler, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "ok")
}

func TestSolveAndFetch(t *testing.T) {
	handler := newTestServer(t)

	rec := solvePolicy(t, handler)
	require.NotEmpty(t, rec.ID)
	require.Equal(t, 200, rec.Target)
	require.Equal(t, 50, rec.Step)
	require.Greater(t, rec.StartValue, 0.0)
	require.Less(t, rec.StartValue, 1.0)

	w := doJSON(t, handler, http.MethodGet, "/api/v1/policies/"+rec.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched struct {
		ID     string          `json:"id"`
		Policy json.RawMessage `json:"policy"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	require.Equal(t, rec.ID, fetched.ID)
	require.NotEmpty(t, fetched.Policy)

	w = doJSON(t, handler, http.MethodGet, "/api/v1/policies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []store.PolicyRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
}

func TestSolveRejectsBadGrid(t *testing.T) {
	handler := newTestServer(t)

	w := doJSON(t, handler, http.MethodPost, "/api/v1/solve", solveRequest{Target: 200, Step: 30})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDecide(t *testing.T) {
	handler := newTestServer(t)
	rec := solvePolicy(t, handler)

	t.Run("fresh turn", func(t *testing.T) {
		w := doJSON(t, handler, http.MethodPost, "/api/v1/policies/"+rec.ID+"/decide",
			decideRequest{DiceLeft: 6, Banked: 0, Total: 0})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp decideResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		// With nothing banked, rolling is the only legal action
		require.Equal(t, "reroll", resp.Action)
		require.Greater(t, resp.Value, 0.0)
	})

	t.Run("off-lattice state is rejected", func(t *testing.T) {
		w := doJSON(t, handler, http.MethodPost, "/api/v1/policies/"+rec.ID+"/decide",
			decideRequest{DiceLeft: 6, Banked: 25, Total: 0})

		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown policy", func(t *testing.T) {
		w := doJSON(t, handler, http.MethodPost, "/api/v1/policies/nope/decide",
			decideRequest{DiceLeft: 6})

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSimulate(t *testing.T) {
	handler := newTestServer(t)

	w := doJSON(t, handler, http.MethodPost, "/api/v1/simulate", simulateRequest{
		Strategy1: strategySpec{Kind: "threshold", MinBank: 300, RollWith: 4},
		Strategy2: strategySpec{Kind: "random"},
		Target:    500,
		Seed:      42,
		Games:     3,
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var run store.SimRun
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	require.NotEmpty(t, run.ID)
	require.Equal(t, 3, run.Games)
	require.Equal(t, 3, run.Wins1+run.Wins2)
	require.Greater(t, run.AvgTurns, 0.0)
}

func TestSimulateOptimalNeedsPolicy(t *testing.T) {
	handler := newTestServer(t)

	w := doJSON(t, handler, http.MethodPost, "/api/v1/simulate", simulateRequest{
		Strategy1: strategySpec{Kind: "optimal"},
		Strategy2: strategySpec{Kind: "random"},
		Target:    500,
		Games:     1,
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
}
