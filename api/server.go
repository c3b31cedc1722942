// Package api exposes the solver and simulator over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"farkle/engine"
	"farkle/game"
	"farkle/solver"
	"farkle/store"
	"farkle/strategy"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const defaultSimGames = 100

// Server handles HTTP requests.
type Server struct {
	db store.DB
}

func NewServer(db store.DB) *Server {
	return &Server{db: db}
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Get("/policies", s.handleListPolicies)
		r.Get("/policies/{id}", s.handleGetPolicy)
		r.Post("/policies/{id}/decide", s.handleDecide)
		r.Post("/simulate", s.handleSimulate)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	var options []solver.Option
	if req.Target > 0 {
		options = append(options, solver.WithTarget(req.Target))
	}
	if req.Step > 0 {
		options = append(options, solver.WithStep(req.Step))
	}
	if req.Tolerance > 0 {
		options = append(options, solver.WithTolerance(req.Tolerance))
	}
	if req.MaxSweeps > 0 {
		options = append(options, solver.WithMaxSweeps(req.MaxSweeps))
	}
	if req.Workers > 0 {
		options = append(options, solver.WithWorkers(req.Workers))
	}

	policy, err := solver.New(options...).Solve()
	if err != nil {
		if errors.Is(err, solver.ErrNotConverged) {
			s.writeError(w, http.StatusUnprocessableEntity, "not_converged", err.Error())
			return
		}
		s.writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	encoded, err := json.Marshal(policy)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "internal", "failed to encode policy")
		return
	}
	rec := &store.PolicyRecord{
		Target:     policy.Target(),
		Step:       policy.Step(),
		Tolerance:  policy.Tolerance(),
		Sweeps:     policy.Sweeps(),
		StartValue: policy.StartValue(),
		PolicyJSON: encoded,
	}
	if err := s.db.SavePolicy(rec); err != nil {
		s.writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	log.Info().Str("policy", rec.ID).Int("target", rec.Target).Int("sweeps", rec.Sweeps).Msg("solved policy")
	s.writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleListPolicies(w http.ResponseWriter, r *http.Request) {
	records, err := s.db.ListPolicies(50)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	if records == nil {
		records = []store.PolicyRecord{}
	}
	s.writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	rec, err := s.db.GetPolicy(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		store.PolicyRecord
		Policy json.RawMessage `json:"policy"`
	}{*rec, rec.PolicyJSON})
}

func (s *Server) handleDecide(w http.ResponseWriter, r *http.Request) {
	policy, err := s.loadPolicy(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}

	var req decideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	state := game.TurnState{DiceLeft: req.DiceLeft, Banked: req.Banked, Total: req.Total}
	action, err := policy.Decide(state)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	value, err := policy.Value(state)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, decideResponse{Action: action.String(), Value: value})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	var policy *solver.Policy
	if req.PolicyID != "" {
		p, err := s.loadPolicy(req.PolicyID)
		if err != nil {
			s.writeError(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		policy = p
	}

	target := req.Target
	if target <= 0 {
		if policy != nil {
			target = policy.Target()
		} else {
			target = solver.DefaultTarget
		}
	}
	games := req.Games
	if games <= 0 {
		games = defaultSimGames
	}

	run := &store.SimRun{
		PolicyID: req.PolicyID,
		Target:   target,
		Seed:     req.Seed,
		Games:    games,
	}
	totalTurns := 0
	for i := 0; i < games; i++ {
		seed := req.Seed + uint64(i)
		s1, err := buildStrategy(req.Strategy1, policy, seed+1)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		s2, err := buildStrategy(req.Strategy2, policy, seed+2)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		run.Strategy1, run.Strategy2 = s1.Name(), s2.Name()

		record, _, err := engine.New(target, game.NewDiceSource(seed), s1, s2).Run()
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, "internal", err.Error())
			return
		}
		totalTurns += record.Turns
		if record.Winner == 0 {
			run.Wins1++
		} else {
			run.Wins2++
		}
	}
	run.AvgTurns = float64(totalTurns) / float64(games)

	if err := s.db.SaveRun(run); err != nil {
		s.writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	log.Info().Str("run", run.ID).Int("games", games).Int("wins1", run.Wins1).Int("wins2", run.Wins2).Msg("completed simulation")
	s.writeJSON(w, http.StatusCreated, run)
}

func (s *Server) loadPolicy(id string) (*solver.Policy, error) {
	rec, err := s.db.GetPolicy(id)
	if err != nil {
		return nil, err
	}
	var policy solver.Policy
	if err := json.Unmarshal(rec.PolicyJSON, &policy); err != nil {
		return nil, err
	}
	return &policy, nil
}

func buildStrategy(spec strategySpec, policy *solver.Policy, seed uint64) (strategy.Strategy, error) {
	switch spec.Kind {
	case "threshold":
		minBank, rollWith := spec.MinBank, spec.RollWith
		if minBank <= 0 {
			minBank = 300
		}
		if rollWith <= 0 {
			rollWith = 4
		}
		return strategy.NewThreshold(minBank, rollWith), nil
	case "random":
		return strategy.NewRandom(seed), nil
	case "optimal":
		if policy == nil {
			return nil, errors.New("optimal strategy needs policy_id")
		}
		return strategy.NewOptimal(policy), nil
	default:
		return nil, errors.New("unknown strategy kind " + spec.Kind)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, kind, message string) {
	s.writeJSON(w, status, apiError{Error: kind, Message: message})
}
