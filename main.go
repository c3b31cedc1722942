package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"runtime"

	"farkle/api"
	"farkle/engine"
	"farkle/experiments"
	"farkle/game"
	"farkle/solver"
	"farkle/store"
	"farkle/strategy"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if len(os.Args) < 2 {
		usage()
	}

	var err error
	switch os.Args[1] {
	case "solve":
		err = runSolve(os.Args[2:])
	case "simulate":
		err = runSimulate(os.Args[2:])
	case "experiment":
		err = runExperiment(os.Args[2:])
	case "serve":
		err = runServe()
	default:
		usage()
	}
	if err != nil {
		log.Fatal().Err(err).Msg(os.Args[1] + " failed")
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: farkle <solve|simulate|experiment|serve> [flags]")
	os.Exit(2)
}

func runSolve(args []string) error {
	flags := flag.NewFlagSet("solve", flag.ExitOnError)
	target := flags.Int("target", solver.DefaultTarget, "Victory target score")
	step := flags.Int("step", solver.DefaultStep, "Score lattice step")
	tolerance := flags.Float64("tolerance", solver.DefaultTolerance, "Convergence tolerance")
	sweeps := flags.Int("sweeps", solver.DefaultMaxSweeps, "Maximum value iteration sweeps")
	workers := flags.Int("workers", runtime.NumCPU(), "Parallel sweep workers")
	out := flags.String("out", "policy.json", "Output file for the solved policy")
	flags.Parse(args)

	policy, err := solver.New(
		solver.WithTarget(*target),
		solver.WithStep(*step),
		solver.WithTolerance(*tolerance),
		solver.WithMaxSweeps(*sweeps),
		solver.WithWorkers(*workers),
	).Solve()
	if err != nil {
		return err
	}

	data, err := json.Marshal(policy)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		return err
	}
	log.Info().Str("file", *out).Float64("start_value", policy.StartValue()).Msg("wrote policy")
	return nil
}

func runSimulate(args []string) error {
	flags := flag.NewFlagSet("simulate", flag.ExitOnError)
	policyPath := flags.String("policy", "", "Policy file for the optimal strategy")
	kind1 := flags.String("s1", "threshold", "First strategy: threshold, random or optimal")
	kind2 := flags.String("s2", "random", "Second strategy: threshold, random or optimal")
	minBank := flags.Int("minbank", 300, "Threshold strategy: bank at this turn score")
	rollWith := flags.Int("rollwith", 4, "Threshold strategy: keep rolling above this many dice")
	target := flags.Int("target", solver.DefaultTarget, "Victory target score")
	games := flags.Int("games", 100, "Number of games to play")
	seed := flags.Uint64("seed", 1, "Base random seed")
	flags.Parse(args)

	var policy *solver.Policy
	if *policyPath != "" {
		data, err := os.ReadFile(*policyPath)
		if err != nil {
			return err
		}
		policy = &solver.Policy{}
		if err := json.Unmarshal(data, policy); err != nil {
			return fmt.Errorf("parse policy file: %w", err)
		}
	}

	build := func(kind string, seed uint64) (strategy.Strategy, error) {
		switch kind {
		case "threshold":
			return strategy.NewThreshold(*minBank, *rollWith), nil
		case "random":
			return strategy.NewRandom(seed), nil
		case "optimal":
			if policy == nil {
				return nil, fmt.Errorf("optimal strategy needs -policy")
			}
			return strategy.NewOptimal(policy), nil
		default:
			return nil, fmt.Errorf("unknown strategy kind %q", kind)
		}
	}

	wins := [2]int{}
	totalTurns := 0
	for i := 0; i < *games; i++ {
		gameSeed := *seed + uint64(i)
		s1, err := build(*kind1, gameSeed+1)
		if err != nil {
			return err
		}
		s2, err := build(*kind2, gameSeed+2)
		if err != nil {
			return err
		}
		record, _, err := engine.New(*target, game.NewDiceSource(gameSeed), s1, s2).Run()
		if err != nil {
			return err
		}
		wins[record.Winner]++
		totalTurns += record.Turns
	}

	log.Info().
		Str("s1", *kind1).Str("s2", *kind2).
		Int("wins1", wins[0]).Int("wins2", wins[1]).
		Float64("avg_turns", float64(totalTurns)/float64(*games)).
		Msg("simulation complete")
	return nil
}

func runExperiment(args []string) error {
	flags := flag.NewFlagSet("experiment", flag.ExitOnError)
	configPath := flags.String("config", "experiments.yaml", "Experiment definitions file")
	policyPath := flags.String("policy", "", "Policy file for optimal strategy entries")
	outDir := flags.String("out", "results", "Output directory for CSV records")
	flags.Parse(args)

	var policy *solver.Policy
	if *policyPath != "" {
		data, err := os.ReadFile(*policyPath)
		if err != nil {
			return err
		}
		policy = &solver.Policy{}
		if err := json.Unmarshal(data, policy); err != nil {
			return fmt.Errorf("parse policy file: %w", err)
		}
	}

	exps, err := experiments.Load(*configPath)
	if err != nil {
		return err
	}
	for _, exp := range exps {
		if err := experiments.Run(exp, policy, *outDir); err != nil {
			return err
		}
	}
	return nil
}

func runServe() error {
	cfg, err := api.LoadConfig()
	if err != nil {
		return err
	}

	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return err
	}

	server := api.NewServer(db)
	log.Info().Str("addr", cfg.Addr).Str("db", cfg.DBPath).Msg("serving")
	return http.ListenAndServe(cfg.Addr, server.Routes())
}
