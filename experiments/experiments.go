// Package experiments runs strategy matchups in bulk and stores the results
// as CSV for offline analysis.
package experiments

import (
	"fmt"
	"os"

	"farkle/engine"
	"farkle/experiments/metrics"
	"farkle/game"
	"farkle/solver"
	"farkle/strategy"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	defaultGames    = 100
	defaultMinBank  = 300
	defaultRollWith = 4
)

// Experiment is a set of strategy matchups played for a number of games
// each, all to the same victory target.
type Experiment struct {
	Name       string                   `yaml:"name"`
	Games      int                      `yaml:"games"`
	Target     int                      `yaml:"target"`
	Seed       uint64                   `yaml:"seed"`
	Strategies []metrics.StrategyConfig `yaml:"strategies"`
	MatchUps   [][]int                  `yaml:"matchups"` // pairs of strategy IDs
}

// Load reads experiment definitions from a YAML file.
func Load(path string) ([]Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read experiments file: %w", err)
	}
	var experiments []Experiment
	if err := yaml.Unmarshal(data, &experiments); err != nil {
		return nil, fmt.Errorf("parse experiments file: %w", err)
	}
	return experiments, nil
}

// Run plays every matchup of the experiment and writes the records under
// outDir. The policy backs any "optimal" strategy entries and may be nil
// when none are configured.
func Run(exp Experiment, policy *solver.Policy, outDir string) error {
	games := exp.Games
	if games <= 0 {
		games = defaultGames
	}
	target := exp.Target
	if target <= 0 {
		target = solver.DefaultTarget
	}

	log.Info().Str("experiment", exp.Name).Int("matchups", len(exp.MatchUps)).Msg("starting experiment")

	count := 0
	var gameRecords []metrics.GameRecord
	var turnRecords []metrics.TurnRecord
	for mi, matchup := range exp.MatchUps {
		if len(matchup) != 2 {
			return fmt.Errorf("matchup %d: want 2 strategy IDs, got %d", mi, len(matchup))
		}
		cfg1, err := exp.findStrategy(matchup[0])
		if err != nil {
			return err
		}
		cfg2, err := exp.findStrategy(matchup[1])
		if err != nil {
			return err
		}

		log.Info().Int("matchup", mi+1).Str("strategy1", cfg1.Kind).Str("strategy2", cfg2.Kind).Msg("starting matchup")

		for i := 0; i < games; i++ {
			// A fresh seed per game so games differ but the whole
			// experiment replays identically.
			seed := exp.Seed + uint64(count)
			s1, err := buildStrategy(cfg1, policy, seed+1)
			if err != nil {
				return err
			}
			s2, err := buildStrategy(cfg2, policy, seed+2)
			if err != nil {
				return err
			}

			e := engine.New(target, game.NewDiceSource(seed), s1, s2)
			record, turns, err := e.Run()
			if err != nil {
				return fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}

			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Strategy1:  cfg1.ID,
				Strategy2:  cfg2.ID,
				GameRecord: record,
			})
			for _, turn := range turns {
				turnRecords = append(turnRecords, metrics.TurnRecord{Game: count, TurnRecord: turn})
			}
		}
		log.Info().Int("matchup", mi+1).Msg("completed matchup")
	}

	writer, err := metrics.NewWriter(outDir, exp.Name)
	if err != nil {
		return fmt.Errorf("create experiment writer: %w", err)
	}
	if err := writer.WriteStrategyConfigs(exp.Strategies); err != nil {
		return err
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return err
	}
	if err := writer.WriteTurnRecords(turnRecords); err != nil {
		return err
	}

	log.Info().Str("experiment", exp.Name).Int("games", count).Str("dir", writer.Dir()).Msg("completed experiment")
	return nil
}

func (e Experiment) findStrategy(id int) (metrics.StrategyConfig, error) {
	for _, cfg := range e.Strategies {
		if cfg.ID == id {
			return cfg, nil
		}
	}
	return metrics.StrategyConfig{}, fmt.Errorf("experiment %q: no strategy with id %d", e.Name, id)
}

func buildStrategy(cfg metrics.StrategyConfig, policy *solver.Policy, seed uint64) (strategy.Strategy, error) {
	switch cfg.Kind {
	case "threshold":
		minBank := cfg.MinBank
		if minBank <= 0 {
			minBank = defaultMinBank
		}
		rollWith := cfg.RollWith
		if rollWith <= 0 {
			rollWith = defaultRollWith
		}
		return strategy.NewThreshold(minBank, rollWith), nil
	case "random":
		return strategy.NewRandom(seed), nil
	case "optimal":
		if policy == nil {
			return nil, fmt.Errorf("strategy %d: optimal strategy needs a solved policy", cfg.ID)
		}
		return strategy.NewOptimal(policy), nil
	default:
		return nil, fmt.Errorf("strategy %d: unknown kind %q", cfg.ID, cfg.Kind)
	}
}
