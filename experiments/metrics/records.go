package metrics

import "farkle/engine"

// StrategyConfig describes one strategy entry in an experiment definition.
type StrategyConfig struct {
	ID       int    `yaml:"id"`
	Kind     string `yaml:"kind"` // threshold, random, or optimal
	MinBank  int    `yaml:"min_bank,omitempty"`
	RollWith int    `yaml:"roll_with,omitempty"`
}

// GameRecord ties a game outcome to the strategy configs that played it.
type GameRecord struct {
	ID        int
	Strategy1 int // StrategyConfig.ID
	Strategy2 int // StrategyConfig.ID
	engine.GameRecord
}

// TurnRecord ties a turn to its game.
type TurnRecord struct {
	Game int // GameRecord.ID
	engine.TurnRecord
}
