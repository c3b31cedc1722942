package api

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the server settings, read from the environment.
type Config struct {
	Addr   string `env:"FARKLE_ADDR" envDefault:":8080"`
	DBPath string `env:"FARKLE_DB" envDefault:"farkle.db"`
}

// LoadConfig parses the server configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse server config: %w", err)
	}
	return cfg, nil
}
