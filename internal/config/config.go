package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the server settings. Values come from the environment,
// with the command line flags in cmd/server taking precedence.
type Config struct {
	Addr          string `env:"BLACKJACK_ADDR" envDefault:":8080"`
	DBPath        string `env:"BLACKJACK_DB" envDefault:"./data/blackjack.db"`
	FrontendURL   string `env:"BLACKJACK_FRONTEND_URL" envDefault:"http://localhost:5173"`
	StartingChips int    `env:"BLACKJACK_STARTING_CHIPS" envDefault:"1000"`
	LogLevel      string `env:"BLACKJACK_LOG_LEVEL" envDefault:"info"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
