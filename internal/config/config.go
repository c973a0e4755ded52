package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Store backend selectors.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRest   = "rest"
)

type Config struct {
	// Store picks the document store backend: memory, sqlite or rest.
	Store      string `env:"BYTEBANK_STORE" envDefault:"memory"`
	SQLitePath string `env:"BYTEBANK_SQLITE_PATH" envDefault:"bytebank.db"`
	APIBaseURL string `env:"BYTEBANK_API_URL"`
	APIToken   string `env:"BYTEBANK_API_TOKEN"`
	UserID     string `env:"BYTEBANK_USER_ID"`
	LogLevel   string `env:"BYTEBANK_LOG_LEVEL" envDefault:"info"`
}

func ProcessEnvironmentVariables() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.Store {
	case StoreMemory, StoreSQLite:
	case StoreRest:
		if cfg.APIBaseURL == "" {
			return nil, fmt.Errorf("BYTEBANK_API_URL is required for the rest store")
		}
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}

	return &cfg, nil
}
