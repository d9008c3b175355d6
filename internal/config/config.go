// Package config loads process-level configuration from the environment.
//
// Values come from GPLAN_* environment variables, optionally seeded from a
// .env file in the working directory. User settings that change at runtime
// (AI profiles, board limits) live in the TOML ConfigStore instead.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// Config holds environment configuration for gplan.
type Config struct {
	// Home is the data directory. Defaults to ~/.gplan when empty.
	Home string `env:"GPLAN_HOME" env-default:""`

	// Store selects the persistence backend: json or sqlite.
	Store string `env:"GPLAN_STORE" env-default:"json"`

	// Verbose enables debug logging.
	Verbose bool `env:"GPLAN_VERBOSE" env-default:"false"`

	// AutosaveDelay is the debounce before dirty content is written.
	AutosaveDelay time.Duration `env:"GPLAN_AUTOSAVE_DELAY" env-default:"2s"`

	// AITimeout bounds every completion request.
	AITimeout time.Duration `env:"GPLAN_AI_TIMEOUT" env-default:"30s"`

	// AIRequestsPerMinute throttles completion requests.
	AIRequestsPerMinute int `env:"GPLAN_AI_RPM" env-default:"20"`

	// AIAPIKey overrides the key of the active AI profile.
	AIAPIKey string `env:"GPLAN_AI_API_KEY"` // Secret - never written to disk
}

// Load reads the optional .env file at envFile, then the environment.
// A missing .env file is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) resolve() error {
	if c.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("get home directory: %w", err)
		}
		c.Home = filepath.Join(home, ".gplan")
	}

	switch c.Store {
	case StoreJSON, StoreSQLite:
	default:
		return fmt.Errorf("invalid GPLAN_STORE %q: want %s or %s", c.Store, StoreJSON, StoreSQLite)
	}

	if c.AutosaveDelay <= 0 {
		return fmt.Errorf("invalid GPLAN_AUTOSAVE_DELAY %s: must be positive", c.AutosaveDelay)
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("invalid GPLAN_AI_TIMEOUT %s: must be positive", c.AITimeout)
	}
	if c.AIRequestsPerMinute <= 0 {
		c.AIRequestsPerMinute = 20
	}
	return nil
}

// DataDir is where project stores live.
func (c *Config) DataDir() string {
	return filepath.Join(c.Home, "data")
}

// PromptDir is where editable system prompts live.
func (c *Config) PromptDir() string {
	return filepath.Join(c.Home, "prompts")
}
