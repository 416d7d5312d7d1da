// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config holds every setting the CLI host reads.
type Config struct {
	HistoryDB    string        `env:"DEVCON_HISTORY_DB" envDefault:"devcon.db"`
	HistoryLimit int           `env:"DEVCON_HISTORY_LIMIT" envDefault:"500"`
	EvalTimeout  time.Duration `env:"DEVCON_EVAL_TIMEOUT" envDefault:"2s"`
	Debug        bool          `env:"DEVCON_DEBUG"`
	LogFile      string        `env:"DEVCON_LOG_FILE"`
	Prompt       string        `env:"DEVCON_PROMPT" envDefault:"--> "`
	Scrollback   int           `env:"DEVCON_SCROLLBACK" envDefault:"15"`
	Player       string        `env:"DEVCON_PLAYER" envDefault:"Player"`
	NoColor      bool          `env:"DEVCON_NO_COLOR"`
}

// Load reads the given .env files, or ./.env when none are named, and then
// parses the environment. Missing .env files are not an error; variables
// already set in the environment win over .env values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) > 0 {
		if err := godotenv.Load(present...); err != nil {
			return Config{}, errors.Wrap(err, "load .env")
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, errors.Wrap(err, "parse environment")
	}
	if cfg.HistoryLimit < 0 {
		return Config{}, errors.Errorf("DEVCON_HISTORY_LIMIT must not be negative, got %d", cfg.HistoryLimit)
	}
	return cfg, nil
}
