// Package config loads the small set of environment inputs spec.md §6
// names as the core's configuration surface: whether batch submitters run
// on a worker pool, how big that pool is, and what local time the session
// closes at for the GFD pruner. Grounded on
// _examples/other_examples/manifests/alexandrehsantos-mach-engine's go.mod,
// a Go matching-engine prototype that loads its config with exactly this
// caarlos0/env + joho/godotenv pair.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config is the engine's and gateway's environment-sourced configuration.
type Config struct {
	// UseThreads is loaded from the environment and stored on the engine;
	// no code path reads it, so it does not switch any behavior.
	UseThreads bool `env:"TALON_USE_THREADS" envDefault:"true"`
	// MaxWorkers is loaded from the environment and stored on the engine;
	// no code path reads it. The gateway's connection pool size is the
	// fixed constant defaultWorkers in internal/net, not this value.
	MaxWorkers int `env:"TALON_MAX_WORKERS" envDefault:"8"`
	// SessionCloseLocal is the "HH:MM" local time the GFD pruner treats
	// as the daily session-close boundary.
	SessionCloseLocal string `env:"TALON_SESSION_CLOSE" envDefault:"16:00"`
}

// Load reads a Config from the process environment, optionally seeding it
// first from a .env file at envFile (ignored if the file does not exist —
// a missing .env is normal outside local development).
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return Config{}, fmt.Errorf("config: load %s: %w", envFile, err)
			}
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	if _, err := cfg.SessionClose(time.Now()); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SessionClose resolves SessionCloseLocal to a concrete time on the same
// calendar day as now, in now's location.
func (c Config) SessionClose(now time.Time) (time.Time, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(c.SessionCloseLocal, "%d:%d", &hour, &minute); err != nil {
		return time.Time{}, fmt.Errorf("config: invalid session_close_local %q: %w", c.SessionCloseLocal, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("config: invalid session_close_local %q", c.SessionCloseLocal)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location()), nil
}
