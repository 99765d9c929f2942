// Package config loads process configuration from the environment and the
// user-editable classification rules from a TOML file.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"

	"github.com/prolifichq/prolific/internal/util"
)

// Env holds process-wide settings read from environment variables.
type Env struct {
	// LogDir is where the legacy collector drops its per-day text logs.
	LogDir string `envconfig:"PROLIFIC_LOG_DIR"`
	// DataDir holds the database and exported render files; defaults to
	// the XDG data dir.
	DataDir string `envconfig:"PROLIFIC_DATA_DIR"`
	// DatabaseURL overrides the local file database, e.g. for a remote
	// libsql instance.
	DatabaseURL string `envconfig:"PROLIFIC_DATABASE_URL"`
	AuthToken   string `envconfig:"PROLIFIC_AUTH_TOKEN"`
	Port        int    `envconfig:"PROLIFIC_PORT" default:"8080"`
	// RulesPath points at the TOML classification rules; empty means
	// <DataDir>/rules.toml, falling back to the built-in table.
	RulesPath string `envconfig:"PROLIFIC_RULES_PATH"`
}

// Load reads the environment and fills in derived defaults.
func Load() (*Env, error) {
	var cfg Env
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if cfg.DataDir == "" {
		dir, err := util.DataDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.DataDir, "logs")
	}
	if cfg.RulesPath == "" {
		cfg.RulesPath = filepath.Join(cfg.DataDir, "rules.toml")
	}

	return &cfg, nil
}

// RenderDir is where exported events_<t0>.json files are written.
func (e *Env) RenderDir() string {
	return filepath.Join(e.DataDir, "render")
}

// DatabasePath returns the libsql connection string: the configured remote
// URL if set, otherwise a local file database under the data dir.
func (e *Env) DatabasePath() string {
	if e.DatabaseURL != "" {
		if e.AuthToken != "" {
			return fmt.Sprintf("%s?authToken=%s", e.DatabaseURL, e.AuthToken)
		}
		return e.DatabaseURL
	}
	return "file:" + filepath.Join(e.DataDir, "prolific.db")
}
