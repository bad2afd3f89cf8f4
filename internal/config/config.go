package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/utils"
)

// Config is the environment-derived configuration. CLI flags default to
// these values and override them.
type Config struct {
	Store       string `env:"STORE" envDefault:"~/.config/habitflow/habitflow.db"`
	Timezone    string `env:"TIMEZONE" envDefault:"Local"`
	Debug       bool   `env:"DEBUG" envDefault:"false"`
	RedisPrefix string `env:"REDIS_PREFIX" envDefault:"habitflow"`
	AutoBackup  bool   `env:"AUTO_BACKUP" envDefault:"true"`
}

// EnvPrefix is prepended to every variable name in Config.
const EnvPrefix = "HABITFLOW_"

// Load reads an optional .env file and parses HABITFLOW_* variables.
// Variables already set in the process environment win over the file.
func Load(dotenvPaths ...string) (Config, error) {
	if len(dotenvPaths) == 0 {
		dotenvPaths = []string{".env"}
	}
	for _, p := range dotenvPaths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", p, err)
		}
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if !utils.ValidateTimezone(cfg.Timezone) {
		return Config{}, fmt.Errorf("invalid %sTIMEZONE %q", EnvPrefix, cfg.Timezone)
	}
	if strings.TrimSpace(cfg.Store) == "" {
		cfg.Store = constants.DefaultConfigPath
	}
	if cfg.RedisPrefix == "" {
		cfg.RedisPrefix = constants.DefaultRedisPrefix
	}

	return cfg, nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ConfigDir returns the directory logs and backups live in for a store
// target. Remote targets fall back to the default config directory.
func ConfigDir(store string) (string, error) {
	if isRemote(store) || store == ":memory:" {
		store = constants.DefaultConfigPath
	}
	path, err := ExpandHome(store)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

func isRemote(store string) bool {
	for _, prefix := range []string{"postgres://", "postgresql://", "redis://", "rediss://", "keyring"} {
		if strings.HasPrefix(store, prefix) {
			return true
		}
	}
	return false
}
