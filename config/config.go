/*
Package config loads runtime settings.

SOURCES (later wins):
  1. Defaults
  2. YAML file (optional; missing file is not an error)
  3. .env file next to the working directory (optional)
  4. Environment: PAPERWORK_DB, PAPERWORK_PORT, PAPERWORK_ALLOWED_ORIGINS,
     PAPERWORK_LOG_LEVEL

Command-line flags are applied on top by the CLI.

EXAMPLE FILE:
  database: ./data/paperwork.db
  port: 8080
  allowed_origins: ["http://localhost:5173"]
  log_level: info
  seed:
    creditors: ["EDF", "Orange"]
    task-priorities: ["High", "Medium", "Low"]
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/warp/paperwork/books"
	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting.
type Config struct {
	Database       string              `yaml:"database"`
	Port           int                 `yaml:"port"`
	AllowedOrigins []string            `yaml:"allowed_origins"`
	LogLevel       string              `yaml:"log_level"`
	Seed           map[string][]string `yaml:"seed"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Database:       "paperwork.db",
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:5173", "tauri://localhost"},
		LogLevel:       "info",
	}
}

// Load reads path (if it exists), then .env, then the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PAPERWORK_DB"); v != "" {
		c.Database = v
	}
	if v := os.Getenv("PAPERWORK_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PAPERWORK_PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := os.Getenv("PAPERWORK_ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("PAPERWORK_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	if c.Database == "" {
		return errors.New("database path must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	for kind := range c.Seed {
		if _, err := books.ParseTaxonomyKind(kind); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	return nil
}

// SlogLevel maps LogLevel to a slog.Level.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return level, nil
}

// SeedValues returns the configured seed names per taxonomy kind.
func (c Config) SeedValues() map[books.TaxonomyKind][]string {
	out := make(map[books.TaxonomyKind][]string, len(c.Seed))
	for k, names := range c.Seed {
		kind, err := books.ParseTaxonomyKind(k)
		if err != nil {
			continue // rejected by Validate
		}
		out[kind] = append(out[kind], names...)
	}
	return out
}
