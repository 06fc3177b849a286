// Package config loads process settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Catalog source kinds.
const (
	CatalogRegistry = "registry"
	CatalogYAML     = "yaml"
	CatalogSQLite   = "sqlite"
)

// Config holds the settings shared by the interdict binaries. Command-line
// flags default to these values.
type Config struct {
	DecksFile string `env:"INTERDICT_DECKS" envDefault:"decks.yaml"`
	// Catalog is "registry", "yaml:<path>" or "sqlite:<path>".
	Catalog  string        `env:"INTERDICT_CATALOG" envDefault:"registry"`
	Port     string        `env:"INTERDICT_PORT" envDefault:"9000"`
	MCPPort  string        `env:"INTERDICT_MCP_PORT" envDefault:"9999"`
	WebPort  int           `env:"INTERDICT_WEB_PORT" envDefault:"8080"`
	MaxTurns int           `env:"INTERDICT_MAX_TURNS" envDefault:"200"`
	RedisURL string        `env:"INTERDICT_REDIS_URL"`
	StateTTL time.Duration `env:"INTERDICT_STATE_TTL" envDefault:"24h"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the given .env files (default ".env") if they exist, then parses
// and validates the environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values env tags can't express.
func (c *Config) Validate() error {
	if _, _, err := c.CatalogSource(); err != nil {
		return err
	}
	if c.MaxTurns < 0 {
		return fmt.Errorf("INTERDICT_MAX_TURNS must not be negative, got %d", c.MaxTurns)
	}
	if c.StateTTL < 0 {
		return fmt.Errorf("INTERDICT_STATE_TTL must not be negative, got %s", c.StateTTL)
	}
	return nil
}

// CatalogSource splits Catalog into its kind and path.
func (c *Config) CatalogSource() (kind, path string, err error) {
	if c.Catalog == "" || c.Catalog == CatalogRegistry {
		return CatalogRegistry, "", nil
	}
	kind, path, ok := strings.Cut(c.Catalog, ":")
	if !ok || path == "" {
		return "", "", fmt.Errorf("INTERDICT_CATALOG %q: want registry, yaml:<path> or sqlite:<path>", c.Catalog)
	}
	switch kind {
	case CatalogYAML, CatalogSQLite:
		return kind, path, nil
	}
	return "", "", fmt.Errorf("INTERDICT_CATALOG %q: unknown kind %q", c.Catalog, kind)
}
