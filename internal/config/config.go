package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Catalog sources.
const (
	CatalogSample   = "sample"
	CatalogFile     = "file"
	CatalogPostgres = "postgres"
)

// Player store backends.
const (
	PlayersMemory   = "memory"
	PlayersFile     = "file"
	PlayersRedis    = "redis"
	PlayersSQLite   = "sqlite"
	PlayersPostgres = "postgres"
)

type Config struct {
	Server struct {
		Port      string `yaml:"port" env:"PORT"`
		PublicURL string `yaml:"publicURL" env:"PUBLIC_URL"`
	} `yaml:"server" envPrefix:"QUIZ_SERVER_"`
	Catalog struct {
		Source   string `yaml:"source" env:"SOURCE"`
		Path     string `yaml:"path" env:"PATH"`
		CacheTTL string `yaml:"cacheTTL" env:"CACHE_TTL"`
	} `yaml:"catalog" envPrefix:"QUIZ_CATALOG_"`
	Players struct {
		Backend string `yaml:"backend" env:"BACKEND"`
		Path    string `yaml:"path" env:"PATH"`
	} `yaml:"players" envPrefix:"QUIZ_PLAYERS_"`
	Redis struct {
		Addr     string `yaml:"addr" env:"ADDR"`
		Password string `yaml:"password" env:"PASSWORD"`
		DB       int    `yaml:"db" env:"DB"`
		TTL      string `yaml:"ttl" env:"TTL"`
	} `yaml:"redis" envPrefix:"QUIZ_REDIS_"`
	Postgres struct {
		URL string `yaml:"url" env:"URL"`
	} `yaml:"postgres" envPrefix:"QUIZ_POSTGRES_"`
	SQLite struct {
		Path string `yaml:"path" env:"PATH"`
	} `yaml:"sqlite" envPrefix:"QUIZ_SQLITE_"`
}

// Default returns a configuration that needs no external services: the
// built-in sample catalog and an in-memory player list.
func Default() Config {
	var cfg Config
	cfg.Server.Port = "8080"
	cfg.Catalog.Source = CatalogSample
	cfg.Catalog.Path = "questions.json"
	cfg.Players.Backend = PlayersMemory
	cfg.Players.Path = "players.json"
	cfg.SQLite.Path = "players.db"
	return cfg
}

// Load reads YAML config from path over the defaults, then applies QUIZ_*
// environment variables. A missing file is not an error. The start command's
// --port flag (QUIZ_PORT) is applied after Load and wins over QUIZ_SERVER_PORT.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("decode config: %w", err)
			}
		}
	}
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
