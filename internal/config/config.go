package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds all configuration for the service
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	GinMode  string `env:"GIN_MODE" envDefault:"release"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	FilmsAPIURL     string        `env:"FILMS_API_URL" envDefault:"https://ghibliapi.vercel.app/films"`
	FilmsAPITimeout time.Duration `env:"FILMS_API_TIMEOUT" envDefault:"10s"`

	// 缓存槽：key 带版本号，payload 结构变化时改 key 即可
	CacheKey string        `env:"CACHE_KEY" envDefault:"ghibli_films_v1"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"10m"`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"sqlite"`
	SQLitePath   string `env:"SQLITE_PATH"`
	RedisURL     string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"false"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	switch cfg.StoreBackend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	if cfg.SQLitePath == "" {
		cfg.SQLitePath = defaultSQLitePath()
	}
	if cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("CACHE_TTL must be positive, got %s", cfg.CacheTTL)
	}
	if strings.TrimSpace(cfg.CacheKey) == "" {
		return nil, fmt.Errorf("CACHE_KEY must not be empty")
	}
	if cfg.MetricsEnabled && cfg.RedisURL == "" {
		return nil, fmt.Errorf("METRICS_ENABLED requires REDIS_URL")
	}

	return cfg, nil
}

// local default: ~/.ghibli-films/cache.db
func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".ghibli-films", "cache.db")
}
