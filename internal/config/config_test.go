package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Fatalf("CacheTTL = %v", cfg.CacheTTL)
	}
	if cfg.CacheKey != "ghibli_films_v1" {
		t.Fatalf("CacheKey = %q", cfg.CacheKey)
	}
	if cfg.FilmsAPIURL != "https://ghibliapi.vercel.app/films" {
		t.Fatalf("FilmsAPIURL = %q", cfg.FilmsAPIURL)
	}
	if cfg.StoreBackend != BackendSQLite {
		t.Fatalf("StoreBackend = %q", cfg.StoreBackend)
	}
	if !strings.HasSuffix(cfg.SQLitePath, "cache.db") {
		t.Fatalf("SQLitePath = %q", cfg.SQLitePath)
	}
	if cfg.Port != "8080" || cfg.MetricsEnabled {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("STORE_BACKEND", " Memory ")
	t.Setenv("FILMS_API_URL", "http://localhost:9999/films")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CacheTTL != 90*time.Second {
		t.Fatalf("CacheTTL = %v", cfg.CacheTTL)
	}
	if cfg.StoreBackend != BackendMemory {
		t.Fatalf("StoreBackend = %q", cfg.StoreBackend)
	}
	if cfg.FilmsAPIURL != "http://localhost:9999/films" || cfg.SQLitePath != "/tmp/x.db" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"backend":   {"STORE_BACKEND", "mongo"},
		"ttl zero":  {"CACHE_TTL", "0s"},
		"ttl parse": {"CACHE_TTL", "soon"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}
