package main

import (
	"fmt"

	"ghibli-films-service/internal/config"
	"ghibli-films-service/internal/repository"
	"ghibli-films-service/internal/service"
	"ghibli-films-service/pkg/httpclient"

	"github.com/rs/zerolog/log"
)

// app bundles what every command needs
type app struct {
	store   repository.Store
	cache   *repository.FilmCache
	films   *service.FilmsService
	metrics *repository.Metrics

	metricsConn *repository.RedisStore // set only when metrics need their own connection
}

func newApp(cfg *config.Config) (*app, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{store: store}
	if cfg.MetricsEnabled {
		rs, ok := store.(*repository.RedisStore)
		if !ok {
			// metrics always live in Redis, whatever holds the cache slot
			rs, err = repository.NewRedisStore(cfg.RedisURL)
			if err != nil {
				store.Close()
				return nil, fmt.Errorf("metrics: %w", err)
			}
			a.metricsConn = rs
		}
		a.metrics = repository.NewMetrics(rs.Client())
		log.Info().Msg("📊 Metrics enabled")
	}

	a.cache = repository.NewFilmCache(store, cfg.CacheKey, cfg.CacheTTL)
	ghibli := service.NewGhibliService(httpclient.NewClient(cfg.FilmsAPITimeout), cfg.FilmsAPIURL)
	a.films = service.NewFilmsService(ghibli, a.cache)
	log.Debug().Str("films_api", ghibli.URL()).Str("cache_key", cfg.CacheKey).Msg("Films source ready")
	if a.metrics != nil {
		a.films.SetRecorder(a.metrics)
	}
	return a, nil
}

func (a *app) Close() {
	a.films.Close()
	if a.metricsConn != nil {
		_ = a.metricsConn.Close()
	}
	if err := a.store.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close store")
	}
}

func openStore(cfg *config.Config) (repository.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		return repository.NewRedisStore(cfg.RedisURL)
	case config.BackendMemory:
		return repository.NewMemoryStore(), nil
	default:
		return repository.NewSQLiteStore(cfg.SQLitePath)
	}
}
