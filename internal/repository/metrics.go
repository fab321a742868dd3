package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const metricsPrefix = "films:metrics:"

// Metrics stores view and fetch counters in Redis
type Metrics struct {
	client *redis.Client
}

// PathStats represents statistics for a view path
type PathStats struct {
	Path         string  `json:"path"`
	TotalCalls   int64   `json:"total_calls"`
	SuccessCalls int64   `json:"success_calls"`
	ErrorCalls   int64   `json:"error_calls"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
	CacheHits    int64   `json:"cache_hits"`
	CacheMisses  int64   `json:"cache_misses"`
}

// FetchStats counts how films were loaded
type FetchStats struct {
	CacheLoads     int64   `json:"cache_loads"`
	RemoteOK       int64   `json:"remote_ok"`
	RemoteFailed   int64   `json:"remote_failed"`
	AvgRemoteMs    float64 `json:"avg_remote_ms"`
	LastFetchAtSec int64   `json:"last_fetch_at"`
}

// OverallStats represents overall statistics
type OverallStats struct {
	TotalCalls   int64       `json:"total_calls"`
	CacheHitRate float64     `json:"cache_hit_rate"`
	ErrorRate    float64     `json:"error_rate"`
	TopPaths     []PathStats `json:"top_paths"`
	Fetches      FetchStats  `json:"fetches"`
	Uptime       int64       `json:"uptime_seconds"`
}

// NewMetrics creates Metrics on an existing Redis connection
func NewMetrics(client *redis.Client) *Metrics {
	return &Metrics{client: client}
}

// RecordAPICall records one view request
func (m *Metrics) RecordAPICall(ctx context.Context, path string, statusCode int, latencyMs float64, cacheHit bool) error {
	pipe := m.client.Pipeline()

	pathKey := metricsPrefix + "path:" + path
	pipe.HIncrBy(ctx, pathKey, "total", 1)
	pipe.HIncrByFloat(ctx, pathKey, "latency_sum", latencyMs)

	if statusCode >= 200 && statusCode < 400 {
		pipe.HIncrBy(ctx, pathKey, "success", 1)
	} else {
		pipe.HIncrBy(ctx, pathKey, "error", 1)
	}

	if cacheHit {
		pipe.HIncrBy(ctx, pathKey, "cache_hits", 1)
	} else {
		pipe.HIncrBy(ctx, pathKey, "cache_misses", 1)
	}

	pipe.Incr(ctx, metricsPrefix+"global:total")
	pipe.SAdd(ctx, metricsPrefix+"paths", path)

	_, err := pipe.Exec(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to record metrics")
	}
	return err
}

// RecordFetch records how a films load ended: source is "cache" or "remote"
func (m *Metrics) RecordFetch(ctx context.Context, source string, ok bool, latency time.Duration) {
	key := metricsPrefix + "fetch"
	pipe := m.client.Pipeline()
	switch {
	case source == "cache":
		pipe.HIncrBy(ctx, key, "cache_loads", 1)
	case ok:
		pipe.HIncrBy(ctx, key, "remote_ok", 1)
		pipe.HIncrByFloat(ctx, key, "remote_latency_sum", float64(latency.Milliseconds()))
	default:
		pipe.HIncrBy(ctx, key, "remote_failed", 1)
	}
	pipe.HSet(ctx, key, "last_fetch_at", time.Now().Unix())

	if _, err := pipe.Exec(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to record fetch metrics")
	}
}

// GetPathStats gets statistics for a specific view path
func (m *Metrics) GetPathStats(ctx context.Context, path string) (*PathStats, error) {
	result, err := m.client.HGetAll(ctx, metricsPrefix+"path:"+path).Result()
	if err != nil {
		return nil, err
	}

	stats := &PathStats{Path: path}
	if len(result) == 0 {
		return stats, nil
	}

	stats.TotalCalls, _ = strconv.ParseInt(result["total"], 10, 64)
	stats.SuccessCalls, _ = strconv.ParseInt(result["success"], 10, 64)
	stats.ErrorCalls, _ = strconv.ParseInt(result["error"], 10, 64)
	stats.CacheHits, _ = strconv.ParseInt(result["cache_hits"], 10, 64)
	stats.CacheMisses, _ = strconv.ParseInt(result["cache_misses"], 10, 64)
	latencySum, _ := strconv.ParseFloat(result["latency_sum"], 64)
	if stats.TotalCalls > 0 {
		stats.AvgLatencyMs = latencySum / float64(stats.TotalCalls)
	}
	return stats, nil
}

// GetFetchStats gets films load counters
func (m *Metrics) GetFetchStats(ctx context.Context) (*FetchStats, error) {
	result, err := m.client.HGetAll(ctx, metricsPrefix+"fetch").Result()
	if err != nil {
		return nil, err
	}

	stats := &FetchStats{}
	stats.CacheLoads, _ = strconv.ParseInt(result["cache_loads"], 10, 64)
	stats.RemoteOK, _ = strconv.ParseInt(result["remote_ok"], 10, 64)
	stats.RemoteFailed, _ = strconv.ParseInt(result["remote_failed"], 10, 64)
	stats.LastFetchAtSec, _ = strconv.ParseInt(result["last_fetch_at"], 10, 64)
	latencySum, _ := strconv.ParseFloat(result["remote_latency_sum"], 64)
	if stats.RemoteOK > 0 {
		stats.AvgRemoteMs = latencySum / float64(stats.RemoteOK)
	}
	return stats, nil
}

// GetOverallStats gets overall statistics
func (m *Metrics) GetOverallStats(ctx context.Context) (*OverallStats, error) {
	stats := &OverallStats{}
	stats.TotalCalls, _ = m.client.Get(ctx, metricsPrefix+"global:total").Int64()

	paths, err := m.client.SMembers(ctx, metricsPrefix+"paths").Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers error: %w", err)
	}

	var all []PathStats
	var hits, misses, errs int64
	for _, path := range paths {
		ps, err := m.GetPathStats(ctx, path)
		if err != nil || ps.TotalCalls == 0 {
			continue
		}
		all = append(all, *ps)
		hits += ps.CacheHits
		misses += ps.CacheMisses
		errs += ps.ErrorCalls
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].TotalCalls > all[j].TotalCalls
	})
	if len(all) > 10 {
		all = all[:10]
	}
	stats.TopPaths = all

	if hits+misses > 0 {
		stats.CacheHitRate = float64(hits) / float64(hits+misses) * 100
	}
	if stats.TotalCalls > 0 {
		stats.ErrorRate = float64(errs) / float64(stats.TotalCalls) * 100
	}

	if fs, err := m.GetFetchStats(ctx); err == nil {
		stats.Fetches = *fs
	}

	startTime, err := m.client.Get(ctx, metricsPrefix+"server:start_time").Int64()
	if err == nil && startTime > 0 {
		stats.Uptime = time.Now().Unix() - startTime
	}

	return stats, nil
}

// RecordServerStart records server start time
func (m *Metrics) RecordServerStart(ctx context.Context) {
	m.client.Set(ctx, metricsPrefix+"server:start_time", time.Now().Unix(), 0)
}

// ResetMetrics resets all metrics
func (m *Metrics) ResetMetrics(ctx context.Context) error {
	keys, err := m.client.Keys(ctx, metricsPrefix+"*").Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return m.client.Del(ctx, keys...).Err()
	}
	return nil
}
