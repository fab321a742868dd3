package repository

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestMetrics(t *testing.T) (*Metrics, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewMetrics(client), mr
}

func TestMetrics_RecordFetch(t *testing.T) {
	m, _ := newTestMetrics(t)
	ctx := context.Background()

	m.RecordFetch(ctx, "cache", true, 0)
	m.RecordFetch(ctx, "remote", true, 100*time.Millisecond)
	m.RecordFetch(ctx, "remote", true, 300*time.Millisecond)
	m.RecordFetch(ctx, "remote", false, 50*time.Millisecond)

	fs, err := m.GetFetchStats(ctx)
	if err != nil {
		t.Fatalf("fetch stats: %v", err)
	}
	if fs.CacheLoads != 1 || fs.RemoteOK != 2 || fs.RemoteFailed != 1 {
		t.Fatalf("unexpected counts %+v", fs)
	}
	if fs.AvgRemoteMs != 200 {
		t.Fatalf("avg remote = %v, want 200", fs.AvgRemoteMs)
	}
	if fs.LastFetchAtSec == 0 {
		t.Fatalf("last fetch time not recorded")
	}
}

func TestMetrics_PathAndOverallStats(t *testing.T) {
	m, _ := newTestMetrics(t)
	ctx := context.Background()

	_ = m.RecordAPICall(ctx, "/characters", 200, 10, true)
	_ = m.RecordAPICall(ctx, "/characters", 200, 30, false)
	_ = m.RecordAPICall(ctx, "/characters/:id", 404, 5, true)
	m.RecordServerStart(ctx)

	ps, err := m.GetPathStats(ctx, "/characters")
	if err != nil {
		t.Fatalf("path stats: %v", err)
	}
	if ps.TotalCalls != 2 || ps.SuccessCalls != 2 || ps.CacheHits != 1 || ps.CacheMisses != 1 || ps.AvgLatencyMs != 20 {
		t.Fatalf("unexpected path stats %+v", ps)
	}

	overall, err := m.GetOverallStats(ctx)
	if err != nil {
		t.Fatalf("overall: %v", err)
	}
	if overall.TotalCalls != 3 || len(overall.TopPaths) != 2 || overall.TopPaths[0].Path != "/characters" {
		t.Fatalf("unexpected overall %+v", overall)
	}
	if math.Abs(overall.CacheHitRate-200.0/3) > 1e-9 {
		t.Fatalf("hit rate = %v", overall.CacheHitRate)
	}
	if math.Abs(overall.ErrorRate-100.0/3) > 1e-9 {
		t.Fatalf("error rate = %v", overall.ErrorRate)
	}
}

func TestMetrics_Reset(t *testing.T) {
	m, mr := newTestMetrics(t)
	ctx := context.Background()
	_ = mr.Set("ghibli_films_v1", `{"savedAt":1,"items":[]}`)

	_ = m.RecordAPICall(ctx, "/characters", 200, 1, false)
	m.RecordFetch(ctx, "remote", true, time.Millisecond)

	if err := m.ResetMetrics(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	overall, err := m.GetOverallStats(ctx)
	if err != nil {
		t.Fatalf("overall: %v", err)
	}
	if overall.TotalCalls != 0 || len(overall.TopPaths) != 0 || overall.Fetches.RemoteOK != 0 {
		t.Fatalf("stats survived reset: %+v", overall)
	}
	if !mr.Exists("ghibli_films_v1") {
		t.Fatalf("reset must only touch metrics keys")
	}
	// empty reset is a no-op
	if err := m.ResetMetrics(ctx); err != nil {
		t.Fatalf("second reset: %v", err)
	}
}
