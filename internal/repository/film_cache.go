package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ghibli-films-service/internal/model"

	"github.com/rs/zerolog/log"
)

// FilmCache owns the single films slot in a Store.
// A stored payload is either well-formed or treated as absent.
type FilmCache struct {
	store Store
	key   string
	ttl   time.Duration
	now   func() time.Time
}

// NewFilmCache creates a FilmCache on top of store
func NewFilmCache(store Store, key string, ttl time.Duration) *FilmCache {
	return &FilmCache{
		store: store,
		key:   key,
		ttl:   ttl,
		now:   time.Now,
	}
}

// WithClock replaces the clock used for savedAt and freshness checks
func (c *FilmCache) WithClock(now func() time.Time) *FilmCache {
	c.now = now
	return c
}

// Key returns the slot name
func (c *FilmCache) Key() string { return c.key }

// TTL returns the freshness window
func (c *FilmCache) TTL() time.Duration { return c.ttl }

// Write stores items with the current time, replacing whatever was there
func (c *FilmCache) Write(ctx context.Context, items []model.Film) error {
	if items == nil {
		items = []model.Film{}
	}
	payload := model.CachePayload{
		SavedAt: c.now().UnixMilli(),
		Items:   items,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal cache payload: %w", err)
	}
	if err := c.store.Set(ctx, c.key, string(data)); err != nil {
		return fmt.Errorf("failed to write cache slot %s: %w", c.key, err)
	}
	return nil
}

// Read returns the stored payload. Every failure mode reports ok=false.
func (c *FilmCache) Read(ctx context.Context) (*model.CachePayload, bool) {
	raw, err := c.store.Get(ctx, c.key)
	if err != nil {
		if !IsCacheMiss(err) {
			log.Warn().Err(err).Str("key", c.key).Msg("Cache read failed")
		}
		return nil, false
	}

	payload, err := decodePayload(raw)
	if err != nil {
		log.Warn().Err(err).Str("key", c.key).Msg("Ignoring corrupt cache payload")
		return nil, false
	}
	return payload, true
}

// Invalidate removes the slot
func (c *FilmCache) Invalidate(ctx context.Context) error {
	if err := c.store.Delete(ctx, c.key); err != nil {
		return fmt.Errorf("failed to invalidate cache slot %s: %w", c.key, err)
	}
	return nil
}

// IsFresh reports whether payload is still inside the TTL right now
func (c *FilmCache) IsFresh(payload *model.CachePayload) bool {
	return c.FreshAt(payload, c.now())
}

// FreshAt reports whether payload is inside the TTL at the given instant
func (c *FilmCache) FreshAt(payload *model.CachePayload, at time.Time) bool {
	if payload == nil {
		return false
	}
	return at.UnixMilli()-payload.SavedAt < c.ttl.Milliseconds()
}

var errNotSequence = errors.New("items is not a sequence")

func decodePayload(raw string) (*model.CachePayload, error) {
	var envelope struct {
		SavedAt json.Number     `json:"savedAt"`
		Items   json.RawMessage `json:"items"`
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	if err := dec.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached value: %w", err)
	}

	items := bytes.TrimSpace(envelope.Items)
	if len(items) == 0 || items[0] != '[' {
		return nil, errNotSequence
	}

	var savedAt int64
	if envelope.SavedAt != "" {
		f, err := envelope.SavedAt.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid savedAt: %w", err)
		}
		savedAt = int64(f)
	}

	films := []model.Film{}
	itemDec := json.NewDecoder(bytes.NewReader(items))
	itemDec.UseNumber()
	if err := itemDec.Decode(&films); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached items: %w", err)
	}

	return &model.CachePayload{SavedAt: savedAt, Items: films}, nil
}
