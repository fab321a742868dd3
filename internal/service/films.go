package service

import (
	"context"
	"sync"
	"time"

	"ghibli-films-service/internal/model"
	"ghibli-films-service/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Observer receives every published state, in publish order.
// OnState runs synchronously and must not call back into FilmsService
// methods other than State and Find.
type Observer interface {
	OnState(state model.State)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(model.State)

// OnState calls f(state)
func (f ObserverFunc) OnState(state model.State) { f(state) }

// FetchRecorder is told how each load ended
type FetchRecorder interface {
	RecordFetch(ctx context.Context, source string, ok bool, latency time.Duration)
}

// FilmsService loads the films collection, keeps it in the cache slot
// and publishes {films, loading, error} to observers.
//
// Every fetch takes a new generation; only the newest generation may
// publish or write the cache, so overlapping reloads never interleave.
// Starting a fetch cancels the request of the one it supersedes.
type FilmsService struct {
	source Source
	cache  *repository.FilmCache

	// publishMu serializes mutation plus notification
	publishMu sync.Mutex

	mu        sync.RWMutex
	state     model.State
	gen       uint64
	activated bool
	closed    bool
	cancel    context.CancelFunc // cancels the in-flight fetch, if any
	observers []Observer
	recorder  FetchRecorder
}

// NewFilmsService creates a new FilmsService
func NewFilmsService(source Source, cache *repository.FilmCache) *FilmsService {
	return &FilmsService{
		source: source,
		cache:  cache,
		state: model.State{
			Films:   []model.Film{},
			Loading: true,
		},
	}
}

// SetRecorder installs a FetchRecorder; nil disables recording
func (s *FilmsService) SetRecorder(r FetchRecorder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder = r
}

// Subscribe registers an observer for subsequent publishes
func (s *FilmsService) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// State returns a snapshot of the current state
func (s *FilmsService) State() model.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Find returns the film with the given id from the current collection
func (s *FilmsService) Find(id string) (model.Film, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.state.Films {
		if f.IDString() == id {
			return f, true
		}
	}
	return model.Film{}, false
}

// Activate performs the initial load: a fresh cached payload is published
// without touching the network, anything else triggers a remote fetch.
// Only the first call does anything.
func (s *FilmsService) Activate(ctx context.Context) error {
	s.mu.Lock()
	if s.activated {
		s.mu.Unlock()
		return nil
	}
	s.activated = true
	gen := s.gen
	s.mu.Unlock()

	if payload, ok := s.cache.Read(ctx); ok {
		if s.cache.IsFresh(payload) {
			s.publish(gen, func(st *model.State) {
				st.Films = payload.Items
				st.Loading = false
				st.Err = nil
				st.Source = model.SourceCache
			})
			log.Info().Int("count", len(payload.Items)).Msg("🎬 Films loaded from cache")
			s.record(ctx, model.SourceCache, true, 0)
			return nil
		}

		log.Info().Str("key", s.cache.Key()).Msg("Cached films are stale, refetching")
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate stale cache")
		}
	}

	return s.fetch(ctx)
}

// Reload drops the cached payload and fetches again, returning once the
// fetch has finished. The returned error is also published as state.
func (s *FilmsService) Reload(ctx context.Context) error {
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate cache before reload")
	}
	return s.fetch(ctx)
}

// Close stops all further publishing and cancels a pending fetch
func (s *FilmsService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.observers = nil
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *FilmsService) fetch(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	logger := log.With().
		Str("fetch_id", uuid.NewString()).
		Uint64("generation", gen).
		Logger()

	s.publish(gen, func(st *model.State) {
		st.Loading = true
		st.Err = nil
	})
	defer s.publish(gen, func(st *model.State) {
		st.Loading = false
	})

	start := time.Now()
	raws, err := s.source.FetchFilms(ctx)
	latency := time.Since(start)
	if err != nil {
		if !s.isCurrent(gen) {
			logger.Debug().Err(err).Msg("Superseded films fetch ended")
			return nil
		}
		logger.Warn().Err(err).Dur("latency", latency).Msg("Films fetch failed")
		s.publish(gen, func(st *model.State) {
			st.Err = err
		})
		s.record(ctx, model.SourceRemote, false, latency)
		return err
	}

	films := NormalizeFilms(raws)
	published := s.publish(gen, func(st *model.State) {
		st.Films = films
		st.Err = nil
		st.Source = model.SourceRemote
	})
	if !published {
		logger.Debug().Msg("Discarding superseded films fetch")
		return nil
	}
	s.record(ctx, model.SourceRemote, true, latency)

	if err := s.cache.Write(ctx, films); err != nil {
		logger.Warn().Err(err).Msg("Failed to cache films")
	}

	logger.Info().
		Int("count", len(films)).
		Dur("latency", latency).
		Msg("✅ Films fetched")
	return nil
}

func (s *FilmsService) isCurrent(gen uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.closed && gen == s.gen
}

// publish applies mutate and notifies observers, unless gen is no longer
// current or the service is closed. It reports whether it published.
func (s *FilmsService) publish(gen uint64, mutate func(*model.State)) bool {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return false
	}
	mutate(&s.state)
	snapshot := s.state.Clone()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, o := range observers {
		o.OnState(snapshot)
	}
	return true
}

func (s *FilmsService) record(ctx context.Context, source string, ok bool, latency time.Duration) {
	s.mu.RLock()
	r := s.recorder
	s.mu.RUnlock()
	if r != nil {
		r.RecordFetch(ctx, source, ok, latency)
	}
}
