package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"ghibli-films-service/internal/model"
	"ghibli-films-service/pkg/httpclient"

	"github.com/rs/zerolog/log"
)

// Source returns the raw films collection
type Source interface {
	FetchFilms(ctx context.Context) ([]model.RawFilm, error)
}

// GhibliService handles Studio Ghibli API interactions
type GhibliService struct {
	client *httpclient.Client
	url    string
}

// NewGhibliService creates a new GhibliService for the films endpoint at url
func NewGhibliService(client *httpclient.Client, url string) *GhibliService {
	return &GhibliService{
		client: client,
		url:    url,
	}
}

// URL returns the films endpoint
func (s *GhibliService) URL() string {
	return s.url
}

// FetchFilms issues one GET for the films collection.
// A body that is not a JSON array yields an empty collection, not an error.
func (s *GhibliService) FetchFilms(ctx context.Context) ([]model.RawFilm, error) {
	data, err := s.client.Fetch(ctx, s.url)
	if err != nil {
		var se *httpclient.StatusError
		if errors.As(err, &se) {
			return nil, &RemoteError{Status: se.StatusCode}
		}
		return nil, &TransportError{Err: err}
	}

	films := decodeFilms(data)
	log.Debug().Int("count", len(films)).Msg("Fetched films")
	return films, nil
}

func decodeFilms(data []byte) []model.RawFilm {
	var decoded interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&decoded); err != nil {
		log.Warn().Err(err).Msg("Films response is not valid JSON, using empty list")
		return []model.RawFilm{}
	}

	elems, ok := decoded.([]interface{})
	if !ok {
		log.Warn().Msg("Films response is not an array, using empty list")
		return []model.RawFilm{}
	}

	films := make([]model.RawFilm, len(elems))
	for i, e := range elems {
		if obj, ok := e.(map[string]interface{}); ok {
			films[i] = obj
		} else {
			films[i] = model.RawFilm{}
		}
	}
	return films
}
