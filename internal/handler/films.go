package handler

import (
	"context"
	"net/http"

	"ghibli-films-service/internal/model"
	"ghibli-films-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// FilmsHandler serves the films state as JSON
type FilmsHandler struct {
	films *service.FilmsService
}

// NewFilmsHandler creates a new FilmsHandler
func NewFilmsHandler(films *service.FilmsService) *FilmsHandler {
	return &FilmsHandler{films: films}
}

// filmsResponse mirrors {films, loading, error}
type filmsResponse struct {
	Code    int          `json:"code"`
	Data    []model.Film `json:"data"`
	Loading bool         `json:"loading"`
	Error   string       `json:"error,omitempty"`
	Source  string       `json:"source,omitempty"`
}

// markState exposes the served state to the logging and metrics middleware
func markState(c *gin.Context, st model.State) {
	c.Set("cache_source", st.Source) // 供 metrics 追踪缓存命中
	c.Set("films_count", len(st.Films))
	c.Set("films_loading", st.Loading)
}

// detachedReload runs a reload that outlives the request: the fetch is
// shared by every viewer, so a client hanging up must not cancel it.
func detachedReload(c *gin.Context, films *service.FilmsService) error {
	return films.Reload(context.WithoutCancel(c.Request.Context()))
}

func newFilmsResponse(st model.State) filmsResponse {
	resp := filmsResponse{
		Code:    http.StatusOK,
		Data:    st.Films,
		Loading: st.Loading,
		Source:  st.Source,
	}
	if st.Err != nil {
		resp.Error = st.Err.Error()
	}
	return resp
}

// GetFilms returns the current films state
// GET /api/v1/films
func (h *FilmsHandler) GetFilms(c *gin.Context) {
	st := h.films.State()
	markState(c, st)
	c.JSON(http.StatusOK, newFilmsResponse(st))
}

// GetFilm returns one film by id
// GET /api/v1/films/:id
func (h *FilmsHandler) GetFilm(c *gin.Context) {
	id := c.Param("id")
	film, ok := h.films.Find(id)
	if !ok {
		c.JSON(http.StatusNotFound, model.APIResponse{
			Code:  http.StatusNotFound,
			Error: "film " + id + " not found",
		})
		return
	}

	st := h.films.State()
	markState(c, st)
	c.JSON(http.StatusOK, model.APIResponse{
		Code:   http.StatusOK,
		Data:   film,
		Source: st.Source,
	})
}

// ReloadFilms drops the cache and refetches, then returns the new state.
// A failed fetch still answers 200 with the error in the body, like the view does.
// POST /api/v1/films/reload
func (h *FilmsHandler) ReloadFilms(c *gin.Context) {
	if err := detachedReload(c, h.films); err != nil {
		log.Warn().Err(err).Msg("Reload finished with error")
	}
	st := h.films.State()
	markState(c, st)
	c.JSON(http.StatusOK, newFilmsResponse(st))
}
