package handler

import (
	"context"
	"net/http"

	"ghibli-films-service/internal/repository"
	"ghibli-films-service/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles status and analytics endpoints
type AdminHandler struct {
	films   *service.FilmsService
	cache   *repository.FilmCache
	metrics *repository.Metrics
}

// NewAdminHandler creates a new AdminHandler; metrics may be nil
func NewAdminHandler(films *service.FilmsService, cache *repository.FilmCache, metrics *repository.Metrics) *AdminHandler {
	return &AdminHandler{
		films:   films,
		cache:   cache,
		metrics: metrics,
	}
}

// GetStatus returns service status
// GET /api/v1/status
func (h *AdminHandler) GetStatus(c *gin.Context) {
	st := h.films.State()
	resp := gin.H{
		"status":          "ok",
		"films":           len(st.Films),
		"loading":         st.Loading,
		"source":          st.Source,
		"cache_key":       h.cache.Key(),
		"cache_ttl":       h.cache.TTL().String(),
		"metrics_enabled": h.metrics != nil,
	}
	if p, ok := h.cache.Read(c.Request.Context()); ok {
		resp["cache_saved_at"] = p.SavedAt
		resp["cache_fresh"] = h.cache.IsFresh(p)
	}
	c.JSON(http.StatusOK, resp)
}

// GetAnalytics returns view and fetch analytics
// GET /api/v1/analytics
func (h *AdminHandler) GetAnalytics(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"code":  404,
			"error": "metrics disabled",
		})
		return
	}

	stats, err := h.metrics.GetOverallStats(context.Background())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  500,
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": stats,
	})
}

// ResetAnalytics resets all analytics data
// DELETE /api/v1/analytics
func (h *AdminHandler) ResetAnalytics(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"code":  404,
			"error": "metrics disabled",
		})
		return
	}

	if err := h.metrics.ResetMetrics(context.Background()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  500,
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "metrics reset",
	})
}
