package handler

import (
	"time"

	"ghibli-films-service/internal/middleware"
	"ghibli-films-service/internal/repository"
	"ghibli-films-service/internal/service"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the browsing UI and JSON routes; metrics may be nil
func NewRouter(films *service.FilmsService, cache *repository.FilmCache, metrics *repository.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logging())
	if metrics != nil {
		r.Use(middleware.Metrics(metrics))
	}
	r.Use(middleware.CORS())
	r.SetHTMLTemplate(Templates)

	pages := NewPagesHandler(films)
	filmsHandler := NewFilmsHandler(films)
	adminHandler := NewAdminHandler(films, cache, metrics)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	// Pages
	r.GET("/", pages.Home)
	r.GET("/characters", pages.List)
	r.GET("/characters/:id", pages.Detail)
	r.POST("/characters/reload", pages.Reload)
	r.GET("/contact", pages.Static("Contact"))
	r.GET("/game", pages.Static("Game"))

	api := r.Group("/api/v1")
	{
		api.GET("/status", adminHandler.GetStatus)
		api.GET("/films", filmsHandler.GetFilms)
		api.GET("/films/:id", filmsHandler.GetFilm)
		api.POST("/films/reload", filmsHandler.ReloadFilms)
		api.GET("/analytics", adminHandler.GetAnalytics)
		api.DELETE("/analytics", adminHandler.ResetAnalytics)
	}

	return r
}
