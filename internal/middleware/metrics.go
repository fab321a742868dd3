package middleware

import (
	"context"
	"time"

	"ghibli-films-service/internal/model"
	"ghibli-films-service/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Metrics returns a middleware that records view metrics
func Metrics(metrics *repository.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// Unmatched routes are not tracked
		path := c.FullPath()
		if path == "" {
			return
		}

		latency := float64(time.Since(start).Milliseconds())
		cacheHit := c.GetString("cache_source") == model.SourceCache

		if err := metrics.RecordAPICall(context.Background(), path, c.Writer.Status(), latency, cacheHit); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to record metrics")
		}
	}
}
