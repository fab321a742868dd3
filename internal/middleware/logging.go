package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Logging returns a request logging middleware. Handlers that serve the
// films state add its source, size and loading flag to the line.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		logEvent := log.Info()
		if status >= 400 {
			logEvent = log.Warn()
		}
		if status >= 500 {
			logEvent = log.Error()
		}

		logEvent.
			Int("status", status).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("route", c.FullPath()).
			Str("source", c.GetString("cache_source")).
			Int("films", c.GetInt("films_count")).
			Bool("loading", c.GetBool("films_loading")).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}
