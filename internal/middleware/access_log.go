package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/quiz-cms-backend/internal/response"
	"github.com/rs/zerolog"
)

// AccessLog writes one line per request. 5xx replies log at error level with
// whatever the handler attached through c.Error.
func AccessLog(log zerolog.Logger) gin.HandlerFunc {
	log = log.With().Str("component", "http").Logger()

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		evt := log.Info()
		switch {
		case status >= 500:
			evt = log.Error()
		case status >= 400:
			evt = log.Warn()
		}
		if len(c.Errors) > 0 {
			evt = evt.Str("errors", c.Errors.String())
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		evt.Str("request_id", response.RequestID(c)).
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}
