package middleware

import (
	"net/http"
	"time"

	"github.com/pweat/rejestr-prac/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger writes one line per request. Failures a handler attached with
// c.Error are logged on that line at error level; clients only ever see the
// message the handler chose to send.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case len(c.Errors) > 0:
			ev = log.Error().Strs("errors", c.Errors.Errors())
		case status >= http.StatusInternalServerError:
			ev = log.Warn()
		default:
			ev = log.Info()
		}
		ev.Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("route", c.FullPath()).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// Recovery answers a panicking handler with a bare 500 and logs the value.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			log.Error().
				Str("request_id", c.GetString(RequestIDKey)).
				Interface("panic", r).
				Msg("panic recovered")
			c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New("internal server error"))
		}()
		c.Next()
	}
}
