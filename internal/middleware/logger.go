package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tranquility/internal/pkg/apperror"
	"tranquility/internal/pkg/response"
)

const headerRequestID = "X-Request-ID"

// RequestID propagates X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// ErrorLogger logs every request and recovers from panics.
func ErrorLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				event(log.Error(), c, start).
					Err(err).
					Bytes("stack", debug.Stack()).
					Msg("panic")
				response.Error(c, http.StatusInternalServerError, apperror.KindInternal, "Internal server error")
				c.Abort()
				return
			}

			status := c.Writer.Status()
			ev := log.Info()
			switch {
			case status >= http.StatusInternalServerError:
				ev = log.Error()
			case status >= http.StatusBadRequest:
				ev = log.Warn()
			}
			if len(c.Errors) > 0 {
				ev = ev.Str("errors", c.Errors.String())
			}
			event(ev, c, start).Msg("request")
		}()

		c.Next()
	}
}

func event(ev *zerolog.Event, c *gin.Context, start time.Time) *zerolog.Event {
	return ev.
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", c.Writer.Status()).
		Dur("latency", time.Since(start)).
		Str("client_ip", c.ClientIP()).
		Int64("user_id", c.GetInt64(ctxUserID)).
		Str("role", c.GetString(ctxRole)).
		Str("request_id", c.GetString("request_id"))
}
