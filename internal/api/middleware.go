// ABOUTME: Gin middleware: request ids, zerolog access logging, panic recovery and bearer auth.
// ABOUTME: Auth stores the resolved owner id on the context for handlers.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/harperreed/liftlog/internal/apperr"
	"github.com/harperreed/liftlog/internal/identity"
)

const (
	// HeaderRequestID carries the request id in and out.
	HeaderRequestID = "X-Request-ID"

	ctxRequestID = "request_id"
	ctxCaller    = "caller"
	ctxLogger    = "logger"
)

// RequestID assigns each request a ULID unless the client sent one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = ulid.Make().String()
		}
		c.Set(ctxRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// AccessLog logs one line per request and exposes a request-scoped logger.
func AccessLog(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		log := base.With().Str("request_id", c.GetString(ctxRequestID)).Logger()
		c.Set(ctxLogger, log)

		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		if status >= http.StatusInternalServerError {
			ev = log.Error()
		} else if status >= http.StatusBadRequest {
			ev = log.Warn()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("caller", c.GetString(ctxCaller)).
			Msg("request")
	}
}

// Recovery turns panics into 500 responses.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		requestLogger(c).Error().Interface("panic", recovered).Msg("handler panicked")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error: "internal error",
			Code:  apperr.KindInternal.String(),
		})
	})
}

// Auth resolves the bearer token to an owner id or rejects the request.
func Auth(guard identity.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := identity.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			respondError(c, err, false)
			return
		}
		owner, err := guard.Resolve(c.Request.Context(), token)
		if err != nil {
			respondError(c, err, false)
			return
		}
		c.Set(ctxCaller, owner)
		c.Next()
	}
}

func caller(c *gin.Context) string {
	return c.GetString(ctxCaller)
}

func requestLogger(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(ctxLogger); ok {
		if l, ok := v.(zerolog.Logger); ok {
			return &l
		}
	}
	nop := zerolog.Nop()
	return &nop
}
