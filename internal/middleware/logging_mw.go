package middleware

import (
	"time"

	"motor_rental/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const TraceIDHeader = "X-Trace-ID"

// TraceID attaches a child logger carrying the request's trace id to the
// request context and echoes the id back in the response.
func TraceID(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		child := l.GetChildLogger()
		child.UpdateContext(func(zc zerolog.Context) zerolog.Context {
			return zc.Str("trace_id", traceID)
		})
		c.Request = c.Request.WithContext(child.WithContext(c.Request.Context()))

		c.Header(TraceIDHeader, traceID)
		c.Next()
	}
}

// RequestLogger writes one line per request after the chain finishes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		uri := c.Request.RequestURI
		method := c.Request.Method

		c.Next()

		log := logger.FromContext(c.Request.Context())
		evt := log.Info()
		if len(c.Errors) > 0 {
			evt = log.Warn().Str("errors", c.Errors.String())
		}
		evt.Str("uri", uri).
			Str("method", method).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Int("size", c.Writer.Size()).
			Str("client_ip", c.ClientIP()).
			Send()
	}
}
