package middleware

import (
	"time"

	"prd-workspace/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const HeaderRequestID = "X-Request-ID"

// RequestLogger logs one line per request and propagates X-Request-ID.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, requestID)

		c.Next()

		reqLog := log.HTTPLogger(c.Request.Method, c.Request.URL.Path, requestID)
		status := c.Writer.Status()

		var event *zerolog.Event
		switch {
		case status >= 500:
			event = reqLog.Error("request failed")
		case status >= 400:
			event = reqLog.Warn("request rejected")
		default:
			event = reqLog.Info("request completed")
		}

		if username := c.GetString(ContextUsername); username != "" {
			event = event.Str("editor", username)
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Send()
	}
}
