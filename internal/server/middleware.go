package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/matthieukhl/orders/internal/apperr"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	jsonContentType = "application/json"
)

// requestID propagates the caller's X-Request-ID or assigns a fresh one
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}

		log.LogAttrs(c.Request.Context(), level, "request",
			slog.String(requestIDKey, c.GetString(requestIDKey)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

// requireJSON rejects body-carrying requests that do not declare a JSON
// content type, before anything reads the body
func requireJSON(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.ContentType() == jsonContentType {
			c.Next()
			return
		}

		got := c.GetHeader("Content-Type")
		if got == "" {
			log.Warn("no Content-Type specified", slog.String("path", c.Request.URL.Path))
		} else {
			log.Warn("invalid Content-Type", slog.String("content_type", got))
		}
		abortWithError(c, &apperr.UnsupportedMediaTypeError{Want: jsonContentType, Got: got}, log)
	}
}

func recoverJSON(log *slog.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		log.Error("panic while serving request",
			slog.String(requestIDKey, c.GetString(requestIDKey)),
			slog.Any("panic", recovered),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}
