package middleware

import (
	"time"

	"github.com/campusconnect-nz/campus-api/internal/constant"
	"github.com/campusconnect-nz/campus-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoggingMiddleware provides request logging functionality
type LoggingMiddleware struct {
	config *MiddlewareConfig
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(config *MiddlewareConfig) *LoggingMiddleware {
	return &LoggingMiddleware{
		config: config,
	}
}

// RequestLogger logs request start and completion, flags slow requests and
// records any errors handlers attached with c.Error.
func (l *LoggingMiddleware) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.config.LoggingEnabled {
			c.Next()
			return
		}

		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(constant.RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		reqLogger := l.createRequestLogger(c, requestID)
		reqLogger.Debug("Request started",
			zap.String("query", c.Request.URL.RawQuery),
			zap.String("referer", c.GetHeader("Referer")))

		c.Next()

		duration := time.Since(start)

		// claims are only known after the auth gate ran
		if claims, ok := ClaimsFrom(c); ok {
			reqLogger = logger.WithUser(reqLogger, claims.UserID)
		}

		reqLogger.Info("Request completed",
			zap.Int("status", c.Writer.Status()),
			zap.Int("size", c.Writer.Size()),
			zap.Duration("duration", duration))

		for _, err := range c.Errors {
			reqLogger.Error("Request error", zap.Error(err.Err))
		}

		if duration > l.config.SlowRequestTime {
			reqLogger.Warn("Slow request detected", zap.Duration("duration", duration))
		}
	}
}

// createRequestLogger creates a logger with request context
func (l *LoggingMiddleware) createRequestLogger(c *gin.Context, requestID string) *zap.Logger {
	fields := []zap.Field{
		zap.String("requestId", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	}

	if l.config.LogIPAddress {
		fields = append(fields, zap.String("ip", getClientIP(c)))
	}

	if l.config.LogUserAgent {
		fields = append(fields, zap.String("userAgent", c.GetHeader("User-Agent")))
	}

	return logger.WithCorrelationID(zap.L().With(fields...), CorrelationID(c.Request.Context()))
}
