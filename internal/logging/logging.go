package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/nextinvision/recruitment-os-sub001/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const ginRequestIDKey = "request_id"

// RequestIDHeader is the header carrying (or receiving) the request ID.
const RequestIDHeader = "X-Request-ID"

// Setup configures the global logrus logger from config: level, format and
// an optional rotating file output.
func Setup(cfg config.LoggingConfig) {
	level, errParse := log.ParseLevel(strings.TrimSpace(cfg.Level))
	if errParse != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	if file := strings.TrimSpace(cfg.File); file != "" {
		rotator := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		log.SetOutput(io.MultiWriter(os.Stdout, rotator))
		return
	}
	log.SetOutput(os.Stdout)
}

// SetGinRequestID stores a request ID on the gin context.
func SetGinRequestID(c *gin.Context, requestID string) {
	if c == nil {
		return
	}
	c.Set(ginRequestIDKey, requestID)
}

// GinRequestID returns the request ID stored on the gin context, if any.
func GinRequestID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if value, ok := c.Get(ginRequestIDKey); ok {
		if id, okStr := value.(string); okStr {
			return id
		}
	}
	return ""
}

// RequestID is a gin middleware that assigns each request an ID (reusing the
// inbound header when present) and echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		SetGinRequestID(c, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// AccessLog is a gin middleware that logs one line per request.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"request_id": GinRequestID(c),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
		}).Info("http request")
	}
}
