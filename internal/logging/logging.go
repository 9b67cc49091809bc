// Package logging builds the service loggers on charmbracelet/log and
// provides the gin request logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"fontpair/pkg/utils"
)

func parseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// New returns a root logger writing to w (stderr when nil). JSON output is
// used when format is "json" or the environment is production.
func New(cfg utils.LogConfig, w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	formatter := log.TextFormatter
	if strings.EqualFold(cfg.Format, "json") ||
		(cfg.Format == "" && strings.EqualFold(cfg.Environment, "production")) {
		formatter = log.JSONFormatter
	}
	return log.NewWithOptions(w, log.Options{
		Level:           parseLevel(cfg.Level),
		Formatter:       formatter,
		TimeFormat:      time.RFC3339,
		ReportTimestamp: true,
	})
}

// Discard is a logger for tests and quiet CLI paths.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// Middleware logs one line per request: method, path, status, latency.
// 5xx responses log at error level, 4xx at warn.
func Middleware(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		kv := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start).Round(time.Microsecond),
			"client", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}
		switch {
		case status >= 500:
			logger.Error("request", kv...)
		case status >= 400:
			logger.Warn("request", kv...)
		default:
			logger.Debug("request", kv...)
		}
	}
}
