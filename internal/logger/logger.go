// Package logger builds the logrus instances used across the engine.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a logger for the given level and environment. Production
// emits JSON lines for log shipping; everything else gets colored text. An
// unknown level falls back to info rather than failing startup.
func NewLogger(logLevel, environment string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(logLevel)))
	if err != nil {
		level = logrus.InfoLevel
		logger.Warnf("Unknown log level %q, using info", logLevel)
	}
	logger.SetLevel(level)

	if environment == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	return logger
}
