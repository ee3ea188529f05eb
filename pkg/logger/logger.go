package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

// InitLogger initializes the structured logger with proper configuration
func InitLogger(logLevel, logFormat string) *logrus.Logger {
	log := logrus.New()

	// Override with environment if not provided
	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
		if logLevel == "" {
			logLevel = "info"
		}
	}
	if logFormat == "" {
		logFormat = os.Getenv("LOG_FORMAT")
	}

	if level, err := logrus.ParseLevel(strings.ToLower(logLevel)); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", logLevel).Warn("Invalid LOG_LEVEL, using INFO")
	}

	if strings.ToLower(logFormat) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	log.SetOutput(os.Stdout)

	Logger = log

	return log
}

// GetLogger returns the global logger instance
func GetLogger() *logrus.Logger {
	if Logger == nil {
		return InitLogger("info", "")
	}
	return Logger
}

// Discard returns a logger that drops everything, for tests and library callers
// that do not want pipeline output.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// WithRun creates a logger with pipeline run context
func WithRun(log *logrus.Logger, runID string, season int) *logrus.Entry {
	return log.WithFields(logrus.Fields{
		"run_id": runID,
		"season": season,
	})
}

// WithSource creates a logger scoped to one projection source
func WithSource(entry *logrus.Entry, source string) *logrus.Entry {
	return entry.WithField("source", source)
}
