// Package logging builds the application's logrus logger and adapts it for
// the libraries that bring their own logger interfaces.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"

	"taskapi/internal/config"
)

// New creates a logger configured from cfg.
func New(cfg *config.Config) *logrus.Logger {
	return NewWithOutput(cfg, os.Stdout)
}

// NewWithOutput is like New but writes to out.
func NewWithOutput(cfg *config.Config, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	if cfg.IsDevelopment() && cfg.LogLevel == "" {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	if cfg.LogFormat == "json" || !cfg.IsDevelopment() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// GormLogger routes gorm's SQL logging through logrus.
func GormLogger(logger *logrus.Logger) gormlogger.Interface {
	level := gormlogger.Warn
	switch {
	case logger.IsLevelEnabled(logrus.DebugLevel):
		level = gormlogger.Info
	case !logger.IsLevelEnabled(logrus.WarnLevel):
		level = gormlogger.Error
	}
	return gormlogger.New(logger, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
