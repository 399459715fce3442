package config

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/isncsci-mcp-server/internal/domain"
)

// NewLogger builds a logrus logger from logging configuration. Unknown levels
// fall back to info.
func NewLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	if strings.EqualFold(cfg.Format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.SetOutput(outputFor(cfg.Output))

	return logger
}

// LoggingConfig returns the lite configuration's logging settings. The MCP
// binary speaks the protocol on stdout, so it always logs to stderr.
func (c *LiteConfig) LoggingConfig() domain.LoggingConfig {
	return domain.LoggingConfig{
		Level:  c.LogLevel,
		Format: c.LogFormat,
		Output: "stderr",
	}
}

func outputFor(name string) io.Writer {
	if strings.EqualFold(name, "stderr") {
		return os.Stderr
	}
	return os.Stdout
}
