package config

import (
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestDefaultLiteConfig(t *testing.T) {
	cfg := DefaultLiteConfig()

	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, 1000, cfg.CacheMaxItems)
	assert.Equal(t, "stdio", cfg.Transport)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadLiteConfig_Defaults(t *testing.T) {
	clearEnvVars(t)

	cfg := LoadLiteConfig()

	assert.Equal(t, 1000, cfg.CacheMaxItems)
	assert.Equal(t, "stdio", cfg.Transport)
}

func TestLoadLiteConfig_EnvironmentOverrides(t *testing.T) {
	clearEnvVars(t)

	os.Setenv("ISNCSCI_CACHE_ENABLED", "false")
	os.Setenv("ISNCSCI_CACHE_MAX_ITEMS", "500")
	os.Setenv("ISNCSCI_TRANSPORT", "STDIO")
	os.Setenv("ISNCSCI_REQUEST_TIMEOUT", "5s")
	os.Setenv("ISNCSCI_LOG_LEVEL", "debug")
	os.Setenv("ISNCSCI_LOG_FORMAT", "text")

	defer clearEnvVars(t)

	cfg := LoadLiteConfig()

	assert.False(t, cfg.CacheEnabled)
	assert.Equal(t, 500, cfg.CacheMaxItems)
	assert.Equal(t, "stdio", cfg.Transport)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadLiteConfig_InvalidValuesKeepDefaults(t *testing.T) {
	clearEnvVars(t)

	os.Setenv("ISNCSCI_CACHE_MAX_ITEMS", "-3")
	os.Setenv("ISNCSCI_REQUEST_TIMEOUT", "soon")
	os.Setenv("ISNCSCI_CACHE_ENABLED", "maybe")

	defer clearEnvVars(t)

	cfg := LoadLiteConfig()

	assert.Equal(t, 1000, cfg.CacheMaxItems)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.CacheEnabled)
}

func TestLiteConfig_LoggingConfig(t *testing.T) {
	cfg := &LiteConfig{LogLevel: "warn", LogFormat: "text"}

	logging := cfg.LoggingConfig()
	assert.Equal(t, "stderr", logging.Output)

	logger := NewLogger(logging)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
	assert.Equal(t, os.Stderr, logger.Out)
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	vars := []string{
		"ISNCSCI_CACHE_ENABLED",
		"ISNCSCI_CACHE_MAX_ITEMS",
		"ISNCSCI_TRANSPORT",
		"ISNCSCI_REQUEST_TIMEOUT",
		"ISNCSCI_LOG_LEVEL",
		"ISNCSCI_LOG_FORMAT",
	}
	for _, v := range vars {
		os.Unsetenv(v)
	}
}
