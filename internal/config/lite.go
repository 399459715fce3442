// Package config provides configuration management for the classifier.
// This file contains the lightweight, environment-only configuration used by
// the MCP binary.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// LiteConfig is a simplified configuration for standalone operation.
// It reads nothing but environment variables.
type LiteConfig struct {
	// Cache settings
	CacheEnabled  bool // Memoize classification results
	CacheMaxItems int  // Maximum entries in the result cache

	// Transport settings
	Transport      string        // Transport type: stdio
	RequestTimeout time.Duration // Per tool call

	// Logging
	LogLevel  string // Log level: debug, info, warn, error
	LogFormat string // Log format: json, text
}

// DefaultLiteConfig returns a configuration with sensible defaults.
func DefaultLiteConfig() *LiteConfig {
	return &LiteConfig{
		CacheEnabled:   true,
		CacheMaxItems:  1000,
		Transport:      "stdio",
		RequestTimeout: 30 * time.Second,
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

// LoadLiteConfig loads configuration from environment variables.
// Falls back to defaults if not set.
func LoadLiteConfig() *LiteConfig {
	cfg := DefaultLiteConfig()

	// Cache settings
	if v := os.Getenv("ISNCSCI_CACHE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.CacheEnabled = b
		}
	}
	if v := os.Getenv("ISNCSCI_CACHE_MAX_ITEMS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheMaxItems = n
		}
	}

	// Transport
	if v := os.Getenv("ISNCSCI_TRANSPORT"); v != "" {
		cfg.Transport = strings.ToLower(v)
	}
	if v := os.Getenv("ISNCSCI_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RequestTimeout = d
		}
	}

	// Logging
	if v := os.Getenv("ISNCSCI_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("ISNCSCI_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}

	return cfg
}
