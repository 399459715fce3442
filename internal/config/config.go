package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/isncsci-mcp-server/internal/domain"
)

// Manager implements the ConfigManager interface using Viper
type Manager struct {
	v           *viper.Viper
	configPaths []string
	config      *domain.Config
}

// NewManager creates a new configuration manager. Extra paths are searched
// for config.yaml before the default locations.
func NewManager(configPaths ...string) (*Manager, error) {
	m := &Manager{configPaths: configPaths}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig() error {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range m.configPaths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/isncsci/")

	v.SetEnvPrefix("ISNCSCI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// A missing config file is fine: defaults and environment still apply.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.v = v
	m.config = config
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.tls_enabled", false)
	v.SetDefault("server.cert_file", "")
	v.SetDefault("server.key_file", "")

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_items", 1000)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	// Rate limit defaults
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 20.0)
	v.SetDefault("rate_limit.burst", 40)

	// MCP defaults
	v.SetDefault("mcp.server_name", "isncsci-mcp-server")
	v.SetDefault("mcp.server_version", "v1.0.0")
	v.SetDefault("mcp.transport_type", "stdio")
	v.SetDefault("mcp.request_timeout", "30s")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// GetCacheConfig returns result cache configuration
func (m *Manager) GetCacheConfig() *domain.CacheConfig {
	return &m.config.Cache
}

// GetRateLimitConfig returns rate limit configuration
func (m *Manager) GetRateLimitConfig() *domain.RateLimitConfig {
	return &m.config.RateLimit
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}
	if config.Server.TLSEnabled && (config.Server.CertFile == "" || config.Server.KeyFile == "") {
		return fmt.Errorf("TLS requires both cert_file and key_file")
	}

	if config.Cache.Enabled && config.Cache.MaxItems <= 0 {
		return fmt.Errorf("cache max_items must be positive, got %d", config.Cache.MaxItems)
	}

	if config.RateLimit.Enabled {
		if config.RateLimit.RequestsPerSecond <= 0 {
			return fmt.Errorf("rate limit requests_per_second must be positive")
		}
		if config.RateLimit.Burst <= 0 {
			return fmt.Errorf("rate limit burst must be positive")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	switch strings.ToLower(config.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", config.Logging.Format)
	}

	if config.MCP.TransportType != "stdio" {
		return fmt.Errorf("unsupported MCP transport: %s", config.MCP.TransportType)
	}

	return nil
}

// IsProduction returns true if running in production mode
func (m *Manager) IsProduction() bool {
	return strings.ToLower(m.v.GetString("environment")) == "production"
}

// IsDevelopment returns true if running in development mode
func (m *Manager) IsDevelopment() bool {
	env := strings.ToLower(m.v.GetString("environment"))
	return env == "development" || env == "dev" || env == ""
}
