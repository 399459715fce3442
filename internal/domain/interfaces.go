package domain

import (
	"context"
)

// ExamClassifier classifies exam requests into summaries and totals
type ExamClassifier interface {
	Classify(ctx context.Context, req *ExamRequest) (*ClassificationResponse, error)
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetCacheConfig() *CacheConfig
	GetRateLimitConfig() *RateLimitConfig
	Reload() error
	Validate() error
	IsProduction() bool
	IsDevelopment() bool
}
