package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/isncsci-mcp-server/internal/api"
	"github.com/isncsci-mcp-server/internal/config"
	"github.com/isncsci-mcp-server/internal/service"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := config.NewLogger(cfg.Logging)
	logger.Infof("Starting ISNCSCI classifier API on %s:%d", cfg.Server.Host, cfg.Server.Port)

	classifier, err := service.NewClassifierService(logger, cfg.Cache)
	if err != nil {
		log.Fatalf("Failed to create classifier: %v", err)
	}

	server := api.NewServer(configManager, classifier, logger)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
