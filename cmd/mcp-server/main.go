package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/isncsci-mcp-server/internal/config"
	"github.com/isncsci-mcp-server/internal/mcp"
)

func main() {
	// Environment-only configuration; stdout belongs to the protocol
	cfg := config.LoadLiteConfig()
	log.SetOutput(os.Stderr)

	mcpServer, err := mcp.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	if err := mcpServer.Start(ctx); err != nil {
		log.Fatalf("MCP server failed: %v", err)
	}
}
