// Package mcp exposes the classifier as Model Context Protocol tools
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/isncsci-mcp-server/internal/config"
	"github.com/isncsci-mcp-server/internal/domain"
	"github.com/isncsci-mcp-server/internal/service"
	"github.com/isncsci-mcp-server/internal/version"
)

const (
	serverName = "isncsci-mcp-server"

	toolClassifyExam  = "classify_exam"
	toolSummarizeExam = "summarize_exam"
	toolListLevels    = "list_levels"
)

// Server is the MCP server. It needs no external services.
type Server struct {
	config     *config.LiteConfig
	mcpServer  *mcp.Server
	classifier *service.ClassifierService
	logger     *logrus.Logger
}

// ServerOption is a functional option for Server.
type ServerOption func(*Server) error

// WithLogger sets a custom logger.
func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.logger = logger
		return nil
	}
}

// WithClassifier sets a custom classifier service.
func WithClassifier(classifier *service.ClassifierService) ServerOption {
	return func(s *Server) error {
		s.classifier = classifier
		return nil
	}
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.LiteConfig, opts ...ServerOption) (*Server, error) {
	server := &Server{
		config: cfg,
		logger: config.NewLogger(cfg.LoggingConfig()),
	}

	for _, opt := range opts {
		if err := opt(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.classifier == nil {
		classifier, err := service.NewClassifierService(server.logger, domain.CacheConfig{
			Enabled:  cfg.CacheEnabled,
			MaxItems: cfg.CacheMaxItems,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create classifier service: %w", err)
		}
		server.classifier = classifier
	}

	server.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: version.Version,
	}, nil)
	server.registerTools()

	server.logger.Info("MCP server initialized")
	return server, nil
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        toolClassifyExam,
		Description: "Classify an ISNCSCI exam: ASIA Impairment Scale, neurological, sensory and motor levels, zones of partial preservation and all sensory and motor totals, both formatted and raw.",
	}, s.handleClassifyExam)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        toolSummarizeExam,
		Description: "Classify an ISNCSCI exam and return only the formatted summary worksheet values.",
	}, s.handleSummarizeExam)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        toolListLevels,
		Description: "List the neurological levels from C1 to S4_5 with their key-muscle flags.",
	}, s.handleListLevels)

	s.logger.WithField("tool_count", 3).Debug("Registered MCP tools")
}

// MCPServer returns the underlying SDK server
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

// Start runs the server over the configured transport until ctx is cancelled
// or the client disconnects
func (s *Server) Start(ctx context.Context) error {
	if s.config.Transport != "" && s.config.Transport != "stdio" {
		return fmt.Errorf("unsupported transport %q", s.config.Transport)
	}

	s.logger.WithField("transport", "stdio").Info("Starting ISNCSCI MCP server")

	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	s.logger.Info("MCP server stopped")
	return nil
}
