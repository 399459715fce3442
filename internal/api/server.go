package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/isncsci-mcp-server/internal/domain"
	"github.com/isncsci-mcp-server/internal/loader"
	"github.com/isncsci-mcp-server/internal/middleware"
	"github.com/isncsci-mcp-server/internal/service"
)

const defaultMaxBodyBytes = 1 << 20

// Server represents the HTTP server
type Server struct {
	configManager domain.ConfigManager
	classifier    *service.ClassifierService
	logger        *logrus.Logger
	router        *gin.Engine
	server        *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(configManager domain.ConfigManager, classifier *service.ClassifierService, logger *logrus.Logger) *Server {
	cfg := configManager.GetConfig()

	// Set Gin mode based on environment
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.AuditLogger(logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS())
	if rl := cfg.RateLimit; rl.Enabled {
		router.Use(middleware.NewRateLimiter(rl.RequestsPerSecond, rl.Burst).Middleware())
	}
	router.Use(middleware.RequestTimeout(cfg.MCP.RequestTimeout))

	server := &Server{
		configManager: configManager,
		classifier:    classifier,
		logger:        logger,
		router:        router,
	}

	server.setupRoutes()

	return server
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if cfg.TLSEnabled {
			err = s.server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	s.logger.WithFields(logrus.Fields{
		"addr": addr,
		"tls":  cfg.TLSEnabled,
	}).Info("HTTP server listening")

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	<-errCh

	s.logger.Info("HTTP server stopped")
	return nil
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/levels", s.handleLevels)
		v1.POST("/classify", s.handleClassify)
		v1.POST("/summary", s.handleSummary)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   s.configManager.GetConfig().MCP.ServerVersion,
		"cache":     s.classifier.CacheStats(),
	})
}

func (s *Server) handleLevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"levels": domain.ChainLevels()})
}

func (s *Server) handleClassify(c *gin.Context) {
	req, ok := s.bindExam(c)
	if !ok {
		return
	}

	resp, err := s.classifier.Classify(c.Request.Context(), req)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	resp.RequestID = c.GetString(middleware.CorrelationIDKey)

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSummary(c *gin.Context) {
	req, ok := s.bindExam(c)
	if !ok {
		return
	}

	summary, err := s.classifier.Summarize(c.Request.Context(), req)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// bindExam reads the body in the format named by Content-Type. JSON is the
// default.
func (s *Server) bindExam(c *gin.Context) (*domain.ExamRequest, bool) {
	format, err := formatFromContentType(c.GetHeader("Content-Type"))
	if err != nil {
		s.abortWithError(c, domain.NewMCPError(domain.ErrInvalidInput, "Unsupported content type", err.Error(), ""))
		return nil, false
	}

	maxBytes := s.configManager.GetServerConfig().MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBodyBytes
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, domain.NewMCPError(
				domain.ErrInvalidInput, "Request body too large", err.Error(), c.GetString(middleware.CorrelationIDKey)))
			return nil, false
		}
		s.abortWithError(c, domain.NewMCPError(domain.ErrInvalidInput, "Failed to read request body", err.Error(), ""))
		return nil, false
	}

	req, err := loader.Decode(body, format)
	if err != nil {
		s.abortWithError(c, err)
		return nil, false
	}

	return req, true
}

func formatFromContentType(contentType string) (loader.Format, error) {
	if contentType == "" {
		return loader.FormatJSON, nil
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", err
	}

	switch mediaType {
	case "application/json":
		return loader.FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return loader.FormatYAML, nil
	case "application/xml", "text/xml":
		return loader.FormatXML, nil
	}
	return "", fmt.Errorf("unsupported media type %q", mediaType)
}

// abortWithError writes err as an MCPError with a status matching its code
func (s *Server) abortWithError(c *gin.Context, err error) {
	requestID := c.GetString(middleware.CorrelationIDKey)
	code := domain.ErrorCode(err)

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, domain.NewMCPError(
			domain.ErrClassification, "Request cancelled", err.Error(), requestID))
		return
	}

	status := http.StatusInternalServerError
	switch code {
	case domain.ErrValidation, domain.ErrInvalidInput, domain.ErrExamParsing:
		status = http.StatusBadRequest
	case domain.ErrRateLimit:
		status = http.StatusTooManyRequests
	}

	resp := toMCPError(err, code)
	resp.RequestID = requestID

	if status >= http.StatusInternalServerError {
		s.logger.WithError(err).WithField("correlation_id", requestID).Error("Request failed")
	}

	c.AbortWithStatusJSON(status, resp)
}

func toMCPError(err error, code string) *domain.MCPError {
	var mcpErr *domain.MCPError
	if errors.As(err, &mcpErr) {
		copied := *mcpErr
		return &copied
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return domain.NewMCPError(code, validationErr.Message, "field: "+validationErr.Field, "")
	}

	return domain.NewMCPError(code, "Internal server error", err.Error(), "")
}
