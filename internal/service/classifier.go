package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/isncsci-mcp-server/internal/domain"
	"github.com/isncsci-mcp-server/internal/loader"
	"github.com/isncsci-mcp-server/pkg/isncsci"
)

var _ domain.ExamClassifier = (*ClassifierService)(nil)

// ClassifierService classifies exam requests and memoizes the results
type ClassifierService struct {
	logger *logrus.Logger
	cache  *lru.Cache[string, *isncsci.Totals] // nil when caching is disabled

	hits   atomic.Int64
	misses atomic.Int64
}

// CacheStats reports result cache usage
type CacheStats struct {
	Enabled bool  `json:"enabled"`
	Size    int   `json:"size"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// NewClassifierService creates a new classifier service
func NewClassifierService(logger *logrus.Logger, cfg domain.CacheConfig) (*ClassifierService, error) {
	s := &ClassifierService{logger: logger}

	if cfg.Enabled {
		cache, err := lru.New[string, *isncsci.Totals](cfg.MaxItems)
		if err != nil {
			return nil, fmt.Errorf("failed to create result cache: %w", err)
		}
		s.cache = cache
	}

	return s, nil
}

// Classify converts the request into an exam, classifies it and returns the
// summary together with the raw totals
func (s *ClassifierService) Classify(ctx context.Context, req *domain.ExamRequest) (*domain.ClassificationResponse, error) {
	startTime := time.Now()
	requestID := uuid.New().String()

	totals, cached, err := s.totals(ctx, req)
	if err != nil {
		s.logger.WithError(err).WithField("request_id", requestID).Warn("Exam classification failed")
		return nil, err
	}

	resp := &domain.ClassificationResponse{
		RequestID:      requestID,
		Summary:        isncsci.Summarize(totals),
		Totals:         domain.NewTotalsView(totals),
		Cached:         cached,
		ProcessingTime: time.Since(startTime).String(),
	}

	s.logger.WithFields(logrus.Fields{
		"request_id":      requestID,
		"asia":            resp.Summary.AsiaImpairmentScale,
		"nli":             resp.Summary.NeurologicalLevelOfInjury,
		"cached":          cached,
		"processing_time": resp.ProcessingTime,
	}).Info("Exam classification completed")

	return resp, nil
}

// Summarize classifies the request and returns only the formatted summary
func (s *ClassifierService) Summarize(ctx context.Context, req *domain.ExamRequest) (*isncsci.Summary, error) {
	totals, _, err := s.totals(ctx, req)
	if err != nil {
		return nil, err
	}

	summary := isncsci.Summarize(totals)
	return &summary, nil
}

// CacheStats returns the current cache counters
func (s *ClassifierService) CacheStats() CacheStats {
	stats := CacheStats{Hits: s.hits.Load(), Misses: s.misses.Load()}
	if s.cache != nil {
		stats.Enabled = true
		stats.Size = s.cache.Len()
	}
	return stats
}

func (s *ClassifierService) totals(ctx context.Context, req *domain.ExamRequest) (*isncsci.Totals, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	exam, err := loader.BuildExam(req)
	if err != nil {
		return nil, false, err
	}

	if s.cache == nil {
		return isncsci.Classify(exam), false, nil
	}

	key, err := Fingerprint(req)
	if err != nil {
		return nil, false, domain.NewMCPError(domain.ErrInternalServer, "failed to fingerprint exam", err.Error(), "")
	}

	if totals, ok := s.cache.Get(key); ok {
		s.hits.Add(1)
		s.logger.WithField("fingerprint", key[:12]).Debug("Classification served from cache")
		return totals, true, nil
	}
	s.misses.Add(1)

	totals := isncsci.Classify(exam)
	s.cache.Add(key, totals)

	return totals, false, nil
}

// Fingerprint returns a stable hash of a request. Requests with the same
// fields in the same order share a fingerprint.
func Fingerprint(req *domain.ExamRequest) (string, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
