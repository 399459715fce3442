package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isncsci-mcp-server/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func get(r http.Handler, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSecurityHeaders(t *testing.T) {
	w := get(newRouter(SecurityHeaders()), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestCorrelationID(t *testing.T) {
	var seen string
	r := newRouter(CorrelationID(), func(c *gin.Context) {
		seen = c.GetString(CorrelationIDKey)
		c.Next()
	})

	w := get(r, nil)
	generated := w.Header().Get(CorrelationIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, seen)

	w = get(r, map[string]string{CorrelationIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(CorrelationIDHeader))
	assert.Equal(t, "abc-123", seen)
}

func TestRequestTimeout(t *testing.T) {
	var deadline time.Time
	var ok bool
	r := newRouter(RequestTimeout(time.Second), func(c *gin.Context) {
		deadline, ok = c.Request.Context().Deadline()
		c.Next()
	})

	get(r, nil)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)

	r = newRouter(RequestTimeout(0), func(c *gin.Context) {
		_, ok = c.Request.Context().Deadline()
		c.Next()
	})
	get(r, nil)
	assert.False(t, ok)
}

func TestCORS(t *testing.T) {
	r := newRouter(CORS())

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = get(r, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), CorrelationIDHeader)
}

func TestAuditLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	get(newRouter(CorrelationID(), AuditLogger(logger)), map[string]string{CorrelationIDHeader: "audit-1"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "audit-1", entry["correlation_id"])
	assert.Equal(t, "/ping", entry["path"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
	assert.Equal(t, "info", entry["level"])
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2)
	r := newRouter(CorrelationID(), limiter.Middleware())

	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	assert.Equal(t, http.StatusOK, get(r, nil).Code)

	w := get(r, nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var body domain.MCPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, domain.ErrRateLimit, body.Code)
	assert.Equal(t, w.Header().Get(CorrelationIDHeader), body.RequestID)

	// buckets are per client
	assert.True(t, limiter.Allow("203.0.113.9"))
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	limiter := newRateLimiter(0.001, 1, 3)

	assert.True(t, limiter.Allow("198.51.100.1"))
	assert.False(t, limiter.Allow("198.51.100.1"))

	for _, ip := range []string{"198.51.100.2", "198.51.100.3", "198.51.100.4", "198.51.100.5"} {
		assert.True(t, limiter.Allow(ip))
	}
	assert.Equal(t, 3, limiter.Tracked())

	// the evicted client starts over with a fresh bucket
	assert.True(t, limiter.Allow("198.51.100.1"))
	assert.False(t, limiter.Allow("198.51.100.5"))
	assert.Equal(t, 3, limiter.Tracked())
}
