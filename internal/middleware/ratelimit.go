package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/isncsci-mcp-server/internal/domain"
)

// maxTrackedClients bounds the number of per-client buckets kept in memory.
// The least recently seen client is evicted first.
const maxTrackedClients = 10000

// RateLimiter hands out one token bucket per client IP
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	clients *lru.Cache[string, *rate.Limiter]
}

// NewRateLimiter creates a limiter allowing rps requests per second per
// client with the given burst
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return newRateLimiter(rps, burst, maxTrackedClients)
}

func newRateLimiter(rps float64, burst, maxClients int) *RateLimiter {
	if maxClients <= 0 {
		maxClients = maxTrackedClients
	}
	// lru.New only fails for a non-positive size
	clients, err := lru.New[string, *rate.Limiter](maxClients)
	if err != nil {
		panic(err)
	}

	return &RateLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		clients: clients,
	}
}

// Allow reports whether the client may make a request now
func (r *RateLimiter) Allow(client string) bool {
	return r.limiter(client).Allow()
}

// Tracked returns the number of clients currently holding a bucket
func (r *RateLimiter) Tracked() int {
	return r.clients.Len()
}

func (r *RateLimiter) limiter(client string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.clients.Get(client)
	if !ok {
		l = rate.NewLimiter(r.limit, r.burst)
		r.clients.Add(client, l)
	}
	return l
}

// Middleware rejects requests beyond the client's rate with 429
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, domain.NewMCPError(
				domain.ErrRateLimit,
				"Too many requests",
				"",
				c.GetString(CorrelationIDKey),
			))
			return
		}
		c.Next()
	}
}
