package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/GregMSThompson/budget-report/pkg/logger"
)

const (
	limiterIdleTTL      = 10 * time.Minute
	limiterCleanupEvery = 5 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimitMiddleware applies a token bucket per session, falling back to
// the client IP for requests without a session cookie.
type rateLimitMiddleware struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	clockNow func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimitMiddleware allows perSecond requests per client with the given
// burst and starts the idle-entry janitor. Call Stop on shutdown.
func NewRateLimitMiddleware(perSecond float64, burst int) *rateLimitMiddleware {
	m := &rateLimitMiddleware{
		clients:  make(map[string]*clientLimiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		clockNow: time.Now,
		stop:     make(chan struct{}),
	}
	go m.janitor()
	return m
}

func (m *rateLimitMiddleware) janitor() {
	ticker := time.NewTicker(limiterCleanupEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.stop:
			return
		}
	}
}

func (m *rateLimitMiddleware) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.clockNow().Add(-limiterIdleTTL)
	for key, c := range m.clients {
		if c.lastSeen.Before(cutoff) {
			delete(m.clients, key)
		}
	}
}

func (m *rateLimitMiddleware) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *rateLimitMiddleware) allow(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clockNow()
	c, ok := m.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// RateLimit must run after Session so the session id is available.
func (m *rateLimitMiddleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := SessionID(r.Context())
		if key == "" {
			key = clientIP(r)
		}
		if !m.allow(key) {
			logger.FromContext(r.Context()).Warn("rate limit exceeded")
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"code":"rate_limited","message":"Too many requests"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
