package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"wasata/internal/common"
	"wasata/internal/http/metrics"
	"wasata/internal/http/response"
	"wasata/internal/observability"
)

type Limiter interface {
	Allow(key string, limit int, window time.Duration) bool
}

// RateLimiter is the in-process limiter used when Redis is not configured.
// Each key gets a token bucket holding limit tokens refilled over window.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	now      func() time.Time
	idle     time.Duration
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{limiters: make(map[string]*limiterEntry), now: time.Now, idle: 10 * time.Minute}
}

func (l *RateLimiter) Allow(key string, limit int, window time.Duration) bool {
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	bucketKey := key + "|" + strconv.Itoa(limit) + "|" + window.String()
	entry, ok := l.limiters[bucketKey]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)}
		l.limiters[bucketKey] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// Sweep drops buckets that have been idle long enough to be full again.
func (l *RateLimiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-l.idle)
	for key, entry := range l.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(l.limiters, key)
		}
	}
}

// RunSweeper calls Sweep every interval until stop is closed.
func (l *RateLimiter) RunSweeper(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// RateLimit rejects requests once keyFn's key exceeds limit per window.
// An empty key or a nil limiter lets the request through.
func RateLimit(limiter Limiter, collector *metrics.Collector, scope string, keyFn func(*http.Request) string, limit int, window time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}
			key := keyFn(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !limiter.Allow(scope+":"+key, limit, window) {
				collector.IncRateLimited(scope)
				response.Error(w, r, common.NewError(common.CodeRateLimited, "rate limit exceeded", nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ByClientIP keys on the address RequestID resolved, or the peer address
// when RequestID did not run.
func ByClientIP(r *http.Request) string {
	if ip := observability.ClientIPFromContext(r.Context()); ip != "" {
		return ip
	}
	return ClientIP(r, false)
}
