package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client key.
type RateLimiter struct {
	limit rate.Limit
	burst int
	ttl   time.Duration

	mu       sync.Mutex
	visitors map[string]*visitor
}

func NewRateLimiter(cfg config.RateLimit) *RateLimiter {
	ttl := cfg.VisitorTTL
	if ttl <= 0 {
		ttl = 3 * time.Minute
	}

	return &RateLimiter{
		limit:    rate.Limit(cfg.RequestsPerSecond),
		burst:    cfg.Burst,
		ttl:      ttl,
		visitors: make(map[string]*visitor),
	}
}

func (rl *RateLimiter) getVisitor(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}

	v.lastSeen = now

	return v.limiter
}

// Evict drops visitors idle for longer than the configured TTL and reports
// how many were removed.
func (rl *RateLimiter) Evict(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.ttl {
			delete(rl.visitors, key)
			removed++
		}
	}

	return removed
}

// Run evicts idle visitors every minute until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := rl.Evict(now); n > 0 {
				slog.Debug("Evicted idle rate limit visitors", slog.Int("count", n))
			}
		}
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		key := clientKey(r)

		if !rl.getVisitor(key, time.Now()).Allow() {
			LoggerFromContext(r.Context()).Warn("Rate limit exceeded", slog.String("client", key))
			w.Header().Set("Retry-After", "1")
			response.Error(w, errors.TooManyRequestsError("Too many requests. Please slow down."))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// authenticated users share a bucket across addresses, anonymous clients are keyed by IP
func clientKey(r *http.Request) string {
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		return fmt.Sprintf("user:%s", claims.UserID)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	return "ip:" + ip
}
