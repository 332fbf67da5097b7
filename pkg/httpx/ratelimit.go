package httpx

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/adoptly/adoptly/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines the rate limiting parameters for an endpoint group.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

// Profiles for the endpoint classes this system exposes. Each can be tuned
// with RATELIMIT_{NAME}_REQUESTS, RATELIMIT_{NAME}_WINDOW_SEC and
// RATELIMIT_{NAME}_BURST environment variables.
var (
	// StrictLimit protects credential endpoints against brute force.
	StrictLimit = RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5}

	// ModerateLimit covers authenticated session operations.
	ModerateLimit = RateLimitConfig{RequestsPerWindow: 30, Window: time.Minute, Burst: 30}

	// LenientLimit covers cheap read-only endpoints like session checks.
	LenientLimit = RateLimitConfig{RequestsPerWindow: 120, Window: time.Minute, Burst: 120}
)

func init() {
	StrictLimit = ParseRateLimitFromEnv("STRICT", StrictLimit)
	ModerateLimit = ParseRateLimitFromEnv("MODERATE", ModerateLimit)
	LenientLimit = ParseRateLimitFromEnv("LENIENT", LenientLimit)
}

// ParseRateLimitFromEnv overlays RATELIMIT_{prefix}_* environment variables
// onto a default configuration. Invalid or missing values keep the default.
func ParseRateLimitFromEnv(prefix string, def RateLimitConfig) RateLimitConfig {
	cfg := def

	if val := os.Getenv("RATELIMIT_" + prefix + "_REQUESTS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			cfg.RequestsPerWindow = n
		}
	}
	if val := os.Getenv("RATELIMIT_" + prefix + "_WINDOW_SEC"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			cfg.Window = time.Duration(n) * time.Second
		}
	}
	if val := os.Getenv("RATELIMIT_" + prefix + "_BURST"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			cfg.Burst = n
		}
	}

	return cfg
}

// KeyExtractor derives the bucket key for a request.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor keys requests by client IP, honouring proxy headers.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, ok := strings.Cut(xff, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// PrincipalKeyExtractor keys requests by the authenticated user ID, falling
// back to IP for anonymous requests.
func PrincipalKeyExtractor(r *http.Request) string {
	if p, ok := PrincipalFromContext(r.Context()); ok && p.UserID != "" {
		return p.UserID
	}
	return IPKeyExtractor(r)
}

// bucketSet holds one rate.Limiter per key, pruning idle buckets so
// ephemeral keys don't accumulate forever.
type bucketSet struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int

	mu          sync.Mutex
	lastCleanup time.Time
}

func (b *bucketSet) get(key string) *rate.Limiter {
	if l, ok := b.limiters.Load(key); ok {
		return l.(*rate.Limiter)
	}

	l, _ := b.limiters.LoadOrStore(key, rate.NewLimiter(b.rate, b.burst))
	b.maybeCleanup()
	return l.(*rate.Limiter)
}

func (b *bucketSet) maybeCleanup() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if time.Since(b.lastCleanup) < 5*time.Minute {
		return
	}
	b.lastCleanup = time.Now()

	// A limiter with a full bucket has been idle for at least a window.
	b.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(b.burst) {
			b.limiters.Delete(key)
		}
		return true
	})
}

// RateLimit builds a rate limiting middleware using the given configuration
// and key extractor.
func RateLimit(cfg RateLimitConfig, extract KeyExtractor) Middleware {
	buckets := &bucketSet{
		rate:        rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()),
		burst:       cfg.Burst,
		lastCleanup: time.Now(),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			key := extract(r)
			if key == "" {
				log.Warn("rate limit: no key for request, allowing")
				next.ServeHTTP(w, r)
				return
			}

			limiter := buckets.get(key)
			if !limiter.Allow() {
				res := limiter.Reserve()
				delay := res.Delay()
				res.Cancel()

				retryAfter := max(int(delay.Seconds()), 1)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerWindow))
				w.Header().Set("X-RateLimit-Window", cfg.Window.String())

				log.Warn("rate limit exceeded",
					"key", key,
					"endpoint", r.URL.Path,
					"retry_after", retryAfter,
				)

				Error(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP limits by client IP only.
func RateLimitByIP(cfg RateLimitConfig) Middleware {
	return RateLimit(cfg, IPKeyExtractor)
}

// RateLimitByPrincipal limits by authenticated user, falling back to IP.
func RateLimitByPrincipal(cfg RateLimitConfig) Middleware {
	return RateLimit(cfg, PrincipalKeyExtractor)
}
