package httpx

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/accounts/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines a token bucket profile.
type RateLimitConfig struct {
	// Name selects the RATELIMIT_<NAME>_* environment overrides.
	Name string
	// RequestsPerWindow is the sustained rate.
	RequestsPerWindow int
	Window            time.Duration
	// Burst allows short spikes above the sustained rate.
	Burst int
}

// Profiles. Each can be tuned with RATELIMIT_<NAME>_REQUESTS,
// RATELIMIT_<NAME>_WINDOW_SEC and RATELIMIT_<NAME>_BURST.
var (
	// StrictLimit guards unauthenticated writes such as sign-up.
	StrictLimit = RateLimitConfig{Name: "STRICT", RequestsPerWindow: 5, Window: time.Minute, Burst: 5}

	// ModerateLimit guards verification code issue and confirmation.
	ModerateLimit = RateLimitConfig{Name: "MODERATE", RequestsPerWindow: 20, Window: time.Minute, Burst: 20}

	// LenientLimit covers ordinary authenticated traffic.
	LenientLimit = RateLimitConfig{Name: "LENIENT", RequestsPerWindow: 100, Window: time.Minute, Burst: 100}
)

func init() {
	StrictLimit = StrictLimit.FromEnv()
	ModerateLimit = ModerateLimit.FromEnv()
	LenientLimit = LenientLimit.FromEnv()
}

// FromEnv returns c with any valid RATELIMIT_<NAME>_* overrides applied.
func (c RateLimitConfig) FromEnv() RateLimitConfig {
	prefix := "RATELIMIT_" + c.Name + "_"
	if n, ok := positiveEnvInt(prefix + "REQUESTS"); ok {
		c.RequestsPerWindow = n
	}
	if n, ok := positiveEnvInt(prefix + "WINDOW_SEC"); ok {
		c.Window = time.Duration(n) * time.Second
	}
	if n, ok := positiveEnvInt(prefix + "BURST"); ok {
		c.Burst = n
	}
	return c
}

func positiveEnvInt(key string) (int, bool) {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// KeyFunc groups requests into rate limit buckets. An empty key skips limiting.
type KeyFunc func(*http.Request) string

// ClientIP returns the caller address, honouring X-Forwarded-For and X-Real-IP.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
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

// AccountOrIP keys on the authenticated account, falling back to ClientIP.
func AccountOrIP(r *http.Request) string {
	if id := AccountID(r.Context()); id != "" {
		return "acct:" + id
	}
	return "ip:" + ClientIP(r)
}

// Limiter holds one token bucket per key and forgets buckets idle longer
// than the sweep interval.
type Limiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewLimiter builds a Limiter for the given profile.
func NewLimiter(cfg RateLimitConfig) *Limiter {
	return &Limiter{
		buckets:   make(map[string]*bucket),
		limit:     rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()),
		burst:     cfg.Burst,
		idle:      max(cfg.Window, 5*time.Minute),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow reports whether a request for key may proceed now, and if not, how
// long until it could.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.seen = now

	if b.lim.AllowN(now, 1) {
		return true, 0
	}

	r := b.lim.ReserveN(now, 1)
	wait := r.DelayFrom(now)
	r.CancelAt(now)
	return false, wait
}

// Len reports how many buckets are currently tracked.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idle {
		return
	}
	l.lastSweep = now
	for k, b := range l.buckets {
		if now.Sub(b.seen) >= l.idle {
			delete(l.buckets, k)
		}
	}
}

// RateLimit limits requests per key according to cfg.
func RateLimit(cfg RateLimitConfig, key KeyFunc) Middleware {
	lim := NewLimiter(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			ok, wait := lim.Allow(k)
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			retryAfter := max(int(wait.Seconds()), 1)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Window", cfg.Window.String())

			slogx.FromContext(r.Context()).Warn("rate limit exceeded",
				"key", k,
				"path", r.URL.Path,
				"retry_after", retryAfter,
			)
			WriteError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "Too many requests. Please try again later.")
		})
	}
}

// RateLimitByIP limits by client address.
func RateLimitByIP(cfg RateLimitConfig) Middleware {
	return RateLimit(cfg, ClientIP)
}

// RateLimitByAccount limits by authenticated account, or address when anonymous.
func RateLimitByAccount(cfg RateLimitConfig) Middleware {
	return RateLimit(cfg, AccountOrIP)
}
