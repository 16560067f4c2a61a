package http

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mkrupp/homecase-login/internal/infra/logging"
	"github.com/mkrupp/homecase-login/internal/infra/metrics"
)

// RateLimitConfig configures per-client request throttling.
type RateLimitConfig struct {
	// Enabled switches throttling on
	Enabled bool `env:"ENABLED" default:"true"`
	// Interval is the time in which one request token is refilled
	Interval time.Duration `env:"INTERVAL" default:"12s"`
	// Burst is the number of requests a client may make at once
	Burst int `env:"BURST" default:"5"`
	// IdleTTL is how long an idle client's limiter is kept
	IdleTTL time.Duration `env:"IDLE_TTL" default:"10m"`
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	cfg      RateLimitConfig
	now      func() time.Time
	mu        sync.Mutex
	visitors  map[string]*visitor
	lastEvict time.Time
}

func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		cfg:      cfg,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

// Allow reports whether client may proceed now and, if not, how long it should wait.
func (rl *RateLimiter) Allow(client string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.evict(now)

	v, ok := rl.visitors[client]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(rl.cfg.Interval), rl.cfg.Burst)}
		rl.visitors[client] = v
	}

	v.lastSeen = now

	reservation := v.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, rl.cfg.Interval
	}

	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)

		return false, delay
	}

	return true, 0
}

// evict drops idle clients. The scan runs at most once per IdleTTL.
func (rl *RateLimiter) evict(now time.Time) {
	if now.Sub(rl.lastEvict) < rl.cfg.IdleTTL {
		return
	}

	rl.lastEvict = now

	for client, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.cfg.IdleTTL {
			delete(rl.visitors, client)
		}
	}
}

// RateLimitingMiddleware rejects clients over their budget with 429 and a Retry-After header.
func RateLimitingMiddleware(next http.Handler, limiter *RateLimiter, log logging.Logger) http.Handler {
	if !limiter.cfg.Enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientIP(r)

		if ok, wait := limiter.Allow(client); !ok {
			metrics.RateLimitedTotal.Inc()
			log.WarnContext(r.Context(), "rate limited", "client", client, "retryAfter", wait.String())

			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)

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
