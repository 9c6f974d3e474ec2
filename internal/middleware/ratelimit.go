package middleware

import (
	"net"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/technosupport/ts-sentinel/internal/ratelimit"
)

// RateLimit applies a per-IP limit to the wrapped handler. Redis loss fails
// open: ingestion availability wins over strict limiting.
type RateLimit struct {
	limiter *ratelimit.Limiter
	cfg     ratelimit.LimitConfig
	logger  *zap.Logger
}

func NewRateLimit(limiter *ratelimit.Limiter, cfg ratelimit.LimitConfig, logger *zap.Logger) *RateLimit {
	return &RateLimit{limiter: limiter, cfg: cfg, logger: logger}
}

func (m *RateLimit) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		key := "rl:ip:" + m.limiter.HashIP(ip)

		decision, err := m.limiter.Check(r.Context(), key, m.cfg)
		if err != nil {
			m.logger.Warn("rate limiter unavailable, allowing request", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			w.Header().Set("Retry-After", strconv.Itoa(decision.RetryAfter))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
