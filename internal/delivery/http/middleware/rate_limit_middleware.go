package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"doctor-appointment-api/pkg/response"

	"github.com/sirupsen/logrus"
)

// Limiter is satisfied by service.RateLimiter
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

// RateLimitMiddleware limits requests per client IP in fixed windows
type RateLimitMiddleware struct {
	limiter Limiter
	log     *logrus.Logger
}

func NewRateLimitMiddleware(limiter Limiter, log *logrus.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		log:     log,
	}
}

func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, retryAfter, err := m.limiter.Allow(r.Context(), ClientIP(r))
		if err != nil {
			// Redis outage: let the request through
			m.log.Warnf("Failed to check rate limit: %+v", err)
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			response.TooManyRequests(w, "Too many requests, please try again later", retryAfter)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ClientIP prefers the first X-Forwarded-For hop over the socket address
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
