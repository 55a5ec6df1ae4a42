package middleware

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"

	"github.com/formworks/submission-service/internal/ratelimit"
	"github.com/formworks/submission-service/internal/utils/response"
)

const submitAction = "submit"

type RateLimitConfig struct {
	redisClient *redis.Client
	limiters    map[string]*ratelimit.TokenBucket
	limits      map[string]int64
}

func NewRateLimitConfig(redisClient *redis.Client, submitPerMinute int64) *RateLimitConfig {
	config := &RateLimitConfig{
		redisClient: redisClient,
		limiters:    make(map[string]*ratelimit.TokenBucket),
		limits:      make(map[string]int64),
	}

	// POST /submit-form: submitPerMinute/min per client IP
	config.limiters[submitAction] = ratelimit.NewTokenBucket(redisClient, submitPerMinute, submitPerMinute)
	config.limits[submitAction] = submitPerMinute

	return config
}

func (rlc *RateLimitConfig) RateLimitMiddleware(action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter, exists := rlc.limiters[action]
			if !exists {
				// No rate limiter configured for this action, allow the request
				next.ServeHTTP(w, r)
				return
			}

			clientIP := ClientIP(r)

			allowed, err := limiter.Allow(r.Context(), clientIP, action)
			if err != nil {
				response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(
					"Something went wrong", fmt.Errorf("rate limit check failed: %w", err)))
				return
			}

			remaining, _ := limiter.GetRemaining(r.Context(), clientIP, action)

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(rlc.limits[action], 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			w.Header().Set("X-RateLimit-Reset", "60")

			if !allowed {
				response.WriteJSON(w, http.StatusTooManyRequests, response.GeneralError(
					"Too many submissions", errors.New("rate limit exceeded")))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitedHandler wraps a handler with rate limiting for a specific action
func (rlc *RateLimitConfig) RateLimitedHandler(action string, handler http.HandlerFunc) http.Handler {
	return rlc.RateLimitMiddleware(action)(http.HandlerFunc(handler))
}

// ClientIP extracts the originating client address, honouring the
// first hop of X-Forwarded-For when present.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.Index(fwd, ","); idx > 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
