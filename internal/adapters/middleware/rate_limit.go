package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.uber.org/zap"
)

// RateLimiter throttles a route per client IP with an in-memory store.
type RateLimiter struct {
	limiter *limiter.Limiter
	logger  *zap.Logger
}

// NewRateLimiter parses a formatted rate such as "30-M" (30 per minute).
func NewRateLimiter(rate string, logger *zap.Logger) (*RateLimiter, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", rate, err)
	}
	return &RateLimiter{
		limiter: limiter.New(memory.NewStore(), parsed),
		logger:  logger,
	}, nil
}

func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := l.limiter.GetIPKey(r)
		lctx, err := l.limiter.Get(r.Context(), key)
		if err != nil {
			// fail open
			l.logger.Warn("rate limiter unavailable", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

		if lctx.Reached {
			retry := time.Until(time.Unix(lctx.Reset, 0))
			if retry < time.Second {
				retry = time.Second
			}
			w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Too many requests"})
			l.logger.Info("rate limit reached", zap.String("key", key), zap.String("path", r.URL.Path))
			return
		}

		next.ServeHTTP(w, r)
	})
}
