package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"
	"github.com/redis/go-redis/v9"

	"github.com/foodgram/backend/internal/auth"
	"github.com/foodgram/backend/internal/metrics"
)

// NewRateLimiter caps requests per client IP with go-chi/httprate.
// A non-positive requests value disables limiting.
func NewRateLimiter(requests int, window time.Duration) func(http.Handler) http.Handler {
	if requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RateLimited.WithLabelValues("ip").Inc()
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
		}),
	)
}

// QuotaLimiter enforces a per-user fixed-window quota in Redis. Counters are
// shared across replicas, unlike the in-process IP limiter.
type QuotaLimiter struct {
	rdb    *redis.Client
	name   string
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewQuotaLimiter returns a limiter allowing limit requests per window for
// each authenticated user. name scopes the Redis keys and the metric label.
func NewQuotaLimiter(rdb *redis.Client, name string, limit int, window time.Duration) *QuotaLimiter {
	return &QuotaLimiter{rdb: rdb, name: name, limit: limit, window: window, now: time.Now}
}

// Allow counts one request for userID and reports whether it fits the quota,
// with the time the current window resets.
func (q *QuotaLimiter) Allow(ctx context.Context, userID string) (bool, time.Time, error) {
	windowStart := q.now().Truncate(q.window)
	reset := windowStart.Add(q.window)
	key := fmt.Sprintf("foodgram:quota:%s:%s:%d", q.name, userID, windowStart.Unix())

	pipe := q.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, q.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, reset, fmt.Errorf("middleware.QuotaLimiter.Allow: %w", err)
	}
	return incr.Val() <= int64(q.limit), reset, nil
}

// Middleware applies the quota to authenticated requests. Anonymous requests
// pass through untouched and are rejected later by authorization. Redis
// errors fail open.
func (q *QuotaLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := auth.ViewerFrom(r.Context())
		if v.Anonymous() {
			next.ServeHTTP(w, r)
			return
		}

		ok, reset, err := q.Allow(r.Context(), v.ID.String())
		if err != nil {
			slog.WarnContext(r.Context(), "quota check failed", "limiter", q.name, "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			metrics.RateLimited.WithLabelValues(q.name).Inc()
			retry := int(reset.Sub(q.now()).Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			writeError(w, http.StatusTooManyRequests, "rate_limited",
				fmt.Sprintf("limit of %d per %s reached", q.limit, q.window))
			return
		}
		next.ServeHTTP(w, r)
	})
}
