package middleware

import (
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen/kondate/internal/adapters/http/dto"
	"github.com/jsamuelsen/kondate/internal/platform/logging"
)

const (
	limiterIdleTTL = 10 * time.Minute
	limiterCleanup = 5 * time.Minute
)

// RateLimitConfig is a token bucket per client IP.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// RateLimiter keeps one token bucket per client. Buckets of clients that
// have been idle for a while are dropped.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	buckets *gocache.Cache
}

// NewRateLimiter creates a RateLimiter. A non-positive burst is raised to 1.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	burst := max(cfg.Burst, 1)

	return &RateLimiter{
		limit:   rate.Limit(cfg.RPS),
		burst:   burst,
		buckets: gocache.New(limiterIdleTTL, limiterCleanup),
	}
}

// Allow reports whether the client identified by key may make a request now.
func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	limiter := l.bucket(key)

	r := limiter.Reserve()
	if !r.OK() {
		return false, time.Second
	}

	delay := r.Delay()
	if delay == 0 {
		return true, 0
	}

	r.Cancel()

	return false, delay
}

func (l *RateLimiter) bucket(key string) *rate.Limiter {
	if v, ok := l.buckets.Get(key); ok {
		l.buckets.SetDefault(key, v)
		return v.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(l.limit, l.burst)
	if err := l.buckets.Add(key, limiter, gocache.DefaultExpiration); err != nil {
		// another request created it first
		if v, ok := l.buckets.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}

	return limiter
}

// Middleware rejects clients over their budget with 429 and a Retry-After
// header in whole seconds.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, delay := l.Allow(c.ClientIP())
		if ok {
			c.Next()
			return
		}

		retryAfter := max(int(math.Ceil(delay.Seconds())), 1)
		c.Header("Retry-After", strconv.Itoa(retryAfter))

		ctx := c.Request.Context()
		logging.FromContext(ctx).WarnContext(ctx, "rate limit exceeded",
			slog.String("client_ip", c.ClientIP()),
			slog.String("path", c.Request.URL.Path),
		)

		dto.AbortWithErrorCode(c, dto.ErrorCodeTooManyRequests,
			"リクエストが多すぎます。しばらくしてから再度お試しください。")
	}
}
