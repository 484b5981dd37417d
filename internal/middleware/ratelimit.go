package middleware

import (
	"sync"

	"github.com/gofiber/fiber/v3"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// RateLimitConfig configures per-client request limiting.
type RateLimitConfig struct {
	RequestsPerMinute int // 0 disables limiting
	Burst             int
	MaxClients        int // limiters kept in memory; least recently seen are evicted
}

// RateLimiter hands out one token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters *lru.Cache[string, *rate.Limiter]
}

// NewRateLimiter creates a limiter set from cfg.
func NewRateLimiter(cfg RateLimitConfig) (*RateLimiter, error) {
	if cfg.MaxClients <= 0 {
		cfg.MaxClients = 10000
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	cache, err := lru.New[string, *rate.Limiter](cfg.MaxClients)
	if err != nil {
		return nil, err
	}
	return &RateLimiter{
		limit:    rate.Limit(float64(cfg.RequestsPerMinute) / 60),
		burst:    cfg.Burst,
		limiters: cache,
	}, nil
}

// Allow reports whether client may make a request now.
func (r *RateLimiter) Allow(client string) bool {
	r.mu.Lock()
	l, ok := r.limiters.Get(client)
	if !ok {
		l = rate.NewLimiter(r.limit, r.burst)
		r.limiters.Add(client, l)
	}
	r.mu.Unlock()
	return l.Allow()
}

// Handler returns the Fiber middleware. Rejected requests get 429.
func (r *RateLimiter) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		if !r.Allow(c.IP()) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":     "rate limit exceeded",
				"retryable": true,
			})
		}
		return c.Next()
	}
}

// RateLimit returns a rate limiting middleware, or a pass-through when
// cfg.RequestsPerMinute is zero.
func RateLimit(cfg RateLimitConfig) (fiber.Handler, error) {
	if cfg.RequestsPerMinute <= 0 {
		return func(c fiber.Ctx) error { return c.Next() }, nil
	}
	rl, err := NewRateLimiter(cfg)
	if err != nil {
		return nil, err
	}
	return rl.Handler(), nil
}
