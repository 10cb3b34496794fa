package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
	Prefix   string
	// Scope separates budgets, e.g. "api" and "login".
	Scope string
}

// RateLimit is a fixed-window limiter keyed by client IP and window. It is a
// no-op when disabled or when rdb is nil, and lets requests through when
// Redis errors.
func RateLimit(cfg RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil || cfg.Requests <= 0 || cfg.Window <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			now := time.Now()
			key := rateKey(cfg, c.RealIP(), now)
			ctx := c.Request().Context()

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				c.Logger().Warnf("[RateLimit] redis error for key=%s: %v", key, err)
				return next(c)
			}
			if count == 1 {
				rdb.Expire(ctx, key, cfg.Window)
			}

			remaining := int64(cfg.Requests) - count
			if remaining < 0 {
				remaining = 0
			}
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(cfg.Requests) {
				h.Set("Retry-After", strconv.Itoa(retryAfter(cfg.Window, now)))
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}

func rateKey(cfg RateLimitConfig, ip string, now time.Time) string {
	if ip == "" {
		ip = "unknown"
	}
	window := now.UnixNano() / int64(cfg.Window)
	return fmt.Sprintf("%s:%s:%s:%d", cfg.Prefix, cfg.Scope, ip, window)
}

// retryAfter is the number of whole seconds until the current window closes.
func retryAfter(window time.Duration, now time.Time) int {
	elapsed := time.Duration(now.UnixNano() % int64(window))
	secs := int((window - elapsed + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
