package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// Limiter decides per key whether a request may proceed.
type Limiter interface {
	Allow(key string) bool
	RetryAfter(key string) time.Duration
}

// RateLimit applies l per client IP to paths under prefix. onLimit writes the rejection.
func RateLimit(l Limiter, prefix string, onLimit func(c echo.Context, retryAfter time.Duration) error) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !strings.HasPrefix(c.Request().URL.Path, prefix) {
				return next(c)
			}
			key := c.RealIP()
			if l.Allow(key) {
				return next(c)
			}
			return onLimit(c, l.RetryAfter(key))
		}
	}
}
