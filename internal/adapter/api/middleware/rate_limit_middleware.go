package middleware

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"loklagbe/internal/infrastructure/ratelimit"
	"loklagbe/pkg/errors"
	"loklagbe/pkg/logger"
	"loklagbe/pkg/response"
)

// RateLimit throttles action per client IP.
func RateLimit(limiter *ratelimit.RateLimiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			ok, wait := limiter.Allow(ip, action)
			if !ok {
				logger.WithFields(logrus.Fields{
					"ip":     ip,
					"action": action,
					"wait":   wait.String(),
				}).Warn("Rate limit exceeded")

				c.Response().Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				return response.Error(c, errors.TooManyRequests("Too many failed attempts. Please try again later."))
			}

			return next(c)
		}
	}
}
