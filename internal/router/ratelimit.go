package router

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-redis/redis_rate/v10"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"uttianguis/internal/errors"
	"uttianguis/internal/telemetry"
)

// Allower decides whether one more request under key fits in limit.
type Allower interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

func newRedisAllower(rdb *redis.Client) Allower {
	if rdb == nil {
		return nil
	}
	return redis_rate.NewLimiter(rdb)
}

// RateLimit limits requests per client IP to perMinute. A nil limiter or a
// store failure lets the request through.
func RateLimit(limiter Allower, perMinute int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if limiter == nil || perMinute <= 0 {
			return next
		}
		limit := redis_rate.PerMinute(perMinute)
		return func(c echo.Context) error {
			key := "ratelimit:" + c.Path() + ":" + c.RealIP()
			res, err := limiter.Allow(c.Request().Context(), key, limit)
			if err != nil {
				log.WithError(err).WithField("key", key).Warn("rate limiter unavailable")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(perMinute))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			if res.Allowed == 0 {
				telemetry.RateLimitedTotal.Inc()
				retry := int(res.RetryAfter.Seconds())
				if retry < 1 {
					retry = 1
				}
				h.Set("Retry-After", strconv.Itoa(retry))
				return echo.NewHTTPError(http.StatusTooManyRequests, errors.ErrorResponse{
					Error: "rate limit exceeded",
					Code:  "RATE_LIMITED",
				})
			}
			return next(c)
		}
	}
}
