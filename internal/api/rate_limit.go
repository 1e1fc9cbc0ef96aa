package api

import (
	"context"
	"fmt"
	"net/http"

	"fitcoach/api/internal/config"
	"fitcoach/api/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"
)

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RateClass groups routes sharing one per-minute budget.
type RateClass string

const (
	RateClassAuth  RateClass = "auth"
	RateClassWrite RateClass = "write"
	RateClassRead  RateClass = "read"
)

// RateLimits holds the per-minute budget of each class.
type RateLimits map[RateClass]int

// RateLimitsFromConfig maps the configured budgets onto classes.
func RateLimitsFromConfig(cfg config.RateLimitConfig) RateLimits {
	return RateLimits{
		RateClassAuth:  cfg.AuthPerMinute,
		RateClassWrite: cfg.WritePerMinute,
		RateClassRead:  cfg.ReadPerMinute,
	}
}

// RateLimit rejects a client IP exceeding the class budget with 429.
// A nil limiter disables the check.
func RateLimit(rateLimiter RequestRateLimiter, instr *metrics.Instrumentation, class RateClass, allowedPerMin int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rateLimiter == nil || allowedPerMin <= 0 {
			c.Next()
			return
		}

		res, err := rateLimiter.Allow(
			c.Request.Context(),
			fmt.Sprintf("%s:%s", class, c.ClientIP()),
			redis_rate.PerMinute(allowedPerMin),
		)
		if err != nil {
			log.Errorf("rate limit [%s]: %s", class, err)
			abortWithError(c, http.StatusInternalServerError, "rate limit internal error")
			return
		}

		if res.Allowed > 0 {
			c.Next()
			return
		}

		instr.CounterRateLimited.WithLabelValues(string(class)).Inc()
		c.Header("Retry-After", fmt.Sprintf("%.0f", res.RetryAfter.Seconds()+0.5))
		abortWithError(c, http.StatusTooManyRequests, fmt.Sprintf("retry after %f seconds", res.RetryAfter.Seconds()))
	}
}

// ClassifyRequest picks read for safe methods and write for everything else.
func ClassifyRequest(rateLimiter RequestRateLimiter, instr *metrics.Instrumentation, limits RateLimits) gin.HandlerFunc {
	read := RateLimit(rateLimiter, instr, RateClassRead, limits[RateClassRead])
	write := RateLimit(rateLimiter, instr, RateClassWrite, limits[RateClassWrite])
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			read(c)
		default:
			write(c)
		}
	}
}
