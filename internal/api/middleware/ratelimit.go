package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/donaldgifford/resell-valuator/internal/metrics"
)

// RateLimit returns Echo middleware that admits at most perSecond requests
// with the given burst across all callers. Rejected requests get 429 with a
// Retry-After hint. When prefixes are given, only request paths starting
// with one of them share the limit; everything else passes through.
func RateLimit(perSecond float64, burst int, prefixes ...string) echo.MiddlewareFunc {
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limited(c.Request().URL.Path, prefixes) {
				return next(c)
			}

			r := limiter.Reserve()
			if !r.OK() {
				return reject(c, 1)
			}
			if delay := r.Delay(); delay > 0 {
				r.Cancel()
				return reject(c, int(math.Ceil(delay.Seconds())))
			}
			return next(c)
		}
	}
}

func limited(path string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func reject(c echo.Context, retryAfter int) error {
	path := c.Path()
	if path == "" {
		path = c.Request().URL.Path
	}
	metrics.HTTPRateLimitedTotal.WithLabelValues(path).Inc()

	c.Response().Header().Set("Retry-After", strconv.Itoa(max(retryAfter, 1)))
	c.Response().Header().Set(echo.HeaderContentType, "application/problem+json")
	return c.JSON(http.StatusTooManyRequests, problem{
		Title:     "rate limit exceeded",
		Status:    http.StatusTooManyRequests,
		RequestID: RequestID(c),
	})
}
