package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// healthPaths are logged only when their outcome changes.
var healthPaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
	"/metrics": {},
}

// RequestID returns the request ID assigned by RequestLog, or "".
func RequestID(c echo.Context) string {
	id, _ := c.Get(requestIDKey).(string)
	return id
}

// RequestLog returns Echo middleware that logs requests with structured fields.
// It generates a request ID if none is provided and propagates it through
// the response header and echo context. Client errors log at warn, server
// errors at error. Health endpoints log their first result and every change
// between success and failure after that.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var (
		mu        sync.Mutex
		lastHealth = make(map[string]bool)
	)

	shouldLog := func(path string, ok bool) bool {
		if _, tracked := healthPaths[path]; !tracked {
			return true
		}
		mu.Lock()
		defer mu.Unlock()
		prev, seen := lastHealth[path]
		lastHealth[path] = ok
		return !seen || prev != ok
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.Set(requestIDKey, reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)
			if err != nil {
				// Let echo write the error response so the status below is final.
				c.Error(err)
			}

			status := c.Response().Status
			path := c.Request().URL.Path
			if !shouldLog(path, status < http.StatusBadRequest) {
				return nil
			}

			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			log.Log(c.Request().Context(), level, "request",
				"method", c.Request().Method,
				"path", path,
				"status", status,
				"bytes", c.Response().Size,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			)

			return nil
		}
	}
}
