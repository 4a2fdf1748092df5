package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	ready func() bool
	db    Pinger
}

// NewHealthHandler creates a new HealthHandler. ready reports whether the
// model artifacts are loaded; db is optional and is pinged when set.
func NewHealthHandler(ready func() bool, db Pinger) *HealthHandler {
	return &HealthHandler{ready: ready, db: db}
}

// Healthz returns 200 if the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 when the artifacts are loaded and the database (if
// configured) is reachable, 503 otherwise.
func (h *HealthHandler) Readyz(c echo.Context) error {
	checks := map[string]string{"artifacts": "ok"}
	ready := true

	if h.ready == nil || !h.ready() {
		checks["artifacts"] = "not loaded"
		ready = false
	}

	if h.db != nil {
		checks["database"] = "ok"
		if err := h.db.Ping(c.Request().Context()); err != nil {
			checks["database"] = err.Error()
			ready = false
		}
	}

	if !ready {
		return c.JSON(http.StatusServiceUnavailable, StatusResponse{Status: "unavailable", Checks: checks})
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready", Checks: checks})
}

// RegisterHealthRoutes mounts the health endpoints directly on echo so they
// stay out of the OpenAPI document.
func RegisterHealthRoutes(e *echo.Echo, h *HealthHandler) {
	e.GET("/healthz", h.Healthz)
	e.GET("/readyz", h.Readyz)
}
