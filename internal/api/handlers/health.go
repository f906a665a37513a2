// Package handlers implements HTTP handlers for the dealhound status server.
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
	deps map[string]Pinger
}

// NewHealthHandler creates a HealthHandler. Readiness checks every named
// dependency; with none registered the process is always ready.
func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// ReadyResponse is the readiness body. Failed lists the dependencies that
// did not answer.
type ReadyResponse struct {
	Status string   `json:"status"           example:"ready"`
	Failed []string `json:"failed,omitempty"`
}

// Healthz returns 200 if the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 if every dependency is reachable, 503 otherwise.
func (h *HealthHandler) Readyz(c echo.Context) error {
	ctx := c.Request().Context()

	var failed []string
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			failed = append(failed, name)
		}
	}

	if len(failed) > 0 {
		return c.JSON(
			http.StatusServiceUnavailable,
			ReadyResponse{Status: "unavailable", Failed: failed},
		)
	}
	return c.JSON(http.StatusOK, ReadyResponse{Status: "ready"})
}
