package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is any dependency whose reachability the health check reports.
type Pinger func(ctx context.Context) error

// HealthHandler reports liveness and the state of optional dependencies.
type HealthHandler struct {
	Checks map[string]Pinger
}

// Health answers 200 with {"status":"ok"} when every check passes and 503
// with the failing checks otherwise.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	deps := map[string]string{}
	status, code := "ok", http.StatusOK
	for name, ping := range h.Checks {
		if err := ping(ctx); err != nil {
			deps[name] = "down"
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		deps[name] = "up"
	}
	return c.JSON(code, echo.Map{"status": status, "deps": deps})
}
