package handler // handler holds the echo handlers of the dashboard API

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dance-studio-admin/internal/logger"
	"github.com/iliyamo/dance-studio-admin/internal/queue"
	"github.com/iliyamo/dance-studio-admin/internal/schedule"
	"github.com/iliyamo/dance-studio-admin/internal/state"
)

// StudioHandler serves the students, instructors, classes, schedule and
// billing endpoints from a shared Store.
type StudioHandler struct {
	Store          *state.Store
	Events         queue.Publisher
	Window         schedule.Window
	PublishTimeout time.Duration
}

// NewStudioHandler panics when store is nil.  A nil publisher drops events.
func NewStudioHandler(store *state.Store, events queue.Publisher, window schedule.Window) *StudioHandler {
	if store == nil {
		panic("nil store passed to NewStudioHandler")
	}
	if events == nil {
		events = queue.NopPublisher{}
	}
	if window.Total() <= 0 {
		window = schedule.DefaultWindow
	}
	return &StudioHandler{Store: store, Events: events, Window: window, PublishTimeout: 3 * time.Second}
}

// emit publishes ev after a successful mutation.  Failures are logged only.
func (h *StudioHandler) emit(c echo.Context, ev queue.StudioEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), h.PublishTimeout)
	defer cancel()
	if err := h.Events.Publish(ctx, ev); err != nil {
		logger.LogError("publish studio event failed", err, "type", string(ev.Type), "entity_id", ev.EntityID)
	}
}

// bindValid decodes the body into v and validates it.  The returned error
// is already written to the response when non-nil; handlers return it.
func bindValid(c echo.Context, v interface{}) (bool, error) {
	if err := c.Bind(v); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(v); err != nil {
		var fields FieldErrors
		if errors.As(err, &fields) {
			return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fields})
		}
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return true, nil
}

// writeError translates state errors into HTTP responses.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, state.ErrStudentNotFound),
		errors.Is(err, state.ErrInstructorNotFound),
		errors.Is(err, state.ErrClassNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, state.ErrInstructorAssigned):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	logger.LogError("request failed", err, "path", c.Path())
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
