package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dance-studio-admin/internal/model"
	"github.com/iliyamo/dance-studio-admin/internal/queue"
	"github.com/iliyamo/dance-studio-admin/internal/schedule"
	"github.com/iliyamo/dance-studio-admin/internal/state"
)

// ListClasses returns all classes, optionally filtered by ?instructor_id=,
// ?category= and ?day=.
func (h *StudioHandler) ListClasses(c echo.Context) error {
	s := h.Store.Snapshot()
	instructorID := c.QueryParam("instructor_id")
	category := model.Category(c.QueryParam("category"))
	day := model.Weekday(c.QueryParam("day"))
	if category != "" && !category.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category"})
	}
	if day != "" && !day.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown day"})
	}
	out := make([]model.DanceClass, 0, len(s.Classes))
	for _, cl := range s.Classes {
		if instructorID != "" && cl.InstructorID != instructorID {
			continue
		}
		if category != "" && cl.Category != category {
			continue
		}
		if day != "" && !cl.RunsOn(day) {
			continue
		}
		out = append(out, cl)
	}
	return c.JSON(http.StatusOK, out)
}

// GetClass returns one class.
func (h *StudioHandler) GetClass(c echo.Context) error {
	cl, ok := h.Store.Snapshot().ClassByID(c.Param("id"))
	if !ok {
		return writeError(c, state.ErrClassNotFound)
	}
	return c.JSON(http.StatusOK, cl)
}

// CreateClass adds a class.
func (h *StudioHandler) CreateClass(c echo.Context) error {
	var d model.ClassDraft
	if ok, err := bindValid(c, &d); !ok {
		return err
	}
	cl := h.Store.AddClass(d)
	ev := queue.NewEvent(queue.ClassCreated, cl.ID, cl.Name)
	ev.Details = map[string]any{"instructor_id": cl.InstructorID, "start": cl.StartTime}
	h.emit(c, ev)
	return c.JSON(http.StatusCreated, cl)
}

// UpdateClass replaces the class named in the path.
func (h *StudioHandler) UpdateClass(c echo.Context) error {
	var d model.ClassDraft
	if ok, err := bindValid(c, &d); !ok {
		return err
	}
	cl := d.Record(c.Param("id"))
	if cl.Days == nil {
		cl.Days = []model.Weekday{}
	}
	if err := h.Store.UpdateClass(cl); err != nil {
		return writeError(c, err)
	}
	h.emit(c, queue.NewEvent(queue.ClassUpdated, cl.ID, cl.Name))
	return c.JSON(http.StatusOK, cl)
}

// ClassOccupancy returns the enrolment indicator of one class.
func (h *StudioHandler) ClassOccupancy(c echo.Context) error {
	s := h.Store.Snapshot()
	cl, ok := s.ClassByID(c.Param("id"))
	if !ok {
		return writeError(c, state.ErrClassNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"occupancy": schedule.ComputeOccupancy(cl, s.Students),
		"enrolled":  schedule.EnrolledNames(cl.ID, s.Students),
	})
}
