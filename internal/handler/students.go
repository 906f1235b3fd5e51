package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dance-studio-admin/internal/model"
	"github.com/iliyamo/dance-studio-admin/internal/queue"
	"github.com/iliyamo/dance-studio-admin/internal/state"
)

// ListStudents returns all students.  Optional filters: ?class_id= keeps the
// students enrolled in that class, ?active=true|false filters on the flag.
func (h *StudioHandler) ListStudents(c echo.Context) error {
	s := h.Store.Snapshot()
	classID := c.QueryParam("class_id")
	var active *bool
	if v := c.QueryParam("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "active must be true or false"})
		}
		active = &b
	}
	out := make([]model.Student, 0, len(s.Students))
	for _, st := range s.Students {
		if classID != "" && !st.IsEnrolledIn(classID) {
			continue
		}
		if active != nil && st.Active != *active {
			continue
		}
		out = append(out, st)
	}
	return c.JSON(http.StatusOK, out)
}

// GetStudent returns one student.
func (h *StudioHandler) GetStudent(c echo.Context) error {
	st, ok := h.Store.Snapshot().StudentByID(c.Param("id"))
	if !ok {
		return writeError(c, state.ErrStudentNotFound)
	}
	return c.JSON(http.StatusOK, st)
}

// CreateStudent adds a student; fee, payment method and enrolment list take
// their defaults when omitted.
func (h *StudioHandler) CreateStudent(c echo.Context) error {
	var d model.StudentDraft
	if ok, err := bindValid(c, &d); !ok {
		return err
	}
	st := h.Store.AddStudent(d)
	ev := queue.NewEvent(queue.StudentCreated, st.ID, st.Name)
	ev.Details = map[string]any{"monthly_fee": st.MonthlyFee, "classes": len(st.EnrolledClassIDs)}
	h.emit(c, ev)
	return c.JSON(http.StatusCreated, st)
}

// UpdateStudent replaces every field of the student named in the path.
func (h *StudioHandler) UpdateStudent(c echo.Context) error {
	var d model.StudentDraft
	if ok, err := bindValid(c, &d); !ok {
		return err
	}
	st := d.Record(c.Param("id"))
	if err := h.Store.UpdateStudent(st); err != nil {
		return writeError(c, err)
	}
	st, _ = h.Store.Snapshot().StudentByID(st.ID)
	h.emit(c, queue.NewEvent(queue.StudentUpdated, st.ID, st.Name))
	return c.JSON(http.StatusOK, st)
}
