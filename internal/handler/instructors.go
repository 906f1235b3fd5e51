package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dance-studio-admin/internal/model"
	"github.com/iliyamo/dance-studio-admin/internal/queue"
	"github.com/iliyamo/dance-studio-admin/internal/state"
)

type instructorView struct {
	model.Instructor
	ClassIDs []string `json:"class_ids"`
}

func viewInstructor(s state.State, in model.Instructor) instructorView {
	ids := []string{}
	for _, c := range s.ClassesOf(in.ID) {
		ids = append(ids, c.ID)
	}
	return instructorView{Instructor: in, ClassIDs: ids}
}

// ListInstructors returns every instructor with the ids of the classes
// they teach.
func (h *StudioHandler) ListInstructors(c echo.Context) error {
	s := h.Store.Snapshot()
	out := make([]instructorView, 0, len(s.Instructors))
	for _, in := range s.Instructors {
		out = append(out, viewInstructor(s, in))
	}
	return c.JSON(http.StatusOK, out)
}

// GetInstructor returns one instructor.
func (h *StudioHandler) GetInstructor(c echo.Context) error {
	s := h.Store.Snapshot()
	in, ok := s.InstructorByID(c.Param("id"))
	if !ok {
		return writeError(c, state.ErrInstructorNotFound)
	}
	return c.JSON(http.StatusOK, viewInstructor(s, in))
}

// CreateInstructor adds an instructor; active defaults to true and the hire
// date to today in the studio time zone.
func (h *StudioHandler) CreateInstructor(c echo.Context) error {
	var d model.InstructorDraft
	if ok, err := bindValid(c, &d); !ok {
		return err
	}
	in := h.Store.AddInstructor(d)
	h.emit(c, queue.NewEvent(queue.InstructorCreated, in.ID, in.Name))
	return c.JSON(http.StatusCreated, in)
}

// UpdateInstructor replaces the instructor named in the path.  An omitted
// active flag or hire date keeps the stored value.
func (h *StudioHandler) UpdateInstructor(c echo.Context) error {
	var d model.InstructorDraft
	if ok, err := bindValid(c, &d); !ok {
		return err
	}
	id := c.Param("id")
	cur, ok := h.Store.Snapshot().InstructorByID(id)
	if !ok {
		return writeError(c, state.ErrInstructorNotFound)
	}
	in := d.Record(id, cur.Active)
	if in.HireDate == "" {
		in.HireDate = cur.HireDate
	}
	if in.Specialties == nil {
		in.Specialties = []string{}
	}
	if err := h.Store.UpdateInstructor(in); err != nil {
		return writeError(c, err)
	}
	h.emit(c, queue.NewEvent(queue.InstructorUpdated, in.ID, in.Name))
	return c.JSON(http.StatusOK, in)
}

// DeleteInstructor removes an instructor who teaches no class.  While
// classes still reference the instructor the answer is 409 and nothing
// changes.
func (h *StudioHandler) DeleteInstructor(c echo.Context) error {
	id := c.Param("id")
	in, _ := h.Store.Snapshot().InstructorByID(id)
	if err := h.Store.DeleteInstructor(id); err != nil {
		var assigned *state.AssignedError
		if errors.As(err, &assigned) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error(), "class_ids": assigned.ClassIDs})
		}
		return writeError(c, err)
	}
	h.emit(c, queue.NewEvent(queue.InstructorDeleted, id, in.Name))
	return c.NoContent(http.StatusNoContent)
}
