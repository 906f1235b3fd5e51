package state

import "github.com/iliyamo/dance-studio-admin/internal/model"

// State is an immutable snapshot of the studio's records.  Commands never
// modify a State in place; they return a new value whose slices are fresh
// copies, so a snapshot handed to a reader stays valid after later writes.
type State struct {
	Students    []model.Student    `yaml:"students"`
	Instructors []model.Instructor `yaml:"instructors"`
	Classes     []model.DanceClass `yaml:"classes"`
	Payments    []model.Payment    `yaml:"payments"`
}

// StudentByID returns the student with the given id.
func (s State) StudentByID(id string) (model.Student, bool) {
	for _, st := range s.Students {
		if st.ID == id {
			return st, true
		}
	}
	return model.Student{}, false
}

// InstructorByID returns the instructor with the given id.
func (s State) InstructorByID(id string) (model.Instructor, bool) {
	for _, in := range s.Instructors {
		if in.ID == id {
			return in, true
		}
	}
	return model.Instructor{}, false
}

// ClassByID returns the class with the given id.
func (s State) ClassByID(id string) (model.DanceClass, bool) {
	for _, c := range s.Classes {
		if c.ID == id {
			return c, true
		}
	}
	return model.DanceClass{}, false
}

// ClassesOf returns the classes owned by instructorID.
func (s State) ClassesOf(instructorID string) []model.DanceClass {
	out := make([]model.DanceClass, 0)
	for _, c := range s.Classes {
		if c.InstructorID == instructorID {
			out = append(out, c)
		}
	}
	return out
}

// StudentsIn returns the students enrolled in classID, in collection order.
func (s State) StudentsIn(classID string) []model.Student {
	out := make([]model.Student, 0)
	for _, st := range s.Students {
		if st.IsEnrolledIn(classID) {
			out = append(out, st)
		}
	}
	return out
}
