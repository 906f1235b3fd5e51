// Package state holds the studio's working data as an explicit value and
// the command functions that derive a new value from it.
package state

import "errors"

// ErrStudentNotFound is returned when an update names an unknown student.
var ErrStudentNotFound = errors.New("student not found")

// ErrInstructorNotFound is returned when an update or delete names an
// unknown instructor.
var ErrInstructorNotFound = errors.New("instructor not found")

// ErrClassNotFound is returned when an update names an unknown class.
var ErrClassNotFound = errors.New("class not found")

// ErrInstructorAssigned is returned when deleting an instructor that still
// owns at least one class.  Handlers should translate this into an HTTP
// 409 response asking the user to reassign the classes first.
var ErrInstructorAssigned = errors.New("instructor is assigned to classes; reassign those classes before deleting")

// AssignedError reports the classes that block an instructor's deletion.
// It matches ErrInstructorAssigned under errors.Is.
type AssignedError struct {
	InstructorID string
	ClassIDs     []string
}

func (e *AssignedError) Error() string { return ErrInstructorAssigned.Error() }

func (e *AssignedError) Unwrap() error { return ErrInstructorAssigned }
