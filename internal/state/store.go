package state

import (
	"sync"
	"time"

	"github.com/iliyamo/dance-studio-admin/internal/idgen"
	"github.com/iliyamo/dance-studio-admin/internal/model"
)

// Store owns the current State and serialises writes.  Readers receive
// snapshots; writers go through the command methods below which apply one
// of the pure commands under the write lock.
type Store struct {
	mu  sync.RWMutex
	cur State

	ids idgen.Generator
	loc *time.Location
	now func() time.Time
}

// NewStore constructs a Store seeded with initial.  A nil generator falls
// back to idgen.UUID and a nil location to UTC.
func NewStore(initial State, ids idgen.Generator, loc *time.Location) *Store {
	if ids == nil {
		ids = idgen.UUID{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Store{cur: initial, ids: ids, loc: loc, now: time.Now}
}

// SetClock replaces the time source used for default dates.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Location returns the studio time zone.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Today returns the current date in the studio time zone as YYYY-MM-DD.
func (s *Store) Today() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now().In(s.loc).Format(time.DateOnly)
}

// Now returns the current time in the studio time zone.
func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now().In(s.loc)
}

// apply runs cmd against the current state and installs the result when
// cmd succeeds.
func (s *Store) apply(cmd func(State) (State, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := cmd(s.cur)
	if err != nil {
		return err
	}
	s.cur = next
	return nil
}

// AddStudent applies the AddStudent command.
func (s *Store) AddStudent(d model.StudentDraft) model.Student {
	var out model.Student
	_ = s.apply(func(cur State) (State, error) {
		next, st := AddStudent(cur, s.ids, d)
		out = st
		return next, nil
	})
	return out
}

// UpdateStudent applies the UpdateStudent command.
func (s *Store) UpdateStudent(upd model.Student) error {
	return s.apply(func(cur State) (State, error) { return UpdateStudent(cur, upd) })
}

// AddInstructor applies the AddInstructor command.
func (s *Store) AddInstructor(d model.InstructorDraft) model.Instructor {
	var out model.Instructor
	_ = s.apply(func(cur State) (State, error) {
		next, in := AddInstructor(cur, s.ids, d, s.now().In(s.loc).Format(time.DateOnly))
		out = in
		return next, nil
	})
	return out
}

// UpdateInstructor applies the UpdateInstructor command.
func (s *Store) UpdateInstructor(upd model.Instructor) error {
	return s.apply(func(cur State) (State, error) { return UpdateInstructor(cur, upd) })
}

// DeleteInstructor applies the DeleteInstructor command.
func (s *Store) DeleteInstructor(id string) error {
	return s.apply(func(cur State) (State, error) { return DeleteInstructor(cur, id) })
}

// AddClass applies the AddClass command.
func (s *Store) AddClass(d model.ClassDraft) model.DanceClass {
	var out model.DanceClass
	_ = s.apply(func(cur State) (State, error) {
		next, c := AddClass(cur, s.ids, d)
		out = c
		return next, nil
	})
	return out
}

// UpdateClass applies the UpdateClass command.
func (s *Store) UpdateClass(upd model.DanceClass) error {
	return s.apply(func(cur State) (State, error) { return UpdateClass(cur, upd) })
}

// RecordPayment applies the RecordPayment command.
func (s *Store) RecordPayment(d model.PaymentDraft) model.Payment {
	var out model.Payment
	_ = s.apply(func(cur State) (State, error) {
		next, p := RecordPayment(cur, s.ids, d, s.now().In(s.loc).Format(time.DateOnly))
		out = p
		return next, nil
	})
	return out
}
