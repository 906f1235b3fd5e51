package state

import (
	"github.com/iliyamo/dance-studio-admin/internal/idgen"
	"github.com/iliyamo/dance-studio-admin/internal/model"
)

// Defaults applied when a new student omits the field.
const (
	DefaultMonthlyFee    = 19
	DefaultPaymentMethod = "Cash"
	DefaultPaymentType   = "Monthly Membership"
)

// AddStudent appends a new student built from d.  The fee, payment method
// and enrolment list fall back to defaults when left empty.
func AddStudent(s State, ids idgen.Generator, d model.StudentDraft) (State, model.Student) {
	st := d.Record(freshID(ids, idgen.PrefixStudent, s.Students, func(x model.Student) string { return x.ID }))
	if st.MonthlyFee == 0 {
		st.MonthlyFee = DefaultMonthlyFee
	}
	if st.PaymentMethod == "" {
		st.PaymentMethod = DefaultPaymentMethod
	}
	if st.EnrolledClassIDs == nil {
		st.EnrolledClassIDs = []string{}
	}
	next := s
	next.Students = append(cloneSlice(s.Students), st)
	return next, st
}

// UpdateStudent replaces the student that has the same ID as upd.
func UpdateStudent(s State, upd model.Student) (State, error) {
	if upd.EnrolledClassIDs == nil {
		upd.EnrolledClassIDs = []string{}
	}
	out, ok := replaceByID(s.Students, upd, func(x model.Student) string { return x.ID })
	if !ok {
		return s, ErrStudentNotFound
	}
	next := s
	next.Students = out
	return next, nil
}

// AddInstructor appends a new instructor built from d.  An omitted active
// flag means active and an empty hire date means today.
func AddInstructor(s State, ids idgen.Generator, d model.InstructorDraft, today string) (State, model.Instructor) {
	in := d.Record(freshID(ids, idgen.PrefixInstructor, s.Instructors, func(x model.Instructor) string { return x.ID }), true)
	if in.HireDate == "" {
		in.HireDate = today
	}
	if in.Specialties == nil {
		in.Specialties = []string{}
	}
	next := s
	next.Instructors = append(cloneSlice(s.Instructors), in)
	return next, in
}

// UpdateInstructor replaces the instructor that has the same ID as upd.
func UpdateInstructor(s State, upd model.Instructor) (State, error) {
	out, ok := replaceByID(s.Instructors, upd, func(x model.Instructor) string { return x.ID })
	if !ok {
		return s, ErrInstructorNotFound
	}
	next := s
	next.Instructors = out
	return next, nil
}

// DeleteInstructor removes an instructor.  It is refused with an
// *AssignedError listing the classes that still name the instructor as
// their owner; in that case the returned state is s itself.
func DeleteInstructor(s State, id string) (State, error) {
	var blocking []string
	for _, c := range s.Classes {
		if c.InstructorID == id {
			blocking = append(blocking, c.ID)
		}
	}
	if len(blocking) > 0 {
		return s, &AssignedError{InstructorID: id, ClassIDs: blocking}
	}
	if _, ok := s.InstructorByID(id); !ok {
		return s, ErrInstructorNotFound
	}
	out := make([]model.Instructor, 0, len(s.Instructors))
	for _, in := range s.Instructors {
		if in.ID != id {
			out = append(out, in)
		}
	}
	next := s
	next.Instructors = out
	return next, nil
}

// AddClass appends a new class built from d.
func AddClass(s State, ids idgen.Generator, d model.ClassDraft) (State, model.DanceClass) {
	c := d.Record(freshID(ids, idgen.PrefixClass, s.Classes, func(x model.DanceClass) string { return x.ID }))
	if c.Days == nil {
		c.Days = []model.Weekday{}
	}
	next := s
	next.Classes = append(cloneSlice(s.Classes), c)
	return next, c
}

// UpdateClass replaces the class that has the same ID as upd.
func UpdateClass(s State, upd model.DanceClass) (State, error) {
	out, ok := replaceByID(s.Classes, upd, func(x model.DanceClass) string { return x.ID })
	if !ok {
		return s, ErrClassNotFound
	}
	next := s
	next.Classes = out
	return next, nil
}

// RecordPayment appends a payment to the ledger.  An empty date means
// today and an empty type means a monthly membership payment.
func RecordPayment(s State, ids idgen.Generator, d model.PaymentDraft, today string) (State, model.Payment) {
	p := model.Payment{
		ID:        freshID(ids, idgen.PrefixPayment, s.Payments, func(x model.Payment) string { return x.ID }),
		StudentID: d.StudentID,
		Amount:    d.Amount,
		Date:      d.Date,
		Type:      d.Type,
	}
	if p.Date == "" {
		p.Date = today
	}
	if p.Type == "" {
		p.Type = DefaultPaymentType
	}
	next := s
	next.Payments = append(cloneSlice(s.Payments), p)
	return next, p
}

// freshID draws ids until one is not used in the collection.  Seed
// records and generated ones share the same id space.
func freshID[T any](ids idgen.Generator, prefix string, in []T, key func(T) string) string {
	for {
		id := ids.NewID(prefix)
		if indexOf(in, id, key) < 0 {
			return id
		}
	}
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in), len(in)+1)
	copy(out, in)
	return out
}

func indexOf[T any](in []T, id string, key func(T) string) int {
	for i, x := range in {
		if key(x) == id {
			return i
		}
	}
	return -1
}

// replaceByID copies in and swaps the element whose key equals upd's key.
func replaceByID[T any](in []T, upd T, key func(T) string) ([]T, bool) {
	i := indexOf(in, key(upd), key)
	if i < 0 {
		return in, false
	}
	out := cloneSlice(in)
	out[i] = upd
	return out, true
}
