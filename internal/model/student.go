package model

// Student represents a person enrolled at the studio.  Enrolment is a
// many-to-many relationship with DanceClass expressed as a list of class
// identifiers; the list is not checked against existing classes.
//
// Fields:
//  ID               – generated identifier ("stu_…").
//  Name             – full name.
//  Email, Phone     – contact information.
//  BirthDate        – date of birth as YYYY-MM-DD.
//  EnrolledClassIDs – identifiers of the classes the student attends.
//  MonthlyFee       – monthly membership fee in euros.
//  PaymentMethod    – how the fee is paid (Cash, Direct Debit, Bizum…).
//  IBAN             – bank account for direct debit (optional).
//  Active           – whether the student currently attends.
//  Notes            – free text (optional).
type Student struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	Email            string   `json:"email" yaml:"email"`
	Phone            string   `json:"phone" yaml:"phone"`
	BirthDate        string   `json:"birth_date" yaml:"birth_date"`
	EnrolledClassIDs []string `json:"enrolled_class_ids" yaml:"enrolled_class_ids"`
	MonthlyFee       float64  `json:"monthly_fee" yaml:"monthly_fee"`
	PaymentMethod    string   `json:"payment_method" yaml:"payment_method"`
	IBAN             string   `json:"iban,omitempty" yaml:"iban,omitempty"`
	Active           bool     `json:"active" yaml:"active"`
	Notes            string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// IsEnrolledIn reports whether classID appears in the enrolment list.
func (s Student) IsEnrolledIn(classID string) bool {
	for _, id := range s.EnrolledClassIDs {
		if id == classID {
			return true
		}
	}
	return false
}

// StudentDraft carries the fields of a student before an identifier is
// assigned.  Zero values are replaced by defaults when the draft is added.
type StudentDraft struct {
	Name             string   `json:"name" validate:"required"`
	Email            string   `json:"email" validate:"omitempty,email"`
	Phone            string   `json:"phone"`
	BirthDate        string   `json:"birth_date" validate:"omitempty,isodate"`
	EnrolledClassIDs []string `json:"enrolled_class_ids" validate:"omitempty,dive,required"`
	MonthlyFee       float64  `json:"monthly_fee" validate:"gte=0"`
	PaymentMethod    string   `json:"payment_method"`
	IBAN             string   `json:"iban"`
	Active           bool     `json:"active"`
	Notes            string   `json:"notes"`
}

// Record builds a Student with the given identifier from the draft as is.
func (d StudentDraft) Record(id string) Student {
	return Student{
		ID:               id,
		Name:             d.Name,
		Email:            d.Email,
		Phone:            d.Phone,
		BirthDate:        d.BirthDate,
		EnrolledClassIDs: d.EnrolledClassIDs,
		MonthlyFee:       d.MonthlyFee,
		PaymentMethod:    d.PaymentMethod,
		IBAN:             d.IBAN,
		Active:           d.Active,
		Notes:            d.Notes,
	}
}
