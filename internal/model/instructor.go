package model

// Instructor represents a teacher who may own several classes.
//
// Fields:
//  ID           – generated identifier ("inst_…").
//  Name         – full name.
//  Email, Phone – contact information.
//  Specialties  – free-form tags such as "Ballet" or "Hip Hop".
//  RatePerClass – amount paid to the instructor per class taught.
//  Active       – whether the instructor currently teaches.
//  HireDate     – date of hire as YYYY-MM-DD.
//  Notes        – free text (optional).
type Instructor struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Email        string   `json:"email" yaml:"email"`
	Phone        string   `json:"phone" yaml:"phone"`
	Specialties  []string `json:"specialties" yaml:"specialties"`
	RatePerClass float64  `json:"rate_per_class" yaml:"rate_per_class"`
	Active       bool     `json:"active" yaml:"active"`
	HireDate     string   `json:"hire_date" yaml:"hire_date"`
	Notes        string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// InstructorDraft carries instructor fields before an identifier is
// assigned.  Active is a pointer so that an omitted flag can be told apart
// from an explicit false.
type InstructorDraft struct {
	Name         string   `json:"name" validate:"required"`
	Email        string   `json:"email" validate:"omitempty,email"`
	Phone        string   `json:"phone"`
	Specialties  []string `json:"specialties"`
	RatePerClass float64  `json:"rate_per_class" validate:"gte=0"`
	Active       *bool    `json:"active"`
	HireDate     string   `json:"hire_date" validate:"omitempty,isodate"`
	Notes        string   `json:"notes"`
}

// Record builds an Instructor from the draft.  activeDefault is used when
// the draft leaves Active unset.
func (d InstructorDraft) Record(id string, activeDefault bool) Instructor {
	active := activeDefault
	if d.Active != nil {
		active = *d.Active
	}
	return Instructor{
		ID:           id,
		Name:         d.Name,
		Email:        d.Email,
		Phone:        d.Phone,
		Specialties:  d.Specialties,
		RatePerClass: d.RatePerClass,
		Active:       active,
		HireDate:     d.HireDate,
		Notes:        d.Notes,
	}
}

// FirstName returns the part of the name before the first space.
func (i Instructor) FirstName() string {
	for n, r := range i.Name {
		if r == ' ' {
			return i.Name[:n]
		}
	}
	return i.Name
}
