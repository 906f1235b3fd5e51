package model

// Category groups classes by style.  It drives the colour of a class block
// on the weekly board.
type Category string

const (
	CategoryFitness     Category = "Fitness"
	CategoryModernDance Category = "Modern Dance"
	CategoryCompetition Category = "Competition"
	CategorySpecialized Category = "Specialized"
)

// Categories lists every known category.
var Categories = []Category{CategoryFitness, CategoryModernDance, CategoryCompetition, CategorySpecialized}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// DanceClass is a recurring weekly class taught by one instructor.
//
// Fields:
//  ID           – generated identifier ("cls_…").
//  Name         – display name.
//  InstructorID – owning instructor; guarded only on instructor deletion.
//  Category     – style category.
//  Days         – weekdays the class recurs on.
//  StartTime    – start as HH:MM.
//  EndTime      – end as HH:MM.
//  Capacity     – maximum number of students; 0 means unspecified.
//  BaseRate     – base price of the class.
type DanceClass struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	InstructorID string    `json:"instructor_id" yaml:"instructor_id"`
	Category     Category  `json:"category" yaml:"category"`
	Days         []Weekday `json:"days" yaml:"days"`
	StartTime    string    `json:"start_time" yaml:"start_time"`
	EndTime      string    `json:"end_time" yaml:"end_time"`
	Capacity     int       `json:"capacity" yaml:"capacity"`
	BaseRate     float64   `json:"base_rate" yaml:"base_rate"`
}

// RunsOn reports whether the class recurs on day.
func (c DanceClass) RunsOn(day Weekday) bool {
	for _, d := range c.Days {
		if d == day {
			return true
		}
	}
	return false
}

// ClassDraft carries class fields before an identifier is assigned.
type ClassDraft struct {
	Name         string    `json:"name" validate:"required"`
	InstructorID string    `json:"instructor_id" validate:"required"`
	Category     Category  `json:"category" validate:"required,category"`
	Days         []Weekday `json:"days" validate:"dive,weekday"`
	StartTime    string    `json:"start_time" validate:"required,clock"`
	EndTime      string    `json:"end_time" validate:"required,clock"`
	Capacity     int       `json:"capacity" validate:"gte=0"`
	BaseRate     float64   `json:"base_rate" validate:"gte=0"`
}

// Record builds a DanceClass with the given identifier.
func (d ClassDraft) Record(id string) DanceClass {
	return DanceClass{
		ID:           id,
		Name:         d.Name,
		InstructorID: d.InstructorID,
		Category:     d.Category,
		Days:         d.Days,
		StartTime:    d.StartTime,
		EndTime:      d.EndTime,
		Capacity:     d.Capacity,
		BaseRate:     d.BaseRate,
	}
}
