package schedule

import "github.com/iliyamo/dance-studio-admin/internal/model"

// Indicator summarises how full a class is.
type Indicator string

const (
	IndicatorFull    Indicator = "full"    // ratio >= 100%
	IndicatorPartial Indicator = "partial" // ratio >= 50%
	IndicatorLow     Indicator = "low"
)

// Occupancy is the enrolment state of one class.
type Occupancy struct {
	ClassID   string    `json:"class_id"`
	Enrolled  int       `json:"enrolled"`
	Capacity  int       `json:"capacity"`
	Ratio     float64   `json:"ratio"`
	Percent   float64   `json:"percent"`
	Indicator Indicator `json:"indicator"`
}

// ComputeOccupancy counts the students whose enrolment list contains the
// class and derives the fill ratio.  A capacity of zero or less gives a
// ratio of zero.
func ComputeOccupancy(c model.DanceClass, students []model.Student) Occupancy {
	enrolled := 0
	for _, s := range students {
		if s.IsEnrolledIn(c.ID) {
			enrolled++
		}
	}
	ratio := 0.0
	if c.Capacity > 0 {
		ratio = float64(enrolled) / float64(c.Capacity)
	}
	return Occupancy{
		ClassID:   c.ID,
		Enrolled:  enrolled,
		Capacity:  c.Capacity,
		Ratio:     ratio,
		Percent:   ratio * 100,
		Indicator: indicatorFor(ratio),
	}
}

func indicatorFor(ratio float64) Indicator {
	switch {
	case ratio >= 1:
		return IndicatorFull
	case ratio >= 0.5:
		return IndicatorPartial
	default:
		return IndicatorLow
	}
}
