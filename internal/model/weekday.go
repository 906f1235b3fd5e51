package model

import "time"

// Weekday names a day on which a class recurs.  Values are the English
// day names so that JSON payloads and the seed file stay readable.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// AllWeekdays lists every weekday in calendar order starting on Monday.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Valid reports whether d is one of the seven known day names.
func (d Weekday) Valid() bool {
	return d.Index() > 0
}

// Index returns 1 for Monday through 7 for Sunday and 0 for an unknown value.
func (d Weekday) Index() int {
	for i, w := range AllWeekdays {
		if w == d {
			return i + 1
		}
	}
	return 0
}

// WeekdayOf converts a time.Weekday into the studio's Weekday.
func WeekdayOf(w time.Weekday) Weekday {
	if w == time.Sunday {
		return Sunday
	}
	return AllWeekdays[int(w)-1]
}
