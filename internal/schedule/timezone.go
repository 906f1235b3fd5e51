package schedule

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

// icsLocalFormat is the date-time form used together with a TZID parameter.
const icsLocalFormat = "20060102T150405"

var (
	propTzOffsetFrom = ics.ComponentProperty(ics.PropertyTzoffsetfrom)
	propTzOffsetTo   = ics.ComponentProperty(ics.PropertyTzoffsetto)
	propTzName       = ics.ComponentProperty("TZNAME")
)

// zoneChange is one offset transition of a location.
type zoneChange struct {
	at       time.Time
	from, to int // seconds east of UTC
	name     string
	daylight bool
}

// zoneChanges lists the offset transitions of loc during year.
func zoneChanges(loc *time.Location, year int) []zoneChange {
	var out []zoneChange
	t := time.Date(year, 1, 1, 0, 0, 0, 0, loc)
	end := time.Date(year+1, 1, 1, 0, 0, 0, 0, loc)
	for {
		_, next := t.ZoneBounds()
		if next.IsZero() || !next.Before(end) {
			return out
		}
		_, from := next.Add(-time.Second).Zone()
		name, to := next.Zone()
		if from != to {
			out = append(out, zoneChange{at: next, from: from, to: to, name: name, daylight: next.IsDST()})
		}
		t = next
	}
}

// addTimezone writes the VTIMEZONE of loc.  Each transition seen in year
// becomes a yearly rule on the same weekday of the month; a location
// without transitions gets a single fixed STANDARD block.
func addTimezone(cal *ics.Calendar, loc *time.Location, year int) {
	tz := cal.AddTimezone(loc.String())
	changes := zoneChanges(loc, year)
	if len(changes) == 0 {
		name, off := time.Date(year, 1, 1, 0, 0, 0, 0, loc).Zone()
		std := tz.AddStandard()
		std.SetProperty(ics.ComponentPropertyDtStart, "19700101T000000")
		std.SetProperty(propTzOffsetFrom, utcOffset(off))
		std.SetProperty(propTzOffsetTo, utcOffset(off))
		std.SetProperty(propTzName, name)
		return
	}
	for _, ch := range changes {
		var block *ics.ComponentBase
		if ch.daylight {
			d := &ics.Daylight{}
			tz.Components = append(tz.Components, d)
			block = &d.ComponentBase
		} else {
			block = &tz.AddStandard().ComponentBase
		}
		wall := ch.at.In(time.FixedZone("", ch.from))
		block.SetProperty(ics.ComponentPropertyDtStart, wall.Format(icsLocalFormat))
		block.SetProperty(propTzOffsetFrom, utcOffset(ch.from))
		block.SetProperty(propTzOffsetTo, utcOffset(ch.to))
		block.SetProperty(propTzName, ch.name)
		block.SetProperty(ics.ComponentPropertyRrule, yearlyRule(wall))
	}
}

// yearlyRule describes the weekday position of t in its month, e.g.
// "FREQ=YEARLY;BYMONTH=10;BYDAY=-1SU" for the last Sunday of October.
func yearlyRule(t time.Time) string {
	day := [...]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}[t.Weekday()]
	lastDay := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	pos := (t.Day()-1)/7 + 1
	if t.Day()+7 > lastDay {
		pos = -1
	}
	return fmt.Sprintf("FREQ=YEARLY;BYMONTH=%d;BYDAY=%d%s", int(t.Month()), pos, day)
}

func utcOffset(sec int) string {
	sign := '+'
	if sec < 0 {
		sign, sec = '-', -sec
	}
	return fmt.Sprintf("%c%02d%02d", sign, sec/3600, sec%3600/60)
}
