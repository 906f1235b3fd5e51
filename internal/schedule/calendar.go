package schedule

import (
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/iliyamo/dance-studio-admin/internal/model"
)

var rruleDay = map[model.Weekday]rrule.Weekday{
	model.Monday:    rrule.MO,
	model.Tuesday:   rrule.TU,
	model.Wednesday: rrule.WE,
	model.Thursday:  rrule.TH,
	model.Friday:    rrule.FR,
	model.Saturday:  rrule.SA,
	model.Sunday:    rrule.SU,
}

// Occurrence is one concrete session of a class.
type Occurrence struct {
	ClassID      string        `json:"class_id"`
	ClassName    string        `json:"class_name"`
	InstructorID string        `json:"instructor_id"`
	Day          model.Weekday `json:"day"`
	Start        time.Time     `json:"start"`
	End          time.Time     `json:"end"`
}

// weeklyOption builds the recurrence of c starting at dtstart.  ok is false
// when the class has no recognisable day.
func weeklyOption(c model.DanceClass, dtstart time.Time) (rrule.ROption, bool) {
	days := make([]rrule.Weekday, 0, len(c.Days))
	for _, d := range c.Days {
		if wd, ok := rruleDay[d]; ok {
			days = append(days, wd)
		}
	}
	if len(days) == 0 {
		return rrule.ROption{}, false
	}
	return rrule.ROption{Freq: rrule.WEEKLY, Byweekday: days, Dtstart: dtstart}, true
}

func atMinute(day time.Time, minute int, loc *time.Location) time.Time {
	y, m, d := day.In(loc).Date()
	return time.Date(y, m, d, minute/60, minute%60, 0, 0, loc)
}

// firstSession returns the first day on or after anchor on which c runs.
func firstSession(c model.DanceClass, anchor time.Time) (time.Time, bool) {
	for i := 0; i < 7; i++ {
		day := anchor.AddDate(0, 0, i)
		if c.RunsOn(model.WeekdayOf(day.Weekday())) {
			return day, true
		}
	}
	return time.Time{}, false
}

// ExportICS renders every class as a weekly recurring VEVENT.  The first
// session is the first matching day on or after anchor; anchor also serves
// as the DTSTAMP so that the output is reproducible.  Start and end are
// local times in loc, described by a VTIMEZONE.  Classes that run on no
// known day are left out.
func ExportICS(classes []model.DanceClass, instructors []model.Instructor, anchor time.Time, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.UTC
	}
	names := make(map[string]string, len(instructors))
	for _, in := range instructors {
		names[in.ID] = in.Name
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Dance Studio Admin//Weekly Schedule//EN")
	cal.SetXWRCalName("Studio schedule")
	cal.SetXWRTimezone(loc.String())
	addTimezone(cal, loc, anchor.In(loc).Year())

	for _, c := range classes {
		first, ok := firstSession(c, anchor.In(loc))
		if !ok {
			continue
		}
		start := atMinute(first, ParseClock(c.StartTime), loc)
		end := atMinute(first, ParseClock(c.EndTime), loc)
		opt, ok := weeklyOption(c, start)
		if !ok {
			continue
		}
		// validate the rule before it goes into the feed
		if _, err := rrule.NewRRule(opt); err != nil {
			return "", err
		}

		ev := cal.AddEvent(c.ID + "@dance-studio-admin")
		ev.SetDtStampTime(anchor.UTC())
		// wall-clock times with TZID so the weekly rule follows DST
		ev.SetProperty(ics.ComponentPropertyDtStart, start.Format(icsLocalFormat), ics.WithTZID(loc.String()))
		ev.SetProperty(ics.ComponentPropertyDtEnd, end.Format(icsLocalFormat), ics.WithTZID(loc.String()))
		ev.SetSummary(c.Name)
		desc := string(c.Category)
		if n := names[c.InstructorID]; n != "" {
			desc += " - " + n
		}
		ev.SetDescription(desc)
		ev.AddRrule(opt.RRuleString())
	}
	return cal.Serialize(), nil
}

// Upcoming expands the classes into concrete sessions that start within
// [from, to], ordered by start time and then class id.
func Upcoming(classes []model.DanceClass, from, to time.Time, loc *time.Location) ([]Occurrence, error) {
	if loc == nil {
		loc = time.UTC
	}
	out := make([]Occurrence, 0)
	for _, c := range classes {
		startMin := ParseClock(c.StartTime)
		length := time.Duration(ParseClock(c.EndTime)-startMin) * time.Minute
		opt, ok := weeklyOption(c, atMinute(from, startMin, loc))
		if !ok {
			continue
		}
		r, err := rrule.NewRRule(opt)
		if err != nil {
			return nil, err
		}
		for _, t := range r.Between(from, to, true) {
			t = t.In(loc)
			out = append(out, Occurrence{
				ClassID:      c.ID,
				ClassName:    c.Name,
				InstructorID: c.InstructorID,
				Day:          model.WeekdayOf(t.Weekday()),
				Start:        t,
				End:          t.Add(length),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ClassID < out[j].ClassID
	})
	return out, nil
}
