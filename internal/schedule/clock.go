// Package schedule turns the studio's classes into the weekly board shown
// on the dashboard: grid positions, occupancy indicators, calendar export
// and upcoming occurrences.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClock converts an "HH:MM" string into minutes since midnight.  It is
// total: a missing or non-numeric part counts as zero, so "18" is 1080 and
// "xx:30" is 30.  Strict checking belongs to request validation.
func ParseClock(s string) int {
	hh, mm, _ := strings.Cut(strings.TrimSpace(s), ":")
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	return h*60 + m
}

// ValidClock reports whether s is a well formed 24h "HH:MM" time.
func ValidClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil || h < 0 || h > 23 {
		return false
	}
	m, err := strconv.Atoi(s[3:])
	return err == nil && m >= 0 && m <= 59
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Window is the visible part of the day on the weekly board.
type Window struct {
	StartMinute int `json:"start_minute"`
	EndMinute   int `json:"end_minute"`
}

// DefaultWindow shows 09:00–22:00, 780 minutes.
var DefaultWindow = Window{StartMinute: 9 * 60, EndMinute: 22 * 60}

// NewWindow builds a window from two "HH:MM" strings.
func NewWindow(start, end string) (Window, error) {
	if !ValidClock(start) || !ValidClock(end) {
		return Window{}, fmt.Errorf("schedule window %q-%q: times must be HH:MM", start, end)
	}
	w := Window{StartMinute: ParseClock(start), EndMinute: ParseClock(end)}
	if w.Total() <= 0 {
		return Window{}, fmt.Errorf("schedule window %q-%q: end must be after start", start, end)
	}
	return w, nil
}

// Total returns the window length in minutes.
func (w Window) Total() int {
	return w.EndMinute - w.StartMinute
}

// TimeSlots returns the hourly gutter labels, one per full hour from the
// window start up to but excluding the end.
func TimeSlots(w Window) []string {
	slots := make([]string, 0, w.Total()/60+1)
	for m := w.StartMinute; m < w.EndMinute; m += 60 {
		slots = append(slots, FormatClock(m))
	}
	return slots
}
