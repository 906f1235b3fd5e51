// Package jobs holds the background work scheduled with cron.
package jobs

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/iliyamo/dance-studio-admin/internal/logger"
	"github.com/iliyamo/dance-studio-admin/internal/model"
	"github.com/iliyamo/dance-studio-admin/internal/queue"
	"github.com/iliyamo/dance-studio-admin/internal/schedule"
	"github.com/iliyamo/dance-studio-admin/internal/state"
)

// RosterEntry is one class running on the roster day.
type RosterEntry struct {
	ClassID    string             `json:"class_id"`
	ClassName  string             `json:"class_name"`
	StartTime  string             `json:"start_time"`
	EndTime    string             `json:"end_time"`
	Instructor string             `json:"instructor"`
	Occupancy  schedule.Occupancy `json:"occupancy"`
}

// DailyRoster lists the classes that run on day, earliest first.
func DailyRoster(s state.State, day model.Weekday) []RosterEntry {
	out := []RosterEntry{}
	for _, c := range s.Classes {
		if !c.RunsOn(day) {
			continue
		}
		name := ""
		if in, ok := s.InstructorByID(c.InstructorID); ok {
			name = in.Name
		}
		out = append(out, RosterEntry{
			ClassID:    c.ID,
			ClassName:  c.Name,
			StartTime:  c.StartTime,
			EndTime:    c.EndTime,
			Instructor: name,
			Occupancy:  schedule.ComputeOccupancy(c, s.Students),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return schedule.ParseClock(out[i].StartTime) < schedule.ParseClock(out[j].StartTime)
	})
	return out
}

// RosterJob publishes the day's roster.  It implements cron.Job.
type RosterJob struct {
	Store     *state.Store
	Publisher queue.Publisher
	Timeout   time.Duration
}

// Run computes today's roster in the studio time zone, logs one line per
// class and publishes a single roster.daily event.
func (j *RosterJob) Run() {
	now := j.Store.Now()
	day := model.WeekdayOf(now.Weekday())
	roster := DailyRoster(j.Store.Snapshot(), day)

	for _, e := range roster {
		logger.LogInfo("roster",
			"day", string(day),
			"class_id", e.ClassID,
			"class", e.ClassName,
			"start", e.StartTime,
			"instructor", e.Instructor,
			"enrolled", e.Occupancy.Enrolled,
			"capacity", e.Occupancy.Capacity,
			"indicator", string(e.Occupancy.Indicator),
		)
	}

	ev := queue.NewEvent(queue.RosterDaily, j.Store.Today(), string(day))
	ev.Details = map[string]any{"classes": len(roster)}
	timeout := j.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := j.Publisher.Publish(ctx, ev); err != nil {
		logger.LogError("roster: publish failed", err)
	}
}

// StartScheduler registers job under spec in loc and starts the cron
// runner.  The caller stops it on shutdown.
func StartScheduler(spec string, loc *time.Location, job cron.Job) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddJob(spec, job); err != nil {
		return nil, fmt.Errorf("invalid ROSTER_CRON %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
