// Package scheduling implements the operational core of the platform:
// expanding recurring schedules into dated trips, keeping drivers and
// vehicles from being double-booked, and guarding seat reservations.
package scheduling

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"campus_shuttle/internal/models"
)

// Engine runs the expansion, conflict and booking algorithms against a
// Store. Now is swappable so date arithmetic is deterministic under test.
type Engine struct {
	Store Store
	Now   func() time.Time
}

// NewEngine builds an engine over the given database handle.
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{Store: NewStore(db), Now: time.Now}
}

// weekday tokens as stored in Schedule.DaysOfWeek
var weekdayTokens = map[time.Weekday]string{
	time.Monday:    "Mon",
	time.Tuesday:   "Tue",
	time.Wednesday: "Wed",
	time.Thursday:  "Thu",
	time.Friday:    "Fri",
	time.Saturday:  "Sat",
	time.Sunday:    "Sun",
}

// DateOnly truncates t to midnight in its own location. Every trip_date
// key in the database is derived through this, so callers querying by date
// must use it too rather than Truncate, which rounds to UTC midnight.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// parseClock parses an "HH:MM" 24h time-of-day string.
func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// runsOn reports whether the schedule's weekday set contains d's weekday.
func runsOn(sch *models.Schedule, d time.Time) bool {
	token := weekdayTokens[d.Weekday()]
	for _, day := range strings.Split(sch.DaysOfWeek, ",") {
		if strings.TrimSpace(day) == token {
			return true
		}
	}
	return false
}

// inValidity reports whether date d falls inside the schedule's inclusive
// validity range.
func inValidity(sch *models.Schedule, d time.Time) bool {
	if !sch.ValidFrom.IsZero() && d.Before(DateOnly(sch.ValidFrom)) {
		return false
	}
	if !sch.ValidTo.IsZero() && d.After(DateOnly(sch.ValidTo)) {
		return false
	}
	return true
}

// slotsForDay enumerates every departure instant the schedule implies for
// calendar date d. An end time earlier than the start time wraps the window
// past midnight into d+1.
func slotsForDay(sch *models.Schedule, d time.Time) ([]time.Time, error) {
	if !runsOn(sch, d) || !inValidity(sch, d) {
		return nil, nil
	}

	start, err := parseClock(sch.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(sch.EndTime)
	if err != nil {
		return nil, err
	}

	cursor := DateOnly(d).Add(start)
	boundary := DateOnly(d).Add(end)
	if end < start {
		boundary = boundary.Add(24 * time.Hour) // overnight window
	}

	if sch.FrequencyMin < 1 {
		return nil, fmt.Errorf("schedule %d has invalid frequency %d", sch.ID, sch.FrequencyMin)
	}

	var slots []time.Time
	for cursor.Before(boundary) {
		slots = append(slots, cursor)
		cursor = cursor.Add(time.Duration(sch.FrequencyMin) * time.Minute)
	}
	return slots, nil
}

// scheduleWindowDuration is the advertised length of one trip as derived
// from the schedule's daily start/end window, overnight aware. This is the
// duration students see; resource conflicts use the route-geometry estimate
// instead (see TripDuration).
func scheduleWindowDuration(sch *models.Schedule) (time.Duration, error) {
	start, err := parseClock(sch.StartTime)
	if err != nil {
		return 0, err
	}
	end, err := parseClock(sch.EndTime)
	if err != nil {
		return 0, err
	}
	if end < start {
		end += 24 * time.Hour
	}
	return end - start, nil
}

// overlaps tests half-open interval intersection: touching windows do not
// overlap.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
