package scheduling

import (
	"time"

	"campus_shuttle/internal/models"
)

// ConflictCheck describes a candidate commitment of a driver and/or vehicle
// to the window [Start, Start+DurationMinutes) on TripDate. A zero resource
// ID means "unassigned" and is never checked.
//
// ExcludeAssignmentID ignores one existing assignment, for re-validating an
// assignment being edited. ExcludeScheduleID ignores every assignment
// belonging to that schedule's trips, for validating a schedule template
// against its own not-yet-regenerated trips.
type ConflictCheck struct {
	DriverID            uint
	VehicleID           uint
	TripDate            time.Time
	Start               time.Time
	DurationMinutes     int
	ExcludeAssignmentID uint
	ExcludeScheduleID   uint
}

// CheckResourceAvailability returns nil when both resources are free for
// the candidate window, or a *ConflictError naming the first collision.
// Driver and vehicle are checked independently; either failing fails the
// whole check.
func (e *Engine) CheckResourceAvailability(chk ConflictCheck) error {
	return e.checkResourceAvailability(e.Store, chk)
}

func (e *Engine) checkResourceAvailability(s Store, chk ConflictCheck) error {
	if chk.DriverID != 0 {
		assignments, err := s.AssignmentsForDriverOn(chk.DriverID, DateOnly(chk.TripDate))
		if err != nil {
			return err
		}
		if err := e.scanForConflict(s, "driver", assignments, chk); err != nil {
			return err
		}
	}
	if chk.VehicleID != 0 {
		assignments, err := s.AssignmentsForVehicleOn(chk.VehicleID, DateOnly(chk.TripDate))
		if err != nil {
			return err
		}
		if err := e.scanForConflict(s, "vehicle", assignments, chk); err != nil {
			return err
		}
	}
	return nil
}

// scanForConflict walks the resource's same-date commitments. Each
// candidate's window is derived from its own route geometry; volumes are
// per-resource per-day, so the linear scan is fine.
func (e *Engine) scanForConflict(s Store, resource string, assignments []models.DriverAssignment, chk ConflictCheck) error {
	end := chk.Start.Add(time.Duration(chk.DurationMinutes) * time.Minute)

	for _, a := range assignments {
		if chk.ExcludeAssignmentID != 0 && a.ID == chk.ExcludeAssignmentID {
			continue
		}
		if chk.ExcludeScheduleID != 0 && a.Trip.ScheduleID == chk.ExcludeScheduleID {
			continue
		}

		otherDur := e.tripDuration(s, a.Trip.Schedule.RouteID)
		otherStart := a.Trip.PlannedDeparture
		otherEnd := otherStart.Add(time.Duration(otherDur) * time.Minute)

		if overlaps(chk.Start, end, otherStart, otherEnd) {
			return &ConflictError{
				Resource: resource,
				TripID:   a.TripID,
				Start:    otherStart,
				End:      otherEnd,
			}
		}
	}
	return nil
}
