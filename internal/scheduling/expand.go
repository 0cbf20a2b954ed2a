package scheduling

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"campus_shuttle/internal/models"
)

// ValidationLookaheadDays bounds the slot sample simulated when a schedule
// with default resources is saved. Generation itself is bounded by the
// caller's daysAhead, so the two windows can differ; this one is a
// deliberate performance cap, not a hidden magic number.
const ValidationLookaheadDays = 30

// GenerateTripsForSchedule materializes DailyTrip rows for every slot the
// schedule implies over [today, today+daysAhead). Trip identity is
// (schedule, planned_departure), so re-running only fills gaps. Newly
// created trips get the schedule's default driver/vehicle attached when the
// conflict check passes; busy slots are left unassigned for manual
// resolution. Returns the number of trips newly created.
func (e *Engine) GenerateTripsForSchedule(sch *models.Schedule, daysAhead int) (int, error) {
	today := DateOnly(e.Now())
	created := 0

	for i := 0; i < daysAhead; i++ {
		slots, err := slotsForDay(sch, today.AddDate(0, 0, i))
		if err != nil {
			return created, err
		}

		for _, slot := range slots {
			trip := models.DailyTrip{
				ScheduleID: sch.ID,
				// Overnight slots past midnight belong to the next
				// service date.
				TripDate:         DateOnly(slot),
				PlannedDeparture: slot,
				Status:           models.TripScheduled,
			}
			isNew, err := e.Store.FirstOrCreateTrip(&trip)
			if err != nil {
				return created, err
			}
			if !isNew {
				continue
			}
			created++

			if sch.DefaultDriverID == nil || sch.DefaultVehicleID == nil {
				continue
			}
			if err := e.autoAssign(sch, &trip); err != nil {
				return created, err
			}
		}
	}
	return created, nil
}

// autoAssign attaches the schedule's default driver and vehicle to a
// freshly generated trip, holding the trip row across the check-then-create
// sequence exactly as manual assignment does. A busy resource is not an
// error: the trip is left unassigned for manual resolution and the slot is
// logged.
func (e *Engine) autoAssign(sch *models.Schedule, trip *models.DailyTrip) error {
	err := e.Store.Transact(func(s Store) error {
		locked, err := s.LockTrip(trip.ID)
		if err != nil {
			return err
		}
		chk := ConflictCheck{
			DriverID:        *sch.DefaultDriverID,
			VehicleID:       *sch.DefaultVehicleID,
			TripDate:        locked.TripDate,
			Start:           locked.PlannedDeparture,
			DurationMinutes: e.tripDuration(s, sch.RouteID),
		}
		if err := e.checkResourceAvailability(s, chk); err != nil {
			return err
		}
		assignment := models.DriverAssignment{
			TripID:         locked.ID,
			DriverID:       *sch.DefaultDriverID,
			VehicleID:      *sch.DefaultVehicleID,
			AssignmentDate: DateOnly(e.Now()),
		}
		return s.CreateAssignment(&assignment)
	})

	var conflict *ConflictError
	if errors.As(err, &conflict) {
		logrus.WithFields(logrus.Fields{
			"schedule_id": sch.ID,
			"trip_id":     trip.ID,
			"slot":        trip.PlannedDeparture,
		}).WithError(conflict).Info("generation: default resources busy, trip left unassigned")
		return nil
	}
	return err
}

// PruneStaleTrips deletes this schedule's future trips still in Scheduled
// status. Called before regeneration when a critical field (route, days,
// start, end) changed, so slots computed from the old parameters do not
// linger next to fresh ones. Trips already underway or finished are never
// touched.
func (e *Engine) PruneStaleTrips(scheduleID uint) (int64, error) {
	return e.Store.DeleteFutureScheduledTrips(scheduleID, DateOnly(e.Now()))
}

// ValidateScheduleResources simulates a bounded look-ahead of the slots the
// schedule would produce and conflict-checks each against existing
// commitments, excluding the schedule's own trips. The first colliding slot
// aborts with its date and window, so a schedule that saves cleanly also
// generates cleanly: validation and generation share the same duration and
// overlap primitives.
func (e *Engine) ValidateScheduleResources(sch *models.Schedule) error {
	if sch.DefaultDriverID == nil && sch.DefaultVehicleID == nil {
		return nil
	}

	today := DateOnly(e.Now())
	duration := e.TripDuration(sch.RouteID)

	var driverID, vehicleID uint
	if sch.DefaultDriverID != nil {
		driverID = *sch.DefaultDriverID
	}
	if sch.DefaultVehicleID != nil {
		vehicleID = *sch.DefaultVehicleID
	}

	for i := 0; i < ValidationLookaheadDays; i++ {
		day := today.AddDate(0, 0, i)
		if !sch.ValidTo.IsZero() && day.After(DateOnly(sch.ValidTo)) {
			break
		}
		slots, err := slotsForDay(sch, day)
		if err != nil {
			return err
		}
		for _, slot := range slots {
			chk := ConflictCheck{
				DriverID:          driverID,
				VehicleID:         vehicleID,
				TripDate:          DateOnly(slot),
				Start:             slot,
				DurationMinutes:   duration,
				ExcludeScheduleID: sch.ID,
			}
			if err := e.CheckResourceAvailability(chk); err != nil {
				var conflict *ConflictError
				if errors.As(err, &conflict) {
					return fmt.Errorf("slot %s: %w", slot.Format("Mon 2006-01-02 15:04"), conflict)
				}
				return err
			}
		}
	}
	return nil
}
