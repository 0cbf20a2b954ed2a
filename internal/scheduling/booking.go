package scheduling

import (
	"time"

	"campus_shuttle/internal/models"
)

// ReserveSeat books the student onto the trip as Confirmed, after rejecting
// a duplicate active booking on the same trip, a time clash with any of the
// student's other confirmed bookings within a day either side, and a full
// bus. The whole check-then-create sequence runs in one transaction with
// the trip row locked, so two students racing for the last seat cannot both
// get it.
//
// The overlap window is derived from the schedule's advertised start/end
// (overnight aware), matching the time slot the student selected; resource
// conflicts use route geometry instead.
func (e *Engine) ReserveSeat(studentID, tripID uint) (*models.Booking, error) {
	var booking *models.Booking

	err := e.Store.Transact(func(s Store) error {
		trip, err := s.LockTrip(tripID)
		if err != nil {
			return err
		}

		already, err := s.HasActiveBooking(studentID, trip.ID)
		if err != nil {
			return err
		}
		if already {
			return ErrAlreadyBooked
		}

		sch, err := s.ScheduleByID(trip.ScheduleID)
		if err != nil {
			return err
		}
		duration, err := scheduleWindowDuration(sch)
		if err != nil {
			return err
		}
		reqStart := trip.PlannedDeparture
		reqEnd := reqStart.Add(duration)

		others, err := s.ConfirmedBookingsNear(studentID, DateOnly(trip.TripDate))
		if err != nil {
			return err
		}
		for _, other := range others {
			if other.TripID == trip.ID {
				continue
			}
			otherDur, err := scheduleWindowDuration(&other.Trip.Schedule)
			if err != nil {
				return err
			}
			otherStart := other.Trip.PlannedDeparture
			otherEnd := otherStart.Add(otherDur)
			if overlaps(reqStart, reqEnd, otherStart, otherEnd) {
				return &OverlapError{
					RouteName: other.Trip.Schedule.Route.Name,
					Start:     otherStart,
					End:       otherEnd,
				}
			}
		}

		seats, err := e.availableSeats(s, trip)
		if err != nil {
			return err
		}
		if seats <= 0 {
			return ErrTripFull
		}

		booking = &models.Booking{
			StudentID:   studentID,
			TripID:      trip.ID,
			BookingTime: e.Now(),
			Status:      models.BookingConfirmed,
		}
		return s.CreateBooking(booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// AssignTrip binds a driver and vehicle to a trip, replacing any existing
// assignment, after conflict-checking the pair against their other
// commitments that date. The existing assignment (if any) is excluded from
// the check so re-saving it does not conflict with itself.
func (e *Engine) AssignTrip(tripID, driverID, vehicleID uint) error {
	return e.Store.Transact(func(s Store) error {
		trip, err := s.LockTrip(tripID)
		if err != nil {
			return err
		}
		sch, err := s.ScheduleByID(trip.ScheduleID)
		if err != nil {
			return err
		}

		existing, err := s.TripAssignment(trip.ID)
		if err != nil {
			return err
		}
		var excludeID uint
		if existing != nil {
			excludeID = existing.ID
		}

		chk := ConflictCheck{
			DriverID:            driverID,
			VehicleID:           vehicleID,
			TripDate:            DateOnly(trip.TripDate),
			Start:               trip.PlannedDeparture,
			DurationMinutes:     e.tripDuration(s, sch.RouteID),
			ExcludeAssignmentID: excludeID,
		}
		if err := e.checkResourceAvailability(s, chk); err != nil {
			return err
		}

		if existing != nil {
			existing.DriverID = driverID
			existing.VehicleID = vehicleID
			return s.SaveAssignment(existing)
		}
		assignment := models.DriverAssignment{
			TripID:         trip.ID,
			DriverID:       driverID,
			VehicleID:      vehicleID,
			AssignmentDate: DateOnly(e.Now()),
		}
		return s.CreateAssignment(&assignment)
	})
}

// TripWindow is the advertised window for a trip, schedule-window based.
// Used by the booking surface to render slot times.
func (e *Engine) TripWindow(trip *models.DailyTrip) (start, end time.Time, err error) {
	sch, err := e.Store.ScheduleByID(trip.ScheduleID)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	duration, err := scheduleWindowDuration(sch)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return trip.PlannedDeparture, trip.PlannedDeparture.Add(duration), nil
}
