package scheduling

import (
	"campus_shuttle/internal/models"
)

// DefaultBusCapacity keeps bookings open on trips that have neither an
// assigned vehicle nor a schedule default.
const DefaultBusCapacity = 40

// TripCapacity resolves effective seating for a trip: the assigned
// vehicle's capacity, else the schedule's default vehicle, else the
// standard bus fallback. Absence of data degrades through the chain rather
// than failing.
func (e *Engine) TripCapacity(trip *models.DailyTrip) (int, error) {
	return e.tripCapacity(e.Store, trip)
}

func (e *Engine) tripCapacity(s Store, trip *models.DailyTrip) (int, error) {
	assignment, err := s.TripAssignment(trip.ID)
	if err != nil {
		return 0, err
	}
	if assignment != nil {
		vehicle, err := s.VehicleByID(assignment.VehicleID)
		if err != nil {
			return 0, err
		}
		return vehicle.Capacity, nil
	}

	sch, err := s.ScheduleByID(trip.ScheduleID)
	if err != nil {
		return 0, err
	}
	if sch.DefaultVehicleID != nil {
		vehicle, err := s.VehicleByID(*sch.DefaultVehicleID)
		if err != nil {
			return 0, err
		}
		return vehicle.Capacity, nil
	}

	return DefaultBusCapacity, nil
}

// AvailableSeats is capacity minus active (Confirmed or Checked-In)
// bookings, never negative.
func (e *Engine) AvailableSeats(trip *models.DailyTrip) (int, error) {
	return e.availableSeats(e.Store, trip)
}

func (e *Engine) availableSeats(s Store, trip *models.DailyTrip) (int, error) {
	capacity, err := e.tripCapacity(s, trip)
	if err != nil {
		return 0, err
	}
	booked, err := s.CountActiveBookings(trip.ID)
	if err != nil {
		return 0, err
	}
	seats := capacity - int(booked)
	if seats < 0 {
		seats = 0
	}
	return seats, nil
}
