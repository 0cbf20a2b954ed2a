package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus_shuttle/internal/models"
)

// shortSchedule is a 45-minute advertised window departing hourly.
func shortSchedule(m *memStore, name, start, end string) uint {
	sch := weekSchedule(m.addRoute(name))
	sch.StartTime = start
	sch.EndTime = end
	sch.FrequencyMin = 60
	return m.addSchedule(sch)
}

func TestReserveSeat(t *testing.T) {
	t.Run("happy path confirms the booking", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		schID := shortSchedule(m, "Red Line", "09:00", "09:45")
		trip := m.addTrip(schID, monday.Add(9*time.Hour))

		booking, err := e.ReserveSeat(42, trip.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BookingConfirmed, booking.Status)
		assert.Equal(t, uint(42), booking.StudentID)
		assert.Equal(t, trip.ID, booking.TripID)
	})

	t.Run("duplicate active booking on the same trip rejected", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		schID := shortSchedule(m, "Red Line", "09:00", "09:45")
		trip := m.addTrip(schID, monday.Add(9*time.Hour))
		m.addBooking(42, trip.ID, models.BookingCheckedIn)

		_, err := e.ReserveSeat(42, trip.ID)
		assert.ErrorIs(t, err, ErrAlreadyBooked)
	})

	t.Run("overlapping booking on another route rejected", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		// existing confirmed booking 09:00-09:45
		schA := shortSchedule(m, "Route A", "09:00", "09:45")
		tripA := m.addTrip(schA, monday.Add(9*time.Hour))
		m.addBooking(42, tripA.ID, models.BookingConfirmed)

		// candidate 09:30-10:15 collides
		schB := shortSchedule(m, "Route B", "09:30", "10:15")
		tripB := m.addTrip(schB, monday.Add(9*time.Hour+30*time.Minute))

		_, err := e.ReserveSeat(42, tripB.ID)
		var overlap *OverlapError
		require.ErrorAs(t, err, &overlap)
		assert.Equal(t, "Route A", overlap.RouteName)
	})

	t.Run("exactly adjacent booking allowed", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		schA := shortSchedule(m, "Route A", "09:00", "09:45")
		tripA := m.addTrip(schA, monday.Add(9*time.Hour))
		m.addBooking(42, tripA.ID, models.BookingConfirmed)

		// candidate 09:45-10:30 touches but does not overlap
		schC := shortSchedule(m, "Route C", "09:45", "10:30")
		tripC := m.addTrip(schC, monday.Add(9*time.Hour+45*time.Minute))

		_, err := e.ReserveSeat(42, tripC.ID)
		assert.NoError(t, err)
	})

	t.Run("cancelled bookings do not block", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		schA := shortSchedule(m, "Route A", "09:00", "09:45")
		tripA := m.addTrip(schA, monday.Add(9*time.Hour))
		m.addBooking(42, tripA.ID, models.BookingCancelled)

		schB := shortSchedule(m, "Route B", "09:30", "10:15")
		tripB := m.addTrip(schB, monday.Add(9*time.Hour+30*time.Minute))

		_, err := e.ReserveSeat(42, tripB.ID)
		assert.NoError(t, err)
	})

	t.Run("full bus rejected", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		schID := shortSchedule(m, "Red Line", "09:00", "09:45")
		trip := m.addTrip(schID, monday.Add(9*time.Hour))
		vehicleID := m.addVehicle(2)
		m.addAssignment(trip.ID, 1, vehicleID)
		m.addBooking(1, trip.ID, models.BookingConfirmed)
		m.addBooking(2, trip.ID, models.BookingConfirmed)

		_, err := e.ReserveSeat(42, trip.ID)
		assert.ErrorIs(t, err, ErrTripFull)
	})

	t.Run("overnight windows overlap across midnight", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		// night service 23:00-07:00, booked departure 23:00 monday
		schNight := shortSchedule(m, "Night Owl", "23:00", "07:00")
		tripNight := m.addTrip(schNight, monday.Add(23*time.Hour))
		m.addBooking(42, tripNight.ID, models.BookingConfirmed)

		// candidate 02:00 tuesday sits inside the night window
		schEarly := shortSchedule(m, "Early Bird", "02:00", "03:00")
		tripEarly := m.addTrip(schEarly, monday.AddDate(0, 0, 1).Add(2*time.Hour))

		_, err := e.ReserveSeat(42, tripEarly.ID)
		var overlap *OverlapError
		require.ErrorAs(t, err, &overlap)
		assert.Equal(t, "Night Owl", overlap.RouteName)
	})
}

func TestAssignTrip(t *testing.T) {
	t.Run("creates assignment when resources free", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		schID := shortSchedule(m, "Red Line", "09:00", "09:45")
		trip := m.addTrip(schID, monday.Add(9*time.Hour))

		require.NoError(t, e.AssignTrip(trip.ID, 5, 6))
		a, err := m.TripAssignment(trip.ID)
		require.NoError(t, err)
		require.NotNil(t, a)
		assert.Equal(t, uint(5), a.DriverID)
		assert.Equal(t, uint(6), a.VehicleID)
	})

	t.Run("re-assignment does not conflict with itself", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		schID := shortSchedule(m, "Red Line", "09:00", "09:45")
		trip := m.addTrip(schID, monday.Add(9*time.Hour))
		m.addAssignment(trip.ID, 5, 6)

		// swap the vehicle, keep the driver
		require.NoError(t, e.AssignTrip(trip.ID, 5, 7))
		a, _ := m.TripAssignment(trip.ID)
		assert.Equal(t, uint(7), a.VehicleID)
		assert.Len(t, m.assignments, 1)
	})

	t.Run("busy driver rejected", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		commitHour(m, 9*time.Hour) // driver 1 busy [09:00, 10:00)

		schID := shortSchedule(m, "Other Line", "09:30", "10:15")
		trip := m.addTrip(schID, monday.Add(9*time.Hour+30*time.Minute))

		err := e.AssignTrip(trip.ID, 1, 99)
		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "driver", conflict.Resource)
	})
}
