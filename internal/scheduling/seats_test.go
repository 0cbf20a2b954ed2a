package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus_shuttle/internal/models"
)

func TestAvailableSeats(t *testing.T) {
	t.Run("falls back to standard capacity with no vehicle anywhere", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		sch := weekSchedule(m.addRoute("Red Line"))
		schID := m.addSchedule(sch)
		trip := m.addTrip(schID, monday.Add(8*time.Hour))

		m.addBooking(1, trip.ID, models.BookingConfirmed)
		m.addBooking(2, trip.ID, models.BookingCheckedIn)
		m.addBooking(3, trip.ID, models.BookingCancelled) // does not count

		seats, err := e.AvailableSeats(trip)
		require.NoError(t, err)
		assert.Equal(t, DefaultBusCapacity-2, seats)
	})

	t.Run("assigned vehicle capacity wins", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		sch := weekSchedule(m.addRoute("Red Line"))
		schID := m.addSchedule(sch)
		trip := m.addTrip(schID, monday.Add(8*time.Hour))
		vehicleID := m.addVehicle(12)
		m.addAssignment(trip.ID, 1, vehicleID)

		for s := uint(1); s <= 5; s++ {
			m.addBooking(s, trip.ID, models.BookingConfirmed)
		}

		seats, err := e.AvailableSeats(trip)
		require.NoError(t, err)
		assert.Equal(t, 7, seats)
	})

	t.Run("schedule default vehicle is second in the chain", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		vehicleID := m.addVehicle(14)
		sch := weekSchedule(m.addRoute("Red Line"))
		sch.DefaultVehicleID = &vehicleID
		schID := m.addSchedule(sch)
		trip := m.addTrip(schID, monday.Add(8*time.Hour))

		seats, err := e.AvailableSeats(trip)
		require.NoError(t, err)
		assert.Equal(t, 14, seats)
	})

	t.Run("never negative when overbooked", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		sch := weekSchedule(m.addRoute("Red Line"))
		schID := m.addSchedule(sch)
		trip := m.addTrip(schID, monday.Add(8*time.Hour))
		vehicleID := m.addVehicle(12)
		m.addAssignment(trip.ID, 1, vehicleID)

		for s := uint(1); s <= 15; s++ {
			m.addBooking(s, trip.ID, models.BookingConfirmed)
		}

		seats, err := e.AvailableSeats(trip)
		require.NoError(t, err)
		assert.Zero(t, seats)
	})
}
