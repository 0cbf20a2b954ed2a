package scheduling

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus_shuttle/internal/models"
)

// commit books driver 1 / vehicle 2 onto a fresh trip departing at the
// given clock offset on monday, over a route whose run takes 60 minutes.
func commitHour(m *memStore, offset time.Duration) *models.DriverAssignment {
	routeID := m.addRoute("Loop", 0, 30, 60)
	schID := m.addSchedule(models.Schedule{RouteID: routeID, DaysOfWeek: "Mon", StartTime: "08:00", EndTime: "18:00", FrequencyMin: 60,
		ValidFrom: monday.AddDate(0, -1, 0), ValidTo: monday.AddDate(0, 1, 0)})
	trip := m.addTrip(schID, monday.Add(offset))
	return m.addAssignment(trip.ID, 1, 2)
}

func TestCheckResourceAvailability(t *testing.T) {
	t.Run("overlapping window conflicts", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		commitHour(m, 10*time.Hour) // driver 1 busy [10:00, 11:00)

		err := e.CheckResourceAvailability(ConflictCheck{
			DriverID: 1, TripDate: monday,
			Start: monday.Add(10*time.Hour + 30*time.Minute), DurationMinutes: 60,
		})
		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "driver", conflict.Resource)
		assert.Equal(t, monday.Add(10*time.Hour), conflict.Start)
	})

	t.Run("touching window does not conflict", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		commitHour(m, 10*time.Hour)

		err := e.CheckResourceAvailability(ConflictCheck{
			DriverID: 1, VehicleID: 2, TripDate: monday,
			Start: monday.Add(11 * time.Hour), DurationMinutes: 60,
		})
		assert.NoError(t, err)
	})

	t.Run("vehicle checked independently of driver", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		commitHour(m, 10*time.Hour) // vehicle 2 busy [10:00, 11:00)

		err := e.CheckResourceAvailability(ConflictCheck{
			DriverID: 9, VehicleID: 2, TripDate: monday,
			Start: monday.Add(10 * time.Hour), DurationMinutes: 30,
		})
		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "vehicle", conflict.Resource)
	})

	t.Run("unassigned resources are never checked", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		commitHour(m, 10*time.Hour)

		err := e.CheckResourceAvailability(ConflictCheck{
			TripDate: monday, Start: monday.Add(10 * time.Hour), DurationMinutes: 60,
		})
		assert.NoError(t, err)
	})

	t.Run("different date does not conflict", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		commitHour(m, 10*time.Hour)

		tuesday := monday.AddDate(0, 0, 1)
		err := e.CheckResourceAvailability(ConflictCheck{
			DriverID: 1, TripDate: tuesday,
			Start: tuesday.Add(10 * time.Hour), DurationMinutes: 60,
		})
		assert.NoError(t, err)
	})

	t.Run("exclude_assignment_id skips the assignment being edited", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		a := commitHour(m, 10*time.Hour)

		err := e.CheckResourceAvailability(ConflictCheck{
			DriverID: 1, TripDate: monday,
			Start: monday.Add(10 * time.Hour), DurationMinutes: 60,
			ExcludeAssignmentID: a.ID,
		})
		assert.NoError(t, err)
	})

	t.Run("exclude_schedule_id skips that schedule's trips", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		a := commitHour(m, 10*time.Hour)
		trip := m.tripByID(a.TripID)

		err := e.CheckResourceAvailability(ConflictCheck{
			DriverID: 1, TripDate: monday,
			Start: monday.Add(10 * time.Hour), DurationMinutes: 60,
			ExcludeScheduleID: trip.ScheduleID,
		})
		assert.NoError(t, err)

		// a different schedule's commitment still conflicts
		err = e.CheckResourceAvailability(ConflictCheck{
			DriverID: 1, TripDate: monday,
			Start: monday.Add(10 * time.Hour), DurationMinutes: 60,
			ExcludeScheduleID: trip.ScheduleID + 1000,
		})
		assert.Error(t, err)
	})
}

func TestConflictErrorMessage(t *testing.T) {
	err := &ConflictError{Resource: "driver", TripID: 7, Start: monday.Add(10 * time.Hour), End: monday.Add(11 * time.Hour)}
	assert.Contains(t, err.Error(), "driver")
	assert.Contains(t, err.Error(), "#7")
	assert.False(t, errors.Is(err, ErrTripFull))
}
