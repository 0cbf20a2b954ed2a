package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus_shuttle/internal/models"
)

func TestGenerateTripsForSchedule(t *testing.T) {
	t.Run("end to end monday scenario", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		routeID := m.addRoute("Red Line", 0, 10, 25)
		vehicleID := m.addVehicle(40)
		driverID := m.id()
		sch := weekSchedule(routeID)
		sch.DefaultDriverID = &driverID
		sch.DefaultVehicleID = &vehicleID
		schID := m.addSchedule(sch)
		sch.ID = schID

		created, err := e.GenerateTripsForSchedule(&sch, 7)
		require.NoError(t, err)
		// 5 weekdays in the window, 6 slots each (07:30 .. 10:00)
		assert.Equal(t, 30, created)

		var mondayTrips []*models.DailyTrip
		for _, trip := range m.trips {
			if trip.TripDate.Equal(monday) {
				mondayTrips = append(mondayTrips, trip)
			}
		}
		require.Len(t, mondayTrips, 6)
		assert.Equal(t, monday.Add(7*time.Hour+30*time.Minute), mondayTrips[0].PlannedDeparture)
		assert.Equal(t, monday.Add(10*time.Hour), mondayTrips[5].PlannedDeparture)

		// every new trip got the default pair assigned
		assert.Len(t, m.assignments, 30)
		for _, a := range m.assignments {
			assert.Equal(t, driverID, a.DriverID)
			assert.Equal(t, vehicleID, a.VehicleID)
		}
	})

	t.Run("re-run is idempotent", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		sch := weekSchedule(m.addRoute("Red Line", 0, 25))
		sch.ID = m.addSchedule(sch)

		first, err := e.GenerateTripsForSchedule(&sch, 7)
		require.NoError(t, err)
		assert.Equal(t, 30, first)

		again, err := e.GenerateTripsForSchedule(&sch, 7)
		require.NoError(t, err)
		assert.Zero(t, again)
		assert.Len(t, m.trips, 30)
	})

	t.Run("day filter generates nothing off-pattern", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		sch := weekSchedule(m.addRoute("Mon Wed Line"))
		sch.DaysOfWeek = "Mon,Wed"
		sch.ID = m.addSchedule(sch)

		_, err := e.GenerateTripsForSchedule(&sch, 7)
		require.NoError(t, err)
		for _, trip := range m.trips {
			day := trip.TripDate.Weekday()
			assert.Contains(t, []time.Weekday{time.Monday, time.Wednesday}, day)
		}
	})

	t.Run("zero days ahead creates nothing", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		sch := weekSchedule(m.addRoute("Red Line"))
		sch.ID = m.addSchedule(sch)

		created, err := e.GenerateTripsForSchedule(&sch, 0)
		require.NoError(t, err)
		assert.Zero(t, created)
	})

	t.Run("overnight slots land on the next service date", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		sch := weekSchedule(m.addRoute("Night Owl"))
		sch.DaysOfWeek = "Mon"
		sch.StartTime = "23:00"
		sch.EndTime = "07:00"
		sch.FrequencyMin = 60
		sch.ID = m.addSchedule(sch)

		created, err := e.GenerateTripsForSchedule(&sch, 7)
		require.NoError(t, err)
		assert.Equal(t, 8, created)

		tuesday := monday.AddDate(0, 0, 1)
		var onMonday, onTuesday int
		for _, trip := range m.trips {
			switch {
			case trip.TripDate.Equal(monday):
				onMonday++
			case trip.TripDate.Equal(tuesday):
				onTuesday++
			}
			assert.Equal(t, DateOnly(trip.PlannedDeparture), trip.TripDate)
		}
		assert.Equal(t, 1, onMonday) // the 23:00 departure
		assert.Equal(t, 7, onTuesday)
	})

	t.Run("busy default resources leave the trip unassigned", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		// driver 1 / vehicle 2 already committed [10:00, 11:00) on monday
		commitHour(m, 10*time.Hour)

		driverID, vehicleID := uint(1), uint(2)
		sch := weekSchedule(m.addRoute("Clash Line", 0, 45))
		sch.DaysOfWeek = "Mon"
		sch.StartTime = "10:00"
		sch.EndTime = "11:00"
		sch.FrequencyMin = 60
		sch.DefaultDriverID = &driverID
		sch.DefaultVehicleID = &vehicleID
		sch.ID = m.addSchedule(sch)

		created, err := e.GenerateTripsForSchedule(&sch, 7)
		require.NoError(t, err)
		assert.Equal(t, 1, created)

		// only the pre-existing commitment holds an assignment
		assert.Len(t, m.assignments, 1)
	})

	t.Run("auto-assignment runs inside a transaction per slot", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		routeID := m.addRoute("Red Line", 0, 25)
		vehicleID := m.addVehicle(40)
		driverID := m.id()
		sch := weekSchedule(routeID)
		sch.DaysOfWeek = "Mon"
		sch.DefaultDriverID = &driverID
		sch.DefaultVehicleID = &vehicleID
		sch.ID = m.addSchedule(sch)

		created, err := e.GenerateTripsForSchedule(&sch, 1)
		require.NoError(t, err)
		require.Equal(t, 6, created)

		// one locked check-then-create per assigned slot, same path as
		// manual assignment
		assert.Len(t, m.assignments, 6)
		assert.Equal(t, 6, m.transactCalls)
	})
}

func TestPruneStaleTrips(t *testing.T) {
	m := newMemStore()
	e := testEngine(m)
	sch := weekSchedule(m.addRoute("Red Line"))
	schID := m.addSchedule(sch)

	past := m.addTrip(schID, monday.AddDate(0, 0, -3).Add(8*time.Hour))
	today := m.addTrip(schID, monday.Add(8*time.Hour))
	future := m.addTrip(schID, monday.AddDate(0, 0, 2).Add(8*time.Hour))
	inProgress := m.addTrip(schID, monday.AddDate(0, 0, 1).Add(8*time.Hour))
	inProgress.Status = models.TripInProgress
	completed := m.addTrip(schID, monday.AddDate(0, 0, 1).Add(9*time.Hour))
	completed.Status = models.TripCompleted

	removed, err := e.PruneStaleTrips(schID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed) // today + future Scheduled only

	remaining := map[uint]bool{}
	for _, trip := range m.trips {
		remaining[trip.ID] = true
	}
	assert.True(t, remaining[past.ID])
	assert.True(t, remaining[inProgress.ID])
	assert.True(t, remaining[completed.ID])
	assert.False(t, remaining[today.ID])
	assert.False(t, remaining[future.ID])
}

func TestValidateScheduleResources(t *testing.T) {
	t.Run("no defaults is always valid", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		sch := weekSchedule(m.addRoute("Red Line"))
		assert.NoError(t, e.ValidateScheduleResources(&sch))
	})

	t.Run("conflicting slot aborts with its date", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)
		commitHour(m, 10*time.Hour) // driver 1 busy [10:00, 11:00) monday

		driverID := uint(1)
		sch := weekSchedule(m.addRoute("Clash Line", 0, 30))
		sch.DaysOfWeek = "Mon"
		sch.StartTime = "10:00"
		sch.EndTime = "12:00"
		sch.FrequencyMin = 60
		sch.DefaultDriverID = &driverID
		sch.ID = m.addSchedule(sch)

		err := e.ValidateScheduleResources(&sch)
		require.Error(t, err)
		var conflict *ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Contains(t, err.Error(), "2025-06-02")
	})

	t.Run("own schedule's trips are excluded", func(t *testing.T) {
		m := newMemStore()
		e := testEngine(m)

		driverID := uint(1)
		sch := weekSchedule(m.addRoute("Self Line", 0, 30))
		sch.DaysOfWeek = "Mon"
		sch.StartTime = "10:00"
		sch.EndTime = "11:00"
		sch.FrequencyMin = 60
		sch.DefaultDriverID = &driverID
		sch.ID = m.addSchedule(sch)

		// the schedule's own previously generated trip + assignment
		trip := m.addTrip(sch.ID, monday.Add(10*time.Hour))
		m.addAssignment(trip.ID, driverID, 0)

		assert.NoError(t, e.ValidateScheduleResources(&sch))
	})
}
