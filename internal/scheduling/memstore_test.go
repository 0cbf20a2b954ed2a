package scheduling

import (
	"fmt"
	"time"

	"campus_shuttle/internal/models"
)

// memStore is a hand-rolled in-memory Store so the engine's date and
// interval arithmetic can be exercised without a database.
type memStore struct {
	routeStops  map[uint][]models.RouteStop
	schedules   map[uint]*models.Schedule
	vehicles    map[uint]*models.Vehicle
	routes      map[uint]*models.Route
	trips       []*models.DailyTrip
	assignments []*models.DriverAssignment
	bookings    []*models.Booking
	nextID      uint

	transactCalls int
}

func newMemStore() *memStore {
	return &memStore{
		routeStops: map[uint][]models.RouteStop{},
		schedules:  map[uint]*models.Schedule{},
		vehicles:   map[uint]*models.Vehicle{},
		routes:     map[uint]*models.Route{},
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memStore) RouteStops(routeID uint) ([]models.RouteStop, error) {
	return m.routeStops[routeID], nil
}

func (m *memStore) ScheduleByID(id uint) (*models.Schedule, error) {
	sch, ok := m.schedules[id]
	if !ok {
		return nil, fmt.Errorf("schedule %d not found", id)
	}
	out := *sch
	if r, ok := m.routes[sch.RouteID]; ok {
		out.Route = *r
	}
	return &out, nil
}

func (m *memStore) VehicleByID(id uint) (*models.Vehicle, error) {
	v, ok := m.vehicles[id]
	if !ok {
		return nil, fmt.Errorf("vehicle %d not found", id)
	}
	return v, nil
}

func (m *memStore) tripByID(id uint) *models.DailyTrip {
	for _, t := range m.trips {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// hydrate fills Trip and Trip.Schedule the way the GORM store preloads them.
func (m *memStore) hydrate(a models.DriverAssignment) models.DriverAssignment {
	if t := m.tripByID(a.TripID); t != nil {
		a.Trip = *t
		if sch, ok := m.schedules[t.ScheduleID]; ok {
			a.Trip.Schedule = *sch
		}
	}
	return a
}

func (m *memStore) assignmentsOn(date time.Time, match func(*models.DriverAssignment) bool) []models.DriverAssignment {
	var out []models.DriverAssignment
	for _, a := range m.assignments {
		if !match(a) {
			continue
		}
		t := m.tripByID(a.TripID)
		if t == nil || !t.TripDate.Equal(date) {
			continue
		}
		out = append(out, m.hydrate(*a))
	}
	return out
}

func (m *memStore) AssignmentsForDriverOn(driverID uint, date time.Time) ([]models.DriverAssignment, error) {
	return m.assignmentsOn(date, func(a *models.DriverAssignment) bool { return a.DriverID == driverID }), nil
}

func (m *memStore) AssignmentsForVehicleOn(vehicleID uint, date time.Time) ([]models.DriverAssignment, error) {
	return m.assignmentsOn(date, func(a *models.DriverAssignment) bool { return a.VehicleID == vehicleID }), nil
}

func (m *memStore) FirstOrCreateTrip(trip *models.DailyTrip) (bool, error) {
	for _, t := range m.trips {
		if t.ScheduleID == trip.ScheduleID && t.PlannedDeparture.Equal(trip.PlannedDeparture) {
			*trip = *t
			return false, nil
		}
	}
	trip.ID = m.id()
	stored := *trip
	m.trips = append(m.trips, &stored)
	return true, nil
}

func (m *memStore) DeleteFutureScheduledTrips(scheduleID uint, from time.Time) (int64, error) {
	var kept []*models.DailyTrip
	var removed int64
	for _, t := range m.trips {
		if t.ScheduleID == scheduleID && t.Status == models.TripScheduled && !t.TripDate.Before(from) {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	m.trips = kept
	return removed, nil
}

func (m *memStore) LockTrip(tripID uint) (*models.DailyTrip, error) {
	t := m.tripByID(tripID)
	if t == nil {
		return nil, fmt.Errorf("trip %d not found", tripID)
	}
	out := *t
	return &out, nil
}

func (m *memStore) TripAssignment(tripID uint) (*models.DriverAssignment, error) {
	for _, a := range m.assignments {
		if a.TripID == tripID {
			out := *a
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateAssignment(a *models.DriverAssignment) error {
	a.ID = m.id()
	stored := *a
	m.assignments = append(m.assignments, &stored)
	return nil
}

func (m *memStore) SaveAssignment(a *models.DriverAssignment) error {
	for i, existing := range m.assignments {
		if existing.ID == a.ID {
			stored := *a
			m.assignments[i] = &stored
			return nil
		}
	}
	return fmt.Errorf("assignment %d not found", a.ID)
}

func (m *memStore) CountActiveBookings(tripID uint) (int64, error) {
	var count int64
	for _, b := range m.bookings {
		if b.TripID == tripID && (b.Status == models.BookingConfirmed || b.Status == models.BookingCheckedIn) {
			count++
		}
	}
	return count, nil
}

func (m *memStore) HasActiveBooking(studentID, tripID uint) (bool, error) {
	for _, b := range m.bookings {
		if b.StudentID == studentID && b.TripID == tripID &&
			(b.Status == models.BookingConfirmed || b.Status == models.BookingCheckedIn) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ConfirmedBookingsNear(studentID uint, date time.Time) ([]models.Booking, error) {
	lo := date.AddDate(0, 0, -1)
	hi := date.AddDate(0, 0, 1)
	var out []models.Booking
	for _, b := range m.bookings {
		if b.StudentID != studentID || b.Status != models.BookingConfirmed {
			continue
		}
		t := m.tripByID(b.TripID)
		if t == nil || t.TripDate.Before(lo) || t.TripDate.After(hi) {
			continue
		}
		booking := *b
		booking.Trip = *t
		if sch, ok := m.schedules[t.ScheduleID]; ok {
			booking.Trip.Schedule = *sch
			if r, ok := m.routes[sch.RouteID]; ok {
				booking.Trip.Schedule.Route = *r
			}
		}
		out = append(out, booking)
	}
	return out, nil
}

func (m *memStore) CreateBooking(b *models.Booking) error {
	b.ID = m.id()
	stored := *b
	m.bookings = append(m.bookings, &stored)
	return nil
}

func (m *memStore) Transact(fn func(Store) error) error {
	m.transactCalls++
	return fn(m)
}

// --- fixture helpers ---

func (m *memStore) addRoute(name string, estMinutes ...int) uint {
	id := m.id()
	m.routes[id] = &models.Route{Model: gormModel(id), Name: name}
	for i, est := range estMinutes {
		m.routeStops[id] = append(m.routeStops[id], models.RouteStop{
			Model: gormModel(m.id()), RouteID: id, SequenceNo: i + 1, EstMinutes: est,
		})
	}
	return id
}

func (m *memStore) addVehicle(capacity int) uint {
	id := m.id()
	m.vehicles[id] = &models.Vehicle{Model: gormModel(id), PlateNo: fmt.Sprintf("BUS-%d", id), Capacity: capacity, Type: "Bus"}
	return id
}

func (m *memStore) addSchedule(sch models.Schedule) uint {
	id := m.id()
	sch.ID = id
	stored := sch
	m.schedules[id] = &stored
	return id
}

func (m *memStore) addTrip(scheduleID uint, departure time.Time) *models.DailyTrip {
	trip := &models.DailyTrip{
		Model:            gormModel(m.id()),
		ScheduleID:       scheduleID,
		TripDate:         DateOnly(departure),
		PlannedDeparture: departure,
		Status:           models.TripScheduled,
	}
	m.trips = append(m.trips, trip)
	return trip
}

func (m *memStore) addAssignment(tripID, driverID, vehicleID uint) *models.DriverAssignment {
	a := &models.DriverAssignment{Model: gormModel(m.id()), TripID: tripID, DriverID: driverID, VehicleID: vehicleID}
	m.assignments = append(m.assignments, a)
	return a
}

func (m *memStore) addBooking(studentID, tripID uint, status string) *models.Booking {
	b := &models.Booking{Model: gormModel(m.id()), StudentID: studentID, TripID: tripID, Status: status}
	m.bookings = append(m.bookings, b)
	return b
}
