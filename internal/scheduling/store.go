package scheduling

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campus_shuttle/internal/models"
)

// Store is the persistence surface the engine needs. The production
// implementation wraps GORM; tests swap in an in-memory fake.
type Store interface {
	RouteStops(routeID uint) ([]models.RouteStop, error)
	ScheduleByID(id uint) (*models.Schedule, error)
	VehicleByID(id uint) (*models.Vehicle, error)

	// Assignments on a given service date for one resource, with
	// Trip and Trip.Schedule loaded for window derivation.
	AssignmentsForDriverOn(driverID uint, date time.Time) ([]models.DriverAssignment, error)
	AssignmentsForVehicleOn(vehicleID uint, date time.Time) ([]models.DriverAssignment, error)

	FirstOrCreateTrip(trip *models.DailyTrip) (created bool, err error)
	DeleteFutureScheduledTrips(scheduleID uint, from time.Time) (int64, error)
	LockTrip(tripID uint) (*models.DailyTrip, error)

	TripAssignment(tripID uint) (*models.DriverAssignment, error)
	CreateAssignment(a *models.DriverAssignment) error
	SaveAssignment(a *models.DriverAssignment) error

	CountActiveBookings(tripID uint) (int64, error)
	HasActiveBooking(studentID, tripID uint) (bool, error)
	ConfirmedBookingsNear(studentID uint, date time.Time) ([]models.Booking, error)
	CreateBooking(b *models.Booking) error

	// Transact runs fn against a transactional view of the store.
	Transact(fn func(Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore wraps a GORM handle in the engine's Store interface.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) RouteStops(routeID uint) ([]models.RouteStop, error) {
	var stops []models.RouteStop
	err := s.db.Where("route_id = ?", routeID).Order("sequence_no").Find(&stops).Error
	return stops, err
}

func (s *gormStore) ScheduleByID(id uint) (*models.Schedule, error) {
	var sch models.Schedule
	if err := s.db.Preload("Route").First(&sch, id).Error; err != nil {
		return nil, err
	}
	return &sch, nil
}

func (s *gormStore) VehicleByID(id uint) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := s.db.First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *gormStore) assignmentsOn(column string, resourceID uint, date time.Time) ([]models.DriverAssignment, error) {
	var assignments []models.DriverAssignment
	err := s.db.
		Joins("JOIN daily_trips ON daily_trips.id = driver_assignments.trip_id").
		Where("driver_assignments."+column+" = ? AND daily_trips.trip_date = ? AND daily_trips.deleted_at IS NULL", resourceID, date).
		Preload("Trip").
		Preload("Trip.Schedule").
		Find(&assignments).Error
	return assignments, err
}

func (s *gormStore) AssignmentsForDriverOn(driverID uint, date time.Time) ([]models.DriverAssignment, error) {
	return s.assignmentsOn("driver_id", driverID, date)
}

func (s *gormStore) AssignmentsForVehicleOn(vehicleID uint, date time.Time) ([]models.DriverAssignment, error) {
	return s.assignmentsOn("vehicle_id", vehicleID, date)
}

func (s *gormStore) FirstOrCreateTrip(trip *models.DailyTrip) (bool, error) {
	res := s.db.
		Where("schedule_id = ? AND planned_departure = ?", trip.ScheduleID, trip.PlannedDeparture).
		Attrs(models.DailyTrip{Status: models.TripScheduled}).
		FirstOrCreate(trip)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *gormStore) DeleteFutureScheduledTrips(scheduleID uint, from time.Time) (int64, error) {
	res := s.db.
		Where("schedule_id = ? AND status = ? AND trip_date >= ?", scheduleID, models.TripScheduled, from).
		Delete(&models.DailyTrip{})
	return res.RowsAffected, res.Error
}

func (s *gormStore) LockTrip(tripID uint) (*models.DailyTrip, error) {
	var trip models.DailyTrip
	err := s.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&trip, tripID).Error
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (s *gormStore) TripAssignment(tripID uint) (*models.DriverAssignment, error) {
	var a models.DriverAssignment
	err := s.db.Where("trip_id = ?", tripID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *gormStore) CreateAssignment(a *models.DriverAssignment) error {
	return s.db.Create(a).Error
}

func (s *gormStore) SaveAssignment(a *models.DriverAssignment) error {
	return s.db.Save(a).Error
}

func (s *gormStore) CountActiveBookings(tripID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Booking{}).
		Where("trip_id = ? AND status IN ?", tripID, models.ActiveBookingStatuses).
		Count(&count).Error
	return count, err
}

func (s *gormStore) HasActiveBooking(studentID, tripID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Booking{}).
		Where("student_id = ? AND trip_id = ? AND status IN ?", studentID, tripID, models.ActiveBookingStatuses).
		Count(&count).Error
	return count > 0, err
}

func (s *gormStore) ConfirmedBookingsNear(studentID uint, date time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.
		Joins("JOIN daily_trips ON daily_trips.id = bookings.trip_id").
		Where("bookings.student_id = ? AND bookings.status = ? AND daily_trips.trip_date BETWEEN ? AND ?",
			studentID, models.BookingConfirmed, date.AddDate(0, 0, -1), date.AddDate(0, 0, 1)).
		Preload("Trip").
		Preload("Trip.Schedule").
		Preload("Trip.Schedule.Route").
		Find(&bookings).Error
	return bookings, err
}

func (s *gormStore) CreateBooking(b *models.Booking) error {
	return s.db.Create(b).Error
}

func (s *gormStore) Transact(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
