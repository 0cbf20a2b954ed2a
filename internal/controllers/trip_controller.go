package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"campus_shuttle/internal/config"
	"campus_shuttle/internal/models"
	"campus_shuttle/internal/scheduling"
)

// LateTripGraceMinutes is how long a Scheduled trip may sit past its
// planned departure before the cleanup endpoint cancels it.
const LateTripGraceMinutes = 30

// ListTrips returns all trips on a date (default today) for the
// coordinator's day view.
func ListTrips(c *gin.Context) {
	selectedDate := scheduling.DateOnly(time.Now())
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		selectedDate = parsed
	}

	var trips []models.DailyTrip
	err := config.DB.
		Where("trip_date = ?", selectedDate).
		Preload("Schedule.Route").
		Preload("Assignment.Driver").
		Preload("Assignment.Vehicle").
		Order("planned_departure").
		Find(&trips).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing trips: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": trips, "date": selectedDate.Format("2006-01-02")})
}

// AssignDriver binds a driver and vehicle to a trip, replacing any prior
// assignment after a conflict check against both resources' other
// commitments that date.
func AssignDriver(c *gin.Context) {
	tID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID"})
		return
	}

	var input struct {
		DriverID  uint `json:"driver_id" binding:"required"`
		VehicleID uint `json:"vehicle_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := engine().AssignTrip(uint(tID), input.DriverID, input.VehicleID); err != nil {
		var conflict *scheduling.ConflictError
		if errors.As(err, &conflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Assignment failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Driver assigned to trip"})
}

// MyAssignments lists the authenticated driver's assignments for today.
func MyAssignments(c *gin.Context) {
	driver, err := driverProfile(c)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	today := scheduling.DateOnly(time.Now())
	var assignments []models.DriverAssignment
	err = config.DB.
		Joins("JOIN daily_trips ON daily_trips.id = driver_assignments.trip_id").
		Where("driver_assignments.driver_id = ? AND daily_trips.trip_date = ?", driver.ID, today).
		Preload("Trip.Schedule.Route").
		Preload("Vehicle").
		Find(&assignments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing assignments: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": assignments})
}

// tripForDriver fetches a trip and verifies it is assigned to the
// authenticated driver.
func tripForDriver(c *gin.Context) (*models.DailyTrip, error) {
	tID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid trip ID")
	}
	driver, err := driverProfile(c)
	if err != nil {
		return nil, err
	}

	var trip models.DailyTrip
	if err := config.DB.Preload("Assignment").First(&trip, tID).Error; err != nil {
		return nil, errors.New("trip not found")
	}
	if trip.Assignment == nil || trip.Assignment.DriverID != driver.ID {
		return nil, errors.New("trip is not assigned to you")
	}
	return &trip, nil
}

// StartTrip moves a trip to In-Progress and seeds its live location row.
func StartTrip(c *gin.Context) {
	trip, err := tripForDriver(c)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	if trip.Status != models.TripScheduled && trip.Status != models.TripDelayed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Trip cannot be started from status " + trip.Status})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(trip).Update("status", models.TripInProgress).Error; err != nil {
			return err
		}
		loc := models.CurrentLocation{TripID: trip.ID, LastUpdate: time.Now()}
		return tx.Where("trip_id = ?", trip.ID).FirstOrCreate(&loc).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not start trip: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trip started", "trip_id": trip.ID})
}

// CompleteTrip finishes a trip and settles its bookings: checked-in riders
// complete, never-boarded confirmations cancel.
func CompleteTrip(c *gin.Context) {
	trip, err := tripForDriver(c)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	if trip.Status != models.TripInProgress {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only an In-Progress trip can be completed"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(trip).Update("status", models.TripCompleted).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Booking{}).
			Where("trip_id = ? AND status = ?", trip.ID, models.BookingCheckedIn).
			Update("status", models.BookingCompleted).Error; err != nil {
			return err
		}
		// no-shows free their seat record
		return tx.Model(&models.Booking{}).
			Where("trip_id = ? AND status = ?", trip.ID, models.BookingConfirmed).
			Update("status", models.BookingCancelled).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not complete trip: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trip completed", "trip_id": trip.ID})
}

// CancelLateTrips cancels Scheduled trips that never departed within the
// grace period, releasing their bookings. Invoked by a coordinator or a
// cron-style caller.
func CancelLateTrips(c *gin.Context) {
	cutoff := time.Now().Add(-LateTripGraceMinutes * time.Minute)

	var lateTrips []models.DailyTrip
	if err := config.DB.
		Where("status = ? AND planned_departure < ?", models.TripScheduled, cutoff).
		Find(&lateTrips).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading late trips: " + err.Error()})
		return
	}

	cancelled := 0
	for i := range lateTrips {
		trip := &lateTrips[i]
		err := config.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(trip).Update("status", models.TripCancelled).Error; err != nil {
				return err
			}
			return tx.Model(&models.Booking{}).
				Where("trip_id = ? AND status IN ?", trip.ID, models.ActiveBookingStatuses).
				Update("status", models.BookingCancelled).Error
		})
		if err != nil {
			logrus.WithError(err).WithField("trip_id", trip.ID).Error("CancelLateTrips: cancel failed")
			continue
		}
		cancelled++
	}

	c.JSON(http.StatusOK, gin.H{"trips_cancelled": cancelled})
}

// TripPassengers returns the manifest for a trip: bookings, vehicle and
// live seat count. Open to coordinators, admins, and the assigned driver.
func TripPassengers(c *gin.Context) {
	tID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var trip models.DailyTrip
	err := config.DB.
		Preload("Schedule.Route").
		Preload("Assignment.Vehicle").
		Preload("Bookings.Student.User").
		First(&trip, tID).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}

	if role := c.MustGet("role").(string); role == "driver" {
		driver, err := driverProfile(c)
		if err != nil || trip.Assignment == nil || trip.Assignment.DriverID != driver.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
	}

	seats, err := engine().AvailableSeats(&trip)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Seat calculation failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trip":            trip,
		"bookings":        trip.Bookings,
		"available_seats": seats,
	})
}

// AddPassenger manually books a student onto a trip by email, going through
// the same reservation guards as self-service booking.
func AddPassenger(c *gin.Context) {
	tID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Preload("Student").
		Where("email = ? AND role = ?", input.Email, "student").
		First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}
	if user.Student == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student profile missing for this account"})
		return
	}

	booking, err := engine().ReserveSeat(user.Student.ID, uint(tID))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": booking, "message": "Passenger added"})
}

// RemovePassenger cancels a booking from the manifest.
func RemovePassenger(c *gin.Context) {
	bID, _ := strconv.ParseUint(c.Param("booking_id"), 10, 64)

	var booking models.Booking
	if err := config.DB.First(&booking, bID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	config.DB.Model(&booking).Update("status", models.BookingCancelled)
	c.JSON(http.StatusOK, gin.H{"message": "Passenger removed"})
}
