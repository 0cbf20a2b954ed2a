package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"campus_shuttle/internal/config"
	"campus_shuttle/internal/models"
	"campus_shuttle/internal/scheduling"
)

// respondBookingError maps reservation failures to user-facing responses.
func respondBookingError(c *gin.Context, err error) {
	var overlap *scheduling.OverlapError
	switch {
	case errors.Is(err, scheduling.ErrTripFull):
		c.JSON(http.StatusConflict, gin.H{"error": "Sorry, the bus is full!"})
	case errors.Is(err, scheduling.ErrAlreadyBooked):
		c.JSON(http.StatusConflict, gin.H{"error": "You already have a seat on this trip"})
	case errors.As(err, &overlap):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Booking failed: " + err.Error()})
	}
}

// ListScheduleTrips shows a student the bookable trips of a schedule on a
// date, each with its remaining seats.
func ListScheduleTrips(c *gin.Context) {
	schID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule ID"})
		return
	}

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
	err = config.DB.
		Where("schedule_id = ? AND trip_date = ? AND status IN ?",
			schID, selectedDate, []string{models.TripScheduled, models.TripDelayed}).
		Preload("Schedule.Route").
		Preload("Assignment.Vehicle").
		Order("planned_departure").
		Find(&trips).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing trips: " + err.Error()})
		return
	}

	eng := engine()
	type tripOption struct {
		Trip           models.DailyTrip `json:"trip"`
		AvailableSeats int              `json:"available_seats"`
		Departs        time.Time        `json:"departs"`
		Arrives        time.Time        `json:"arrives"`
	}
	options := make([]tripOption, 0, len(trips))
	for i := range trips {
		seats, err := eng.AvailableSeats(&trips[i])
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Seat calculation failed: " + err.Error()})
			return
		}
		departs, arrives, err := eng.TripWindow(&trips[i])
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Window calculation failed: " + err.Error()})
			return
		}
		options = append(options, tripOption{
			Trip:           trips[i],
			AvailableSeats: seats,
			Departs:        departs,
			Arrives:        arrives,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": options, "date": selectedDate.Format("2006-01-02")})
}

// BookTrip reserves a seat on a trip for the authenticated student.
func BookTrip(c *gin.Context) {
	tID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID"})
		return
	}
	student, err := studentProfile(c)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	var trip models.DailyTrip
	if err := config.DB.First(&trip, tID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}
	if trip.Status != models.TripScheduled && trip.Status != models.TripDelayed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This trip is no longer bookable"})
		return
	}

	booking, err := engine().ReserveSeat(student.ID, trip.ID)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": booking, "message": "Seat reserved"})
}

// MyBookings lists the authenticated student's bookings, newest first.
func MyBookings(c *gin.Context) {
	student, err := studentProfile(c)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	var bookings []models.Booking
	err = config.DB.
		Where("student_id = ?", student.ID).
		Preload("Trip.Schedule.Route").
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing bookings: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bookings})
}

// CancelBooking releases the student's seat before departure.
func CancelBooking(c *gin.Context) {
	bID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	student, err := studentProfile(c)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	var booking models.Booking
	if err := config.DB.Where("id = ? AND student_id = ?", bID, student.ID).
		First(&booking).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}
	if booking.Status != models.BookingConfirmed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only a confirmed booking can be cancelled"})
		return
	}

	if err := config.DB.Model(&booking).Update("status", models.BookingCancelled).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cancel failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled"})
}

// CheckIn marks the student as boarded. Allowed only while their trip is
// In-Progress, and only once across their active bookings.
func CheckIn(c *gin.Context) {
	bID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	student, err := studentProfile(c)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	var booking models.Booking
	if err := config.DB.Where("id = ? AND student_id = ?", bID, student.ID).
		Preload("Trip").
		First(&booking).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}
	if booking.Status != models.BookingConfirmed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booking is not confirmed"})
		return
	}
	if booking.Trip.Status != models.TripInProgress {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Check-in opens when the trip is in progress"})
		return
	}

	var boarded int64
	config.DB.Model(&models.Booking{}).
		Where("student_id = ? AND status = ?", student.ID, models.BookingCheckedIn).
		Count(&boarded)
	if boarded > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "You are already checked in on another trip"})
		return
	}

	if err := config.DB.Model(&booking).Update("status", models.BookingCheckedIn).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Check-in failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Checked in. Enjoy the ride!"})
}
