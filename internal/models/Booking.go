package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking statuses. Confirmed and Checked-In count against capacity and
// overlap checks ("active"); Cancelled and Completed do not.
const (
	BookingConfirmed = "Confirmed"
	BookingCheckedIn = "Checked-In"
	BookingCancelled = "Cancelled"
	BookingCompleted = "Completed"
)

type Booking struct {
	gorm.Model

	StudentID uint      `json:"student_id" gorm:"index"`
	Student   Student   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	TripID    uint      `json:"trip_id" gorm:"index"`
	Trip      DailyTrip `gorm:"foreignKey:TripID" json:"trip,omitempty"`

	BookingTime time.Time `json:"booking_time"`
	Status      string    `json:"status" gorm:"default:'Confirmed'"`
}

// ActiveBookingStatuses are the statuses holding a seat.
var ActiveBookingStatuses = []string{BookingConfirmed, BookingCheckedIn}
