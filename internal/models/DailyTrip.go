package models

import (
	"time"

	"gorm.io/gorm"
)

// Trip statuses
const (
	TripScheduled  = "Scheduled"
	TripInProgress = "In-Progress"
	TripCompleted  = "Completed"
	TripCancelled  = "Cancelled"
	TripDelayed    = "Delayed"
)

// DailyTrip is one concrete dated departure generated from a Schedule.
// The (schedule_id, planned_departure) pair is the identity used for
// idempotent generation: re-running expansion never duplicates a trip.
type DailyTrip struct {
	gorm.Model

	ScheduleID uint     `json:"schedule_id" gorm:"uniqueIndex:idx_schedule_departure"`
	Schedule   Schedule `gorm:"foreignKey:ScheduleID" json:"schedule,omitempty"`

	TripDate         time.Time `json:"trip_date" gorm:"index"`
	PlannedDeparture time.Time `json:"planned_departure" gorm:"uniqueIndex:idx_schedule_departure"`
	Status           string    `json:"status" gorm:"default:'Scheduled'"`

	Assignment *DriverAssignment `gorm:"foreignKey:TripID" json:"assignment,omitempty"`
	Bookings   []Booking         `gorm:"foreignKey:TripID" json:"bookings,omitempty"`
}
