package models

import (
	"time"

	"gorm.io/gorm"
)

// DriverAssignment binds one driver and one vehicle to one trip.
// TripID carries a unique index so a trip can never hold two assignments;
// capacity and conflict logic rely on that.
type DriverAssignment struct {
	gorm.Model

	TripID    uint      `json:"trip_id" gorm:"uniqueIndex"`
	Trip      DailyTrip `gorm:"foreignKey:TripID" json:"trip,omitempty"`
	DriverID  uint      `json:"driver_id" gorm:"index"`
	Driver    Driver    `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
	VehicleID uint      `json:"vehicle_id" gorm:"index"`
	Vehicle   Vehicle   `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`

	AssignmentDate time.Time `json:"assignment_date"`
}
