package models

import (
	"time"

	"gorm.io/gorm"
)

// CurrentLocation is the latest reported GPS fix for an active trip.
// One row per trip, upserted as the driver's device streams updates.
type CurrentLocation struct {
	gorm.Model
	TripID     uint      `json:"trip_id" gorm:"uniqueIndex"`
	Trip       DailyTrip `gorm:"foreignKey:TripID"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Speed      float64   `json:"speed"`   // Speed in km/h
	Bearing    float64   `json:"bearing"` // Direction in degrees
	LastUpdate time.Time `json:"last_update"`
}
