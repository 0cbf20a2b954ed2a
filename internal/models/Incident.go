package models

import (
	"time"

	"gorm.io/gorm"
)

// Incident statuses
const (
	IncidentNew      = "New"
	IncidentResolved = "Resolved"
)

type Incident struct {
	gorm.Model

	ReportedByID uint       `json:"reported_by_id" gorm:"index"`
	ReportedBy   User       `gorm:"foreignKey:ReportedByID" json:"reported_by,omitempty"`
	TripID       *uint      `json:"trip_id"`
	Trip         *DailyTrip `gorm:"foreignKey:TripID" json:"trip,omitempty"`
	StopID       *uint      `json:"stop_id"`

	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	LocationText string    `json:"location_text"`
	Description  string    `json:"description"`
	Status       string    `json:"status" gorm:"default:'New'"`
	ReportedAt   time.Time `json:"reported_at"`
}
