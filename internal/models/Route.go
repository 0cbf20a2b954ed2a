package models

import (
	"gorm.io/gorm"
)

// Route represents a shuttle service path across campus.
// Each route has many ordered stops (via RouteStop) and recurring schedules.
type Route struct {
	gorm.Model

	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`

	// Geometry stored as a WKB LINESTRING (SRID 4326)
	// When creating, provide GeoJSON; migrations define the column type appropriately.
	Geometry []byte `gorm:"type:bytea"`

	// Associations
	RouteStops []RouteStop `gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"route_stops,omitempty"`
	Schedules  []Schedule  `gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"schedules,omitempty"`
}
