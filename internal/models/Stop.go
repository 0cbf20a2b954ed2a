package models

import (
	"gorm.io/gorm"
)

// Stop is a physical pickup/dropoff location on campus.
// Routes reference stops through RouteStop, which carries the ordering.
type Stop struct {
	gorm.Model

	Name string  `json:"name" binding:"required"`
	Lat  float64 `json:"lat" binding:"required"`
	Lng  float64 `json:"lng" binding:"required"`
}
