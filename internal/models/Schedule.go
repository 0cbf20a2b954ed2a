package models

import (
	"time"

	"gorm.io/gorm"
)

// Schedule is the recurring template a route operates on: which weekdays,
// the daily time window, how often a shuttle departs, and the date range the
// template is valid for. EndTime earlier than StartTime means the window
// wraps past midnight (overnight service).
type Schedule struct {
	gorm.Model

	RouteID uint  `json:"route_id" binding:"required"`
	Route   Route `gorm:"foreignKey:RouteID" json:"route,omitempty"`

	DaysOfWeek   string `json:"days_of_week"` // comma-separated, e.g. "Mon,Tue,Wed"
	StartTime    string `json:"start_time"`   // "HH:MM", 24h clock
	EndTime      string `json:"end_time"`     // "HH:MM", 24h clock
	FrequencyMin int    `json:"frequency_min"`

	ValidFrom time.Time `json:"valid_from"`
	ValidTo   time.Time `json:"valid_to"`

	// Optional defaults attached to every generated trip when free
	DefaultDriverID  *uint    `json:"default_driver_id"`
	DefaultDriver    *Driver  `gorm:"foreignKey:DefaultDriverID" json:"default_driver,omitempty"`
	DefaultVehicleID *uint    `json:"default_vehicle_id"`
	DefaultVehicle   *Vehicle `gorm:"foreignKey:DefaultVehicleID" json:"default_vehicle,omitempty"`

	Trips []DailyTrip `gorm:"foreignKey:ScheduleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"trips,omitempty"`
}
