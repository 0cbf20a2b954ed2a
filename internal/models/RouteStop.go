package models

import (
	"gorm.io/gorm"
)

// RouteStop links a stop into a route at a given position.
// SequenceNo is unique within a route; EstMinutes is the estimated travel
// time from the start of the route to this stop.
type RouteStop struct {
	gorm.Model

	RouteID    uint `json:"route_id" gorm:"uniqueIndex:idx_route_seq"`
	StopID     uint `json:"stop_id"`
	Stop       Stop `gorm:"foreignKey:StopID" json:"stop,omitempty"`
	SequenceNo int  `json:"sequence_no" gorm:"uniqueIndex:idx_route_seq" binding:"required"`
	EstMinutes int  `json:"est_minutes"`
}
