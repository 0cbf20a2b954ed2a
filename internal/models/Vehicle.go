// internal/models/vehicle.go
package models

import (
	"gorm.io/gorm"
)

type Vehicle struct {
	gorm.Model
	PlateNo   string `json:"plate_no" gorm:"unique" binding:"required"`
	Capacity  int    `json:"capacity"`
	Type      string `json:"type"` // "Bus" or "Van"
	InService bool   `json:"in_service" gorm:"default:true"`
}
