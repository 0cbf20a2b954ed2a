// internal/models/student.go
package models

import (
	"gorm.io/gorm"
)

// Student is the rider profile behind a user with the "student" role.
// Bookings hang off this record rather than the User directly.
type Student struct {
	gorm.Model
	UserID uint `json:"user_id" gorm:"uniqueIndex"`
	User   User `gorm:"foreignKey:UserID"`

	Bookings []Booking `gorm:"foreignKey:StudentID" json:"bookings,omitempty"`
}
