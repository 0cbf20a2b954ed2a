// internal/models/driver.go
package models

import (
	"gorm.io/gorm"
)

type Driver struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"uniqueIndex"` // Foreign key to User
	User      User   `gorm:"foreignKey:UserID"`          // User association
	Name      string `json:"name"`                       // Driver's specific name (if different from User.Name)
	Phone     string `json:"phone"`
	LicenseNo string `json:"license_no"`
	// DO NOT include Email, Password, or Role here. They are in the User model.
}
