package models

import (
	"time"

	"gorm.io/gorm"
)

type Notification struct {
	gorm.Model

	RecipientID uint  `json:"recipient_id" gorm:"index"`
	Recipient   User  `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
	SentByID    *uint `json:"sent_by_id"`
	SentBy      *User `gorm:"foreignKey:SentByID" json:"sent_by,omitempty"`

	Title   string    `json:"title"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
	IsRead  bool      `json:"is_read" gorm:"default:false"`

	// Optional trip context
	RelatedTripID *uint `json:"related_trip_id"`
}
