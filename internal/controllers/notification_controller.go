package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"campus_shuttle/internal/config"
	"campus_shuttle/internal/models"
)

type notificationInput struct {
	Title         string `json:"title" binding:"required"`
	Message       string `json:"message" binding:"required"`
	Role          string `json:"role" binding:"omitempty,oneof=student driver coordinator admin"`
	RecipientID   *uint  `json:"recipient_id"`
	RelatedTripID *uint  `json:"related_trip_id"`
}

// SendNotification fans a message out to one user or to every active user
// of a role. Exactly one of recipient_id and role must be set.
func SendNotification(c *gin.Context) {
	var input notificationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if (input.RecipientID == nil) == (input.Role == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide either recipient_id or role"})
		return
	}

	senderID := authUserID(c)
	var recipientIDs []uint
	if input.RecipientID != nil {
		recipientIDs = []uint{*input.RecipientID}
	} else {
		if err := config.DB.Model(&models.User{}).
			Where("role = ? AND status = ?", input.Role, "active").
			Pluck("id", &recipientIDs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error resolving recipients: " + err.Error()})
			return
		}
	}

	now := time.Now()
	notifications := make([]models.Notification, 0, len(recipientIDs))
	for _, rid := range recipientIDs {
		notifications = append(notifications, models.Notification{
			RecipientID:   rid,
			SentByID:      &senderID,
			Title:         input.Title,
			Message:       input.Message,
			SentAt:        now,
			RelatedTripID: input.RelatedTripID,
		})
	}
	if len(notifications) == 0 {
		c.JSON(http.StatusOK, gin.H{"sent": 0})
		return
	}

	if err := config.DB.Create(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Send failed: " + err.Error()})
		return
	}
	logrus.WithFields(logrus.Fields{"count": len(notifications), "sender": senderID}).
		Info("notifications sent")
	c.JSON(http.StatusCreated, gin.H{"sent": len(notifications)})
}

// MyNotifications lists the authenticated user's notifications, unread
// first, newest within each group.
func MyNotifications(c *gin.Context) {
	var notifications []models.Notification
	err := config.DB.
		Where("recipient_id = ?", authUserID(c)).
		Order("is_read ASC, sent_at DESC").
		Find(&notifications).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing notifications: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": notifications})
}

// MarkNotificationRead flips one of the caller's notifications to read.
func MarkNotificationRead(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	result := config.DB.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, authUserID(c)).
		Update("is_read", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Marked as read"})
}
