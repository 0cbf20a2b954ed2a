package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"campus_shuttle/internal/config"
	"campus_shuttle/internal/models"
)

type incidentInput struct {
	TripID       *uint    `json:"trip_id"`
	StopID       *uint    `json:"stop_id"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	LocationText string   `json:"location_text"`
	Description  string   `json:"description" binding:"required"`
	MarkDelayed  bool     `json:"mark_delayed"`
}

// ReportIncident files an incident from any authenticated user. A driver
// reporting against their own In-Progress trip may flag it Delayed in the
// same call so riders see the status change immediately.
func ReportIncident(c *gin.Context) {
	var input incidentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incident := models.Incident{
		ReportedByID: authUserID(c),
		TripID:       input.TripID,
		StopID:       input.StopID,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		LocationText: input.LocationText,
		Description:  input.Description,
		Status:       models.IncidentNew,
		ReportedAt:   time.Now(),
	}
	if err := config.DB.Create(&incident).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not file incident: " + err.Error()})
		return
	}

	if input.MarkDelayed && input.TripID != nil && c.MustGet("role").(string) == "driver" {
		if driver, err := driverProfile(c); err == nil {
			config.DB.Model(&models.DailyTrip{}).
				Where("id = ? AND status = ? AND id IN (?)",
					*input.TripID, models.TripInProgress,
					config.DB.Model(&models.DriverAssignment{}).
						Select("trip_id").Where("driver_id = ?", driver.ID)).
				Update("status", models.TripDelayed)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"incident": incident})
}

// ListIncidents returns incidents for the coordinator console, optionally
// filtered by status.
func ListIncidents(c *gin.Context) {
	query := config.DB.Preload("ReportedBy").Preload("Trip").Order("reported_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var incidents []models.Incident
	if err := query.Find(&incidents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing incidents: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": incidents})
}

// ResolveIncident closes an incident. Any linked trip keeps its status;
// the driver clears a Delay by completing the trip.
func ResolveIncident(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var incident models.Incident
	if err := config.DB.First(&incident, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Incident not found"})
		return
	}
	if incident.Status == models.IncidentResolved {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Incident already resolved"})
		return
	}

	if err := config.DB.Model(&incident).Update("status", models.IncidentResolved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Resolve failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Incident resolved", "incident": incident})
}
