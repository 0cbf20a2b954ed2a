package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"campus_shuttle/internal/config"
	"campus_shuttle/internal/models"
	"campus_shuttle/internal/scheduling"
)

// DefaultGenerationDays is the rolling window materialized when a schedule
// is saved. The bulk regeneration endpoint uses a shorter top-up window.
const (
	DefaultGenerationDays = 30
	TopUpGenerationDays   = 7
)

type scheduleInput struct {
	RouteID          uint   `json:"route_id" binding:"required"`
	DaysOfWeek       string `json:"days_of_week" binding:"required"`
	StartTime        string `json:"start_time" binding:"required"`
	EndTime          string `json:"end_time" binding:"required"`
	FrequencyMin     int    `json:"frequency_min" binding:"required,min=1"`
	ValidFrom        string `json:"valid_from" binding:"required"` // "2006-01-02"
	ValidTo          string `json:"valid_to" binding:"required"`
	DefaultDriverID  *uint  `json:"default_driver_id"`
	DefaultVehicleID *uint  `json:"default_vehicle_id"`
}

func (in *scheduleInput) apply(sch *models.Schedule) error {
	validFrom, err := time.Parse("2006-01-02", in.ValidFrom)
	if err != nil {
		return errors.New("valid_from must be YYYY-MM-DD")
	}
	validTo, err := time.Parse("2006-01-02", in.ValidTo)
	if err != nil {
		return errors.New("valid_to must be YYYY-MM-DD")
	}
	if validTo.Before(validFrom) {
		return errors.New("valid_to is before valid_from")
	}

	sch.RouteID = in.RouteID
	sch.DaysOfWeek = in.DaysOfWeek
	sch.StartTime = in.StartTime
	sch.EndTime = in.EndTime
	sch.FrequencyMin = in.FrequencyMin
	sch.ValidFrom = validFrom
	sch.ValidTo = validTo
	sch.DefaultDriverID = in.DefaultDriverID
	sch.DefaultVehicleID = in.DefaultVehicleID
	return nil
}

// CreateSchedule publishes a recurring schedule. Default resources are
// conflict-checked over a bounded look-ahead before anything persists;
// on success the upcoming trips are generated immediately.
func CreateSchedule(c *gin.Context) {
	var input scheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var sch models.Schedule
	if err := input.apply(&sch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eng := engine()
	if err := eng.ValidateScheduleResources(&sch); err != nil {
		respondScheduleValidation(c, err)
		return
	}

	if err := config.DB.Create(&sch).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create schedule failed: " + err.Error()})
		return
	}

	count, err := eng.GenerateTripsForSchedule(&sch, DefaultGenerationDays)
	if err != nil {
		logrus.WithError(err).WithField("schedule_id", sch.ID).Error("CreateSchedule: trip generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Schedule saved but generation failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"schedule":        sch,
		"trips_generated": count,
		"message":         "Schedule published, upcoming trips generated",
	})
}

// UpdateSchedule edits a schedule. When a critical field changed (route,
// days, start, end) the schedule's future Scheduled trips are pruned before
// regeneration so stale slots from the old parameters do not linger. Trips
// already underway or finished stay untouched.
func UpdateSchedule(c *gin.Context) {
	sID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule ID"})
		return
	}

	var sch models.Schedule
	if err := config.DB.First(&sch, sID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var input scheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	criticalChange := sch.RouteID != input.RouteID ||
		sch.DaysOfWeek != input.DaysOfWeek ||
		sch.StartTime != input.StartTime ||
		sch.EndTime != input.EndTime

	if err := input.apply(&sch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eng := engine()
	if err := eng.ValidateScheduleResources(&sch); err != nil {
		respondScheduleValidation(c, err)
		return
	}

	if err := config.DB.Save(&sch).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}

	var pruned int64
	if criticalChange {
		pruned, err = eng.PruneStaleTrips(sch.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Cleanup of old trips failed: " + err.Error()})
			return
		}
		logrus.WithFields(logrus.Fields{"schedule_id": sch.ID, "pruned": pruned}).
			Info("UpdateSchedule: critical fields changed, future Scheduled trips removed")
	}

	count, err := eng.GenerateTripsForSchedule(&sch, DefaultGenerationDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Schedule saved but regeneration failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"schedule":        sch,
		"trips_pruned":    pruned,
		"trips_generated": count,
	})
}

func respondScheduleValidation(c *gin.Context, err error) {
	var conflict *scheduling.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "Schedule rejected: " + err.Error()})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func ListSchedules(c *gin.Context) {
	var schedules []models.Schedule
	err := config.DB.
		Preload("Route").
		Preload("DefaultDriver").
		Preload("DefaultVehicle").
		Joins("JOIN routes ON routes.id = schedules.route_id").
		Order("routes.name").
		Find(&schedules).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing schedules: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": schedules})
}

func GetSchedule(c *gin.Context) {
	sID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var sch models.Schedule
	err := config.DB.
		Preload("Route.RouteStops.Stop").
		Preload("DefaultDriver").
		Preload("DefaultVehicle").
		First(&sch, sID).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": sch})
}

func DeleteSchedule(c *gin.Context) {
	sID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var sch models.Schedule
	if err := config.DB.First(&sch, sID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}

	config.DB.Delete(&sch)
	c.JSON(http.StatusOK, gin.H{"message": "Schedule deleted"})
}

// GenerateAllTrips tops up the trip horizon for every schedule. Safe to run
// repeatedly: generation is idempotent on (schedule, planned_departure).
func GenerateAllTrips(c *gin.Context) {
	var schedules []models.Schedule
	if err := config.DB.Find(&schedules).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading schedules: " + err.Error()})
		return
	}

	eng := engine()
	total := 0
	for i := range schedules {
		count, err := eng.GenerateTripsForSchedule(&schedules[i], TopUpGenerationDays)
		if err != nil {
			logrus.WithError(err).WithField("schedule_id", schedules[i].ID).
				Error("GenerateAllTrips: generation failed for schedule")
			continue
		}
		total += count
	}

	c.JSON(http.StatusOK, gin.H{
		"trips_created": total,
		"message":       "Global generation complete",
	})
}
