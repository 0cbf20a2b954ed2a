package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus_shuttle/internal/config"
	"campus_shuttle/internal/models"
)

// CreateVehicle adds a bus or van to the fleet; defaults InService to true
func CreateVehicle(c *gin.Context) {
	var input struct {
		PlateNo  string `json:"plate_no" binding:"required"`
		Capacity int    `json:"capacity" binding:"required"`
		Type     string `json:"type" binding:"required,oneof=Bus Van"`
	}

	// Parse JSON
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle input: " + err.Error()})
		return
	}

	vehicle := models.Vehicle{
		PlateNo:   input.PlateNo,
		Capacity:  input.Capacity,
		Type:      input.Type,
		InService: true,
	}

	// Save to DB
	if err := config.DB.Create(&vehicle).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vehicle: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"vehicle": vehicle})
}

func ListVehicles(c *gin.Context) {
	var vehicles []models.Vehicle
	if err := config.DB.Order("type, plate_no").Find(&vehicles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing vehicles: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": vehicles})
}

// UpdateVehicle edits a vehicle, including the quick capacity change on the
// passenger manifest screen. Capacity edits show up in seat counts on the
// next availability read.
func UpdateVehicle(c *gin.Context) {
	id := c.Param("id")

	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}

	if err := c.ShouldBindJSON(&vehicle); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update"})
		return
	}

	config.DB.Save(&vehicle)
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

func DeleteVehicle(c *gin.Context) {
	id := c.Param("id")

	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}

	config.DB.Delete(&vehicle)
	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted"})
}
