package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"campus_shuttle/internal/config"
	"campus_shuttle/internal/models"
)

// CreateStop registers a physical stop location.
func CreateStop(c *gin.Context) {
	var input struct {
		Name string  `json:"name" binding:"required"`
		Lat  float64 `json:"lat" binding:"required"`
		Lng  float64 `json:"lng" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stop input: " + err.Error()})
		return
	}

	stop := models.Stop{Name: input.Name, Lat: input.Lat, Lng: input.Lng}
	if err := config.DB.Create(&stop).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create stop: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"stop": stop})
}

func ListStops(c *gin.Context) {
	var stops []models.Stop
	if err := config.DB.Order("name").Find(&stops).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing stops"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stops})
}

func UpdateStop(c *gin.Context) {
	sID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var stop models.Stop
	if err := config.DB.First(&stop, sID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stop not found"})
		return
	}

	if err := c.ShouldBindJSON(&stop); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update"})
		return
	}

	config.DB.Save(&stop)
	c.JSON(http.StatusOK, gin.H{"stop": stop})
}

func DeleteStop(c *gin.Context) {
	sID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var stop models.Stop
	if err := config.DB.First(&stop, sID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stop not found"})
		return
	}

	config.DB.Delete(&stop)
	c.JSON(http.StatusOK, gin.H{"message": "Stop deleted"})
}
