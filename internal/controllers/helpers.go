package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campus_shuttle/internal/config"
	"campus_shuttle/internal/models"
	"campus_shuttle/internal/scheduling"
)

// engine builds the scheduling engine over the shared DB handle.
func engine() *scheduling.Engine {
	return scheduling.NewEngine(config.DB)
}

// authUserID pulls the authenticated user id out of the JWT claims.
func authUserID(c *gin.Context) uint {
	return uint(c.MustGet("user_id").(float64))
}

// studentProfile loads the Student record behind the authenticated user.
func studentProfile(c *gin.Context) (*models.Student, error) {
	var student models.Student
	err := config.DB.Where("user_id = ?", authUserID(c)).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("no student profile for this account")
	}
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// driverProfile loads the Driver record behind the authenticated user.
func driverProfile(c *gin.Context) (*models.Driver, error) {
	var driver models.Driver
	err := config.DB.Where("user_id = ?", authUserID(c)).First(&driver).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("no driver profile for this account")
	}
	if err != nil {
		return nil, err
	}
	return &driver, nil
}
