package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"campus_shuttle/internal/config"
	"campus_shuttle/internal/models"
)

// CreateUser lets an admin create an account with any role. Role profiles
// come from the same explicit factories as self-signup.
func CreateUser(c *gin.Context) {
	var input signupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := registerUser(input)
	if err != nil {
		respondRegistrationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": prepareUserResponse(user)})
}

// ListUsers returns all accounts, optionally filtered by a search query
// over name and email.
func ListUsers(c *gin.Context) {
	query := config.DB.Preload("Student").Preload("Driver").Order("role, name")
	if q := c.Query("q"); q != "" {
		like := "%" + q + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing users: " + err.Error()})
		return
	}

	responses := make([]gin.H, 0, len(users))
	for _, u := range users {
		responses = append(responses, prepareUserResponse(u))
	}
	c.JSON(http.StatusOK, gin.H{"data": responses})
}

// UpdateUser edits name/email/phone/status of an account.
func UpdateUser(c *gin.Context) {
	uID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, uID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var input struct {
		Name   *string `json:"name"`
		Email  *string `json:"email"`
		Phone  *string `json:"phone"`
		Status *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Status != nil {
		user.Status = *input.Status
	}

	if err := config.DB.Save(&user).Error; err != nil {
		logrus.WithError(err).Error("UpdateUser: save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": prepareUserResponse(user)})
}

// DeleteUser removes an account. Admins cannot delete themselves.
func DeleteUser(c *gin.Context) {
	uID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	if uint(uID) == authUserID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete yourself"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, uID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	config.DB.Delete(&user)
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// ListDrivers returns all driver profiles for assignment pickers.
func ListDrivers(c *gin.Context) {
	var drivers []models.Driver
	if err := config.DB.Preload("User").Find(&drivers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing drivers: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": drivers})
}
