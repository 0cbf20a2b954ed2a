package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"campus_shuttle/internal/config"
	"campus_shuttle/internal/middleware"
	"campus_shuttle/internal/models"
)

type signupInput struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	LicenseNo string `json:"license_no"`
}

// SignupUser registers a new account. Self-service signup is always a
// student; drivers, coordinators and admins are created by an admin via the
// user management endpoints.
func SignupUser(c *gin.Context) {
	var input signupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.Role = "student"

	user, err := registerUser(input)
	if err != nil {
		respondRegistrationError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  prepareUserResponse(user),
	})
}

func LoginUser(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	query := config.DB.Where("email = ?", body.Email).
		Preload("Student").
		Preload("Driver")

	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found or invalid credentials"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	if user.Status != "active" {
		c.JSON(http.StatusForbidden, gin.H{"error": "account is disabled"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect password"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  prepareUserResponse(user),
	})
}

// registerUser creates the User row plus its role profile in one
// transaction. Profile creation is an explicit factory call per role, not a
// save hook, so it shows up in the call graph and in tests.
func registerUser(input signupInput) (models.User, error) {
	role, err := validateAndNormalizeRole(input.Role)
	if err != nil {
		return models.User{}, err
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		user = models.User{
			Name:     input.Name,
			Email:    input.Email,
			Password: hashed,
			Phone:    input.Phone,
			Role:     role,
			Status:   "active",
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		switch role {
		case "student":
			return createStudentProfile(tx, &user)
		case "driver":
			return createDriverProfile(tx, &user, input.LicenseNo)
		}
		// coordinators and admins carry no extra profile data
		return nil
	})
	return user, err
}

func createStudentProfile(tx *gorm.DB, user *models.User) error {
	student := models.Student{UserID: user.ID}
	if err := tx.Create(&student).Error; err != nil {
		return err
	}
	user.Student = &student
	return nil
}

func createDriverProfile(tx *gorm.DB, user *models.User, licenseNo string) error {
	if licenseNo == "" {
		return errors.New("license_no is required for driver role")
	}
	driver := models.Driver{
		UserID:    user.ID,
		Name:      user.Name,
		Phone:     user.Phone,
		LicenseNo: licenseNo,
	}
	if err := tx.Create(&driver).Error; err != nil {
		return err
	}
	user.Driver = &driver
	return nil
}

func respondRegistrationError(c *gin.Context, err error) {
	var pgErr *pq.Error
	if errors.Is(err, gorm.ErrDuplicatedKey) || (errors.As(err, &pgErr) && pgErr.Code == "23505") {
		c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
		return
	}
	if strings.Contains(err.Error(), "required for driver role") || strings.Contains(err.Error(), "invalid role") {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user: " + err.Error()})
}

func validateAndNormalizeRole(roleInput string) (string, error) {
	role := strings.ToLower(strings.TrimSpace(roleInput))
	if role == "" {
		role = "student"
	}
	switch role {
	case "student", "driver", "coordinator", "admin":
		return role, nil
	default:
		return "", errors.New("invalid role")
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func prepareUserResponse(user models.User) gin.H {
	responseUser := gin.H{
		"ID":        user.ID,
		"CreatedAt": user.CreatedAt,
		"UpdatedAt": user.UpdatedAt,
		"name":      user.Name,
		"email":     user.Email,
		"phone":     user.Phone,
		"role":      user.Role,
		"status":    user.Status,
	}
	if user.Student != nil {
		responseUser["student_id"] = user.Student.ID
	}
	if user.Driver != nil {
		responseUser["driver"] = gin.H{
			"ID":         user.Driver.ID,
			"license_no": user.Driver.LicenseNo,
		}
		responseUser["driver_id"] = user.Driver.ID
	}
	return responseUser
}
