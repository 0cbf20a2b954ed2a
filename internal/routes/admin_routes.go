package routes

import (
	"campus_shuttle/internal/controllers"
	"campus_shuttle/internal/middleware"

	"github.com/gin-gonic/gin"
)

func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuthWithRole("admin"))
	{
		admin.POST("/users", controllers.CreateUser)
		admin.GET("/users", controllers.ListUsers)
		admin.PATCH("/users/:id", controllers.UpdateUser)
		admin.DELETE("/users/:id", controllers.DeleteUser)
		admin.GET("/drivers", controllers.ListDrivers)
	}
}
