package routes

import (
	"campus_shuttle/internal/controllers"
	"campus_shuttle/internal/middleware"

	"github.com/gin-gonic/gin"
)

func DriverRoutes(r *gin.Engine) {
	driver := r.Group("/driver")
	driver.Use(middleware.RequireAuthWithRole("driver"))
	{
		driver.GET("/assignments", controllers.MyAssignments)
		driver.PATCH("/trips/:id/start", controllers.StartTrip)
		driver.PATCH("/trips/:id/complete", controllers.CompleteTrip)
		driver.GET("/trips/:id/passengers", controllers.TripPassengers)
		driver.POST("/incidents", controllers.ReportIncident)
	}
}
