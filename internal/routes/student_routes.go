package routes

import (
	"campus_shuttle/internal/controllers"
	"campus_shuttle/internal/middleware"

	"github.com/gin-gonic/gin"
)

func StudentRoutes(r *gin.Engine) {
	student := r.Group("/student")
	student.Use(middleware.RequireAuthWithRole("student"))
	{
		student.GET("/schedules", controllers.ListSchedules)
		student.GET("/schedules/:id/trips", controllers.ListScheduleTrips)
		student.POST("/trips/:id/book", controllers.BookTrip)
		student.GET("/bookings", controllers.MyBookings)
		student.PATCH("/bookings/:id/cancel", controllers.CancelBooking)
		student.PATCH("/bookings/:id/checkin", controllers.CheckIn)
		student.POST("/incidents", controllers.ReportIncident)
	}
}
