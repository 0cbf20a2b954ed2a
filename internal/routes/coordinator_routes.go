package routes

import (
	"campus_shuttle/internal/controllers"
	"campus_shuttle/internal/middleware"

	"github.com/gin-gonic/gin"
)

// CoordinatorRoutes is the operations console surface: network CRUD,
// schedule management, the trip board and analytics. Admins get it too.
func CoordinatorRoutes(r *gin.Engine) {
	coord := r.Group("/coordinator")
	coord.Use(middleware.RequireAuthWithRole("coordinator", "admin"))
	{
		coord.POST("/stops", controllers.CreateStop)
		coord.GET("/stops", controllers.ListStops)
		coord.PUT("/stops/:id", controllers.UpdateStop)
		coord.DELETE("/stops/:id", controllers.DeleteStop)

		coord.POST("/routes", controllers.CreateRoute)
		coord.GET("/routes", controllers.ListRoutes)
		coord.GET("/routes/:id", controllers.GetRoute)
		coord.PUT("/routes/:id", controllers.UpdateRoute)
		coord.PATCH("/routes/:id/stops", controllers.ReplaceRouteStops)
		coord.DELETE("/routes/:id", controllers.DeleteRoute)

		coord.POST("/vehicles", controllers.CreateVehicle)
		coord.GET("/vehicles", controllers.ListVehicles)
		coord.PUT("/vehicles/:id", controllers.UpdateVehicle)
		coord.DELETE("/vehicles/:id", controllers.DeleteVehicle)

		coord.POST("/schedules", controllers.CreateSchedule)
		coord.GET("/schedules", controllers.ListSchedules)
		coord.GET("/schedules/:id", controllers.GetSchedule)
		coord.PUT("/schedules/:id", controllers.UpdateSchedule)
		coord.DELETE("/schedules/:id", controllers.DeleteSchedule)
		coord.POST("/schedules/generate", controllers.GenerateAllTrips)

		coord.GET("/trips", controllers.ListTrips)
		coord.POST("/trips/:id/assign", controllers.AssignDriver)
		coord.POST("/trips/cancel-late", controllers.CancelLateTrips)
		coord.GET("/trips/:id/passengers", controllers.TripPassengers)
		coord.POST("/trips/:id/passengers", controllers.AddPassenger)
		coord.DELETE("/trips/:id/passengers/:booking_id", controllers.RemovePassenger)

		coord.GET("/incidents", controllers.ListIncidents)
		coord.PATCH("/incidents/:id/resolve", controllers.ResolveIncident)
		coord.POST("/incidents", controllers.ReportIncident)

		coord.POST("/notifications", controllers.SendNotification)

		coord.GET("/analytics/top-routes", controllers.TopRoutes)
		coord.GET("/analytics/trip-status", controllers.TripStatusBreakdown)
		coord.GET("/analytics/reliability", controllers.ServiceReliability)
	}
}
