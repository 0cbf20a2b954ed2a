package routes

import (
	"campus_shuttle/internal/controllers"

	"github.com/gin-gonic/gin"
)

// PublicRoutes serves the unauthenticated campus map: routes, stops and
// the live shuttle feed.
func PublicRoutes(r *gin.Engine) {
	public := r.Group("/public")
	{
		public.GET("/routes", controllers.ListRoutes)
		public.GET("/routes/:id", controllers.GetRoute)
		public.GET("/stops", controllers.ListStops)
		public.GET("/shuttles/live", controllers.LiveShuttles)
	}
}
