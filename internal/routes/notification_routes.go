package routes

import (
	"campus_shuttle/internal/controllers"
	"campus_shuttle/internal/middleware"

	"github.com/gin-gonic/gin"
)

// NotificationRoutes is the inbox every authenticated role shares.
func NotificationRoutes(r *gin.Engine) {
	me := r.Group("/me")
	me.Use(middleware.RequireAuth())
	{
		me.GET("/notifications", controllers.MyNotifications)
		me.PATCH("/notifications/:id/read", controllers.MarkNotificationRead)
	}
}
