package routes

import (
	"campus_shuttle/internal/controllers"

	"github.com/gin-gonic/gin"
)

// WebSocketRoutes exposes the live tracking socket. Authentication happens
// inside the handler via a token query parameter, since browser WebSocket
// clients cannot set an Authorization header.
func WebSocketRoutes(r *gin.Engine) {
	r.GET("/ws/track", controllers.HandleTrackingSocket)
}
