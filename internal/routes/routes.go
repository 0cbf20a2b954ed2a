package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
)

// SetupRouter wires every route group onto one engine. Global middleware
// must be installed before the groups: gin snapshots each route's handler
// chain at registration time, so anything Use'd later never runs for the
// routes already registered. The caller owns starting the server.
func SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())

	AuthRoutes(r)
	PublicRoutes(r)
	StudentRoutes(r)
	DriverRoutes(r)
	CoordinatorRoutes(r)
	AdminRoutes(r)
	NotificationRoutes(r)
	WebSocketRoutes(r)

	return r
}
