package main

import (
	"log"
	"net/http"

	"campus_shuttle/internal/config"
	"campus_shuttle/internal/logger"
	"campus_shuttle/internal/middleware"
	"campus_shuttle/internal/routes"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()

	// Setup Gin router (recovery + request logging installed inside)
	r := routes.SetupRouter()

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	log.Println("🚌 Shuttle server running at :8080")
	log.Fatal(http.ListenAndServe("0.0.0.0:8080", handler))
}
