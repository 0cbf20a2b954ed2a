package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"campus_shuttle/internal/config"
	"campus_shuttle/internal/middleware"
	"campus_shuttle/internal/models"
)

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all for development (restrict in production!)
	},
}

// locationPayload is the JSON a driver's device streams while a trip is
// In-Progress. Timestamp parsing tolerates missing timezone suffixes.
type locationPayload struct {
	TripID    uint      `json:"trip_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Speed     float64   `json:"speed"`   // km/h
	Bearing   float64   `json:"bearing"` // degrees, 0 means "derive for me"
	Timestamp time.Time `json:"timestamp"`
}

func (lp *locationPayload) UnmarshalJSON(data []byte) error {
	type alias locationPayload
	aux := &struct {
		Timestamp string `json:"timestamp"`
		*alias
	}{alias: (*alias)(lp)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	ts := aux.Timestamp
	if ts == "" {
		lp.Timestamp = time.Now()
		return nil
	}
	if !(strings.HasSuffix(ts, "Z") || strings.ContainsAny(ts[len(ts)-6:], "+-")) {
		ts += "Z"
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", aux.Timestamp, err)
	}
	lp.Timestamp = t
	return nil
}

// TrackingHub fans driver position updates out to everyone watching a
// route: coordinators on the ops map and students waiting at a stop.
type TrackingHub struct {
	routeClients map[uint]map[*websocket.Conn]bool
	broadcast    chan map[string]interface{}
	mu           sync.Mutex
}

func NewTrackingHub() *TrackingHub {
	hub := &TrackingHub{
		routeClients: make(map[uint]map[*websocket.Conn]bool),
		broadcast:    make(chan map[string]interface{}, 100),
	}
	go hub.run()
	return hub
}

func (h *TrackingHub) run() {
	for msg := range h.broadcast {
		h.mu.Lock()
		routeIDFloat, ok := msg["route_id"].(float64)
		if !ok {
			logrus.Warn("Broadcast message missing 'route_id'. Skipping.")
			h.mu.Unlock()
			continue
		}
		routeID := uint(routeIDFloat)

		if clients, exists := h.routeClients[routeID]; exists {
			for conn := range clients {
				go func(c *websocket.Conn, m map[string]interface{}) {
					if err := c.WriteJSON(m); err != nil {
						if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
							h.UnregisterClient(routeID, c)
						} else {
							logrus.WithError(err).WithField("route_id", routeID).
								Warn("Failed to push tracking update to client")
						}
					}
				}(conn, msg)
			}
		}
		h.mu.Unlock()
	}
}

func (h *TrackingHub) RegisterClient(routeID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.routeClients[routeID]; !ok {
		h.routeClients[routeID] = make(map[*websocket.Conn]bool)
	}
	h.routeClients[routeID][conn] = true
	logrus.WithField("route_id", routeID).Info("Tracking client registered")
}

func (h *TrackingHub) UnregisterClient(routeID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.routeClients[routeID]; ok {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(h.routeClients, routeID)
		}
	}
}

func (h *TrackingHub) PublishLocation(data map[string]interface{}) {
	select {
	case h.broadcast <- data:
	default:
		logrus.Warn("Tracking broadcast channel full, dropping message")
	}
}

var trackingHub = NewTrackingHub()

// authenticateSocket validates the JWT passed as a query parameter (browser
// WebSocket clients cannot set headers) and resolves the caller's tracking
// role: a driver streams, everyone else watches a route.
func authenticateSocket(c *gin.Context) (role string, driverID uint, routeID uint, err error) {
	tokenString := c.Query("token")
	if tokenString == "" {
		return "", 0, 0, errors.New("missing authentication token")
	}

	token, err := middleware.ValidateToken(tokenString)
	if err != nil || !token.Valid {
		return "", 0, 0, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", 0, 0, errors.New("invalid token claims")
	}
	userID := uint(claims["user_id"].(float64))
	role, _ = claims["role"].(string)

	switch role {
	case "driver":
		var driver models.Driver
		if err := config.DB.Where("user_id = ?", userID).First(&driver).Error; err != nil {
			return "", 0, 0, fmt.Errorf("driver profile not found for user %d", userID)
		}
		return role, driver.ID, 0, nil
	case "student", "coordinator", "admin":
		routeStr := c.Query("route_id")
		if routeStr == "" {
			return "", 0, 0, errors.New("missing 'route_id' query parameter: watchers must pick a route")
		}
		parsed, err := strconv.ParseUint(routeStr, 10, 64)
		if err != nil {
			return "", 0, 0, fmt.Errorf("invalid 'route_id': %w", err)
		}
		return role, 0, uint(parsed), nil
	default:
		return "", 0, 0, errors.New("unauthorized role for tracking connection")
	}
}

// HandleTrackingSocket is the single WebSocket endpoint for live tracking.
// Drivers push positions for their In-Progress trip; watchers receive the
// positions of every shuttle on their chosen route.
func HandleTrackingSocket(c *gin.Context) {
	role, driverID, routeID, authErr := authenticateSocket(c)
	if authErr != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": authErr.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade tracking connection")
		return
	}
	defer conn.Close()

	if role == "driver" {
		handleDriverSocket(conn, driverID)
		return
	}
	handleWatcherSocket(conn, routeID)
}

func handleDriverSocket(conn *websocket.Conn, driverID uint) {
	logrus.WithField("driver_id", driverID).Info("Driver tracking connection established")
	for {
		messageType, p, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).Errorf("Error reading tracking message from driver %d", driverID)
			}
			break
		}
		if messageType == websocket.TextMessage {
			processDriverUpdate(conn, p, driverID)
		}
	}
	logrus.WithField("driver_id", driverID).Info("Driver tracking connection closed")
}

func handleWatcherSocket(conn *websocket.Conn, routeID uint) {
	trackingHub.RegisterClient(routeID, conn)
	defer trackingHub.UnregisterClient(routeID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
		// watchers are receive-only; inbound frames are ignored
	}
}

// processDriverUpdate validates one position frame against the driver's
// assignment, upserts the trip's CurrentLocation and broadcasts it to the
// route's watchers.
func processDriverUpdate(conn *websocket.Conn, p []byte, driverID uint) {
	var payload locationPayload
	if err := json.Unmarshal(p, &payload); err != nil {
		conn.WriteJSON(gin.H{"error": "Invalid location payload: " + err.Error()})
		return
	}

	var trip models.DailyTrip
	err := config.DB.Preload("Assignment").Preload("Schedule").
		First(&trip, payload.TripID).Error
	if err != nil {
		conn.WriteJSON(gin.H{"error": "Trip not found"})
		return
	}
	if trip.Assignment == nil || trip.Assignment.DriverID != driverID {
		logrus.WithFields(logrus.Fields{
			"driver_id": driverID,
			"trip_id":   payload.TripID,
		}).Warn("Driver sent location for a trip they are not assigned to")
		conn.WriteJSON(gin.H{"error": "Unauthorized location update"})
		return
	}
	if trip.Status != models.TripInProgress && trip.Status != models.TripDelayed {
		conn.WriteJSON(gin.H{"error": "Trip is not running"})
		return
	}

	bearing := payload.Bearing
	var prev models.CurrentLocation
	if err := config.DB.Where("trip_id = ?", trip.ID).First(&prev).Error; err == nil {
		if bearing == 0 {
			bearing = calculateBearing(prev.Latitude, prev.Longitude, payload.Latitude, payload.Longitude)
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		conn.WriteJSON(gin.H{"error": "Database error reading last position"})
		return
	}

	loc := models.CurrentLocation{
		TripID:     trip.ID,
		Latitude:   payload.Latitude,
		Longitude:  payload.Longitude,
		Speed:      payload.Speed,
		Bearing:    bearing,
		LastUpdate: payload.Timestamp,
	}
	err = config.DB.Where("trip_id = ?", trip.ID).
		Assign(map[string]interface{}{
			"latitude":    loc.Latitude,
			"longitude":   loc.Longitude,
			"speed":       loc.Speed,
			"bearing":     loc.Bearing,
			"last_update": loc.LastUpdate,
		}).
		FirstOrCreate(&loc).Error
	if err != nil {
		logrus.WithError(err).Errorf("Failed to save position for trip %d", trip.ID)
		conn.WriteJSON(gin.H{"error": "Failed to save position"})
		return
	}

	conn.WriteJSON(gin.H{"status": "saved", "timestamp": loc.LastUpdate.Format(time.RFC3339Nano)})

	trackingHub.PublishLocation(map[string]interface{}{
		"route_id":  float64(trip.Schedule.RouteID),
		"trip_id":   trip.ID,
		"latitude":  loc.Latitude,
		"longitude": loc.Longitude,
		"speed":     loc.Speed,
		"bearing":   loc.Bearing,
		"timestamp": loc.LastUpdate.Format(time.RFC3339Nano),
		"status":    trip.Status,
	})
}

// LiveShuttles is the public feed of running shuttles and their latest
// positions, optionally filtered to one route.
func LiveShuttles(c *gin.Context) {
	query := config.DB.
		Joins("JOIN daily_trips ON daily_trips.id = current_locations.trip_id").
		Where("daily_trips.status IN ?", []string{models.TripInProgress, models.TripDelayed}).
		Preload("Trip.Schedule.Route").
		Preload("Trip.Assignment.Vehicle")
	if routeStr := c.Query("route_id"); routeStr != "" {
		query = query.
			Joins("JOIN schedules ON schedules.id = daily_trips.schedule_id").
			Where("schedules.route_id = ?", routeStr)
	}

	var locations []models.CurrentLocation
	if err := query.Find(&locations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading live positions: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": locations, "count": len(locations)})
}

// calculateBearing derives the initial bearing in degrees between two
// fixes, used when the device does not report one.
func calculateBearing(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)
	deltaLon := toRadians(lon2 - lon1)

	y := math.Sin(deltaLon) * math.Cos(lat2Rad)
	x := math.Cos(lat1Rad)*math.Sin(lat2Rad) -
		math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(deltaLon)
	return math.Mod(toDegrees(math.Atan2(y, x))+360, 360)
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }
