package controllers

import (
	"encoding/binary"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"campus_shuttle/internal/config"
	"campus_shuttle/internal/models"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// RouteResponse mirrors models.Route but carries Geometry as a GeoJSON
// string for API output.
type RouteResponse struct {
	ID          uint               `json:"ID"`
	CreatedAt   time.Time          `json:"CreatedAt"`
	UpdatedAt   time.Time          `json:"UpdatedAt"`
	DeletedAt   gorm.DeletedAt     `json:"DeletedAt,omitempty"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Geometry    string             `json:"geometry"`
	RouteStops  []models.RouteStop `json:"route_stops"`
	Schedules   []models.Schedule  `json:"schedules,omitempty"`
}

func toRouteResponse(route models.Route) RouteResponse {
	jsonGeom, _ := convertWKBToGeoJSON(route.Geometry)
	return RouteResponse{
		ID:          route.ID,
		CreatedAt:   route.CreatedAt,
		UpdatedAt:   route.UpdatedAt,
		DeletedAt:   route.DeletedAt,
		Name:        route.Name,
		Description: route.Description,
		Geometry:    jsonGeom,
		RouteStops:  route.RouteStops,
		Schedules:   route.Schedules,
	}
}

// parseAndConvertGeometry parses a GeoJSON string into a geom.T and returns WKB bytes
func parseAndConvertGeometry(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	var g geom.T
	err := gjson.Unmarshal([]byte(raw), &g)
	if err != nil {
		return nil, err
	}
	return wkb.Marshal(g, binary.LittleEndian)
}

// convertWKBToGeoJSON converts WKB bytes into a GeoJSON string
func convertWKBToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CreateRoute lets a coordinator create a route with an optional GeoJSON
// LineString and an initial set of ordered stops.
func CreateRoute(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Geometry    string `json:"geometry"`
		RouteStops  []struct {
			StopID     uint `json:"stop_id"`
			SequenceNo int  `json:"sequence_no"`
			EstMinutes int  `json:"est_minutes"`
		} `json:"route_stops"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateRoute: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	wkbGeom, err := parseAndConvertGeometry(input.Geometry)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid geometry: " + err.Error()})
		return
	}

	route := models.Route{Name: input.Name, Description: input.Description, Geometry: wkbGeom}
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&route).Error; err != nil {
			return err
		}
		for _, s := range input.RouteStops {
			rs := models.RouteStop{RouteID: route.ID, StopID: s.StopID, SequenceNo: s.SequenceNo, EstMinutes: s.EstMinutes}
			if err := tx.Create(&rs).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create route failed: " + err.Error()})
		return
	}

	config.DB.Preload("RouteStops.Stop").First(&route, route.ID)
	c.JSON(http.StatusCreated, gin.H{"route": toRouteResponse(route)})
}

// ListRoutes returns all routes with their stops and schedules.
func ListRoutes(c *gin.Context) {
	var routes []models.Route
	config.DB.Preload("RouteStops.Stop").Preload("Schedules").Find(&routes)

	var routeResponses []RouteResponse
	for _, r := range routes {
		routeResponses = append(routeResponses, toRouteResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"routes": routeResponses})
}

// GetRoute returns a single route with stops and schedules.
func GetRoute(c *gin.Context) {
	rID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var route models.Route
	if err := config.DB.Preload("RouteStops.Stop").Preload("Schedules").First(&route, rID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(route)})
}

// UpdateRoute handles updating an existing route.
func UpdateRoute(c *gin.Context) {
	rID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logrus.WithError(err).Warn("UpdateRoute: Invalid route ID in parameter")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var existingRoute models.Route
	if err := config.DB.First(&existingRoute, rID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		} else {
			logrus.WithError(err).Error("UpdateRoute: Database error fetching route")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var input struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Geometry    *string `json:"geometry"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("UpdateRoute: Invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		existingRoute.Name = *input.Name
	}
	if input.Description != nil {
		existingRoute.Description = *input.Description
	}
	if input.Geometry != nil {
		if *input.Geometry == "" {
			existingRoute.Geometry = nil
		} else {
			wkbGeom, err := parseAndConvertGeometry(*input.Geometry)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid geometry: " + err.Error()})
				return
			}
			existingRoute.Geometry = wkbGeom
		}
	}

	if err := config.DB.Save(&existingRoute).Error; err != nil {
		logrus.WithError(err).Error("UpdateRoute: Failed to save updated route")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(existingRoute)})
}

// DeleteRoute removes a route and its stop links.
func DeleteRoute(c *gin.Context) {
	rID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var route models.Route
	if err := config.DB.First(&route, rID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("route_id = ?", route.ID).Delete(&models.RouteStop{}).Error; err != nil {
			return err
		}
		return tx.Delete(&route).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete route: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Route deleted successfully"})
}

// ReplaceRouteStops swaps the full ordered stop list of a route. Duration
// estimates feed straight into conflict checks, so this is the edit surface
// for trip timing.
func ReplaceRouteStops(c *gin.Context) {
	rID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var route models.Route
	if err := config.DB.First(&route, rID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}

	var input struct {
		RouteStops []models.RouteStop `json:"route_stops" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("route_id = ?", route.ID).Delete(&models.RouteStop{}).Error; err != nil {
			return err
		}
		for i := range input.RouteStops {
			input.RouteStops[i].ID = 0
			input.RouteStops[i].RouteID = route.ID
		}
		return tx.Create(&input.RouteStops).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Replace stops failed: " + err.Error()})
		return
	}

	config.DB.Preload("RouteStops.Stop").First(&route, route.ID)
	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(route)})
}
