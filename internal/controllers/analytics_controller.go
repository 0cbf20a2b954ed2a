package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campus_shuttle/internal/config"
	"campus_shuttle/internal/models"
	"campus_shuttle/internal/scheduling"
)

// analyticsRange parses optional ?from= and ?to= bounds, defaulting to the
// last 30 days.
func analyticsRange(c *gin.Context) (time.Time, time.Time, error) {
	to := scheduling.DateOnly(time.Now()).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -31)

	if s := c.Query("from"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			return from, to, err
		}
		from = parsed
	}
	if s := c.Query("to"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			return from, to, err
		}
		to = parsed.AddDate(0, 0, 1)
	}
	return from, to, nil
}

// TopRoutes ranks the five most-booked routes over the window. Cancelled
// bookings still count as demand.
func TopRoutes(c *gin.Context) {
	from, to, err := analyticsRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dates must be YYYY-MM-DD"})
		return
	}

	type routeRank struct {
		RouteID   uint   `json:"route_id"`
		RouteName string `json:"route_name"`
		Bookings  int64  `json:"bookings"`
	}
	var ranks []routeRank
	err = config.DB.Model(&models.Booking{}).
		Select("routes.id AS route_id, routes.name AS route_name, COUNT(bookings.id) AS bookings").
		Joins("JOIN daily_trips ON daily_trips.id = bookings.trip_id").
		Joins("JOIN schedules ON schedules.id = daily_trips.schedule_id").
		Joins("JOIN routes ON routes.id = schedules.route_id").
		Where("daily_trips.trip_date >= ? AND daily_trips.trip_date < ?", from, to).
		Group("routes.id, routes.name").
		Order("bookings DESC").
		Limit(5).
		Scan(&ranks).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ranking query failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ranks})
}

// TripStatusBreakdown counts trips per status over the window.
func TripStatusBreakdown(c *gin.Context) {
	from, to, err := analyticsRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dates must be YYYY-MM-DD"})
		return
	}

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var counts []statusCount
	err = config.DB.Model(&models.DailyTrip{}).
		Select("status, COUNT(id) AS count").
		Where("trip_date >= ? AND trip_date < ?", from, to).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Breakdown query failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": counts})
}

// ServiceReliability reports completed versus cancelled trips over the
// window: the share of planned departures that actually ran.
func ServiceReliability(c *gin.Context) {
	from, to, err := analyticsRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dates must be YYYY-MM-DD"})
		return
	}

	var completed, cancelled int64
	if err := config.DB.Model(&models.DailyTrip{}).
		Where("trip_date >= ? AND trip_date < ? AND status = ?", from, to, models.TripCompleted).
		Count(&completed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := config.DB.Model(&models.DailyTrip{}).
		Where("trip_date >= ? AND trip_date < ? AND status = ?", from, to, models.TripCancelled).
		Count(&cancelled).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	total := completed + cancelled
	rate := 0.0
	if total > 0 {
		rate = float64(completed) / float64(total)
	}

	c.JSON(http.StatusOK, gin.H{
		"completed":        completed,
		"cancelled":        cancelled,
		"reliability_rate": rate,
	})
}
