package scheduling

import "github.com/sirupsen/logrus"

// DefaultTripDurationMinutes is assumed for routes without timed stops.
const DefaultTripDurationMinutes = 60

// TripDuration is the planning estimate for one run of a route, in minutes:
// the largest est_minutes over the route's stops. Recomputed on every call
// so stop edits propagate straight into conflict checks.
func (e *Engine) TripDuration(routeID uint) int {
	return e.tripDuration(e.Store, routeID)
}

func (e *Engine) tripDuration(s Store, routeID uint) int {
	stops, err := s.RouteStops(routeID)
	if err != nil {
		logrus.WithError(err).WithField("route_id", routeID).
			Warn("TripDuration: could not load route stops, using default")
		return DefaultTripDurationMinutes
	}
	if len(stops) == 0 {
		return DefaultTripDurationMinutes
	}
	maxMin := 0
	for _, rs := range stops {
		if rs.EstMinutes > maxMin {
			maxMin = rs.EstMinutes
		}
	}
	return maxMin
}
