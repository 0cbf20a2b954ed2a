package scheduling

import (
	"errors"
	"fmt"
	"time"
)

// Expected, recoverable failure conditions. Controllers map these to
// user-facing messages; nothing here is fatal to the process.
var (
	ErrTripFull      = errors.New("bus is full")
	ErrAlreadyBooked = errors.New("you have already booked a seat on this trip")
)

// ConflictError reports a driver or vehicle already committed to an
// overlapping window on the same date.
type ConflictError struct {
	Resource string // "driver" or "vehicle"
	TripID   uint
	Start    time.Time
	End      time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already committed to trip #%d (%s - %s)",
		e.Resource, e.TripID,
		e.Start.Format("Mon 2006-01-02 15:04"), e.End.Format("15:04"))
}

// OverlapError reports a student booking that collides with another of the
// student's own confirmed bookings.
type OverlapError struct {
	RouteName string
	Start     time.Time
	End       time.Time
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("time clash with your trip on route %q (%s - %s)",
		e.RouteName, e.Start.Format("15:04"), e.End.Format("15:04"))
}
