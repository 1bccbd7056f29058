package bookings

import "errors"

var (
	// ErrBookingNotFound is returned when a booking is not found
	ErrBookingNotFound = errors.New("booking not found")

	// ErrLogNotFound is returned when a booking has no interaction log.
	// Callers treat it as a non-fatal notice, not a failure.
	ErrLogNotFound = errors.New("interaction log not found")
)
