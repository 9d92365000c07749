package domain

import "errors"

// Ledger error kinds. Every failure maps onto exactly one of these and
// leaves the flight record and booking set untouched.
var (
	ErrNotFound          = errors.New("flight not found")
	ErrAlreadyExists     = errors.New("flight already exists")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrFlightClosed      = errors.New("flight closed for booking")
	ErrCapacityExceeded  = errors.New("flight capacity exceeded")
	ErrAlreadyBooked     = errors.New("passenger already holds a booking")
	ErrNotBooked         = errors.New("passenger holds no booking")
	ErrInvalidTransition = errors.New("invalid status transition")
)
