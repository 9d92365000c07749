package domain

import "fmt"

type FlightStatus string

const (
	StatusBooking   FlightStatus = "BOOKING"
	StatusTakeoff   FlightStatus = "TAKEOFF"
	StatusCancelled FlightStatus = "CANCELLED"
)

func ParseFlightStatus(s string) (FlightStatus, error) {
	switch FlightStatus(s) {
	case StatusBooking, StatusTakeoff, StatusCancelled:
		return FlightStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown flight status %q", ErrInvalidArgument, s)
}

// Terminal reports whether no further status transition is permitted.
func (s FlightStatus) Terminal() bool {
	return s == StatusTakeoff || s == StatusCancelled
}

// CanTransitionTo reports whether s -> next is a legal one-way move.
// Only BOOKING -> TAKEOFF and BOOKING -> CANCELLED exist.
func (s FlightStatus) CanTransitionTo(next FlightStatus) bool {
	return s == StatusBooking && next.Terminal()
}

// MaxRouteCodeLen bounds the src/dest short codes accepted at creation.
const MaxRouteCodeLen = 8

type Flight struct {
	ID             FlightID     `json:"id"`
	AdminOwner     Identity     `json:"admin_owner"`
	MaxPassengers  uint32       `json:"max_passengers"`
	PassengerCount uint32       `json:"passenger_count"`
	Price          int64        `json:"price"`
	EscrowAmount   int64        `json:"escrow_amount"`
	Src            string       `json:"src"`
	Dest           string       `json:"dest"`
	Status         FlightStatus `json:"status"`
}
