package ledger

import "github.com/zvrva/flightledger/internal/domain"

// Op is the closed set of ledger operations. Every mutating variant
// names the identity that must have been proven by the hosting
// environment before Apply runs; reads carry no identity requirement.
type Op interface{ isOp() }

type CreateFlight struct {
	ID            domain.FlightID
	MaxPassengers uint32
	Price         int64
	Src           string
	Dest          string
}

type UpdateFlightStatus struct {
	FlightID  domain.FlightID
	NewStatus domain.FlightStatus
}

type BuyTicket struct {
	FlightID  domain.FlightID
	Passenger domain.Identity
	// Payload is ciphertext readable only by the holder of the flight's
	// private key. Stored verbatim, never inspected.
	Payload []byte
}

type CancelTicket struct {
	FlightID  domain.FlightID
	Passenger domain.Identity
}

type GetFlight struct {
	FlightID domain.FlightID
}

type SearchByRoute struct {
	Src  string
	Dest string
}

type ListForPassenger struct {
	Passenger domain.Identity
}

type ListAll struct{}

func (CreateFlight) isOp()       {}
func (UpdateFlightStatus) isOp() {}
func (BuyTicket) isOp()          {}
func (CancelTicket) isOp()       {}
func (GetFlight) isOp()          {}
func (SearchByRoute) isOp()      {}
func (ListForPassenger) isOp()   {}
func (ListAll) isOp()            {}

// Result carries the outcome of an applied operation. Flight is set for
// single-flight operations, Flights for listings, Refund only for a
// successful CancelTicket.
type Result struct {
	Flight  *domain.Flight
	Flights []domain.Flight
	Refund  int64
}
