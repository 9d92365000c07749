package domain

// Booking is a passenger's reservation against one flight. Payload is
// ciphertext produced by the caller before submission; the ledger stores
// it verbatim and never interprets it.
type Booking struct {
	Passenger  Identity `json:"passenger"`
	AmountPaid int64    `json:"amount_paid"`
	Payload    []byte   `json:"-"`
}

// FlightRecord is the unit of atomicity in the flight store: the flight
// counters and its booking set always change together or not at all.
type FlightRecord struct {
	Flight   Flight
	Bookings []Booking
}

// FindBooking returns the index of passenger's active booking, or -1.
func (r *FlightRecord) FindBooking(passenger Identity) int {
	for i := range r.Bookings {
		if r.Bookings[i].Passenger == passenger {
			return i
		}
	}
	return -1
}

// Clone deep-copies the record, including payload bytes, so a mutated
// copy can be discarded without the original ever being observable
// mid-update.
func (r *FlightRecord) Clone() *FlightRecord {
	out := &FlightRecord{Flight: r.Flight}
	if r.Bookings != nil {
		out.Bookings = make([]Booking, len(r.Bookings))
		for i, b := range r.Bookings {
			cp := b
			cp.Payload = append([]byte(nil), b.Payload...)
			out.Bookings[i] = cp
		}
	}
	return out
}
