// Package vault is the custody side of the encrypted passenger store.
// Ciphertext enters through the ticket purchase path and is handed back
// here, byte for byte, to the passenger who deposited it. Nothing in
// this package can decrypt anything; only the holder of the flight's
// private key can read the contents.
package vault

import (
	"context"
	"fmt"

	"github.com/zvrva/flightledger/internal/domain"
	"github.com/zvrva/flightledger/internal/repository"
)

type UseCase interface {
	Retrieve(ctx context.Context, flightID domain.FlightID, passenger domain.Identity) ([]byte, error)
}

type Service struct {
	store repository.FlightStore
}

func NewService(store repository.FlightStore) *Service {
	return &Service{store: store}
}

// Retrieve returns the ciphertext deposited by passenger at booking
// time. Fails with domain.ErrNotFound for an unknown flight and
// domain.ErrNotBooked when the passenger holds no active booking.
func (s *Service) Retrieve(ctx context.Context, flightID domain.FlightID, passenger domain.Identity) ([]byte, error) {
	rec, err := s.store.Get(ctx, flightID)
	if err != nil {
		return nil, err
	}
	idx := rec.FindBooking(passenger)
	if idx < 0 {
		return nil, fmt.Errorf("%w: no booking for %q on flight %s", domain.ErrNotBooked, passenger, flightID)
	}
	return append([]byte(nil), rec.Bookings[idx].Payload...), nil
}

var _ UseCase = (*Service)(nil)
