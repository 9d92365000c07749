package repository

import (
	"context"

	"github.com/zvrva/flightledger/internal/domain"
)

// Mutator is applied to a private copy of a flight record under the
// store's per-flight write lock. Returning an error aborts the update
// and no change becomes visible.
type Mutator func(rec *domain.FlightRecord) error

type FlightStore interface {
	// Insert adds a new record, failing with domain.ErrAlreadyExists on
	// an id collision.
	Insert(ctx context.Context, rec *domain.FlightRecord) error
	// Get returns a copy of the record, or domain.ErrNotFound.
	Get(ctx context.Context, id domain.FlightID) (*domain.FlightRecord, error)
	// Update runs fn as an atomic read-modify-write against one flight.
	// Concurrent readers never observe a partially applied mutation, and
	// updates to the same flight are strictly ordered. On success the
	// committed record is returned.
	Update(ctx context.Context, id domain.FlightID, fn Mutator) (*domain.FlightRecord, error)
	List(ctx context.Context) ([]domain.Flight, error)
	ListByRoute(ctx context.Context, src, dest string) ([]domain.Flight, error)
	ListByPassenger(ctx context.Context, passenger domain.Identity) ([]domain.Flight, error)
}
