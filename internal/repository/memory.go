package repository

import (
	"context"
	"sync"

	"github.com/zvrva/flightledger/internal/domain"
)

// MemoryStore keeps all flight records in process. Each flight carries
// its own mutex, so updates to different flights never contend while
// updates to the same flight are serialized with first-committed-wins
// semantics.
type MemoryStore struct {
	mu      sync.RWMutex
	flights map[domain.FlightID]*memEntry
}

type memEntry struct {
	mu  sync.Mutex
	rec domain.FlightRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{flights: make(map[domain.FlightID]*memEntry)}
}

func (s *MemoryStore) Insert(ctx context.Context, rec *domain.FlightRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.flights[rec.Flight.ID]; ok {
		return domain.ErrAlreadyExists
	}
	s.flights[rec.Flight.ID] = &memEntry{rec: *rec.Clone()}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id domain.FlightID) (*domain.FlightRecord, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.rec.Clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, id domain.FlightID, fn Mutator) (*domain.FlightRecord, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	// Mutate a copy; commit only if fn succeeds.
	next := entry.rec.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	entry.rec = *next
	return next.Clone(), nil
}

func (s *MemoryStore) List(ctx context.Context) ([]domain.Flight, error) {
	return s.collect(func(f *domain.Flight, _ []domain.Booking) bool { return true }), nil
}

func (s *MemoryStore) ListByRoute(ctx context.Context, src, dest string) ([]domain.Flight, error) {
	return s.collect(func(f *domain.Flight, _ []domain.Booking) bool {
		return f.Src == src && f.Dest == dest
	}), nil
}

func (s *MemoryStore) ListByPassenger(ctx context.Context, passenger domain.Identity) ([]domain.Flight, error) {
	return s.collect(func(_ *domain.Flight, bookings []domain.Booking) bool {
		for i := range bookings {
			if bookings[i].Passenger == passenger {
				return true
			}
		}
		return false
	}), nil
}

func (s *MemoryStore) entry(id domain.FlightID) (*memEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.flights[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return entry, nil
}

func (s *MemoryStore) collect(keep func(*domain.Flight, []domain.Booking) bool) []domain.Flight {
	s.mu.RLock()
	entries := make([]*memEntry, 0, len(s.flights))
	for _, e := range s.flights {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	out := make([]domain.Flight, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if keep(&e.rec.Flight, e.rec.Bookings) {
			out = append(out, e.rec.Flight)
		}
		e.mu.Unlock()
	}
	return out
}

var _ FlightStore = (*MemoryStore)(nil)
