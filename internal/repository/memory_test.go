package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zvrva/flightledger/internal/domain"
)

func testRecord(b byte, src, dest string) *domain.FlightRecord {
	var id domain.FlightID
	id[0] = b
	return &domain.FlightRecord{
		Flight: domain.Flight{
			ID:            id,
			AdminOwner:    "admin",
			MaxPassengers: 10,
			Price:         100,
			Src:           src,
			Dest:          dest,
			Status:        domain.StatusBooking,
		},
	}
}

func TestMemoryStore_InsertAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	rec := testRecord(1, "SVO", "LED")
	assert.NoError(t, store.Insert(ctx, rec))

	got, err := store.Get(ctx, rec.Flight.ID)
	assert.NoError(t, err)
	assert.Equal(t, rec.Flight, got.Flight)
}

func TestMemoryStore_Insert_Duplicate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	assert.NoError(t, store.Insert(ctx, testRecord(1, "SVO", "LED")))
	err := store.Insert(ctx, testRecord(1, "JFK", "LAX"))

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestMemoryStore_Get_NotFound(t *testing.T) {
	store := NewMemoryStore()

	var id domain.FlightID
	id[0] = 9
	_, err := store.Get(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStore_Get_ReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	rec := testRecord(1, "SVO", "LED")
	rec.Bookings = []domain.Booking{{Passenger: "alice", AmountPaid: 100, Payload: []byte("secret")}}
	assert.NoError(t, store.Insert(ctx, rec))

	got, _ := store.Get(ctx, rec.Flight.ID)
	got.Flight.PassengerCount = 99
	got.Bookings[0].Payload[0] = 'X'

	fresh, _ := store.Get(ctx, rec.Flight.ID)
	assert.Equal(t, uint32(0), fresh.Flight.PassengerCount)
	assert.Equal(t, []byte("secret"), fresh.Bookings[0].Payload)
}

func TestMemoryStore_Update_MutatorErrorLeavesStateUntouched(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	rec := testRecord(1, "SVO", "LED")
	assert.NoError(t, store.Insert(ctx, rec))

	boom := errors.New("boom")
	_, err := store.Update(ctx, rec.Flight.ID, func(r *domain.FlightRecord) error {
		r.Flight.PassengerCount = 5
		r.Bookings = append(r.Bookings, domain.Booking{Passenger: "alice"})
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, _ := store.Get(ctx, rec.Flight.ID)
	assert.Equal(t, uint32(0), got.Flight.PassengerCount)
	assert.Len(t, got.Bookings, 0)
}

func TestMemoryStore_Update_Commits(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	rec := testRecord(1, "SVO", "LED")
	assert.NoError(t, store.Insert(ctx, rec))

	updated, err := store.Update(ctx, rec.Flight.ID, func(r *domain.FlightRecord) error {
		r.Flight.PassengerCount++
		r.Flight.EscrowAmount += r.Flight.Price
		r.Bookings = append(r.Bookings, domain.Booking{Passenger: "alice", AmountPaid: r.Flight.Price})
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, uint32(1), updated.Flight.PassengerCount)

	got, _ := store.Get(ctx, rec.Flight.ID)
	assert.Equal(t, int64(100), got.Flight.EscrowAmount)
	assert.Len(t, got.Bookings, 1)
}

func TestMemoryStore_Update_ConcurrentIncrements(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	rec := testRecord(1, "SVO", "LED")
	rec.Flight.MaxPassengers = 1000
	assert.NoError(t, store.Insert(ctx, rec))

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, rec.Flight.ID, func(r *domain.FlightRecord) error {
				r.Flight.PassengerCount++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, _ := store.Get(ctx, rec.Flight.ID)
	assert.Equal(t, uint32(workers), got.Flight.PassengerCount)
}

func TestMemoryStore_ListByRoute_ExactMatch(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	assert.NoError(t, store.Insert(ctx, testRecord(1, "SVO", "LED")))
	assert.NoError(t, store.Insert(ctx, testRecord(2, "SVO", "LED")))
	assert.NoError(t, store.Insert(ctx, testRecord(3, "svo", "led")))
	assert.NoError(t, store.Insert(ctx, testRecord(4, "JFK", "LAX")))

	flights, err := store.ListByRoute(ctx, "SVO", "LED")
	assert.NoError(t, err)
	assert.Len(t, flights, 2)

	flights, err = store.ListByRoute(ctx, "svo", "led")
	assert.NoError(t, err)
	assert.Len(t, flights, 1)
}

func TestMemoryStore_ListByPassenger(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	booked := testRecord(1, "SVO", "LED")
	booked.Bookings = []domain.Booking{{Passenger: "alice", AmountPaid: 100}}
	assert.NoError(t, store.Insert(ctx, booked))
	assert.NoError(t, store.Insert(ctx, testRecord(2, "JFK", "LAX")))

	flights, err := store.ListByPassenger(ctx, "alice")
	assert.NoError(t, err)
	assert.Len(t, flights, 1)
	assert.Equal(t, booked.Flight.ID, flights[0].ID)

	flights, err = store.ListByPassenger(ctx, "bob")
	assert.NoError(t, err)
	assert.Len(t, flights, 0)
}

func TestMemoryStore_List(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	assert.NoError(t, store.Insert(ctx, testRecord(1, "SVO", "LED")))
	assert.NoError(t, store.Insert(ctx, testRecord(2, "JFK", "LAX")))

	flights, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, flights, 2)
}
