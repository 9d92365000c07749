package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/flightledger/internal/domain"
)

const uniqueViolation = "23505"

// PGFlightStore persists flight records in Postgres. Update takes a row
// lock on the flight so the mutator runs as one transaction; concurrent
// writers to the same flight queue behind the lock, writers to different
// flights do not contend.
type PGFlightStore struct {
	db *pgxpool.Pool
}

func NewPGFlightStore(db *pgxpool.Pool) *PGFlightStore {
	return &PGFlightStore{db: db}
}

func (s *PGFlightStore) Insert(ctx context.Context, rec *domain.FlightRecord) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	f := rec.Flight
	_, err = tx.Exec(ctx, `INSERT INTO flights (id, admin_owner, max_passengers, passenger_count, price, escrow_amount, src, dest, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		f.ID[:], string(f.AdminOwner), int64(f.MaxPassengers), int64(f.PassengerCount), f.Price, f.EscrowAmount, f.Src, f.Dest, string(f.Status))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrAlreadyExists
		}
		return err
	}
	if err := insertBookings(ctx, tx, f.ID, rec.Bookings); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PGFlightStore) Get(ctx context.Context, id domain.FlightID) (*domain.FlightRecord, error) {
	row := s.db.QueryRow(ctx, `SELECT id, admin_owner, max_passengers, passenger_count, price, escrow_amount, src, dest, status FROM flights WHERE id=$1`, id[:])
	f, err := scanFlight(row)
	if err != nil {
		return nil, err
	}
	bookings, err := s.loadBookings(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	return &domain.FlightRecord{Flight: *f, Bookings: bookings}, nil
}

func (s *PGFlightStore) Update(ctx context.Context, id domain.FlightID, fn Mutator) (*domain.FlightRecord, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT id, admin_owner, max_passengers, passenger_count, price, escrow_amount, src, dest, status FROM flights WHERE id=$1 FOR UPDATE`, id[:])
	f, err := scanFlight(row)
	if err != nil {
		return nil, err
	}
	bookings, err := s.loadBookings(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	rec := &domain.FlightRecord{Flight: *f, Bookings: bookings}
	if err := fn(rec); err != nil {
		return nil, err
	}

	nf := rec.Flight
	if _, err := tx.Exec(ctx, `UPDATE flights SET passenger_count=$2, escrow_amount=$3, status=$4 WHERE id=$1`,
		id[:], int64(nf.PassengerCount), nf.EscrowAmount, string(nf.Status)); err != nil {
		return nil, err
	}
	// The booking set is small (bounded by max_passengers); rewriting it
	// wholesale keeps the mutator contract identical to the memory store.
	if _, err := tx.Exec(ctx, `DELETE FROM bookings WHERE flight_id=$1`, id[:]); err != nil {
		return nil, err
	}
	if err := insertBookings(ctx, tx, id, rec.Bookings); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return rec.Clone(), nil
}

func (s *PGFlightStore) List(ctx context.Context) ([]domain.Flight, error) {
	return s.queryFlights(ctx, `SELECT id, admin_owner, max_passengers, passenger_count, price, escrow_amount, src, dest, status FROM flights ORDER BY src, dest`)
}

func (s *PGFlightStore) ListByRoute(ctx context.Context, src, dest string) ([]domain.Flight, error) {
	return s.queryFlights(ctx, `SELECT id, admin_owner, max_passengers, passenger_count, price, escrow_amount, src, dest, status FROM flights WHERE src=$1 AND dest=$2`, src, dest)
}

func (s *PGFlightStore) ListByPassenger(ctx context.Context, passenger domain.Identity) ([]domain.Flight, error) {
	return s.queryFlights(ctx, `SELECT f.id, f.admin_owner, f.max_passengers, f.passenger_count, f.price, f.escrow_amount, f.src, f.dest, f.status
		FROM flights f JOIN bookings b ON b.flight_id = f.id WHERE b.passenger=$1`, string(passenger))
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (s *PGFlightStore) queryFlights(ctx context.Context, sql string, args ...any) ([]domain.Flight, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (s *PGFlightStore) loadBookings(ctx context.Context, q querier, id domain.FlightID) ([]domain.Booking, error) {
	rows, err := q.Query(ctx, `SELECT passenger, amount_paid, payload FROM bookings WHERE flight_id=$1`, id[:])
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var (
			passenger string
			b         domain.Booking
		)
		if err := rows.Scan(&passenger, &b.AmountPaid, &b.Payload); err != nil {
			return nil, err
		}
		b.Passenger = domain.Identity(passenger)
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func insertBookings(ctx context.Context, tx pgx.Tx, id domain.FlightID, bookings []domain.Booking) error {
	for _, b := range bookings {
		if _, err := tx.Exec(ctx, `INSERT INTO bookings (flight_id, passenger, amount_paid, payload) VALUES ($1, $2, $3, $4)`,
			id[:], string(b.Passenger), b.AmountPaid, b.Payload); err != nil {
			return err
		}
	}
	return nil
}

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var (
		id        []byte
		admin     string
		maxP, cnt int64
		status    string
		f         domain.Flight
	)
	if err := row.Scan(&id, &admin, &maxP, &cnt, &f.Price, &f.EscrowAmount, &f.Src, &f.Dest, &status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	copy(f.ID[:], id)
	f.AdminOwner = domain.Identity(admin)
	f.MaxPassengers = uint32(maxP)
	f.PassengerCount = uint32(cnt)
	f.Status = domain.FlightStatus(status)
	return &f, nil
}

var _ FlightStore = (*PGFlightStore)(nil)
