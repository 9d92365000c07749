package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zvrva/flightledger/internal/domain"
	"github.com/zvrva/flightledger/internal/guard"
	"github.com/zvrva/flightledger/internal/kafka"
	"github.com/zvrva/flightledger/internal/metrics"
	"github.com/zvrva/flightledger/internal/repository"
	"go.uber.org/zap"
)

// DefaultMaxPayloadBytes bounds the ciphertext accepted per booking when
// no limit is configured.
const DefaultMaxPayloadBytes = 4096

type UseCase interface {
	Apply(ctx context.Context, caller domain.Identity, op Op) (*Result, error)
}

type Cache interface {
	GetRoute(ctx context.Context, src, dest string) ([]domain.Flight, error)
	SetRoute(ctx context.Context, src, dest string, flights []domain.Flight) error
	GetAll(ctx context.Context) ([]domain.Flight, error)
	SetAll(ctx context.Context, flights []domain.Flight) error
	InvalidateRoute(ctx context.Context, src, dest string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Service is the ledger core: the capacity & escrow engine, the status
// lifecycle controller and the authorization guard, dispatched over the
// closed operation set.
type Service struct {
	store      repository.FlightStore
	binding    guard.IdentityKeyBinding
	cache      Cache
	producer   Producer
	topic      string
	maxPayload int
	reg        *metrics.Registry
	log        *zap.SugaredLogger
}

type ServiceOption func(*Service)

func WithCache(cache Cache) ServiceOption {
	return func(s *Service) { s.cache = cache }
}

func WithProducer(producer Producer, topic string) ServiceOption {
	return func(s *Service) {
		s.producer = producer
		s.topic = topic
	}
}

func WithMaxPayloadBytes(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.maxPayload = n
		}
	}
}

func WithMetrics(reg *metrics.Registry) ServiceOption {
	return func(s *Service) { s.reg = reg }
}

func NewService(store repository.FlightStore, binding guard.IdentityKeyBinding, log *zap.SugaredLogger, opts ...ServiceOption) *Service {
	s := &Service{
		store:      store,
		binding:    binding,
		maxPayload: DefaultMaxPayloadBytes,
		log:        log,
	}
	if s.log == nil {
		s.log = zap.NewNop().Sugar()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply authorizes and executes one operation. The dispatch is the single
// point where the per-operation identity requirement is enforced: buy and
// cancel act as the named passenger, status updates act as the flight's
// admin owner (checked inside the atomic update), reads act as anyone.
func (s *Service) Apply(ctx context.Context, caller domain.Identity, op Op) (*Result, error) {
	switch op := op.(type) {
	case CreateFlight:
		return s.createFlight(ctx, caller, op)
	case UpdateFlightStatus:
		return s.updateFlightStatus(ctx, caller, op)
	case BuyTicket:
		if caller == "" || caller != op.Passenger {
			return nil, fmt.Errorf("%w: caller %q is not passenger %q", domain.ErrUnauthorized, caller, op.Passenger)
		}
		return s.buyTicket(ctx, op)
	case CancelTicket:
		if caller == "" || caller != op.Passenger {
			return nil, fmt.Errorf("%w: caller %q is not passenger %q", domain.ErrUnauthorized, caller, op.Passenger)
		}
		return s.cancelTicket(ctx, op)
	case GetFlight:
		return s.getFlight(ctx, op)
	case SearchByRoute:
		return s.searchByRoute(ctx, op)
	case ListForPassenger:
		flights, err := s.store.ListByPassenger(ctx, op.Passenger)
		if err != nil {
			return nil, err
		}
		return &Result{Flights: flights}, nil
	case ListAll:
		return s.listAll(ctx)
	default:
		return nil, fmt.Errorf("%w: unknown operation %T", domain.ErrInvalidArgument, op)
	}
}

func (s *Service) createFlight(ctx context.Context, caller domain.Identity, op CreateFlight) (*Result, error) {
	if caller == "" {
		return nil, fmt.Errorf("%w: flight creation requires an authenticated admin", domain.ErrUnauthorized)
	}
	if op.MaxPassengers == 0 {
		return nil, fmt.Errorf("%w: max_passengers must be positive", domain.ErrInvalidArgument)
	}
	if op.Price < 0 {
		return nil, fmt.Errorf("%w: price must be non-negative", domain.ErrInvalidArgument)
	}
	if !validRouteCode(op.Src) || !validRouteCode(op.Dest) {
		return nil, fmt.Errorf("%w: malformed route code %q -> %q", domain.ErrInvalidArgument, op.Src, op.Dest)
	}
	if err := s.binding.VerifyFlightKey(ctx, op.ID, caller); err != nil {
		return nil, err
	}

	rec := &domain.FlightRecord{
		Flight: domain.Flight{
			ID:            op.ID,
			AdminOwner:    caller,
			MaxPassengers: op.MaxPassengers,
			Price:         op.Price,
			Src:           op.Src,
			Dest:          op.Dest,
			Status:        domain.StatusBooking,
		},
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		return nil, err
	}

	s.afterMutation(ctx, &rec.Flight, kafka.LedgerEvent{
		Type:   kafka.EventFlightCreated,
		Price:  rec.Flight.Price,
		Status: string(rec.Flight.Status),
	})
	if s.reg != nil {
		s.reg.FlightsCreatedTotal.Inc()
	}
	s.log.Infow("flight created",
		"flight_id", rec.Flight.ID.String(),
		"route", op.Src+"-"+op.Dest,
		"max_passengers", op.MaxPassengers,
		"price", op.Price,
	)
	return &Result{Flight: &rec.Flight}, nil
}

func (s *Service) buyTicket(ctx context.Context, op BuyTicket) (*Result, error) {
	if len(op.Payload) > s.maxPayload {
		return nil, fmt.Errorf("%w: payload %d bytes exceeds limit %d", domain.ErrInvalidArgument, len(op.Payload), s.maxPayload)
	}

	// Capacity check and counter increment run inside one atomic store
	// update; a concurrent purchase of the last seat observes the already
	// incremented count and fails cleanly.
	rec, err := s.store.Update(ctx, op.FlightID, func(rec *domain.FlightRecord) error {
		f := &rec.Flight
		if f.Status != domain.StatusBooking {
			return domain.ErrFlightClosed
		}
		if f.PassengerCount >= f.MaxPassengers {
			return domain.ErrCapacityExceeded
		}
		if rec.FindBooking(op.Passenger) >= 0 {
			return domain.ErrAlreadyBooked
		}
		f.PassengerCount++
		f.EscrowAmount += f.Price
		rec.Bookings = append(rec.Bookings, domain.Booking{
			Passenger:  op.Passenger,
			AmountPaid: f.Price,
			Payload:    append([]byte(nil), op.Payload...),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, &rec.Flight, kafka.LedgerEvent{
		Type:      kafka.EventTicketPurchased,
		Passenger: string(op.Passenger),
		Price:     rec.Flight.Price,
		Status:    string(rec.Flight.Status),
	})
	if s.reg != nil {
		s.reg.TicketsSoldTotal.Inc()
	}
	s.log.Infow("ticket purchased",
		"flight_id", op.FlightID.String(),
		"passenger_count", rec.Flight.PassengerCount,
		"escrow", rec.Flight.EscrowAmount,
	)
	return &Result{Flight: &rec.Flight}, nil
}

func (s *Service) cancelTicket(ctx context.Context, op CancelTicket) (*Result, error) {
	var refund int64
	rec, err := s.store.Update(ctx, op.FlightID, func(rec *domain.FlightRecord) error {
		f := &rec.Flight
		if f.Status != domain.StatusBooking {
			return domain.ErrFlightClosed
		}
		idx := rec.FindBooking(op.Passenger)
		if idx < 0 {
			return domain.ErrNotBooked
		}
		paid := rec.Bookings[idx].AmountPaid
		// 90% back to the passenger, truncating; the remainder is the
		// operator's retained fee and leaves escrow with the rest.
		refund = paid * 9 / 10
		f.EscrowAmount -= paid
		f.PassengerCount--
		rec.Bookings = append(rec.Bookings[:idx], rec.Bookings[idx+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, &rec.Flight, kafka.LedgerEvent{
		Type:      kafka.EventTicketCancelled,
		Passenger: string(op.Passenger),
		Refund:    refund,
		Status:    string(rec.Flight.Status),
	})
	if s.reg != nil {
		s.reg.TicketsCancelledTotal.Inc()
		s.reg.RefundsIssuedTotal.Add(float64(refund))
	}
	s.log.Infow("ticket cancelled",
		"flight_id", op.FlightID.String(),
		"refund", refund,
		"passenger_count", rec.Flight.PassengerCount,
		"escrow", rec.Flight.EscrowAmount,
	)
	return &Result{Flight: &rec.Flight, Refund: refund}, nil
}

func (s *Service) updateFlightStatus(ctx context.Context, caller domain.Identity, op UpdateFlightStatus) (*Result, error) {
	if _, err := domain.ParseFlightStatus(string(op.NewStatus)); err != nil {
		return nil, err
	}
	rec, err := s.store.Update(ctx, op.FlightID, func(rec *domain.FlightRecord) error {
		f := &rec.Flight
		if caller == "" || caller != f.AdminOwner {
			return fmt.Errorf("%w: caller %q is not the flight admin", domain.ErrUnauthorized, caller)
		}
		if op.NewStatus == f.Status || !f.Status.CanTransitionTo(op.NewStatus) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, f.Status, op.NewStatus)
		}
		f.Status = op.NewStatus
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, &rec.Flight, kafka.LedgerEvent{
		Type:   kafka.EventStatusChanged,
		Status: string(rec.Flight.Status),
	})
	s.log.Infow("flight status changed",
		"flight_id", op.FlightID.String(),
		"status", rec.Flight.Status,
	)
	return &Result{Flight: &rec.Flight}, nil
}

func (s *Service) getFlight(ctx context.Context, op GetFlight) (*Result, error) {
	rec, err := s.store.Get(ctx, op.FlightID)
	if err != nil {
		return nil, err
	}
	return &Result{Flight: &rec.Flight}, nil
}

func (s *Service) searchByRoute(ctx context.Context, op SearchByRoute) (*Result, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetRoute(ctx, op.Src, op.Dest); err == nil && cached != nil {
			return &Result{Flights: cached}, nil
		}
	}
	flights, err := s.store.ListByRoute(ctx, op.Src, op.Dest)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetRoute(ctx, op.Src, op.Dest, flights)
	}
	return &Result{Flights: flights}, nil
}

func (s *Service) listAll(ctx context.Context) (*Result, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetAll(ctx); err == nil && cached != nil {
			return &Result{Flights: cached}, nil
		}
	}
	flights, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetAll(ctx, flights)
	}
	return &Result{Flights: flights}, nil
}

// afterMutation drops stale read-side projections and publishes the
// ledger event. Both are best effort: the committed state transition is
// already final.
func (s *Service) afterMutation(ctx context.Context, f *domain.Flight, event kafka.LedgerEvent) {
	if s.cache != nil {
		if err := s.cache.InvalidateRoute(ctx, f.Src, f.Dest); err != nil {
			s.log.Warnw("cache invalidation failed", "flight_id", f.ID.String(), "error", err)
		}
	}
	if s.producer == nil || s.topic == "" {
		return
	}
	event.EventID = uuid.NewString()
	event.FlightID = f.ID.String()
	event.Time = time.Now().UTC()
	if err := s.producer.Publish(ctx, s.topic, event.FlightID, event); err != nil {
		s.log.Warnw("failed to publish ledger event", "type", event.Type, "flight_id", event.FlightID, "error", err)
	}
}

func validRouteCode(code string) bool {
	if code == "" || len(code) > domain.MaxRouteCodeLen {
		return false
	}
	for _, r := range code {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

var _ UseCase = (*Service)(nil)
