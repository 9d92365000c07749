package settlement

import (
	"context"

	"github.com/zvrva/flightledger/internal/kafka"
	"go.uber.org/zap"
)

// Notifier is the boundary to the settlement layer. The ledger only
// accounts for escrow; actual value movement happens off-ledger, driven
// by the instructions recorded here.
type Notifier struct {
	log *zap.SugaredLogger
}

func NewNotifier(log *zap.SugaredLogger) *Notifier {
	return &Notifier{log: log}
}

// Handle turns a ledger event into a settlement instruction. Purchases
// fund the flight's escrow account, cancellations pay the truncated 90%
// refund back to the passenger.
func (n *Notifier) Handle(ctx context.Context, event kafka.LedgerEvent) error {
	switch event.Type {
	case kafka.EventTicketPurchased:
		n.log.Infow("settlement: fund escrow",
			"flight_id", event.FlightID,
			"passenger", event.Passenger,
			"amount", event.Price,
		)
	case kafka.EventTicketCancelled:
		n.log.Infow("settlement: pay refund",
			"flight_id", event.FlightID,
			"passenger", event.Passenger,
			"amount", event.Refund,
		)
	default:
		// Creation and status changes carry no value movement.
	}
	return nil
}
