package guard

import (
	"context"

	"github.com/zvrva/flightledger/internal/domain"
)

// IdentityKeyBinding isolates the assumption that whoever registers a
// flight id legitimately controls the private key matching that 32-byte
// public key. The ledger cannot verify this computationally; a stronger
// binding (e.g. a proof-of-possession challenge at creation) can replace
// TrustOnCreate without touching the capacity engine.
type IdentityKeyBinding interface {
	// VerifyFlightKey is consulted once, at flight creation, before the
	// record is inserted. A non-nil error rejects the creation.
	VerifyFlightKey(ctx context.Context, id domain.FlightID, creator domain.Identity) error
}

// TrustOnCreate accepts every (flight id, creator) pair. A creator who
// registers a key nobody holds bricks that flight's vault forever; that
// is a known, accepted limitation of the scheme.
type TrustOnCreate struct{}

func (TrustOnCreate) VerifyFlightKey(ctx context.Context, id domain.FlightID, creator domain.Identity) error {
	return nil
}

var _ IdentityKeyBinding = TrustOnCreate{}
