package domain

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Identity is an externally authenticated caller identity. The signing
// layer in front of the ledger proves control of the matching key; the
// core only compares identities, it never verifies signatures.
type Identity string

// FlightID is the 32-byte public-key value that names a flight. The same
// key is the encryption target for passenger payloads, so the id doubles
// as the flight's vault address.
type FlightID [32]byte

func ParseFlightID(s string) (FlightID, error) {
	var id FlightID
	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("%w: flight id is not hex: %v", ErrInvalidArgument, err)
	}
	if len(raw) != len(id) {
		return id, fmt.Errorf("%w: flight id must be %d bytes, got %d", ErrInvalidArgument, len(id), len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

func (id FlightID) String() string {
	return hex.EncodeToString(id[:])
}

func (id FlightID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *FlightID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseFlightID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
