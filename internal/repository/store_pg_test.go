package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewPGFlightStore(t *testing.T) {
	pool := &pgxpool.Pool{}
	store := NewPGFlightStore(pool)
	assert.NotNil(t, store)
}
