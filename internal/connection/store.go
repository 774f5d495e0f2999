package connection

import (
	"context"

	id "carelink/pkg/domain"
)

// Store persists connection records. Implementations must provide
// compare-and-swap semantics on Update: the write succeeds only when the
// stored version equals conn.Version, and a committed write increments the
// version by one (both in the store and on the passed record).
//
// Implementations return pkg/platform/sentinel errors; services translate
// them into domain errors.
type Store interface {
	// Create persists a new record. Returns sentinel.ErrConflict when a
	// record with the same ID already exists.
	Create(ctx context.Context, conn *Connection) error

	// Get returns a copy of the record or sentinel.ErrNotFound.
	Get(ctx context.Context, connID id.ConnectionID) (*Connection, error)

	// Update writes the record back, CAS-guarded on Version.
	// Returns sentinel.ErrConflict on a stale version, sentinel.ErrNotFound
	// when the record vanished.
	Update(ctx context.Context, conn *Connection) error

	// FindPendingBetween returns the pending connection of the given type on
	// the directed edge from→to, or sentinel.ErrNotFound. Backs idempotent
	// creation.
	FindPendingBetween(ctx context.Context, from, to id.ProfileID, typ Type) (*Connection, error)

	// ListByProfile returns every connection the profile participates in,
	// newest first.
	ListByProfile(ctx context.Context, profileID id.ProfileID) ([]*Connection, error)
}
