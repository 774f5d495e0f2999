// Package domain holds shared domain primitives: strongly typed identifiers
// constructed via Parse functions at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "carelink/pkg/domain-errors"
)

// ProfileID identifies a care-seeker or provider profile.
// Distinct from ConnectionID at the type level so they cannot be swapped.
type ProfileID uuid.UUID

// ConnectionID identifies a connection record.
type ConnectionID uuid.UUID

// NewProfileID returns a fresh random profile ID.
func NewProfileID() ProfileID { return ProfileID(uuid.New()) }

// NewConnectionID returns a fresh random connection ID.
func NewConnectionID() ConnectionID { return ConnectionID(uuid.New()) }

// ParseProfileID constructs a ProfileID from external input.
// Returns CodeValidation when the value is empty, malformed, or the nil UUID.
func ParseProfileID(s string) (ProfileID, error) {
	u, err := parseID(s, "profile id")
	return ProfileID(u), err
}

// ParseConnectionID constructs a ConnectionID from external input.
func ParseConnectionID(s string) (ConnectionID, error) {
	u, err := parseID(s, "connection id")
	return ConnectionID(u), err
}

func parseID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, label+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, label+" cannot be nil")
	}
	return u, nil
}

func (id ProfileID) String() string { return uuid.UUID(id).String() }
func (id ProfileID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// MarshalText makes the type render as the canonical UUID string in JSON.
func (id ProfileID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *ProfileID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = ProfileID(u)
	return nil
}

func (id ConnectionID) String() string { return uuid.UUID(id).String() }
func (id ConnectionID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id ConnectionID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *ConnectionID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = ConnectionID(u)
	return nil
}
