// Package profile is the engine's view of the party directory. The full
// profile system (onboarding, verification tiers, display pages) lives
// upstream; the engine only needs identity, role, display name, and care
// types for authorization checks and intro generation.
package profile

import (
	"context"
	"time"

	id "carelink/pkg/domain"
)

// Role distinguishes the two sides of the marketplace.
type Role string

const (
	RoleSeeker   Role = "seeker"
	RoleProvider Role = "provider"
)

// Profile is a care-seeker or provider party capable of sending and
// receiving connections.
type Profile struct {
	ID          id.ProfileID `json:"id"`
	AccountID   string       `json:"account_id"`
	Role        Role         `json:"role"`
	DisplayName string       `json:"display_name"`
	CareTypes   []string     `json:"care_types,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Store reads profiles from the directory. Returns sentinel.ErrNotFound for
// unknown profiles.
type Store interface {
	Get(ctx context.Context, profileID id.ProfileID) (*Profile, error)
}
