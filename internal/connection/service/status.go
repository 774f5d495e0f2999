package service

import (
	"context"
	"time"

	"carelink/internal/audit"
	"carelink/internal/connection"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
	"carelink/pkg/requestcontext"
)

// SetStatus drives the status state machine.
//
// Transitions:
//
//	pending  --accept-->     accepted   (caller == to_profile_id)
//	pending  --decline-->    declined   (caller == to_profile_id)
//	declined --reconsider--> pending    (caller == to_profile_id AND provider-initiated)
//	any      --view-->       unchanged  (participant; idempotent viewed flag)
//
// `expired` is terminal and owned by an external job; this engine neither
// enters nor leaves it.
func (s *Service) SetStatus(ctx context.Context, connID id.ConnectionID, actor id.ProfileID, action connection.StatusAction) (*connection.Connection, error) {
	ctx, span := s.tracer.Start(ctx, "connection.set_status")
	defer span.End()
	defer s.observe("set_status", time.Now())

	switch action {
	case connection.ActionAccept:
		return s.accept(ctx, connID, actor)
	case connection.ActionDecline:
		return s.decline(ctx, connID, actor)
	case connection.ActionReconsider:
		return s.reconsider(ctx, connID, actor)
	case connection.ActionView:
		return s.markViewed(ctx, connID, actor)
	default:
		return nil, dErrors.New(dErrors.CodeValidation, "unknown status action")
	}
}

func (s *Service) accept(ctx context.Context, connID id.ConnectionID, actor id.ProfileID) (*connection.Connection, error) {
	// Resolve the intro before entering the CAS loop; profile reads are
	// stable across retries. Failure degrades to an empty intro rather than
	// failing the accept.
	preflight, err := s.load(ctx, connID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, preflight, connection.CapAccept); err != nil {
		return nil, err
	}

	autoIntro, introErr := s.generateIntro(ctx, preflight)
	if introErr != nil {
		s.logger.WarnContext(ctx, "intro generation failed, accepting without intro",
			"connection_id", connID.String(),
			"error", introErr,
		)
	}

	conn, err := s.mutate(ctx, connID, func(c *connection.Connection) error {
		if err := authorize(actor, c, connection.CapAccept); err != nil {
			return err
		}
		if c.Status != connection.StatusPending {
			return dErrors.New(dErrors.CodeInvalidState, "only a pending connection can be accepted")
		}
		now := requestcontext.Now(ctx)
		c.Status = connection.StatusAccepted
		c.Metadata.AcceptedAt = &now
		if autoIntro != "" {
			c.Metadata.AutoIntro = autoIntro
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordStatusTransition(string(connection.ActionAccept))
	s.emit(ctx, audit.EventConnectionAccepted, connID, actor, "")
	return conn, nil
}

func (s *Service) decline(ctx context.Context, connID id.ConnectionID, actor id.ProfileID) (*connection.Connection, error) {
	conn, err := s.mutate(ctx, connID, func(c *connection.Connection) error {
		if err := authorize(actor, c, connection.CapDecline); err != nil {
			return err
		}
		if c.Status != connection.StatusPending {
			return dErrors.New(dErrors.CodeInvalidState, "only a pending connection can be declined")
		}
		now := requestcontext.Now(ctx)
		c.Status = connection.StatusDeclined
		c.Metadata.DeclinedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordStatusTransition(string(connection.ActionDecline))
	s.emit(ctx, audit.EventConnectionDeclined, connID, actor, "")
	return conn, nil
}

func (s *Service) reconsider(ctx context.Context, connID id.ConnectionID, actor id.ProfileID) (*connection.Connection, error) {
	conn, err := s.mutate(ctx, connID, func(c *connection.Connection) error {
		if err := authorize(actor, c, connection.CapReconsider); err != nil {
			return err
		}
		if c.Status != connection.StatusDeclined || !c.Metadata.ProviderInitiated {
			return dErrors.New(dErrors.CodeInvalidState, "only a declined provider-initiated connection can be reconsidered")
		}
		c.Status = connection.StatusPending
		c.Metadata.DeclinedAt = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordStatusTransition(string(connection.ActionReconsider))
	s.emit(ctx, audit.EventConnectionReconsidered, connID, actor, "")
	return conn, nil
}

func (s *Service) markViewed(ctx context.Context, connID id.ConnectionID, actor id.ProfileID) (*connection.Connection, error) {
	// Idempotent: skip the write (and the version bump) when already viewed.
	conn, err := s.load(ctx, connID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, conn, connection.CapView); err != nil {
		return nil, err
	}
	if conn.Metadata.Viewed {
		return conn, nil
	}

	return s.mutate(ctx, connID, func(c *connection.Connection) error {
		if err := authorize(actor, c, connection.CapView); err != nil {
			return err
		}
		c.Metadata.Viewed = true
		return nil
	})
}
