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

// UpdateIntent applies a partial edit to the structured intake and
// regenerates the auto intro from the updated fields. Only the care-seeker
// side may edit intake. Regeneration is deterministic, so calling this twice
// with the same patch yields the same intro.
func (s *Service) UpdateIntent(ctx context.Context, connID id.ConnectionID, actor id.ProfileID, patch connection.IntentPatch) (*connection.Connection, error) {
	ctx, span := s.tracer.Start(ctx, "connection.update_intent")
	defer span.End()
	defer s.observe("update_intent", time.Now())

	if patch.CareType == nil && patch.CareRecipient == nil && patch.Urgency == nil && patch.AdditionalNotes == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "at least one intake field is required")
	}

	conn, err := s.mutate(ctx, connID, func(c *connection.Connection) error {
		if err := authorize(actor, c, connection.CapUpdateIntent); err != nil {
			return err
		}
		if patch.CareType != nil {
			c.Message.CareType = *patch.CareType
		}
		if patch.CareRecipient != nil {
			c.Message.CareRecipient = *patch.CareRecipient
		}
		if patch.Urgency != nil {
			c.Message.Urgency = *patch.Urgency
		}
		if patch.AdditionalNotes != nil {
			c.Message.AdditionalNotes = *patch.AdditionalNotes
		}

		// Best-effort regeneration: a directory outage leaves the previous
		// intro in place rather than failing the edit.
		if intro, introErr := s.generateIntro(ctx, c); introErr == nil {
			c.Metadata.AutoIntro = intro
		} else {
			s.logger.WarnContext(ctx, "intro regeneration failed, keeping previous intro",
				"connection_id", connID.String(),
				"error", introErr,
			)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, audit.EventIntentUpdated, connID, actor, "")
	return conn, nil
}

const maxMessageLength = 2000

// PostMessage appends a plain participant message to the thread. Messaging
// requires an accepted connection; pending and declined records carry only
// the structured intake and system entries.
func (s *Service) PostMessage(ctx context.Context, connID id.ConnectionID, actor id.ProfileID, text string) (*connection.Connection, error) {
	ctx, span := s.tracer.Start(ctx, "connection.post_message")
	defer span.End()
	defer s.observe("post_message", time.Now())

	if text == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "message text is required")
	}
	if len(text) > maxMessageLength {
		return nil, dErrors.New(dErrors.CodeValidation, "message text is too long")
	}

	conn, err := s.mutate(ctx, connID, func(c *connection.Connection) error {
		if err := authorize(actor, c, connection.CapMessage); err != nil {
			return err
		}
		if c.Status != connection.StatusAccepted {
			return dErrors.New(dErrors.CodeInvalidState, "messaging requires an accepted connection")
		}
		c.AppendThread(actor, text, "", requestcontext.Now(ctx))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, audit.EventMessagePosted, connID, actor, "")
	return conn, nil
}
