package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"carelink/internal/audit"
	"carelink/internal/connection"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
	"carelink/pkg/requestcontext"
)

const maxProposalSlots = 3

// ProposalAction is the response to a live time proposal.
type ProposalAction string

const (
	ProposalActionAccept  ProposalAction = "accept"
	ProposalActionDecline ProposalAction = "decline"
)

// ProposeTimes offers up to three candidate slots on an accepted
// connection. A new proposal replaces any prior one wholesale: last
// proposal wins, there is no merging. One thread entry is appended per
// call.
func (s *Service) ProposeTimes(ctx context.Context, connID id.ConnectionID, actor id.ProfileID, slots []connection.TimeSlot, stepType connection.StepType) (*connection.Connection, error) {
	ctx, span := s.tracer.Start(ctx, "connection.propose_times")
	defer span.End()
	defer s.observe("propose_times", time.Now())

	if err := validateSlots(slots); err != nil {
		return nil, err
	}
	if err := validateStepType(stepType); err != nil {
		return nil, err
	}

	conn, err := s.mutate(ctx, connID, func(c *connection.Connection) error {
		if err := authorize(actor, c, connection.CapPropose); err != nil {
			return err
		}
		if c.Status != connection.StatusAccepted {
			return dErrors.New(dErrors.CodeInvalidState, "times can only be proposed on an accepted connection")
		}
		now := requestcontext.Now(ctx)
		c.Metadata.TimeProposal = &connection.TimeProposal{
			ID:            uuid.NewString(),
			FromProfileID: actor,
			Type:          stepType,
			Slots:         slots,
			Status:        connection.ProposalPending,
			CreatedAt:     now,
		}
		c.AppendThread(actor, describeProposal(stepType, slots), connection.ThreadTimeProposal, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordProposalCreated()
	s.emit(ctx, audit.EventTimeProposed, connID, actor, string(stepType))
	return conn, nil
}

// RespondToProposal resolves the live proposal. Accept confirms the chosen
// slot into a scheduled call and clears any pending next-step request;
// decline removes the proposal and leaves the next-step request in place so
// the other side can re-propose. Neither path touches connection status.
func (s *Service) RespondToProposal(ctx context.Context, connID id.ConnectionID, actor id.ProfileID, action ProposalAction, acceptedSlotIndex *int) (*connection.Connection, error) {
	ctx, span := s.tracer.Start(ctx, "connection.respond_to_proposal")
	defer span.End()
	defer s.observe("respond_to_proposal", time.Now())

	if action != ProposalActionAccept && action != ProposalActionDecline {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown proposal action")
	}

	conn, err := s.mutate(ctx, connID, func(c *connection.Connection) error {
		if err := authorize(actor, c, connection.CapRespond); err != nil {
			return err
		}
		tp := c.Metadata.TimeProposal
		if tp == nil || tp.Status != connection.ProposalPending {
			return dErrors.New(dErrors.CodeInvalidState, "No active time proposal to respond to")
		}
		now := requestcontext.Now(ctx)

		if action == ProposalActionDecline {
			c.Metadata.TimeProposal = nil
			c.AppendThread(actor, "The proposed times were declined.", connection.ThreadSystem, now)
			return nil
		}

		if acceptedSlotIndex == nil || *acceptedSlotIndex < 0 || *acceptedSlotIndex >= len(tp.Slots) {
			return dErrors.New(dErrors.CodeValidation, "accepted_slot_index must reference one of the proposed slots")
		}
		slot := tp.Slots[*acceptedSlotIndex]

		idx := *acceptedSlotIndex
		tp.Status = connection.ProposalAccepted
		tp.AcceptedSlotIndex = &idx
		tp.ResolvedAt = &now
		c.Metadata.ScheduledCall = &connection.ScheduledCall{
			Type:        tp.Type,
			Date:        slot.Date,
			Time:        slot.Time,
			Timezone:    slot.Timezone,
			ProposedBy:  tp.FromProfileID,
			ConfirmedAt: now,
			Status:      "confirmed",
		}
		c.Metadata.NextStepRequest = nil
		c.AppendThread(actor, "Confirmed: "+formatSlot(slot), connection.ThreadTimeAccepted, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if action == ProposalActionAccept {
		s.metrics.RecordProposalResolved("accepted")
		s.emit(ctx, audit.EventTimeConfirmed, connID, actor, "")
	} else {
		s.metrics.RecordProposalResolved("declined")
		s.emit(ctx, audit.EventTimeDeclined, connID, actor, "")
	}
	return conn, nil
}

// RequestNextStep records that a participant wants the other side to
// propose times for a given step. Cleared when a proposal is accepted.
func (s *Service) RequestNextStep(ctx context.Context, connID id.ConnectionID, actor id.ProfileID, stepType connection.StepType) (*connection.Connection, error) {
	ctx, span := s.tracer.Start(ctx, "connection.request_next_step")
	defer span.End()
	defer s.observe("request_next_step", time.Now())

	if err := validateStepType(stepType); err != nil {
		return nil, err
	}

	conn, err := s.mutate(ctx, connID, func(c *connection.Connection) error {
		if err := authorize(actor, c, connection.CapNextStep); err != nil {
			return err
		}
		if c.Status != connection.StatusAccepted {
			return dErrors.New(dErrors.CodeInvalidState, "next steps require an accepted connection")
		}
		now := requestcontext.Now(ctx)
		c.Metadata.NextStepRequest = &connection.NextStepRequest{
			Type:        stepType,
			RequestedBy: actor,
			RequestedAt: now,
		}
		c.AppendThread(actor, "Requested to schedule a "+string(stepType)+".", connection.ThreadSystem, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, audit.EventNextStepRequested, connID, actor, string(stepType))
	return conn, nil
}

func validateSlots(slots []connection.TimeSlot) error {
	if len(slots) == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one time slot is required")
	}
	if len(slots) > maxProposalSlots {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("at most %d time slots are allowed", maxProposalSlots))
	}
	for i, slot := range slots {
		if slot.Date == "" || slot.Time == "" || slot.Timezone == "" {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("slot %d is missing date, time, or timezone", i))
		}
	}
	return nil
}

func validateStepType(stepType connection.StepType) error {
	switch stepType {
	case connection.StepCall, connection.StepConsultation, connection.StepVisit:
		return nil
	default:
		return dErrors.New(dErrors.CodeValidation, "step type must be call, consultation, or visit")
	}
}

// describeProposal renders the offered slots for the thread log.
func describeProposal(stepType connection.StepType, slots []connection.TimeSlot) string {
	formatted := make([]string, len(slots))
	for i, slot := range slots {
		formatted[i] = formatSlot(slot)
	}
	return "Proposed " + string(stepType) + " times: " + strings.Join(formatted, "; ")
}

// formatSlot prefers a readable date; unparseable input is shown verbatim
// rather than dropped.
func formatSlot(slot connection.TimeSlot) string {
	date := slot.Date
	if parsed, err := time.Parse("2006-01-02", slot.Date); err == nil {
		date = parsed.Format("Mon, Jan 2, 2006")
	}
	return fmt.Sprintf("%s at %s (%s)", date, slot.Time, slot.Timezone)
}
