package service

import (
	"context"
	"strings"

	"carelink/internal/audit"
	"carelink/internal/connection"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
)

func sampleSlots() []connection.TimeSlot {
	return []connection.TimeSlot{
		{Date: "2026-09-07", Time: "10:00", Timezone: "America/Chicago"},
		{Date: "2026-09-08", Time: "14:30", Timezone: "America/Chicago"},
	}
}

// =============================================================================
// Time Proposal Tests
// =============================================================================

func (s *ServiceSuite) TestProposeTimes() {
	ctx := context.Background()

	s.Run("rejects empty and oversized slot lists", func() {
		conn := s.acceptedInquiry()

		_, err := s.svc.ProposeTimes(ctx, conn.ID, s.provider, nil, connection.StepCall)
		s.True(dErrors.Is(err, dErrors.CodeValidation))

		four := append(sampleSlots(), sampleSlots()...)
		_, err = s.svc.ProposeTimes(ctx, conn.ID, s.provider, four, connection.StepCall)
		s.True(dErrors.Is(err, dErrors.CodeValidation))
	})

	s.Run("rejects incomplete slots", func() {
		conn := s.acceptedInquiry()
		slots := []connection.TimeSlot{{Date: "2026-09-07", Time: "10:00"}}
		_, err := s.svc.ProposeTimes(ctx, conn.ID, s.provider, slots, connection.StepCall)
		s.True(dErrors.Is(err, dErrors.CodeValidation))
	})

	s.Run("rejects unknown step type", func() {
		conn := s.acceptedInquiry()
		_, err := s.svc.ProposeTimes(ctx, conn.ID, s.provider, sampleSlots(), "lunch")
		s.True(dErrors.Is(err, dErrors.CodeValidation))
	})

	s.Run("requires an accepted connection", func() {
		conn := s.createInquiry()
		_, err := s.svc.ProposeTimes(ctx, conn.ID, s.provider, sampleSlots(), connection.StepCall)
		s.True(dErrors.Is(err, dErrors.CodeInvalidState))
	})

	s.Run("stores a pending proposal and one thread entry", func() {
		conn := s.acceptedInquiry()

		updated, err := s.svc.ProposeTimes(ctx, conn.ID, s.provider, sampleSlots(), connection.StepCall)
		s.Require().NoError(err)

		tp := updated.Metadata.TimeProposal
		s.Require().NotNil(tp)
		s.NotEmpty(tp.ID)
		s.Equal(s.provider, tp.FromProfileID)
		s.Equal(connection.StepCall, tp.Type)
		s.Equal(connection.ProposalPending, tp.Status)
		s.Len(tp.Slots, 2)

		s.Require().Len(updated.Metadata.Thread, 1)
		entry := updated.Metadata.Thread[0]
		s.Equal(connection.ThreadTimeProposal, entry.Type)
		s.True(strings.HasPrefix(entry.Text, "Proposed call times: "))
		s.Contains(entry.Text, "10:00 (America/Chicago)")
	})

	s.Run("a second proposal replaces the first wholesale", func() {
		conn := s.acceptedInquiry()

		first, err := s.svc.ProposeTimes(ctx, conn.ID, s.provider, sampleSlots(), connection.StepCall)
		s.Require().NoError(err)
		firstID := first.Metadata.TimeProposal.ID

		replacement := []connection.TimeSlot{{Date: "2026-09-10", Time: "09:00", Timezone: "America/New_York"}}
		second, err := s.svc.ProposeTimes(ctx, conn.ID, s.seeker, replacement, connection.StepVisit)
		s.Require().NoError(err)

		tp := second.Metadata.TimeProposal
		s.NotEqual(firstID, tp.ID)
		s.Equal(s.seeker, tp.FromProfileID)
		s.Equal(connection.StepVisit, tp.Type)
		s.Len(tp.Slots, 1, "slots are replaced, never merged")
		s.Len(second.Metadata.Thread, 2, "each proposal appends exactly one entry")
	})
}

// =============================================================================
// Proposal Response Tests
// =============================================================================

func (s *ServiceSuite) TestRespondToProposal() {
	ctx := context.Background()

	s.Run("rejects unknown action", func() {
		conn := s.acceptedInquiry()
		_, err := s.svc.RespondToProposal(ctx, conn.ID, s.seeker, "maybe", nil)
		s.True(dErrors.Is(err, dErrors.CodeValidation))
	})

	s.Run("no live proposal is an invalid state", func() {
		conn := s.acceptedInquiry()
		_, err := s.svc.RespondToProposal(ctx, conn.ID, s.seeker, ProposalActionAccept, intPtr(0))
		s.True(dErrors.Is(err, dErrors.CodeInvalidState))
		s.Equal("No active time proposal to respond to", dErrors.MessageOf(err))
	})

	s.Run("accept confirms the chosen slot", func() {
		conn := s.acceptedInquiry()
		_, err := s.svc.RequestNextStep(ctx, conn.ID, s.seeker, connection.StepCall)
		s.Require().NoError(err)
		_, err = s.svc.ProposeTimes(ctx, conn.ID, s.provider, sampleSlots(), connection.StepCall)
		s.Require().NoError(err)

		updated, err := s.svc.RespondToProposal(ctx, conn.ID, s.seeker, ProposalActionAccept, intPtr(1))
		s.Require().NoError(err)

		tp := updated.Metadata.TimeProposal
		s.Require().NotNil(tp)
		s.Equal(connection.ProposalAccepted, tp.Status)
		s.Require().NotNil(tp.AcceptedSlotIndex)
		s.Equal(1, *tp.AcceptedSlotIndex)
		s.NotNil(tp.ResolvedAt)

		call := updated.Metadata.ScheduledCall
		s.Require().NotNil(call)
		s.Equal("confirmed", call.Status)
		s.Equal("2026-09-08", call.Date)
		s.Equal("14:30", call.Time)
		s.Equal(connection.StepCall, call.Type)
		s.Equal(s.provider, call.ProposedBy)

		s.Nil(updated.Metadata.NextStepRequest, "acceptance settles the pending request")
		s.Equal(connection.StatusAccepted, updated.Status, "negotiation never touches status")

		last := updated.Metadata.Thread[len(updated.Metadata.Thread)-1]
		s.Equal(connection.ThreadTimeAccepted, last.Type)
		s.True(strings.HasPrefix(last.Text, "Confirmed: "))
	})

	s.Run("accept requires a valid slot index", func() {
		conn := s.acceptedInquiry()
		_, err := s.svc.ProposeTimes(ctx, conn.ID, s.provider, sampleSlots(), connection.StepCall)
		s.Require().NoError(err)

		_, err = s.svc.RespondToProposal(ctx, conn.ID, s.seeker, ProposalActionAccept, nil)
		s.True(dErrors.Is(err, dErrors.CodeValidation))

		_, err = s.svc.RespondToProposal(ctx, conn.ID, s.seeker, ProposalActionAccept, intPtr(2))
		s.True(dErrors.Is(err, dErrors.CodeValidation))
	})

	s.Run("decline clears the proposal and leaves the next-step request", func() {
		conn := s.acceptedInquiry()
		_, err := s.svc.RequestNextStep(ctx, conn.ID, s.seeker, connection.StepConsultation)
		s.Require().NoError(err)
		_, err = s.svc.ProposeTimes(ctx, conn.ID, s.provider, sampleSlots(), connection.StepConsultation)
		s.Require().NoError(err)

		updated, err := s.svc.RespondToProposal(ctx, conn.ID, s.seeker, ProposalActionDecline, nil)
		s.Require().NoError(err)

		s.Nil(updated.Metadata.TimeProposal)
		s.NotNil(updated.Metadata.NextStepRequest, "the other side can re-propose")
		s.Equal(connection.StatusAccepted, updated.Status)

		last := updated.Metadata.Thread[len(updated.Metadata.Thread)-1]
		s.Equal(connection.ThreadSystem, last.Type)
		s.Equal("The proposed times were declined.", last.Text)
	})

	s.Run("a resolved proposal cannot be answered again", func() {
		conn := s.acceptedInquiry()
		_, err := s.svc.ProposeTimes(ctx, conn.ID, s.provider, sampleSlots(), connection.StepCall)
		s.Require().NoError(err)
		_, err = s.svc.RespondToProposal(ctx, conn.ID, s.seeker, ProposalActionAccept, intPtr(0))
		s.Require().NoError(err)

		_, err = s.svc.RespondToProposal(ctx, conn.ID, s.seeker, ProposalActionAccept, intPtr(0))
		s.True(dErrors.Is(err, dErrors.CodeInvalidState))
		s.Equal("No active time proposal to respond to", dErrors.MessageOf(err))
	})
}

func (s *ServiceSuite) TestRequestNextStep() {
	ctx := context.Background()

	s.Run("requires an accepted connection", func() {
		conn := s.createInquiry()
		_, err := s.svc.RequestNextStep(ctx, conn.ID, s.seeker, connection.StepCall)
		s.True(dErrors.Is(err, dErrors.CodeInvalidState))
	})

	s.Run("records the request and a system entry", func() {
		conn := s.acceptedInquiry()
		updated, err := s.svc.RequestNextStep(ctx, conn.ID, s.seeker, connection.StepVisit)
		s.Require().NoError(err)

		req := updated.Metadata.NextStepRequest
		s.Require().NotNil(req)
		s.Equal(connection.StepVisit, req.Type)
		s.Equal(s.seeker, req.RequestedBy)

		last := updated.Metadata.Thread[len(updated.Metadata.Thread)-1]
		s.Equal(connection.ThreadSystem, last.Type)
		s.Equal("Requested to schedule a visit.", last.Text)
	})
}

// =============================================================================
// Intent and Messaging Tests
// =============================================================================

func (s *ServiceSuite) TestUpdateIntent() {
	ctx := context.Background()

	s.Run("requires at least one field", func() {
		conn := s.createInquiry()
		_, err := s.svc.UpdateIntent(ctx, conn.ID, s.seeker, connection.IntentPatch{})
		s.True(dErrors.Is(err, dErrors.CodeValidation))
	})

	s.Run("only the seeker side may edit", func() {
		conn := s.createInquiry()
		_, err := s.svc.UpdateIntent(ctx, conn.ID, s.provider, connection.IntentPatch{Urgency: strPtr("now")})
		s.True(dErrors.Is(err, dErrors.CodeForbidden))
	})

	s.Run("applies the patch and regenerates the intro", func() {
		conn := s.acceptedInquiry()

		updated, err := s.svc.UpdateIntent(ctx, conn.ID, s.seeker, connection.IntentPatch{
			CareType: strPtr("memory"),
			Urgency:  strPtr("Immediately"),
		})
		s.Require().NoError(err)
		s.Equal("memory", updated.Message.CareType)
		s.Equal("Immediately", updated.Message.Urgency)
		s.Equal("Mother", updated.Message.CareRecipient, "unpatched fields survive")
		s.Equal("Maria is looking for memory care for their mother. Timeline: immediately.",
			updated.Metadata.AutoIntro)
	})

	s.Run("repeating the same patch is idempotent", func() {
		conn := s.acceptedInquiry()
		patch := connection.IntentPatch{CareType: strPtr("memory")}

		first, err := s.svc.UpdateIntent(ctx, conn.ID, s.seeker, patch)
		s.Require().NoError(err)
		second, err := s.svc.UpdateIntent(ctx, conn.ID, s.seeker, patch)
		s.Require().NoError(err)

		s.Equal(first.Message, second.Message)
		s.Equal(first.Metadata.AutoIntro, second.Metadata.AutoIntro)
	})

	s.Run("the recipient seeker edits a provider-initiated record", func() {
		interest := s.createProviderInterest()
		updated, err := s.svc.UpdateIntent(ctx, interest.ID, s.seeker, connection.IntentPatch{
			CareRecipient: strPtr("Father"),
		})
		s.Require().NoError(err)
		s.Equal("Father", updated.Message.CareRecipient)
	})
}

func (s *ServiceSuite) TestPostMessage() {
	ctx := context.Background()

	s.Run("rejects empty text", func() {
		conn := s.acceptedInquiry()
		_, err := s.svc.PostMessage(ctx, conn.ID, s.seeker, "")
		s.True(dErrors.Is(err, dErrors.CodeValidation))
	})

	s.Run("rejects oversized text", func() {
		conn := s.acceptedInquiry()
		_, err := s.svc.PostMessage(ctx, conn.ID, s.seeker, strings.Repeat("a", maxMessageLength+1))
		s.True(dErrors.Is(err, dErrors.CodeValidation))
	})

	s.Run("requires an accepted connection", func() {
		conn := s.createInquiry()
		_, err := s.svc.PostMessage(ctx, conn.ID, s.seeker, "hello")
		s.True(dErrors.Is(err, dErrors.CodeInvalidState))
	})

	s.Run("appends a plain participant entry", func() {
		conn := s.acceptedInquiry()
		updated, err := s.svc.PostMessage(ctx, conn.ID, s.provider, "Happy to chat this week.")
		s.Require().NoError(err)

		s.Require().Len(updated.Metadata.Thread, 1)
		entry := updated.Metadata.Thread[0]
		s.Equal("Happy to chat this week.", entry.Text)
		s.Equal(connection.ThreadMessageType(""), entry.Type)
		s.Equal(s.provider, entry.FromProfileID)

		events, err := s.auditLog.ListByConnection(ctx, conn.ID)
		s.Require().NoError(err)
		s.Equal(audit.EventMessagePosted, events[len(events)-1].Action)
	})

	s.Run("strangers cannot message", func() {
		conn := s.acceptedInquiry()
		_, err := s.svc.PostMessage(ctx, conn.ID, id.NewProfileID(), "hi")
		s.True(dErrors.Is(err, dErrors.CodeForbidden))
	})
}

func intPtr(i int) *int       { return &i }
func strPtr(v string) *string { return &v }
