package connection

import (
	"time"

	id "carelink/pkg/domain"
)

// Type distinguishes how a connection entered the system.
type Type string

const (
	// TypeInquiry is a care-seeker reaching out to a provider.
	TypeInquiry Type = "inquiry"
	// TypeRequest is a provider-initiated interest seed targeting a seeker.
	TypeRequest Type = "request"
)

// Status is the closed persisted state enum. UI/admin concerns never extend
// it; they live in the metadata overlay instead.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
	// StatusExpired is reserved for the external expiry job. No transition
	// into or out of it is implemented in this engine.
	StatusExpired Status = "expired"
)

// StatusAction is a guarded transition request against the state machine.
type StatusAction string

const (
	ActionAccept     StatusAction = "accept"
	ActionDecline    StatusAction = "decline"
	ActionReconsider StatusAction = "reconsider"
	ActionView       StatusAction = "view"
)

// FlagAction mutates the overlay only, never the status column.
type FlagAction string

const (
	FlagArchive   FlagAction = "archive"
	FlagUnarchive FlagAction = "unarchive"
	FlagHide      FlagAction = "hide"
	FlagReport    FlagAction = "report"
)

// StepType classifies a scheduling step.
type StepType string

const (
	StepCall         StepType = "call"
	StepConsultation StepType = "consultation"
	StepVisit        StepType = "visit"
)

// OriginFlow tags how the connection was created, because authorization
// rules depend on it (see authz.go).
type OriginFlow string

const (
	FlowInquiry          OriginFlow = "inquiry"
	FlowProviderInterest OriginFlow = "provider_initiated_interest"
)

// ThreadMessageType labels entries in the embedded message history.
// Plain participant messages carry an empty type.
type ThreadMessageType string

const (
	ThreadSystem       ThreadMessageType = "system"
	ThreadTimeProposal ThreadMessageType = "time_proposal"
	ThreadTimeAccepted ThreadMessageType = "time_accepted"
)

// ProposalStatus tracks the negotiation state of a time proposal.
type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "pending"
	ProposalAccepted ProposalStatus = "accepted"
)

// IntakeMessage is the structured intake captured at creation and editable
// afterwards via UpdateIntent.
type IntakeMessage struct {
	CareType        string `json:"care_type,omitempty"`
	CareRecipient   string `json:"care_recipient,omitempty"`
	Urgency         string `json:"urgency,omitempty"`
	AdditionalNotes string `json:"additional_notes,omitempty"`
}

// IntentPatch is a partial update of the intake. Nil fields are untouched.
type IntentPatch struct {
	CareType        *string `json:"care_type,omitempty"`
	CareRecipient   *string `json:"care_recipient,omitempty"`
	Urgency         *string `json:"urgency,omitempty"`
	AdditionalNotes *string `json:"additional_notes,omitempty"`
}

// ThreadMessage is one entry in the append-only embedded history.
// Entries are immutable once appended; order is store commit order.
type ThreadMessage struct {
	FromProfileID id.ProfileID      `json:"from_profile_id"`
	Text          string            `json:"text"`
	Type          ThreadMessageType `json:"type,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// TimeSlot is one candidate meeting slot in a proposal.
type TimeSlot struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Timezone string `json:"timezone"`
}

// TimeProposal is the live scheduling offer. At most one exists per
// connection; a new proposal replaces, never merges, the prior one.
type TimeProposal struct {
	ID                string         `json:"id"`
	FromProfileID     id.ProfileID   `json:"from_profile_id"`
	Type              StepType       `json:"type"`
	Slots             []TimeSlot     `json:"slots"`
	Status            ProposalStatus `json:"status"`
	AcceptedSlotIndex *int           `json:"accepted_slot_index,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	ResolvedAt        *time.Time     `json:"resolved_at,omitempty"`
}

// ScheduledCall is derived from an accepted proposal. Status is always
// "confirmed"; the type exists so consumers render one settled record
// instead of digging through proposal history.
type ScheduledCall struct {
	Type        StepType     `json:"type"`
	Date        string       `json:"date"`
	Time        string       `json:"time"`
	Timezone    string       `json:"timezone"`
	ProposedBy  id.ProfileID `json:"proposed_by"`
	ConfirmedAt time.Time    `json:"confirmed_at"`
	Status      string       `json:"status"`
}

// ArchiveSnapshot records the status at archive time so unarchive can
// restore the caller's logical view.
type ArchiveSnapshot struct {
	FromStatus Status    `json:"from_status"`
	ArchivedAt time.Time `json:"archived_at"`
}

// ReportRecord captures a participant's abuse/quality report.
type ReportRecord struct {
	Reason     string       `json:"reason"`
	Details    string       `json:"details,omitempty"`
	ReportedBy id.ProfileID `json:"reported_by"`
	ReportedAt time.Time    `json:"reported_at"`
}

// NextStepRequest is a participant asking the other side to propose times.
type NextStepRequest struct {
	Type        StepType     `json:"type"`
	RequestedBy id.ProfileID `json:"requested_by"`
	RequestedAt time.Time    `json:"requested_at"`
}

// Metadata is the overlay beside the status enum. Structured rather than an
// open map so the compiler enforces what can live here. All fields are
// connection-global, shared by both participants (see DESIGN.md on the
// per-participant question).
type Metadata struct {
	Archived          *ArchiveSnapshot `json:"archived,omitempty"`
	Hidden            bool             `json:"hidden,omitempty"`
	Report            *ReportRecord    `json:"report,omitempty"`
	Viewed            bool             `json:"viewed,omitempty"`
	ProviderInitiated bool             `json:"provider_initiated,omitempty"`
	AutoIntro         string           `json:"auto_intro,omitempty"`
	MatchReasons      []string         `json:"match_reasons,omitempty"`
	AcceptedAt        *time.Time       `json:"accepted_at,omitempty"`
	DeclinedAt        *time.Time       `json:"declined_at,omitempty"`
	Thread            []ThreadMessage  `json:"thread,omitempty"`
	TimeProposal      *TimeProposal    `json:"time_proposal,omitempty"`
	ScheduledCall     *ScheduledCall   `json:"scheduled_call,omitempty"`
	NextStepRequest   *NextStepRequest `json:"next_step_request,omitempty"`
}

// Connection is the directed relationship record between two profiles.
//
// Invariants:
//   - FromProfileID != ToProfileID
//   - Status transitions follow the state machine only; overlay flags never
//     alter Status
//   - At most one pending TimeProposal at a time
//   - Thread entries are immutable once appended, ordered by commit time
//   - Version increases by one on every committed write (optimistic lock)
type Connection struct {
	ID            id.ConnectionID `json:"id"`
	Type          Type            `json:"type"`
	Status        Status          `json:"status"`
	FromProfileID id.ProfileID    `json:"from_profile_id"`
	ToProfileID   id.ProfileID    `json:"to_profile_id"`
	Message       IntakeMessage   `json:"message"`
	Metadata      Metadata        `json:"metadata"`
	Version       int64           `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// IsParticipant reports whether the profile is one of the two parties.
func (c *Connection) IsParticipant(p id.ProfileID) bool {
	return p == c.FromProfileID || p == c.ToProfileID
}

// Origin derives the authorization-relevant flow tag.
func (c *Connection) Origin() OriginFlow {
	if c.Metadata.ProviderInitiated {
		return FlowProviderInterest
	}
	return FlowInquiry
}

// SeekerProfileID returns the care-seeker side of the edge. The seeker is
// the sender on an inquiry and the recipient on a provider-initiated
// interest.
func (c *Connection) SeekerProfileID() id.ProfileID {
	if c.Metadata.ProviderInitiated {
		return c.ToProfileID
	}
	return c.FromProfileID
}

// ProviderProfileID returns the provider side of the edge.
func (c *Connection) ProviderProfileID() id.ProfileID {
	if c.Metadata.ProviderInitiated {
		return c.FromProfileID
	}
	return c.ToProfileID
}

// LogicalStatus is what consumers display. Status must never be read alone
// when the record is archived.
func (c *Connection) LogicalStatus() string {
	if c.Metadata.Archived != nil {
		return "archived"
	}
	return string(c.Status)
}

// AppendThread adds an immutable entry to the embedded history.
func (c *Connection) AppendThread(from id.ProfileID, text string, typ ThreadMessageType, at time.Time) {
	c.Metadata.Thread = append(c.Metadata.Thread, ThreadMessage{
		FromProfileID: from,
		Text:          text,
		Type:          typ,
		CreatedAt:     at,
	})
}

// Clone returns a deep copy so stores can hand out records without sharing
// the embedded slices with callers.
func (c *Connection) Clone() *Connection {
	out := *c
	out.Metadata = c.Metadata.clone()
	return &out
}

func (m Metadata) clone() Metadata {
	out := m
	if m.Archived != nil {
		a := *m.Archived
		out.Archived = &a
	}
	if m.Report != nil {
		r := *m.Report
		out.Report = &r
	}
	if m.AcceptedAt != nil {
		t := *m.AcceptedAt
		out.AcceptedAt = &t
	}
	if m.DeclinedAt != nil {
		t := *m.DeclinedAt
		out.DeclinedAt = &t
	}
	if m.MatchReasons != nil {
		out.MatchReasons = append([]string(nil), m.MatchReasons...)
	}
	if m.Thread != nil {
		out.Thread = append([]ThreadMessage(nil), m.Thread...)
	}
	if m.TimeProposal != nil {
		p := *m.TimeProposal
		p.Slots = append([]TimeSlot(nil), m.TimeProposal.Slots...)
		if m.TimeProposal.AcceptedSlotIndex != nil {
			i := *m.TimeProposal.AcceptedSlotIndex
			p.AcceptedSlotIndex = &i
		}
		if m.TimeProposal.ResolvedAt != nil {
			t := *m.TimeProposal.ResolvedAt
			p.ResolvedAt = &t
		}
		out.TimeProposal = &p
	}
	if m.ScheduledCall != nil {
		sc := *m.ScheduledCall
		out.ScheduledCall = &sc
	}
	if m.NextStepRequest != nil {
		n := *m.NextStepRequest
		out.NextStepRequest = &n
	}
	return out
}
