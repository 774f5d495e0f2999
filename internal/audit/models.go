package audit

import (
	"time"

	id "carelink/pkg/domain"
)

// Event is emitted from domain logic to capture key connection actions.
// Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Action       Action          `json:"action"`
	ConnectionID id.ConnectionID `json:"connection_id"`
	ActorID      id.ProfileID    `json:"actor_id"`
	Timestamp    time.Time       `json:"timestamp"`
	// RequestID correlates the event with the HTTP request that caused it.
	RequestID string `json:"request_id,omitempty"`
	// Detail carries a short human-readable qualifier (report reason,
	// proposal step type) without turning the event into a dumping ground.
	Detail string `json:"detail,omitempty"`
}

// Action names every audited connection mutation.
type Action string

const (
	EventConnectionCreated      Action = "connection_created"
	EventConnectionAccepted     Action = "connection_accepted"
	EventConnectionDeclined     Action = "connection_declined"
	EventConnectionReconsidered Action = "connection_reconsidered"
	EventConnectionArchived     Action = "connection_archived"
	EventConnectionUnarchived   Action = "connection_unarchived"
	EventConnectionHidden       Action = "connection_hidden"
	EventConnectionReported     Action = "connection_reported"
	EventTimeProposed           Action = "time_proposed"
	EventTimeConfirmed          Action = "time_confirmed"
	EventTimeDeclined           Action = "time_declined"
	EventNextStepRequested      Action = "next_step_requested"
	EventIntentUpdated          Action = "intent_updated"
	EventMessagePosted          Action = "message_posted"
)
