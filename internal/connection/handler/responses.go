package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"carelink/internal/connection"
	dErrors "carelink/pkg/domain-errors"
)

type connectionResponse struct {
	ID            string                   `json:"id"`
	Type          connection.Type          `json:"type"`
	Status        connection.Status        `json:"status"`
	LogicalStatus string                   `json:"logical_status"`
	FromProfileID string                   `json:"from_profile_id"`
	ToProfileID   string                   `json:"to_profile_id"`
	Message       connection.IntakeMessage `json:"message"`
	Metadata      connection.Metadata      `json:"metadata"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

type listResponse struct {
	Connections []connectionResponse `json:"connections"`
}

type negotiationResponse struct {
	Thread        []connection.ThreadMessage `json:"thread"`
	TimeProposal  *connection.TimeProposal   `json:"time_proposal,omitempty"`
	ScheduledCall *connection.ScheduledCall  `json:"scheduled_call,omitempty"`
}

type intentResponse struct {
	Message  connection.IntakeMessage `json:"message"`
	Metadata connection.Metadata      `json:"metadata"`
}

func toConnectionResponse(conn *connection.Connection) connectionResponse {
	return connectionResponse{
		ID:            conn.ID.String(),
		Type:          conn.Type,
		Status:        conn.Status,
		LogicalStatus: conn.LogicalStatus(),
		FromProfileID: conn.FromProfileID.String(),
		ToProfileID:   conn.ToProfileID.String(),
		Message:       conn.Message,
		Metadata:      conn.Metadata,
		CreatedAt:     conn.CreatedAt,
		UpdatedAt:     conn.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError centralizes domain error translation to HTTP responses so every
// handler returns the same JSON error envelope.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(dErrors.ToHTTPStatus(code))
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   string(code),
		"message": dErrors.MessageOf(err),
	})
}
