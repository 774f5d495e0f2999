package handler

import "carelink/internal/connection"

type createRequest struct {
	ToProfileID       string                   `json:"to_profile_id"`
	Type              string                   `json:"type"`
	Message           connection.IntakeMessage `json:"message"`
	ProviderInitiated bool                     `json:"provider_initiated,omitempty"`
	MatchReasons      []string                 `json:"match_reasons,omitempty"`
}

type statusRequest struct {
	Action string `json:"action"`
}

type flagRequest struct {
	Action        string `json:"action"`
	ReportReason  string `json:"report_reason,omitempty"`
	ReportDetails string `json:"report_details,omitempty"`
}

type proposeRequest struct {
	Slots    []connection.TimeSlot `json:"slots"`
	StepType string                `json:"step_type"`
}

type respondRequest struct {
	Action            string `json:"action"`
	AcceptedSlotIndex *int   `json:"accepted_slot_index,omitempty"`
}

type nextStepRequest struct {
	StepType string `json:"step_type"`
}

type messageRequest struct {
	Text string `json:"text"`
}
