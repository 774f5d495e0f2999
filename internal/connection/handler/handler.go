package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"carelink/internal/connection"
	"carelink/internal/connection/service"
	"carelink/internal/platform/middleware"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
	"carelink/pkg/requestcontext"
)

// Service defines the engine operations the transport layer depends on.
type Service interface {
	Create(ctx context.Context, params service.CreateParams) (*connection.Connection, error)
	Get(ctx context.Context, connID id.ConnectionID, actor id.ProfileID) (*connection.Connection, error)
	ListForProfile(ctx context.Context, actor id.ProfileID, box service.ListBox) ([]*connection.Connection, error)
	SetStatus(ctx context.Context, connID id.ConnectionID, actor id.ProfileID, action connection.StatusAction) (*connection.Connection, error)
	SetOverlayFlag(ctx context.Context, connID id.ConnectionID, actor id.ProfileID, action connection.FlagAction, reportReason, reportDetails string) (service.OverlayResult, error)
	ProposeTimes(ctx context.Context, connID id.ConnectionID, actor id.ProfileID, slots []connection.TimeSlot, stepType connection.StepType) (*connection.Connection, error)
	RespondToProposal(ctx context.Context, connID id.ConnectionID, actor id.ProfileID, action service.ProposalAction, acceptedSlotIndex *int) (*connection.Connection, error)
	UpdateIntent(ctx context.Context, connID id.ConnectionID, actor id.ProfileID, patch connection.IntentPatch) (*connection.Connection, error)
	RequestNextStep(ctx context.Context, connID id.ConnectionID, actor id.ProfileID, stepType connection.StepType) (*connection.Connection, error)
	PostMessage(ctx context.Context, connID id.ConnectionID, actor id.ProfileID, text string) (*connection.Connection, error)
}

// Handler is the thin HTTP layer over the connection engine. It decodes,
// delegates, and encodes; business rules live in the service.
type Handler struct {
	service      Service
	logger       *slog.Logger
	jwtValidator middleware.JWTValidator
}

// New creates a connection Handler.
func New(svc Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		service:      svc,
		logger:       logger,
		jwtValidator: jwtValidator,
	}
}

// Register mounts the connection routes with their middleware chain.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

	router.Post("/", h.handleCreate)
	router.Get("/", h.handleList)
	router.Get("/{connectionID}", h.handleGet)
	router.Post("/{connectionID}/status", h.handleSetStatus)
	router.Post("/{connectionID}/flags", h.handleSetFlag)
	router.Post("/{connectionID}/proposals", h.handlePropose)
	router.Post("/{connectionID}/proposals/respond", h.handleRespond)
	router.Patch("/{connectionID}/intent", h.handleUpdateIntent)
	router.Post("/{connectionID}/next-step", h.handleNextStep)
	router.Post("/{connectionID}/messages", h.handlePostMessage)

	r.Mount("/connections", router)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.ProfileID(ctx)

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	to, err := id.ParseProfileID(req.ToProfileID)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := h.service.Create(ctx, service.CreateParams{
		From:              actor,
		To:                to,
		Type:              connection.Type(req.Type),
		Message:           req.Message,
		ProviderInitiated: req.ProviderInitiated,
		MatchReasons:      req.MatchReasons,
	})
	if err != nil {
		h.logError(ctx, "create connection failed", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toConnectionResponse(conn))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.ProfileID(ctx)

	box := service.ListBox(r.URL.Query().Get("box"))
	conns, err := h.service.ListForProfile(ctx, actor, box)
	if err != nil {
		h.logError(ctx, "list connections failed", err)
		writeError(w, err)
		return
	}

	items := make([]connectionResponse, 0, len(conns))
	for _, conn := range conns {
		items = append(items, toConnectionResponse(conn))
	}
	writeJSON(w, http.StatusOK, listResponse{Connections: items})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.ProfileID(ctx)

	connID, err := id.ParseConnectionID(chi.URLParam(r, "connectionID"))
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := h.service.Get(ctx, connID, actor)
	if err != nil {
		h.logError(ctx, "get connection failed", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toConnectionResponse(conn))
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.ProfileID(ctx)

	connID, err := id.ParseConnectionID(chi.URLParam(r, "connectionID"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}
	if req.Action == "" {
		writeError(w, dErrors.New(dErrors.CodeValidation, "action is required"))
		return
	}

	conn, err := h.service.SetStatus(ctx, connID, actor, connection.StatusAction(req.Action))
	if err != nil {
		h.logError(ctx, "set status failed", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toConnectionResponse(conn))
}

func (h *Handler) handleSetFlag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.ProfileID(ctx)

	connID, err := id.ParseConnectionID(chi.URLParam(r, "connectionID"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req flagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}
	if req.Action == "" {
		writeError(w, dErrors.New(dErrors.CodeValidation, "action is required"))
		return
	}

	result, err := h.service.SetOverlayFlag(ctx, connID, actor,
		connection.FlagAction(req.Action), req.ReportReason, req.ReportDetails)
	if err != nil {
		h.logError(ctx, "set overlay flag failed", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handlePropose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.ProfileID(ctx)

	connID, err := id.ParseConnectionID(chi.URLParam(r, "connectionID"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req proposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	conn, err := h.service.ProposeTimes(ctx, connID, actor, req.Slots, connection.StepType(req.StepType))
	if err != nil {
		h.logError(ctx, "propose times failed", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, negotiationResponse{
		Thread:       conn.Metadata.Thread,
		TimeProposal: conn.Metadata.TimeProposal,
	})
}

func (h *Handler) handleRespond(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.ProfileID(ctx)

	connID, err := id.ParseConnectionID(chi.URLParam(r, "connectionID"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}
	if req.Action == "" {
		writeError(w, dErrors.New(dErrors.CodeValidation, "action is required"))
		return
	}

	conn, err := h.service.RespondToProposal(ctx, connID, actor,
		service.ProposalAction(req.Action), req.AcceptedSlotIndex)
	if err != nil {
		h.logError(ctx, "respond to proposal failed", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, negotiationResponse{
		Thread:        conn.Metadata.Thread,
		TimeProposal:  conn.Metadata.TimeProposal,
		ScheduledCall: conn.Metadata.ScheduledCall,
	})
}

func (h *Handler) handleUpdateIntent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.ProfileID(ctx)

	connID, err := id.ParseConnectionID(chi.URLParam(r, "connectionID"))
	if err != nil {
		writeError(w, err)
		return
	}

	var patch connection.IntentPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	conn, err := h.service.UpdateIntent(ctx, connID, actor, patch)
	if err != nil {
		h.logError(ctx, "update intent failed", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, intentResponse{
		Message:  conn.Message,
		Metadata: conn.Metadata,
	})
}

func (h *Handler) handleNextStep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.ProfileID(ctx)

	connID, err := id.ParseConnectionID(chi.URLParam(r, "connectionID"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req nextStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	conn, err := h.service.RequestNextStep(ctx, connID, actor, connection.StepType(req.StepType))
	if err != nil {
		h.logError(ctx, "request next step failed", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toConnectionResponse(conn))
}

func (h *Handler) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.ProfileID(ctx)

	connID, err := id.ParseConnectionID(chi.URLParam(r, "connectionID"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	conn, err := h.service.PostMessage(ctx, connID, actor, req.Text)
	if err != nil {
		h.logError(ctx, "post message failed", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, negotiationResponse{Thread: conn.Metadata.Thread})
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		return
	}
	h.logger.WarnContext(ctx, msg,
		"error", err.Error(),
		"request_id", middleware.GetRequestID(ctx),
	)
}
