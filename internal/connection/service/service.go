// Package service implements the connection lifecycle engine: creation,
// authorization, the status state machine, the overlay flag manager, the
// time-proposal negotiation protocol, and intake editing. Handlers stay
// thin; stores stay pure I/O.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"carelink/internal/audit"
	"carelink/internal/connection"
	"carelink/internal/connection/intro"
	"carelink/internal/connection/metrics"
	"carelink/internal/profile"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
	"carelink/pkg/platform/sentinel"
	"carelink/pkg/requestcontext"
)

// maxUpdateAttempts bounds the optimistic-lock retry loop before a conflict
// is surfaced to the caller.
const maxUpdateAttempts = 3

// Service orchestrates all connection mutations.
type Service struct {
	store    connection.Store
	profiles profile.Store
	audit    *audit.Publisher
	metrics  *metrics.Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
}

func New(
	store connection.Store,
	profiles profile.Store,
	auditPublisher *audit.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		profiles: profiles,
		audit:    auditPublisher,
		metrics:  m,
		logger:   logger,
		tracer:   otel.Tracer("carelink/connection"),
	}
}

// CreateParams carries everything needed to open a connection.
type CreateParams struct {
	From              id.ProfileID
	To                id.ProfileID
	Type              connection.Type
	Message           connection.IntakeMessage
	ProviderInitiated bool
	MatchReasons      []string
}

// Create opens a new connection. Creation is idempotent: a duplicate pending
// connection of the same type on the same directed edge returns the existing
// record instead of a second one.
func (s *Service) Create(ctx context.Context, params CreateParams) (*connection.Connection, error) {
	ctx, span := s.tracer.Start(ctx, "connection.create")
	defer span.End()
	defer s.observe("create", time.Now())

	if params.From.IsNil() || params.To.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "both profile ids are required")
	}
	if params.From == params.To {
		return nil, dErrors.New(dErrors.CodeValidation, "cannot create a connection to yourself")
	}
	switch params.Type {
	case connection.TypeInquiry, connection.TypeRequest:
	default:
		return nil, dErrors.New(dErrors.CodeValidation, "unknown connection type")
	}
	if params.ProviderInitiated && params.Type != connection.TypeRequest {
		return nil, dErrors.New(dErrors.CodeValidation, "provider-initiated connections must be of type request")
	}

	existing, err := s.store.FindPendingBetween(ctx, params.From, params.To, params.Type)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "storage failure", err)
	}

	now := requestcontext.Now(ctx)
	conn := &connection.Connection{
		ID:            id.NewConnectionID(),
		Type:          params.Type,
		Status:        connection.StatusPending,
		FromProfileID: params.From,
		ToProfileID:   params.To,
		Message:       params.Message,
		Metadata: connection.Metadata{
			ProviderInitiated: params.ProviderInitiated,
			MatchReasons:      params.MatchReasons,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(ctx, conn); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to create connection", err)
	}

	s.metrics.RecordConnectionCreated(string(conn.Type))
	s.emit(ctx, audit.EventConnectionCreated, conn.ID, params.From, string(conn.Type))
	return conn, nil
}

// Get returns the connection when the actor is allowed to see it.
// For provider-initiated connections the sending provider has no view
// rights; only the recipient does.
func (s *Service) Get(ctx context.Context, connID id.ConnectionID, actor id.ProfileID) (*connection.Connection, error) {
	ctx, span := s.tracer.Start(ctx, "connection.get")
	defer span.End()

	conn, err := s.load(ctx, connID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, conn, connection.CapView); err != nil {
		return nil, err
	}
	return conn, nil
}

// ListBox selects which slice of a profile's connections to return.
type ListBox string

const (
	BoxInbox    ListBox = "inbox"
	BoxArchived ListBox = "archived"
)

// ListForProfile returns the actor's connections for the given box, newest
// first. Hidden records are excluded from the inbox; provider-initiated
// records never appear in the sending provider's lists.
func (s *Service) ListForProfile(ctx context.Context, actor id.ProfileID, box ListBox) ([]*connection.Connection, error) {
	ctx, span := s.tracer.Start(ctx, "connection.list")
	defer span.End()

	if actor.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "caller identity required")
	}
	if box == "" {
		box = BoxInbox
	}
	if box != BoxInbox && box != BoxArchived {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown box")
	}

	all, err := s.store.ListByProfile(ctx, actor)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "storage failure", err)
	}

	out := make([]*connection.Connection, 0, len(all))
	for _, conn := range all {
		if !connection.Can(actor, conn, connection.CapView) {
			continue
		}
		archived := conn.Metadata.Archived != nil
		switch box {
		case BoxArchived:
			if archived {
				out = append(out, conn)
			}
		default:
			if !archived && !conn.Metadata.Hidden {
				out = append(out, conn)
			}
		}
	}
	return out, nil
}

// load fetches and translates store errors.
func (s *Service) load(ctx context.Context, connID id.ConnectionID) (*connection.Connection, error) {
	conn, err := s.store.Get(ctx, connID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "connection not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "storage failure", err)
	}
	return conn, nil
}

// mutate runs the read-transform-CAS loop. The transform is re-applied on a
// fresh read after every version conflict, up to maxUpdateAttempts, so
// concurrent writers cannot silently clobber each other.
func (s *Service) mutate(ctx context.Context, connID id.ConnectionID, fn func(*connection.Connection) error) (*connection.Connection, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		conn, err := s.load(ctx, connID)
		if err != nil {
			return nil, err
		}
		if err := fn(conn); err != nil {
			return nil, err
		}
		conn.UpdatedAt = requestcontext.Now(ctx)

		err = s.store.Update(ctx, conn)
		if err == nil {
			return conn, nil
		}
		if errors.Is(err, sentinel.ErrConflict) {
			s.metrics.RecordConflictRetry()
			continue
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "connection not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "storage failure", err)
	}
	return nil, dErrors.New(dErrors.CodeConflict, "connection was modified concurrently, please retry")
}

// generateIntro fetches both participant profiles and derives the intro
// sentence. Callers treat failures as best-effort enrichment.
func (s *Service) generateIntro(ctx context.Context, conn *connection.Connection) (string, error) {
	var seeker, provider *profile.Profile

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.profiles.Get(gctx, conn.SeekerProfileID())
		seeker = p
		return err
	})
	g.Go(func() error {
		p, err := s.profiles.Get(gctx, conn.ProviderProfileID())
		provider = p
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	return intro.Generate(intro.Input{
		SeekerName:        seeker.DisplayName,
		ProviderName:      provider.DisplayName,
		SeekerCareTypes:   seeker.CareTypes,
		ProviderCareTypes: provider.CareTypes,
		CareType:          conn.Message.CareType,
		CareRecipient:     conn.Message.CareRecipient,
		Urgency:           conn.Message.Urgency,
		ProviderOutreach:  conn.Metadata.ProviderInitiated,
	}), nil
}

func (s *Service) emit(ctx context.Context, action audit.Action, connID id.ConnectionID, actor id.ProfileID, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Emit(ctx, audit.Event{
		Action:       action,
		ConnectionID: connID,
		ActorID:      actor,
		Timestamp:    requestcontext.Now(ctx),
		RequestID:    requestcontext.RequestID(ctx),
		Detail:       detail,
	})
}

func (s *Service) observe(operation string, start time.Time) {
	s.metrics.ObserveOperation(operation, time.Since(start).Seconds())
}

// authorize translates the capability table into domain errors.
func authorize(actor id.ProfileID, conn *connection.Connection, capability connection.Capability) error {
	if actor.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "caller identity required")
	}
	if !connection.Can(actor, conn, capability) {
		return dErrors.New(dErrors.CodeForbidden, "not allowed on this connection")
	}
	return nil
}
