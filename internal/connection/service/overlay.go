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

// OverlayResult reports the caller's logical status after an overlay
// mutation. Consumers must render this, never the raw status column, once a
// record is archived.
type OverlayResult struct {
	LogicalStatus string `json:"logical_status"`
}

// SetOverlayFlag mutates the metadata overlay beside the status enum. The
// status column is never touched here; archival, hiding, and reporting are
// UI/admin state, not lifecycle state.
func (s *Service) SetOverlayFlag(ctx context.Context, connID id.ConnectionID, actor id.ProfileID, action connection.FlagAction, reportReason, reportDetails string) (OverlayResult, error) {
	ctx, span := s.tracer.Start(ctx, "connection.set_overlay_flag")
	defer span.End()
	defer s.observe("set_overlay_flag", time.Now())

	var logical string
	mutation, auditAction, err := s.overlayMutation(ctx, actor, action, reportReason, reportDetails, &logical)
	if err != nil {
		return OverlayResult{}, err
	}

	_, err = s.mutate(ctx, connID, mutation)
	if err != nil {
		return OverlayResult{}, err
	}

	s.metrics.RecordOverlayFlag(string(action))
	s.emit(ctx, auditAction, connID, actor, reportReason)
	return OverlayResult{LogicalStatus: logical}, nil
}

func (s *Service) overlayMutation(ctx context.Context, actor id.ProfileID, action connection.FlagAction, reportReason, reportDetails string, logical *string) (func(*connection.Connection) error, audit.Action, error) {
	switch action {
	case connection.FlagArchive:
		return func(c *connection.Connection) error {
			if err := authorize(actor, c, connection.CapArchive); err != nil {
				return err
			}
			archive(c, requestcontext.Now(ctx))
			*logical = c.LogicalStatus()
			return nil
		}, audit.EventConnectionArchived, nil

	case connection.FlagUnarchive:
		return func(c *connection.Connection) error {
			if err := authorize(actor, c, connection.CapArchive); err != nil {
				return err
			}
			// The snapshot, not the raw column, decides what the caller sees
			// next; records archived before the snapshot existed fall back
			// to accepted.
			restored := connection.StatusAccepted
			if c.Metadata.Archived != nil && c.Metadata.Archived.FromStatus != "" {
				restored = c.Metadata.Archived.FromStatus
			}
			c.Metadata.Archived = nil
			*logical = string(restored)
			return nil
		}, audit.EventConnectionUnarchived, nil

	case connection.FlagHide:
		return func(c *connection.Connection) error {
			if err := authorize(actor, c, connection.CapHide); err != nil {
				return err
			}
			c.Metadata.Hidden = true
			*logical = c.LogicalStatus()
			return nil
		}, audit.EventConnectionHidden, nil

	case connection.FlagReport:
		if reportReason == "" {
			return nil, "", dErrors.New(dErrors.CodeValidation, "report reason is required")
		}
		return func(c *connection.Connection) error {
			if err := authorize(actor, c, connection.CapReport); err != nil {
				return err
			}
			now := requestcontext.Now(ctx)
			c.Metadata.Report = &connection.ReportRecord{
				Reason:     reportReason,
				Details:    reportDetails,
				ReportedBy: actor,
				ReportedAt: now,
			}
			// Reporting implies archiving for the reporter, regardless of
			// prior archive state.
			archive(c, now)
			*logical = c.LogicalStatus()
			return nil
		}, audit.EventConnectionReported, nil

	default:
		return nil, "", dErrors.New(dErrors.CodeValidation, "unknown flag action")
	}
}

// archive snapshots the current status the first time only, so a re-archive
// (or a report on an already archived record) preserves the original
// restore point.
func archive(c *connection.Connection, now time.Time) {
	if c.Metadata.Archived == nil {
		c.Metadata.Archived = &connection.ArchiveSnapshot{
			FromStatus: c.Status,
			ArchivedAt: now,
		}
	}
}
