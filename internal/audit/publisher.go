package audit

import (
	"context"
	"log/slog"
	"time"
)

// Sink receives audit events. The memory store and the Kafka producer both
// implement it so the publisher can fan out without caring where events land.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Publisher fans audit events out to its sinks. Audit is best-effort from
// the engine's point of view: a failing sink is logged and skipped, it never
// fails the user-facing operation.
type Publisher struct {
	sinks  []Sink
	logger *slog.Logger
}

func NewPublisher(logger *slog.Logger, sinks ...Sink) *Publisher {
	return &Publisher{sinks: sinks, logger: logger}
}

func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	for _, sink := range p.sinks {
		if err := sink.Append(ctx, event); err != nil {
			p.logger.WarnContext(ctx, "audit sink append failed",
				"action", event.Action,
				"connection_id", event.ConnectionID.String(),
				"error", err,
			)
		}
	}
}
