package audit

import (
	"context"
	"errors"
)

// ErrQueueFull is returned by ChannelSink when its buffer is saturated.
var ErrQueueFull = errors.New("audit queue full")

// Worker consumes audit events from a channel and persists them. It keeps
// background processing testable without wiring queue implementations into
// the services that emit.
type Worker struct {
	sink  Sink
	inbox <-chan Event
}

func NewWorker(sink Sink, inbox <-chan Event) *Worker {
	return &Worker{sink: sink, inbox: inbox}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Append(ctx, event); err != nil {
				return err
			}
		}
	}
}

// ChannelSink enqueues events for a Worker instead of persisting them inline.
// When the buffer is full the event is dropped; the publisher logs the error.
type ChannelSink struct {
	ch chan Event
}

func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{ch: make(chan Event, buffer)}
}

func (s *ChannelSink) Append(_ context.Context, event Event) error {
	select {
	case s.ch <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Events exposes the inbox side for a Worker.
func (s *ChannelSink) Events() <-chan Event {
	return s.ch
}
