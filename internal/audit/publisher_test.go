package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "carelink/pkg/domain"
)

type failingSink struct{}

func (failingSink) Append(context.Context, Event) error {
	return errors.New("broker unavailable")
}

func TestPublisherFansOut(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	first := NewInMemoryStore()
	second := NewInMemoryStore()
	pub := NewPublisher(logger, first, second)

	connID := id.NewConnectionID()
	pub.Emit(ctx, Event{Action: EventConnectionCreated, ConnectionID: connID})

	for _, sink := range []*InMemoryStore{first, second} {
		events, err := sink.ListByConnection(ctx, connID)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, EventConnectionCreated, events[0].Action)
		assert.False(t, events[0].Timestamp.IsZero(), "publisher fills a missing timestamp")
	}
}

func TestPublisherToleratesFailingSink(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	healthy := NewInMemoryStore()
	pub := NewPublisher(logger, failingSink{}, healthy)

	connID := id.NewConnectionID()
	pub.Emit(ctx, Event{Action: EventConnectionAccepted, ConnectionID: connID, Timestamp: time.Now()})

	events, err := healthy.ListByConnection(ctx, connID)
	require.NoError(t, err)
	assert.Len(t, events, 1, "a failing sink must not block the others")
}

func TestChannelSinkAndWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewInMemoryStore()
	queue := NewChannelSink(8)
	worker := NewWorker(store, queue.Events())

	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	connID := id.NewConnectionID()
	require.NoError(t, queue.Append(ctx, Event{Action: EventTimeProposed, ConnectionID: connID}))

	require.Eventually(t, func() bool {
		events, err := store.ListByConnection(ctx, connID)
		return err == nil && len(events) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestChannelSinkDropsWhenFull(t *testing.T) {
	ctx := context.Background()
	queue := NewChannelSink(1)

	require.NoError(t, queue.Append(ctx, Event{Action: EventMessagePosted}))
	assert.ErrorIs(t, queue.Append(ctx, Event{Action: EventMessagePosted}), ErrQueueFull)
}
