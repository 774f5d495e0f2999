package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carelink/internal/connection"
	id "carelink/pkg/domain"
	"carelink/pkg/platform/sentinel"
)

func newRecord(from, to id.ProfileID) *connection.Connection {
	now := time.Now()
	return &connection.Connection{
		ID:            id.NewConnectionID(),
		Type:          connection.TypeInquiry,
		Status:        connection.StatusPending,
		FromProfileID: from,
		ToProfileID:   to,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestInMemoryStoreCreateGet(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	conn := newRecord(id.NewProfileID(), id.NewProfileID())

	require.NoError(t, s.Create(ctx, conn))

	got, err := s.Get(ctx, conn.ID)
	require.NoError(t, err)
	assert.Equal(t, conn.ID, got.ID)

	t.Run("duplicate id conflicts", func(t *testing.T) {
		assert.ErrorIs(t, s.Create(ctx, conn), sentinel.ErrConflict)
	})

	t.Run("unknown id not found", func(t *testing.T) {
		_, err := s.Get(ctx, id.NewConnectionID())
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}

func TestInMemoryStoreUpdateCAS(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	conn := newRecord(id.NewProfileID(), id.NewProfileID())
	require.NoError(t, s.Create(ctx, conn))

	first, err := s.Get(ctx, conn.ID)
	require.NoError(t, err)
	second, err := s.Get(ctx, conn.ID)
	require.NoError(t, err)

	first.Status = connection.StatusAccepted
	require.NoError(t, s.Update(ctx, first))
	assert.Equal(t, int64(1), first.Version, "committed update bumps the caller's version")

	t.Run("stale version conflicts", func(t *testing.T) {
		second.Status = connection.StatusDeclined
		assert.ErrorIs(t, s.Update(ctx, second), sentinel.ErrConflict)

		got, err := s.Get(ctx, conn.ID)
		require.NoError(t, err)
		assert.Equal(t, connection.StatusAccepted, got.Status, "stale write must not land")
	})

	t.Run("fresh read succeeds after conflict", func(t *testing.T) {
		fresh, err := s.Get(ctx, conn.ID)
		require.NoError(t, err)
		fresh.Metadata.Viewed = true
		require.NoError(t, s.Update(ctx, fresh))
		assert.Equal(t, int64(2), fresh.Version)
	})

	t.Run("update of missing record not found", func(t *testing.T) {
		missing := newRecord(id.NewProfileID(), id.NewProfileID())
		assert.ErrorIs(t, s.Update(ctx, missing), sentinel.ErrNotFound)
	})
}

func TestInMemoryStoreHandsOutClones(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	conn := newRecord(id.NewProfileID(), id.NewProfileID())
	conn.Metadata.Thread = []connection.ThreadMessage{{Text: "hello"}}
	require.NoError(t, s.Create(ctx, conn))

	got, err := s.Get(ctx, conn.ID)
	require.NoError(t, err)
	got.Metadata.Thread[0].Text = "mutated"
	got.Status = connection.StatusDeclined

	again, err := s.Get(ctx, conn.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", again.Metadata.Thread[0].Text)
	assert.Equal(t, connection.StatusPending, again.Status)
}

func TestInMemoryStoreFindPendingBetween(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	from := id.NewProfileID()
	to := id.NewProfileID()

	conn := newRecord(from, to)
	require.NoError(t, s.Create(ctx, conn))

	got, err := s.FindPendingBetween(ctx, from, to, connection.TypeInquiry)
	require.NoError(t, err)
	assert.Equal(t, conn.ID, got.ID)

	t.Run("direction matters", func(t *testing.T) {
		_, err := s.FindPendingBetween(ctx, to, from, connection.TypeInquiry)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("type matters", func(t *testing.T) {
		_, err := s.FindPendingBetween(ctx, from, to, connection.TypeRequest)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("non-pending records are invisible", func(t *testing.T) {
		rec, err := s.Get(ctx, conn.ID)
		require.NoError(t, err)
		rec.Status = connection.StatusAccepted
		require.NoError(t, s.Update(ctx, rec))

		_, err = s.FindPendingBetween(ctx, from, to, connection.TypeInquiry)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}

func TestInMemoryStoreListByProfile(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	me := id.NewProfileID()
	other := id.NewProfileID()

	older := newRecord(me, other)
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := newRecord(other, me)
	unrelated := newRecord(id.NewProfileID(), id.NewProfileID())

	require.NoError(t, s.Create(ctx, older))
	require.NoError(t, s.Create(ctx, newer))
	require.NoError(t, s.Create(ctx, unrelated))

	list, err := s.ListByProfile(ctx, me)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID, "newest first")
	assert.Equal(t, older.ID, list[1].ID)
}
