package store

import (
	"context"
	"sort"
	"sync"

	"carelink/internal/connection"
	id "carelink/pkg/domain"
	"carelink/pkg/platform/sentinel"
)

// InMemoryStore keeps connection records in a map guarded by a mutex. The
// mutex is the store's serialization point, so committed writes observe a
// total order and the version check gives real CAS semantics.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.ConnectionID]*connection.Connection
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.ConnectionID]*connection.Connection)}
}

func (s *InMemoryStore) Create(_ context.Context, conn *connection.Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[conn.ID]; exists {
		return sentinel.ErrConflict
	}
	s.records[conn.ID] = conn.Clone()
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, connID id.ConnectionID) (*connection.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conn, ok := s.records[connID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return conn.Clone(), nil
}

func (s *InMemoryStore) Update(_ context.Context, conn *connection.Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.records[conn.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if stored.Version != conn.Version {
		return sentinel.ErrConflict
	}
	conn.Version++
	s.records[conn.ID] = conn.Clone()
	return nil
}

func (s *InMemoryStore) FindPendingBetween(_ context.Context, from, to id.ProfileID, typ connection.Type) (*connection.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, conn := range s.records {
		if conn.FromProfileID == from && conn.ToProfileID == to &&
			conn.Type == typ && conn.Status == connection.StatusPending {
			return conn.Clone(), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) ListByProfile(_ context.Context, profileID id.ProfileID) ([]*connection.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*connection.Connection
	for _, conn := range s.records {
		if conn.IsParticipant(profileID) {
			out = append(out, conn.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
