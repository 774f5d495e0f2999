package audit

import (
	"context"
	"sync"

	id "carelink/pkg/domain"
)

// InMemoryStore keeps events per connection, append-only.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.ConnectionID][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.ConnectionID][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ConnectionID] = append(s.events[event.ConnectionID], event)
	return nil
}

func (s *InMemoryStore) ListByConnection(_ context.Context, connID id.ConnectionID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[connID]...), nil
}
