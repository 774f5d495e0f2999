package profile

import (
	"context"
	"sync"

	id "carelink/pkg/domain"
	"carelink/pkg/platform/sentinel"
)

// InMemoryStore is the directory implementation used in tests and local
// development.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[id.ProfileID]*Profile
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[id.ProfileID]*Profile)}
}

func (s *InMemoryStore) Get(_ context.Context, profileID id.ProfileID) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[profileID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *p
	out.CareTypes = append([]string(nil), p.CareTypes...)
	return &out, nil
}

// Put seeds or replaces a directory entry.
func (s *InMemoryStore) Put(_ context.Context, p *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *p
	clone.CareTypes = append([]string(nil), p.CareTypes...)
	s.profiles[p.ID] = &clone
	return nil
}
