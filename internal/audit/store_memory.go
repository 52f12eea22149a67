package audit

import (
	"context"
	"sync"

	"talentgate/pkg/domain"
)

// MemoryStore keeps audit events in memory, append-only.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *MemoryStore) ListByApplication(_ context.Context, id domain.ApplicationID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []Event
	for _, e := range s.events {
		if e.ApplicationID == id {
			res = append(res, e)
		}
	}
	return res, nil
}

// All returns every recorded event; used by tests.
func (s *MemoryStore) All() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event(nil), s.events...)
}
