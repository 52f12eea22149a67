package session

import (
	"context"
	"sync"

	"talentgate/pkg/domain"
	"talentgate/pkg/platform/sentinel"
)

// MemoryStore keeps sessions in memory; used in tests and when Redis is not
// configured.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]Session
}

func NewMemory() *MemoryStore {
	return &MemoryStore{sessions: make(map[domain.SessionID]Session)}
}

func (s *MemoryStore) Save(_ context.Context, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id domain.SessionID) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	return Session{}, sentinel.ErrNotFound
}
