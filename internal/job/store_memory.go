package job

import (
	"context"
	"sync"

	"talentgate/pkg/domain"
	"talentgate/pkg/platform/sentinel"
)

type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[domain.JobID]Job
}

func NewMemory() *MemoryStore {
	return &MemoryStore{jobs: make(map[domain.JobID]Job)}
}

func (s *MemoryStore) Create(_ context.Context, j Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID] = j
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id domain.JobID) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if j, ok := s.jobs[id]; ok {
		return j, nil
	}
	return Job{}, sentinel.ErrNotFound
}

func (s *MemoryStore) IncrementApplicants(_ context.Context, id domain.JobID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	j.Applicants++
	s.jobs[id] = j
	return nil
}
