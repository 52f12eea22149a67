package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"talentgate/internal/application/models"
	"talentgate/pkg/domain"
	"talentgate/pkg/platform/sentinel"
)

// In-memory stores keep the engine testable without a database. They
// intentionally favor clarity over performance.
type MemoryStore struct {
	mu   sync.RWMutex
	apps map[domain.ApplicationID]models.Application
}

func NewMemory() *MemoryStore {
	return &MemoryStore{apps: make(map[domain.ApplicationID]models.Application)}
}

func (s *MemoryStore) Create(_ context.Context, app models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.apps {
		if existing.JobID == app.JobID && existing.CandidateID == app.CandidateID {
			return sentinel.ErrConflict
		}
	}
	s.apps[app.ID] = app
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id domain.ApplicationID) (models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if app, ok := s.apps[id]; ok {
		return app, nil
	}
	return models.Application{}, sentinel.ErrNotFound
}

func (s *MemoryStore) FindByJobAndCandidate(_ context.Context, jobID domain.JobID, candidateID domain.UserID) (models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, app := range s.apps {
		if app.JobID == jobID && app.CandidateID == candidateID {
			return app, nil
		}
	}
	return models.Application{}, sentinel.ErrNotFound
}

func (s *MemoryStore) ListByJob(_ context.Context, jobID domain.JobID, limit, offset int) ([]models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []models.Application
	for _, app := range s.apps {
		if app.JobID == jobID {
			res = append(res, app)
		}
	}
	return page(res, limit, offset), nil
}

func (s *MemoryStore) ListByCandidate(_ context.Context, candidateID domain.UserID, limit, offset int) ([]models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []models.Application
	for _, app := range s.apps {
		if app.CandidateID == candidateID {
			res = append(res, app)
		}
	}
	return page(res, limit, offset), nil
}

func page(apps []models.Application, limit, offset int) []models.Application {
	sort.Slice(apps, func(i, j int) bool { return apps[i].CreatedAt.After(apps[j].CreatedAt) })
	if offset >= len(apps) {
		return nil
	}
	apps = apps[offset:]
	if limit > 0 && limit < len(apps) {
		apps = apps[:limit]
	}
	return apps
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id domain.ApplicationID, expected, next models.Status, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if app.Status != expected {
		return sentinel.ErrStale
	}
	app.Status = next
	applyStage(&app, next, at)
	app.UpdatedAt = at
	s.apps[id] = app
	return nil
}

func (s *MemoryStore) SetAnalysis(_ context.Context, id domain.ApplicationID, result json.RawMessage, score *float64, next models.Status, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	app.AnalysisResult = result
	app.AnalysisScore = score
	app.Status = next
	app.UpdatedAt = at
	s.apps[id] = app
	return nil
}

func (s *MemoryStore) AppendOperationalNote(_ context.Context, id domain.ApplicationID, line string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if app.Notes != "" {
		app.Notes += "\n"
	}
	app.Notes += line
	app.UpdatedAt = at
	s.apps[id] = app
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id domain.ApplicationID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apps[id]; !ok {
		return false, nil
	}
	delete(s.apps, id)
	return true, nil
}

// MemoryNoteStore keeps staff annotations in memory.
type MemoryNoteStore struct {
	mu    sync.RWMutex
	notes map[domain.NoteID]models.Note
}

func NewMemoryNotes() *MemoryNoteStore {
	return &MemoryNoteStore{notes: make(map[domain.NoteID]models.Note)}
}

func (s *MemoryNoteStore) Create(_ context.Context, note models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[note.ID] = note
	return nil
}

func (s *MemoryNoteStore) FindByID(_ context.Context, id domain.NoteID) (models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if note, ok := s.notes[id]; ok {
		return note, nil
	}
	return models.Note{}, sentinel.ErrNotFound
}

func (s *MemoryNoteStore) ListByApplication(_ context.Context, appID domain.ApplicationID) ([]models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []models.Note
	for _, note := range s.notes {
		if note.ApplicationID == appID {
			res = append(res, note)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}

func (s *MemoryNoteStore) Update(_ context.Context, id domain.NoteID, text string, visibility models.NoteVisibility, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	note, ok := s.notes[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	note.Text = text
	note.Visibility = visibility
	note.UpdatedAt = at
	s.notes[id] = note
	return nil
}

func (s *MemoryNoteStore) Delete(_ context.Context, id domain.NoteID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[id]; !ok {
		return false, nil
	}
	delete(s.notes, id)
	return true, nil
}
