package identity

import (
	"context"
	"sync"

	"talentgate/pkg/contact"
	"talentgate/pkg/domain"
	"talentgate/pkg/platform/sentinel"
	"talentgate/pkg/requestcontext"
)

type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[domain.UserID]User
}

func NewMemoryUsers() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[domain.UserID]User)}
}

func (s *MemoryUserStore) Create(_ context.Context, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return sentinel.ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id domain.UserID) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return User{}, sentinel.ErrNotFound
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = contact.NormalizeEmail(email)
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return User{}, sentinel.ErrNotFound
}

func (s *MemoryUserStore) UpdateContact(ctx context.Context, id domain.UserID, email, name, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	user.Email = contact.NormalizeEmail(email)
	user.Name = name
	user.Phone = phone
	user.UpdatedAt = requestcontext.Now(ctx)
	s.users[id] = user
	return nil
}

// Len reports the number of stored identities; used by rollback tests.
func (s *MemoryUserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

type MemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[domain.ProfileID]Profile
	exp      map[domain.ProfileID][]WorkExperience
	edu      map[domain.ProfileID][]Education
}

func NewMemoryProfiles() *MemoryProfileStore {
	return &MemoryProfileStore{
		profiles: make(map[domain.ProfileID]Profile),
		exp:      make(map[domain.ProfileID][]WorkExperience),
		edu:      make(map[domain.ProfileID][]Education),
	}
}

func (s *MemoryProfileStore) Create(_ context.Context, profile Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.ID] = profile
	return nil
}

func (s *MemoryProfileStore) FindByUser(_ context.Context, userID domain.UserID) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, profile := range s.profiles {
		if profile.UserID == userID {
			return profile, nil
		}
	}
	return Profile{}, sentinel.ErrNotFound
}

func (s *MemoryProfileStore) Update(_ context.Context, profile Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[profile.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.profiles[profile.ID] = profile
	return nil
}

func (s *MemoryProfileStore) ReplaceExperience(_ context.Context, profileID domain.ProfileID, entries []WorkExperience) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exp[profileID] = append([]WorkExperience(nil), entries...)
	return nil
}

func (s *MemoryProfileStore) ReplaceEducation(_ context.Context, profileID domain.ProfileID, entries []Education) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edu[profileID] = append([]Education(nil), entries...)
	return nil
}

// Experience returns the stored child records; used by replacement tests.
func (s *MemoryProfileStore) Experience(profileID domain.ProfileID) []WorkExperience {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exp[profileID]
}

// EducationEntries returns the stored child records; used by replacement tests.
func (s *MemoryProfileStore) EducationEntries(profileID domain.ProfileID) []Education {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.edu[profileID]
}

// Len reports the number of stored profiles; used by rollback tests.
func (s *MemoryProfileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}
