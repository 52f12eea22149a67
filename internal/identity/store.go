package identity

import (
	"context"

	"talentgate/pkg/domain"
)

// UserStore persists identities. FindByEmail backs the duplicate-identity
// guard and must be an indexed lookup: it runs inside the anonymous
// application's transaction.
type UserStore interface {
	Create(ctx context.Context, user User) error
	FindByID(ctx context.Context, id domain.UserID) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	UpdateContact(ctx context.Context, id domain.UserID, email, name, phone string) error
}

// ProfileStore persists candidate profiles and their structured child records.
type ProfileStore interface {
	Create(ctx context.Context, profile Profile) error
	FindByUser(ctx context.Context, userID domain.UserID) (Profile, error)
	Update(ctx context.Context, profile Profile) error

	// ReplaceExperience and ReplaceEducation delete-then-insert the child
	// records so repeated analysis callbacks never accumulate duplicates.
	ReplaceExperience(ctx context.Context, profileID domain.ProfileID, entries []WorkExperience) error
	ReplaceEducation(ctx context.Context, profileID domain.ProfileID, entries []Education) error
}
