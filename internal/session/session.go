// Package session issues the short-lived session handed to an anonymous
// applicant together with their one-time credentials, so they can
// authenticate immediately after applying.
package session

import (
	"context"
	"time"

	"talentgate/pkg/domain"
)

// Session is an issued authentication session.
type Session struct {
	ID        domain.SessionID
	UserID    domain.UserID
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issuer mints a session for a freshly provisioned identity.
type Issuer interface {
	Issue(ctx context.Context, userID domain.UserID) (Session, error)
}

// Store keeps issued session records so they can be listed and revoked by the
// (out-of-scope) auth surface.
type Store interface {
	Save(ctx context.Context, s Session) error
	FindByID(ctx context.Context, id domain.SessionID) (Session, error)
}
