// Package domain defines typed identifiers shared across the lifecycle engine.
// Typed IDs prevent cross-entity assignment at compile time; parse functions
// enforce the "valid, non-empty, non-nil UUID" invariant at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	"talentgate/pkg/domerrors"
)

type (
	// ApplicationID identifies one candidate's submission to one job posting.
	ApplicationID uuid.UUID
	// JobID identifies a job posting.
	JobID uuid.UUID
	// UserID identifies a user identity (candidate or staff).
	UserID uuid.UUID
	// ProfileID identifies a candidate profile record.
	ProfileID uuid.UUID
	// NoteID identifies a staff annotation on an application.
	NoteID uuid.UUID
	// SessionID identifies an issued session.
	SessionID uuid.UUID
	// OrgID identifies the organization owning a job posting.
	OrgID uuid.UUID
)

func NewApplicationID() ApplicationID { return ApplicationID(uuid.New()) }
func NewJobID() JobID                 { return JobID(uuid.New()) }
func NewUserID() UserID               { return UserID(uuid.New()) }
func NewProfileID() ProfileID         { return ProfileID(uuid.New()) }
func NewNoteID() NoteID               { return NoteID(uuid.New()) }
func NewSessionID() SessionID         { return SessionID(uuid.New()) }
func NewOrgID() OrgID                 { return OrgID(uuid.New()) }

func (id ApplicationID) String() string { return uuid.UUID(id).String() }
func (id JobID) String() string         { return uuid.UUID(id).String() }
func (id UserID) String() string        { return uuid.UUID(id).String() }
func (id ProfileID) String() string     { return uuid.UUID(id).String() }
func (id NoteID) String() string        { return uuid.UUID(id).String() }
func (id SessionID) String() string     { return uuid.UUID(id).String() }
func (id OrgID) String() string         { return uuid.UUID(id).String() }

func (id ApplicationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id JobID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id ProfileID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id NoteID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id OrgID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, domerrors.Newf(domerrors.CodeValidation, "%s cannot be empty", what)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, domerrors.Newf(domerrors.CodeValidation, "invalid %s", what)
	}
	if u == uuid.Nil {
		return uuid.Nil, domerrors.Newf(domerrors.CodeValidation, "%s cannot be the nil UUID", what)
	}
	return u, nil
}

func ParseApplicationID(s string) (ApplicationID, error) {
	u, err := parseUUID(s, "application ID")
	return ApplicationID(u), err
}

func ParseJobID(s string) (JobID, error) {
	u, err := parseUUID(s, "job ID")
	return JobID(u), err
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user ID")
	return UserID(u), err
}

func ParseNoteID(s string) (NoteID, error) {
	u, err := parseUUID(s, "note ID")
	return NoteID(u), err
}
