package audit

import (
	"context"
	"time"

	"talentgate/pkg/domain"
)

// Event is emitted from domain logic to capture key lifecycle actions. Keep
// it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp     time.Time
	Action        Action
	ApplicationID domain.ApplicationID
	JobID         domain.JobID
	// ActorID is who performed the action; empty for system-initiated
	// actions such as the analysis callback.
	ActorID    domain.UserID
	FromStatus string
	ToStatus   string
	Reason     string
	RequestID  string
}

// Action identifies what happened.
type Action string

const (
	EventApplicationCreated   Action = "application_created"
	EventApplicationAnonymous Action = "application_created_anonymous"
	EventStatusChanged        Action = "application_status_changed"
	EventAnalysisApplied      Action = "application_analysis_applied"
	EventApplicationRemoved   Action = "application_removed"
	EventNoteAdded            Action = "application_note_added"
	EventNoteUpdated          Action = "application_note_updated"
	EventNoteRemoved          Action = "application_note_removed"
)

// Store persists audit events, append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByApplication(ctx context.Context, id domain.ApplicationID) ([]Event, error)
}
