// Package store persists applications and their staff notes. Implementations
// return pkg/platform/sentinel errors for infrastructure facts; services
// translate those into coded domain errors.
package store

import (
	"context"
	"encoding/json"
	"time"

	"talentgate/internal/application/models"
	"talentgate/pkg/domain"
)

// Store persists applications.
//
// UpdateStatus is a guarded write: it only applies when the row still carries
// the expected status, and reports sentinel.ErrStale otherwise. Two racing
// status updates therefore resolve at the storage layer, and the loser
// re-validates against the fresh status instead of silently clobbering it.
type Store interface {
	Create(ctx context.Context, app models.Application) error
	FindByID(ctx context.Context, id domain.ApplicationID) (models.Application, error)
	FindByJobAndCandidate(ctx context.Context, jobID domain.JobID, candidateID domain.UserID) (models.Application, error)
	ListByJob(ctx context.Context, jobID domain.JobID, limit, offset int) ([]models.Application, error)
	ListByCandidate(ctx context.Context, candidateID domain.UserID, limit, offset int) ([]models.Application, error)

	// UpdateStatus persists the new status together with the single stage
	// timestamp implied by the target, in one write.
	UpdateStatus(ctx context.Context, id domain.ApplicationID, expected, next models.Status, at time.Time) error

	// SetAnalysis writes the analysis result blob and score and forces the
	// status reported by the external analysis system.
	SetAnalysis(ctx context.Context, id domain.ApplicationID, result json.RawMessage, score *float64, next models.Status, at time.Time) error

	// AppendOperationalNote appends a line to the application's free-text
	// operational notes. The one post-commit write the engine permits.
	AppendOperationalNote(ctx context.Context, id domain.ApplicationID, line string, at time.Time) error

	// Delete removes the row and reports whether one actually went away.
	Delete(ctx context.Context, id domain.ApplicationID) (bool, error)
}

// NoteStore persists staff annotations.
type NoteStore interface {
	Create(ctx context.Context, note models.Note) error
	FindByID(ctx context.Context, id domain.NoteID) (models.Note, error)
	ListByApplication(ctx context.Context, appID domain.ApplicationID) ([]models.Note, error)
	Update(ctx context.Context, id domain.NoteID, text string, visibility models.NoteVisibility, at time.Time) error
	Delete(ctx context.Context, id domain.NoteID) (bool, error)
}

// stageColumn maps a target status to the stage timestamp it stamps.
// Targets outside the map set no extra timestamp.
var stageColumn = map[models.Status]string{
	models.StatusReviewed:    "reviewed_at",
	models.StatusInterviewed: "interviewed_at",
	models.StatusRejected:    "rejected_at",
	models.StatusHired:       "accepted_at",
}

// applyStage sets the stage timestamp implied by next on app, if any.
func applyStage(app *models.Application, next models.Status, at time.Time) {
	switch next {
	case models.StatusReviewed:
		app.ReviewedAt = &at
	case models.StatusInterviewed:
		app.InterviewedAt = &at
	case models.StatusRejected:
		app.RejectedAt = &at
	case models.StatusHired:
		app.AcceptedAt = &at
	}
}
