// Package job holds the job-posting model and store the lifecycle engine
// reads and updates. Posting CRUD itself lives in the excluded API layer; the
// engine only needs validity checks and the applicant counter.
package job

import (
	"context"
	"time"

	"talentgate/pkg/domain"
)

type Status string

const (
	StatusOpen    Status = "OPEN"
	StatusClosed  Status = "CLOSED"
	StatusExpired Status = "EXPIRED"
	StatusDeleted Status = "DELETED"
)

// Job is a posting applications are submitted against.
type Job struct {
	ID         domain.JobID
	OrgID      domain.OrgID
	Title      string
	Status     Status
	Deadline   time.Time
	Applicants int
	CreatedAt  time.Time
}

// Accepting reports whether the posting can receive applications at the given
// instant.
func (j Job) Accepting(now time.Time) error {
	switch j.Status {
	case StatusClosed, StatusExpired, StatusDeleted:
		return ErrUnavailable
	}
	if !j.Deadline.IsZero() && now.After(j.Deadline) {
		return ErrDeadlinePassed
	}
	return nil
}

// Store persists job postings. IncrementApplicants runs inside the same
// transaction as the application insert to avoid counter drift under
// concurrent submissions.
type Store interface {
	Create(ctx context.Context, j Job) error
	FindByID(ctx context.Context, id domain.JobID) (Job, error)
	IncrementApplicants(ctx context.Context, id domain.JobID) error
}
