package models

import (
	"encoding/json"
	"time"

	"talentgate/pkg/domain"
)

// Status tracks an application's progress through review, interview and
// decision. Construct via Parse at trust boundaries to enforce the enum.
type Status string

const (
	StatusPending     Status = "PENDING"
	StatusAnalyzed    Status = "ANALYZED"
	StatusReviewed    Status = "REVIEWED"
	StatusShortlisted Status = "SHORTLISTED"
	StatusInterviewed Status = "INTERVIEWED"
	StatusOffered     Status = "OFFERED"
	StatusHired       Status = "HIRED"
	StatusRejected    Status = "REJECTED"
	StatusWithdrawn   Status = "WITHDRAWN"
)

// Known reports whether s is a member of the status enum.
func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusAnalyzed, StatusReviewed, StatusShortlisted,
		StatusInterviewed, StatusOffered, StatusHired, StatusRejected, StatusWithdrawn:
		return true
	default:
		return false
	}
}

// Application represents one candidate's submission to one job posting.
//
// The Applicant* fields are a snapshot captured at submission time. They stay
// fixed even when the candidate's profile is later overwritten by extracted
// CV data, so the original submission remains auditable.
type Application struct {
	ID          domain.ApplicationID
	JobID       domain.JobID
	CandidateID domain.UserID

	Status Status

	ApplicantName     string
	ApplicantEmail    string
	ApplicantPhone    string
	ApplicantLinkedIn string

	CoverLetter    string
	ResumeURL      string
	ExpectedSalary string
	NoticePeriod   string

	ReviewedAt    *time.Time
	InterviewedAt *time.Time
	RejectedAt    *time.Time
	AcceptedAt    *time.Time

	AnalysisResult json.RawMessage
	AnalysisScore  *float64

	// Notes holds free-text operational remarks, including recorded
	// side-effect failures staff may need to retry manually.
	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NoteVisibility controls who sees a staff annotation.
type NoteVisibility string

const (
	NoteInternal NoteVisibility = "INTERNAL"
	NoteShared   NoteVisibility = "SHARED"
)

// Note is a staff annotation attached to an application.
type Note struct {
	ID            domain.NoteID
	ApplicationID domain.ApplicationID
	AuthorID      domain.UserID
	Text          string
	Visibility    NoteVisibility
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
