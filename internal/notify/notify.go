// Package notify defines the notification collaborators the lifecycle engine
// fans out to after commit, plus the fixed status-to-message mapping. Concrete
// delivery clients live in the integration layer; the engine only needs these
// contracts.
package notify

import (
	"context"

	"talentgate/internal/application/models"
	"talentgate/pkg/domain"
)

//go:generate mockgen -source=notify.go -destination=../../mocks/notify/mocks.go -package=notifymocks

// Notifier delivers an in-app/push notification to a user. Implementations
// are invoked post-commit and best-effort only.
type Notifier interface {
	Notify(ctx context.Context, userID domain.UserID, title, body string, meta map[string]string) error
}

// Messenger sends a templated message to a phone number. Used for one-time
// credential delivery and interview links.
type Messenger interface {
	SendTemplate(ctx context.Context, phone, template string, params map[string]string) error
}

// StaffNotifier fans a notification out to the staff of the job's owning
// organization. Resolution of org membership lives with the implementation.
type StaffNotifier interface {
	NotifyJobStaff(ctx context.Context, jobID domain.JobID, title, body string, meta map[string]string) error
}

// Message templates the engine sends.
const (
	TemplateCredentials   = "application_credentials"
	TemplateInterviewLink = "interview_room_link"
)

// statusMessages is the fixed mapping from target status to the candidate
// notification. Enumerated, not freeform: only these statuses notify.
var statusMessages = map[models.Status]struct{ title, body string }{
	models.StatusReviewed: {
		"Application reviewed",
		"Your application has been reviewed by the hiring team.",
	},
	models.StatusShortlisted: {
		"You have been shortlisted",
		"Congratulations, your application made the shortlist.",
	},
	models.StatusInterviewed: {
		"Interview stage",
		"Your application has moved to the interview stage. Details will follow shortly.",
	},
	models.StatusOffered: {
		"Offer extended",
		"Good news: the hiring team has extended you an offer.",
	},
	models.StatusHired: {
		"Welcome aboard",
		"Congratulations, your application has been accepted.",
	},
	models.StatusRejected: {
		"Application update",
		"Thank you for your interest. The hiring team has decided not to move forward.",
	},
}

// StatusMessage returns the candidate-facing title/body for a target status.
// ok is false for statuses that send no notification.
func StatusMessage(s models.Status) (title, body string, ok bool) {
	m, ok := statusMessages[s]
	if !ok {
		return "", "", false
	}
	return m.title, m.body, true
}
