package notify

import (
	"context"
	"log/slog"

	"talentgate/pkg/domain"
)

// Log-backed implementations stand in for the real delivery providers. The
// engine treats them like any other collaborator; deployments swap in the
// concrete push/SMS integrations.

type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(ctx context.Context, userID domain.UserID, title, body string, meta map[string]string) error {
	n.Logger.InfoContext(ctx, "notification",
		"user_id", userID.String(), "title", title, "body", body, "meta", meta)
	return nil
}

type LogMessenger struct {
	Logger *slog.Logger
}

func (m LogMessenger) SendTemplate(ctx context.Context, phone, template string, params map[string]string) error {
	// Credentials travel in params; log only the template and target.
	m.Logger.InfoContext(ctx, "templated message", "phone", phone, "template", template)
	return nil
}

type LogStaffNotifier struct {
	Logger *slog.Logger
}

func (s LogStaffNotifier) NotifyJobStaff(ctx context.Context, jobID domain.JobID, title, body string, meta map[string]string) error {
	s.Logger.InfoContext(ctx, "staff notification",
		"job_id", jobID.String(), "title", title, "meta", meta)
	return nil
}
