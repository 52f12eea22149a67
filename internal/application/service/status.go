package service

import (
	"context"
	"errors"
	"fmt"

	"talentgate/internal/application/models"
	"talentgate/internal/application/status"
	"talentgate/internal/audit"
	"talentgate/internal/notify"
	"talentgate/internal/room"
	"talentgate/pkg/contact"
	"talentgate/pkg/domain"
	"talentgate/pkg/domerrors"
	"talentgate/pkg/platform/sentinel"
	"talentgate/pkg/requestcontext"
)

// statusWriteAttempts bounds the guarded-write retry loop under contention.
const statusWriteAttempts = 3

// UpdateStatus moves an application to a new lifecycle status.
//
// The write is guarded on the status the caller validated against. When a
// concurrent update wins the race, the loser re-reads the committed status
// and re-validates, so a lost update surfaces as InvalidTransition against
// the fresh state rather than silently clobbering it.
func (e *Engine) UpdateStatus(ctx context.Context, id domain.ApplicationID, next models.Status) (models.Application, error) {
	app, err := e.deps.Applications.FindByID(ctx, id)
	if err != nil {
		return models.Application{}, mapStoreErr(err, "application not found")
	}

	actor := requestcontext.UserID(ctx)
	if !actor.IsNil() {
		if err := e.deps.Ownership.VerifyApplicationAccess(ctx, app, actor); err != nil {
			return models.Application{}, err
		}
	}

	// Same-status request is a no-op update: no stage timestamp, no
	// notification, no audit noise.
	if next == app.Status {
		return app, nil
	}

	now := requestcontext.Now(ctx)
	current := app.Status

	for attempt := 0; ; attempt++ {
		if err := status.Validate(current, next); err != nil {
			return models.Application{}, err
		}

		err = e.deps.Tx.RunInTx(ctx, func(ctx context.Context) error {
			return e.deps.Applications.UpdateStatus(ctx, id, current, next, now)
		})
		if err == nil {
			break
		}
		if errors.Is(err, sentinel.ErrStale) {
			fresh, readErr := e.deps.Applications.FindByID(ctx, id)
			if readErr != nil {
				return models.Application{}, mapStoreErr(readErr, "application not found")
			}
			if attempt+1 >= statusWriteAttempts {
				return models.Application{}, domerrors.New(domerrors.CodeConflict,
					"application is being updated concurrently, please retry")
			}
			current = fresh.Status
			continue
		}
		return models.Application{}, mapStoreErr(err, "application not found")
	}

	e.deps.Metrics.StatusTransitions.WithLabelValues(string(next)).Inc()
	e.deps.Audit.Emit(ctx, audit.Event{
		Action:        audit.EventStatusChanged,
		ApplicationID: id,
		JobID:         app.JobID,
		ActorID:       actor,
		FromStatus:    string(current),
		ToStatus:      string(next),
	})

	if title, body, ok := notify.StatusMessage(next); ok {
		candidateID := app.CandidateID
		e.deps.Runner.Go(ctx, "notify_candidate", func(ctx context.Context) error {
			return e.deps.Notifier.Notify(ctx, candidateID, title, body, map[string]string{
				"application_id": id.String(),
				"status":         string(next),
			})
		})
	}
	if next == models.StatusInterviewed {
		e.provisionInterviewRoom(ctx, app)
	}

	updated, err := e.deps.Applications.FindByID(ctx, id)
	if err != nil {
		return models.Application{}, mapStoreErr(err, "application not found")
	}
	return updated, nil
}

// provisionInterviewRoom creates the interview room and sends the candidate a
// join link, best-effort. A provisioning failure is written into the
// application's operational notes so staff can see it and retry manually;
// the committed status transition is never affected.
func (e *Engine) provisionInterviewRoom(ctx context.Context, app models.Application) {
	appID := app.ID
	e.deps.Runner.Go(ctx, "provision_interview_room", func(ctx context.Context) error {
		now := requestcontext.Now(ctx)
		name := room.Name(appID, now)

		created, err := e.deps.Rooms.CreateRoom(ctx, name, map[string]string{
			"application_id": appID.String(),
			"job_id":         app.JobID.String(),
		}, "recruiter", app.ApplicantName)
		if err != nil {
			line := fmt.Sprintf("[%s] interview room provisioning failed: %v", now.Format("2006-01-02 15:04:05"), err)
			if noteErr := e.deps.Applications.AppendOperationalNote(ctx, appID, line, now); noteErr != nil {
				e.deps.Logger.ErrorContext(ctx, "failed to record room provisioning failure",
					"application_id", appID.String(), "error", noteErr)
			}
			return fmt.Errorf("provision interview room: %w", err)
		}

		meta := map[string]string{
			"application_id": appID.String(),
			"room_url":       created.URL,
			"room_token":     created.Token,
		}
		if notifyErr := e.deps.Notifier.Notify(ctx, app.CandidateID,
			"Your interview room is ready",
			"Join your interview using the link in this notification.", meta); notifyErr != nil {
			return fmt.Errorf("send room notification: %w", notifyErr)
		}
		if contact.Usable(app.ApplicantPhone) {
			if msgErr := e.deps.Messenger.SendTemplate(ctx, app.ApplicantPhone, notify.TemplateInterviewLink, map[string]string{
				"room_url": created.URL,
				"token":    created.Token,
			}); msgErr != nil {
				return fmt.Errorf("send room link: %w", msgErr)
			}
		}
		return nil
	})
}
