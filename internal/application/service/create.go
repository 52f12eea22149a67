package service

import (
	"context"
	"errors"
	"time"

	"talentgate/internal/analysis"
	"talentgate/internal/application/models"
	"talentgate/internal/audit"
	"talentgate/internal/identity"
	"talentgate/internal/job"
	"talentgate/internal/notify"
	"talentgate/pkg/contact"
	"talentgate/pkg/domain"
	"talentgate/pkg/domerrors"
	"talentgate/pkg/platform/sentinel"
	"talentgate/pkg/requestcontext"
)

// CreateInput is an authenticated application submission.
type CreateInput struct {
	JobID       domain.JobID
	CandidateID domain.UserID

	Name     string
	Email    string
	Phone    string
	LinkedIn string

	CoverLetter    string
	ResumeURL      string
	ExpectedSalary string
	NoticePeriod   string
}

// AnonymousInput is a submission with no prior account. Email and phone are
// both optional; whichever is present must be well-formed.
type AnonymousInput struct {
	JobID domain.JobID

	Name     string
	Email    string
	Phone    string
	LinkedIn string

	CoverLetter    string
	ResumeURL      string
	ExpectedSalary string
	NoticePeriod   string
}

// CredentialBundle carries the one-time credentials issued to an anonymous
// applicant so they can authenticate immediately after applying.
type CredentialBundle struct {
	Email    string
	Password string
	Token    string
}

// Create submits an application for an existing candidate.
//
// When the acting user differs from the candidate, the acting user must hold
// an elevated role for the job's organization. A second application to the
// same job is rejected with CodeConflict.
func (e *Engine) Create(ctx context.Context, in CreateInput) (models.Application, error) {
	now := requestcontext.Now(ctx)

	actor := requestcontext.UserID(ctx)
	if !actor.IsNil() && actor != in.CandidateID {
		if err := e.deps.Ownership.VerifyElevatedRole(ctx, actor, in.JobID); err != nil {
			return models.Application{}, err
		}
	}

	posting, err := e.deps.Jobs.FindByID(ctx, in.JobID)
	if err != nil {
		return models.Application{}, mapStoreErr(err, "job not found")
	}
	if err := acceptingErr(posting, now); err != nil {
		return models.Application{}, err
	}

	if _, err := e.deps.Applications.FindByJobAndCandidate(ctx, in.JobID, in.CandidateID); err == nil {
		return models.Application{}, domerrors.New(domerrors.CodeConflict, "you have already applied to this job")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return models.Application{}, domerrors.Wrap(err, domerrors.CodeInternal, "failed to check existing application")
	}

	app := models.Application{
		ID:                domain.NewApplicationID(),
		JobID:             in.JobID,
		CandidateID:       in.CandidateID,
		Status:            models.StatusPending,
		ApplicantName:     in.Name,
		ApplicantEmail:    contact.NormalizeEmail(in.Email),
		ApplicantPhone:    contact.NormalizePhone(in.Phone),
		ApplicantLinkedIn: in.LinkedIn,
		CoverLetter:       in.CoverLetter,
		ResumeURL:         in.ResumeURL,
		ExpectedSalary:    in.ExpectedSalary,
		NoticePeriod:      in.NoticePeriod,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = e.deps.Tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := e.deps.Applications.Create(ctx, app); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return domerrors.New(domerrors.CodeConflict, "you have already applied to this job")
			}
			return domerrors.Wrap(err, domerrors.CodeInternal, "failed to create application")
		}
		if err := e.deps.Jobs.IncrementApplicants(ctx, in.JobID); err != nil {
			return domerrors.Wrap(err, domerrors.CodeInternal, "failed to update applicant counter")
		}
		return nil
	})
	if err != nil {
		return models.Application{}, err
	}

	e.deps.Metrics.ApplicationsCreated.Inc()
	e.deps.Audit.Emit(ctx, audit.Event{
		Action:        audit.EventApplicationCreated,
		ApplicationID: app.ID,
		JobID:         app.JobID,
		ActorID:       actor,
		ToStatus:      string(app.Status),
	})
	e.fanOutAfterCreate(ctx, app, posting)

	return app, nil
}

// CreateAnonymous provisions an identity and submits an application in one
// transaction. Any failure before commit leaves zero rows behind.
func (e *Engine) CreateAnonymous(ctx context.Context, in AnonymousInput) (models.Application, CredentialBundle, error) {
	now := requestcontext.Now(ctx)

	if in.Email != "" && !contact.ValidEmail(in.Email) {
		return models.Application{}, CredentialBundle{}, domerrors.New(domerrors.CodeValidation, "email address is malformed")
	}
	phone := contact.NormalizePhone(in.Phone)
	if in.Phone != "" && !contact.ValidPhone(phone) {
		return models.Application{}, CredentialBundle{}, domerrors.New(domerrors.CodeValidation, "phone number is malformed")
	}

	var (
		app     models.Application
		posting job.Job
		result  identity.ProvisionResult
	)
	err := e.deps.Tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		posting, err = e.deps.Jobs.FindByID(ctx, in.JobID)
		if err != nil {
			return mapStoreErr(err, "job not found")
		}
		if err := acceptingErr(posting, now); err != nil {
			return err
		}

		result, err = e.deps.Provisioner.Provision(ctx, identity.ProvisionInput{
			Email:     in.Email,
			Name:      in.Name,
			Phone:     phone,
			ResumeURL: in.ResumeURL,
			LinkedIn:  in.LinkedIn,
		})
		if err != nil {
			return err
		}

		app = models.Application{
			ID:                domain.NewApplicationID(),
			JobID:             in.JobID,
			CandidateID:       result.UserID,
			Status:            models.StatusPending,
			ApplicantName:     in.Name,
			ApplicantEmail:    result.Email,
			ApplicantPhone:    result.Phone,
			ApplicantLinkedIn: in.LinkedIn,
			CoverLetter:       in.CoverLetter,
			ResumeURL:         in.ResumeURL,
			ExpectedSalary:    in.ExpectedSalary,
			NoticePeriod:      in.NoticePeriod,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := e.deps.Applications.Create(ctx, app); err != nil {
			return mapStoreErr(err, "application not found")
		}
		if err := e.deps.Jobs.IncrementApplicants(ctx, in.JobID); err != nil {
			return domerrors.Wrap(err, domerrors.CodeInternal, "failed to update applicant counter")
		}
		return nil
	})
	if err != nil {
		return models.Application{}, CredentialBundle{}, err
	}

	e.deps.Metrics.ApplicationsCreated.Inc()
	e.deps.Metrics.AnonymousOnboardings.Inc()
	e.deps.Audit.Emit(ctx, audit.Event{
		Action:        audit.EventApplicationAnonymous,
		ApplicationID: app.ID,
		JobID:         app.JobID,
		ActorID:       result.UserID,
		ToStatus:      string(app.Status),
	})

	bundle := CredentialBundle{Email: result.Email, Password: result.Password}
	sess, err := e.deps.Sessions.Issue(ctx, result.UserID)
	if err != nil {
		// The application is committed; a missing session token only means
		// the applicant logs in manually with the delivered credentials.
		e.deps.Logger.ErrorContext(ctx, "failed to issue session for anonymous applicant",
			"user_id", result.UserID.String(), "error", err)
	} else {
		bundle.Token = sess.Token
	}

	if contact.Usable(result.Phone) {
		password := result.Password
		e.deps.Runner.Go(ctx, "send_credentials", func(ctx context.Context) error {
			return e.deps.Messenger.SendTemplate(ctx, result.Phone, notify.TemplateCredentials, map[string]string{
				"email":    result.Email,
				"password": password,
			})
		})
	}
	e.fanOutAfterCreate(ctx, app, posting)

	// Reload so the response reflects exactly what was committed.
	fresh, err := e.deps.Applications.FindByID(ctx, app.ID)
	if err == nil {
		app = fresh
	}

	return app, bundle, nil
}

// fanOutAfterCreate launches the post-commit side effects shared by both
// create paths: staff notification, and the analysis trigger when a resume
// was supplied.
func (e *Engine) fanOutAfterCreate(ctx context.Context, app models.Application, posting job.Job) {
	e.deps.Runner.Go(ctx, "notify_staff", func(ctx context.Context) error {
		return e.deps.Staff.NotifyJobStaff(ctx, app.JobID,
			"New application received",
			"A new application was submitted for "+posting.Title+".",
			map[string]string{"application_id": app.ID.String()},
		)
	})

	if app.ResumeURL == "" {
		return
	}
	req := analysis.TriggerRequest{
		ApplicationID: app.ID,
		CandidateID:   app.CandidateID,
		JobID:         app.JobID,
		ResumeURL:     app.ResumeURL,
		CallbackURL:   e.deps.AnalysisCallbackURL,
	}
	e.deps.Runner.Go(ctx, "trigger_analysis", func(ctx context.Context) error {
		return e.deps.Analyzer.TriggerAnalysis(ctx, req)
	})
}

// acceptingErr converts job validity sentinels into caller-facing errors.
func acceptingErr(posting job.Job, now time.Time) error {
	switch err := posting.Accepting(now); {
	case err == nil:
		return nil
	case errors.Is(err, job.ErrDeadlinePassed):
		return domerrors.New(domerrors.CodeConflict, "the application deadline for this job has passed")
	case errors.Is(err, job.ErrUnavailable):
		return domerrors.New(domerrors.CodeConflict, "this job is no longer accepting applications")
	default:
		return domerrors.Wrap(err, domerrors.CodeInternal, "failed to check job availability")
	}
}
