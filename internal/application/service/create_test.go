package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentgate/internal/application/models"
	"talentgate/internal/application/service"
	"talentgate/internal/audit"
	"talentgate/internal/job"
	"talentgate/internal/notify"
	"talentgate/pkg/contact"
	"talentgate/pkg/domain"
	"talentgate/pkg/domerrors"
)

func TestCreate_HappyPath(t *testing.T) {
	f := newFixture(t, nil)
	posting := f.seedJob(t, job.Job{})
	candidate := domain.NewUserID()

	app, err := f.engine.Create(testCtx(candidate), service.CreateInput{
		JobID:       posting.ID,
		CandidateID: candidate,
		Name:        "Dana Reyes",
		Email:       "Dana.Reyes@Example.com",
		ResumeURL:   "https://cdn.example/cv/dana.pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, app.Status)
	assert.Equal(t, "dana.reyes@example.com", app.ApplicantEmail)
	assert.Equal(t, fixedNow, app.CreatedAt)

	stored, err := f.jobs.FindByID(context.Background(), posting.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Applicants)

	f.runner.Wait()
	require.Len(t, f.analyzer.Requests(), 1)
	req := f.analyzer.Requests()[0]
	assert.Equal(t, app.ID, req.ApplicationID)
	assert.Equal(t, "https://api.example/callbacks/analysis", req.CallbackURL)
	assert.Equal(t, 1, f.staff.Calls())
	assert.Equal(t, []audit.Action{audit.EventApplicationCreated}, f.auditActions())
}

func TestCreate_DuplicateApplicationConflict(t *testing.T) {
	f := newFixture(t, nil)
	posting := f.seedJob(t, job.Job{})
	candidate := domain.NewUserID()
	in := service.CreateInput{JobID: posting.ID, CandidateID: candidate, Name: "Dana Reyes"}

	_, err := f.engine.Create(testCtx(candidate), in)
	require.NoError(t, err)

	_, err = f.engine.Create(testCtx(candidate), in)
	require.Error(t, err)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeConflict))

	apps, err := f.apps.ListByCandidate(context.Background(), candidate, 10, 0)
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}

func TestCreate_OnBehalfRequiresElevatedRole(t *testing.T) {
	f := newFixture(t, nil)
	f.ownership.elevatedErr = domerrors.New(domerrors.CodeForbidden, "staff role required")
	posting := f.seedJob(t, job.Job{})

	_, err := f.engine.Create(testCtx(domain.NewUserID()), service.CreateInput{
		JobID:       posting.ID,
		CandidateID: domain.NewUserID(),
	})
	require.Error(t, err)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeForbidden))
}

func TestCreate_WithoutResumeSkipsAnalysis(t *testing.T) {
	f := newFixture(t, nil)
	posting := f.seedJob(t, job.Job{})
	candidate := domain.NewUserID()

	_, err := f.engine.Create(testCtx(candidate), service.CreateInput{
		JobID:       posting.ID,
		CandidateID: candidate,
	})
	require.NoError(t, err)

	f.runner.Wait()
	assert.Empty(t, f.analyzer.Requests())
	assert.Equal(t, 1, f.staff.Calls())
}

func TestCreateAnonymous_HappyPathWithPlaceholders(t *testing.T) {
	f := newFixture(t, nil)
	posting := f.seedJob(t, job.Job{})

	app, bundle, err := f.engine.CreateAnonymous(testCtx(domain.UserID{}), service.AnonymousInput{
		JobID:     posting.ID,
		ResumeURL: "https://cdn.example/cv/anon.pdf",
	})
	require.NoError(t, err)

	assert.True(t, contact.IsPlaceholderEmail(app.ApplicantEmail))
	assert.True(t, contact.IsPlaceholderPhone(app.ApplicantPhone))
	assert.Equal(t, models.StatusPending, app.Status)
	assert.False(t, app.CandidateID.IsNil())

	assert.Equal(t, app.ApplicantEmail, bundle.Email)
	assert.NotEmpty(t, bundle.Password)
	assert.NotEmpty(t, bundle.Token)

	assert.Equal(t, 1, f.users.Len())
	assert.Equal(t, 1, f.profiles.Len())
	stored, err := f.jobs.FindByID(context.Background(), posting.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Applicants)

	f.runner.Wait()
	// Placeholder phone is not messageable, so no credential SMS goes out.
	assert.Empty(t, f.messenger.Calls())
	assert.Len(t, f.analyzer.Requests(), 1)
	assert.Equal(t, 1, f.staff.Calls())
	assert.Equal(t, []audit.Action{audit.EventApplicationAnonymous}, f.auditActions())
}

func TestCreateAnonymous_SendsCredentialsToUsablePhone(t *testing.T) {
	f := newFixture(t, nil)
	posting := f.seedJob(t, job.Job{})

	_, bundle, err := f.engine.CreateAnonymous(testCtx(domain.UserID{}), service.AnonymousInput{
		JobID: posting.ID,
		Email: "casey@example.com",
		Phone: "+1 (202) 555-0147",
	})
	require.NoError(t, err)

	f.runner.Wait()
	calls := f.messenger.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "+12025550147", calls[0].Phone)
	assert.Equal(t, notify.TemplateCredentials, calls[0].Template)
	assert.Equal(t, bundle.Password, calls[0].Params["password"])
}

func TestCreateAnonymous_DuplicateEmailLeavesNothingBehind(t *testing.T) {
	f := newFixture(t, nil)
	posting := f.seedJob(t, job.Job{})

	_, _, err := f.engine.CreateAnonymous(testCtx(domain.UserID{}), service.AnonymousInput{
		JobID: posting.ID,
		Email: "taken@example.com",
	})
	require.NoError(t, err)

	_, _, err = f.engine.CreateAnonymous(testCtx(domain.UserID{}), service.AnonymousInput{
		JobID: posting.ID,
		Email: "taken@example.com",
	})
	require.Error(t, err)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeConflict))
	assert.EqualError(t, err, "an account with this email already exists, please log in")

	// Exactly the first submission's rows survive.
	assert.Equal(t, 1, f.users.Len())
	assert.Equal(t, 1, f.profiles.Len())
	stored, err := f.jobs.FindByID(context.Background(), posting.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Applicants)
}

func TestCreateAnonymous_DeadlinePassed(t *testing.T) {
	f := newFixture(t, nil)
	posting := f.seedJob(t, job.Job{Deadline: fixedNow.Add(-time.Hour)})

	_, _, err := f.engine.CreateAnonymous(testCtx(domain.UserID{}), service.AnonymousInput{
		JobID: posting.ID,
		Email: "late@example.com",
	})
	require.Error(t, err)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeConflict))

	assert.Equal(t, 0, f.users.Len())
	assert.Equal(t, 0, f.profiles.Len())
	stored, err := f.jobs.FindByID(context.Background(), posting.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Applicants)
}

func TestCreateAnonymous_ClosedJobRejected(t *testing.T) {
	f := newFixture(t, nil)
	posting := f.seedJob(t, job.Job{Status: job.StatusClosed})

	_, _, err := f.engine.CreateAnonymous(testCtx(domain.UserID{}), service.AnonymousInput{JobID: posting.ID})
	require.Error(t, err)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeConflict))
}

func TestCreateAnonymous_MalformedContactRejected(t *testing.T) {
	f := newFixture(t, nil)
	posting := f.seedJob(t, job.Job{})

	_, _, err := f.engine.CreateAnonymous(testCtx(domain.UserID{}), service.AnonymousInput{
		JobID: posting.ID,
		Email: "not-an-email",
	})
	require.Error(t, err)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeValidation))

	_, _, err = f.engine.CreateAnonymous(testCtx(domain.UserID{}), service.AnonymousInput{
		JobID: posting.ID,
		Phone: "0012",
	})
	require.Error(t, err)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeValidation))
}

func TestCreateAnonymous_UnknownJob(t *testing.T) {
	f := newFixture(t, nil)

	_, _, err := f.engine.CreateAnonymous(testCtx(domain.UserID{}), service.AnonymousInput{JobID: domain.NewJobID()})
	require.Error(t, err)
	assert.True(t, domerrors.HasCode(err, domerrors.CodeNotFound))
}
