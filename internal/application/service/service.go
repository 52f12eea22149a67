// Package service implements the application lifecycle engine: create,
// anonymous create, status transitions, the analysis callback, removal and
// staff notes. It owns the transaction boundary and hands every post-commit
// side effect to the sideeffect runner so external failures never touch
// committed state.
package service

import (
	"context"
	"errors"
	"log/slog"

	"talentgate/internal/analysis"
	"talentgate/internal/application/models"
	"talentgate/internal/application/store"
	"talentgate/internal/audit"
	"talentgate/internal/identity"
	"talentgate/internal/job"
	"talentgate/internal/notify"
	"talentgate/internal/platform/metrics"
	"talentgate/internal/room"
	"talentgate/internal/session"
	"talentgate/internal/sideeffect"
	"talentgate/pkg/domain"
	"talentgate/pkg/domerrors"
	"talentgate/pkg/platform/sentinel"
)

// TxRunner executes fn inside a storage transaction. The transaction travels
// in fn's context; stores resolve against it. Implemented by cmd/server for
// postgres and by a passthrough in tests.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// OwnershipChecker decides whether an acting user may touch an application.
// Membership resolution is external to the engine.
type OwnershipChecker interface {
	// VerifyApplicationAccess permits the candidate themselves or staff of
	// the job's owning organization.
	VerifyApplicationAccess(ctx context.Context, app models.Application, actingUserID domain.UserID) error
	// VerifyElevatedRole permits organization staff or system callers to
	// submit applications on behalf of another candidate.
	VerifyElevatedRole(ctx context.Context, actingUserID domain.UserID, jobID domain.JobID) error
}

// Deps wires the engine's collaborators. All are required unless noted.
type Deps struct {
	Applications store.Store
	Notes        store.NoteStore
	Jobs         job.Store
	Users        identity.UserStore
	Profiles     identity.ProfileStore
	Provisioner  *identity.Provisioner
	Sessions     session.Issuer
	Ownership    OwnershipChecker
	Notifier     notify.Notifier
	Staff        notify.StaffNotifier
	Messenger    notify.Messenger
	Analyzer     analysis.Trigger
	Rooms        room.Provisioner
	Audit        *audit.Publisher
	Runner       *sideeffect.Runner
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
	Tx           TxRunner

	// AnalysisCallbackURL is handed to the external analyzer so it can
	// report results back to this service.
	AnalysisCallbackURL string
}

// Engine is the application lifecycle engine.
type Engine struct {
	deps Deps
}

func New(deps Deps) *Engine {
	return &Engine{deps: deps}
}

// Get loads one application.
func (e *Engine) Get(ctx context.Context, id domain.ApplicationID) (models.Application, error) {
	app, err := e.deps.Applications.FindByID(ctx, id)
	if err != nil {
		return models.Application{}, mapStoreErr(err, "application not found")
	}
	return app, nil
}

// ListByJob returns a page of applications for one posting.
func (e *Engine) ListByJob(ctx context.Context, jobID domain.JobID, limit, offset int) ([]models.Application, error) {
	apps, err := e.deps.Applications.ListByJob(ctx, jobID, limit, offset)
	if err != nil {
		return nil, domerrors.Wrap(err, domerrors.CodeInternal, "failed to list applications")
	}
	return apps, nil
}

// ListByCandidate returns a page of one candidate's applications.
func (e *Engine) ListByCandidate(ctx context.Context, candidateID domain.UserID, limit, offset int) ([]models.Application, error) {
	apps, err := e.deps.Applications.ListByCandidate(ctx, candidateID, limit, offset)
	if err != nil {
		return nil, domerrors.Wrap(err, domerrors.CodeInternal, "failed to list applications")
	}
	return apps, nil
}

// mapStoreErr translates a store sentinel into a coded domain error.
func mapStoreErr(err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return domerrors.New(domerrors.CodeNotFound, notFoundMsg)
	case errors.Is(err, sentinel.ErrConflict):
		return domerrors.Wrap(err, domerrors.CodeConflict, "conflicting write")
	default:
		return domerrors.Wrap(err, domerrors.CodeInternal, "storage failure")
	}
}
