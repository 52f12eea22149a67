package service

import (
	"context"

	"talentgate/internal/audit"
	"talentgate/pkg/domain"
	"talentgate/pkg/requestcontext"
)

// Remove hard-deletes an application. Authorization-gated and audited;
// reports whether a row was actually removed so idempotent retries can tell
// the difference.
func (e *Engine) Remove(ctx context.Context, id domain.ApplicationID) (bool, error) {
	app, err := e.deps.Applications.FindByID(ctx, id)
	if err != nil {
		return false, mapStoreErr(err, "application not found")
	}

	actor := requestcontext.UserID(ctx)
	if !actor.IsNil() {
		if err := e.deps.Ownership.VerifyApplicationAccess(ctx, app, actor); err != nil {
			return false, err
		}
	}

	var removed bool
	err = e.deps.Tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		removed, err = e.deps.Applications.Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, mapStoreErr(err, "application not found")
	}

	if removed {
		e.deps.Audit.Emit(ctx, audit.Event{
			Action:        audit.EventApplicationRemoved,
			ApplicationID: id,
			JobID:         app.JobID,
			ActorID:       actor,
			FromStatus:    string(app.Status),
		})
	}
	return removed, nil
}
