package main

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"talentgate/pkg/domerrors"
	"talentgate/pkg/platform/tx"
)

// sqlTxRunner implements the engine's transaction boundary over
// database/sql. The transaction is carried in the context; stores resolve
// against it. Duration is bounded so a slow lifecycle operation cannot hold
// a database transaction open indefinitely.
type sqlTxRunner struct {
	db      *sql.DB
	timeout time.Duration
}

func (r sqlTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	txCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	sqlTx, err := r.db.BeginTx(txCtx, nil)
	if err != nil {
		return domerrors.Wrap(err, domerrors.CodeInternal, "failed to begin transaction")
	}

	committed := false
	defer func() {
		if !committed {
			_ = sqlTx.Rollback()
		}
	}()

	if err := fn(tx.WithTx(txCtx, sqlTx)); err != nil {
		if errors.Is(txCtx.Err(), context.DeadlineExceeded) {
			return domerrors.Wrap(err, domerrors.CodeTimeout, "transaction deadline exceeded")
		}
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return domerrors.Wrap(err, domerrors.CodeInternal, "failed to commit transaction")
	}
	committed = true
	return nil
}

// memTxRunner backs the in-memory wiring used for local development; the
// memory stores apply writes directly.
type memTxRunner struct{}

func (memTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
