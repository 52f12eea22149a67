// Package sideeffect runs post-commit side effects. The contract - don't
// block the caller, don't fail the caller, don't lose the error - is enforced
// structurally here instead of relying on call sites to remember it.
package sideeffect

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"talentgate/internal/platform/metrics"
	"talentgate/pkg/requestcontext"
)

// Runner launches fire-and-forget tasks. Each task gets a detached context
// that keeps request-scoped values (request ID, injected clock) but not the
// request's cancelation, so an already-answered HTTP request can't cancel its
// own side effects.
type Runner struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewRunner(logger *slog.Logger, m *metrics.Metrics, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Runner{logger: logger, metrics: m, timeout: timeout}
}

// Go runs fn in the background. Failures and panics are logged and counted,
// never propagated.
func (r *Runner) Go(ctx context.Context, task string, fn func(ctx context.Context) error) {
	detached := detach(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		runCtx, cancel := context.WithTimeout(detached, r.timeout)
		defer cancel()

		defer func() {
			if rec := recover(); rec != nil {
				r.metrics.SideEffectFailures.WithLabelValues(task).Inc()
				r.logger.ErrorContext(runCtx, "side effect panicked",
					"task", task,
					"panic", rec,
					"request_id", requestcontext.RequestID(runCtx),
				)
			}
		}()

		if err := fn(runCtx); err != nil {
			r.metrics.SideEffectFailures.WithLabelValues(task).Inc()
			r.logger.ErrorContext(runCtx, "side effect failed",
				"task", task,
				"error", err,
				"request_id", requestcontext.RequestID(runCtx),
			)
		}
	}()
}

// Wait blocks until all launched tasks have finished. Used by shutdown and by
// tests that assert on side-effect outcomes.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// detachedCtx carries values from its parent but no deadline or cancelation.
type detachedCtx struct {
	context.Context
}

func (detachedCtx) Deadline() (time.Time, bool) { return time.Time{}, false }
func (detachedCtx) Done() <-chan struct{}       { return nil }
func (detachedCtx) Err() error                  { return nil }

func detach(ctx context.Context) context.Context {
	return detachedCtx{ctx}
}
