// Package audit captures structured audit events for lifecycle mutations.
// The publisher is an explicit dependency handed to the engine at
// construction; there is no global audit state.
package audit

import (
	"context"
	"log/slog"

	"talentgate/pkg/requestcontext"
)

// Publisher appends events to a store and optionally mirrors them to a sink
// (e.g. Kafka). Audit emission is best-effort: a failing store or sink is
// logged, never surfaced to the lifecycle operation that emitted the event.
type Publisher struct {
	store  Store
	sink   Sink
	logger *slog.Logger
}

// Sink receives a copy of every event for out-of-process consumers.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

func NewPublisher(store Store, sink Sink, logger *slog.Logger) *Publisher {
	return &Publisher{store: store, sink: sink, logger: logger}
}

func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	if err := p.store.Append(ctx, event); err != nil {
		p.logger.ErrorContext(ctx, "failed to append audit event",
			"action", string(event.Action),
			"application_id", event.ApplicationID.String(),
			"error", err,
		)
	}
	if p.sink != nil {
		if err := p.sink.Publish(ctx, event); err != nil {
			p.logger.ErrorContext(ctx, "failed to publish audit event",
				"action", string(event.Action),
				"error", err,
			)
		}
	}
}
