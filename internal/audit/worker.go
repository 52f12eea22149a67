package audit

import (
	"context"
	"errors"
	"log/slog"
)

// ChannelSink enqueues events for asynchronous delivery; a Worker drains the
// queue into the real sink. This keeps slow producers (Kafka) off the
// request path. A full queue drops the event rather than blocking.
type ChannelSink struct {
	ch chan Event
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 256
	}
	return &ChannelSink{ch: make(chan Event, buffer)}
}

func (s *ChannelSink) Publish(_ context.Context, event Event) error {
	select {
	case s.ch <- event:
		return nil
	default:
		return errors.New("audit queue full")
	}
}

// Events exposes the queue to a Worker.
func (s *ChannelSink) Events() <-chan Event {
	return s.ch
}

// Worker forwards queued audit events to a sink. Delivery failures are
// logged and the worker keeps running; audit mirroring is best-effort.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Publish(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to deliver audit event",
					"action", string(event.Action), "error", err)
			}
		}
	}
}
