package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentgate/pkg/domain"
	"talentgate/pkg/requestcontext"
)

type failingSink struct {
	calls int
}

func (s *failingSink) Publish(context.Context, Event) error {
	s.calls++
	return errors.New("broker unavailable")
}

func TestPublisher_EmitDefaultsTimestampAndRequestID(t *testing.T) {
	store := NewMemory()
	pub := NewPublisher(store, nil, slog.New(slog.DiscardHandler))

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	ctx = requestcontext.WithRequestID(ctx, "req-123")

	appID := domain.NewApplicationID()
	pub.Emit(ctx, Event{Action: EventApplicationCreated, ApplicationID: appID})

	events := store.All()
	require.Len(t, events, 1)
	assert.Equal(t, now, events[0].Timestamp)
	assert.Equal(t, "req-123", events[0].RequestID)
	assert.Equal(t, EventApplicationCreated, events[0].Action)
}

func TestPublisher_SinkFailureDoesNotDropStoreAppend(t *testing.T) {
	store := NewMemory()
	sink := &failingSink{}
	pub := NewPublisher(store, sink, slog.New(slog.DiscardHandler))

	pub.Emit(context.Background(), Event{Action: EventStatusChanged, ApplicationID: domain.NewApplicationID()})

	assert.Equal(t, 1, sink.calls)
	assert.Len(t, store.All(), 1)
}

func TestMemoryStore_ListByApplication(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	target := domain.NewApplicationID()

	require.NoError(t, store.Append(ctx, Event{Action: EventApplicationCreated, ApplicationID: target}))
	require.NoError(t, store.Append(ctx, Event{Action: EventStatusChanged, ApplicationID: domain.NewApplicationID()}))
	require.NoError(t, store.Append(ctx, Event{Action: EventStatusChanged, ApplicationID: target}))

	events, err := store.ListByApplication(ctx, target)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, EventApplicationCreated, events[0].Action)
	assert.Equal(t, EventStatusChanged, events[1].Action)
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (s *recordingSink) Publish(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestWorker_DrainsQueueIntoSink(t *testing.T) {
	queue := NewChannelSink(4)
	sink := &recordingSink{}
	worker := NewWorker(sink, queue.Events(), slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	require.NoError(t, queue.Publish(ctx, Event{Action: EventApplicationCreated, ApplicationID: domain.NewApplicationID()}))
	require.NoError(t, queue.Publish(ctx, Event{Action: EventApplicationRemoved, ApplicationID: domain.NewApplicationID()}))

	assert.Eventually(t, func() bool { return sink.Count() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestChannelSink_FullQueueDoesNotBlock(t *testing.T) {
	queue := NewChannelSink(1)
	ctx := context.Background()

	require.NoError(t, queue.Publish(ctx, Event{Action: EventStatusChanged}))
	err := queue.Publish(ctx, Event{Action: EventStatusChanged})
	require.Error(t, err)
}
