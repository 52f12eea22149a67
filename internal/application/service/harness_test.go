package service_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"talentgate/internal/analysis"
	"talentgate/internal/application/models"
	"talentgate/internal/application/service"
	appstore "talentgate/internal/application/store"
	"talentgate/internal/audit"
	"talentgate/internal/identity"
	"talentgate/internal/job"
	"talentgate/internal/platform/metrics"
	"talentgate/internal/room"
	"talentgate/internal/session"
	"talentgate/internal/sideeffect"
	"talentgate/pkg/domain"
	"talentgate/pkg/requestcontext"
)

var fixedNow = time.Date(2026, 5, 20, 10, 30, 0, 0, time.UTC)

// passTx runs the closure directly; the memory stores have no transactions.
type passTx struct{}

func (passTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubOwnership struct {
	accessErr   error
	elevatedErr error
}

func (s *stubOwnership) VerifyApplicationAccess(context.Context, models.Application, domain.UserID) error {
	return s.accessErr
}

func (s *stubOwnership) VerifyElevatedRole(context.Context, domain.UserID, domain.JobID) error {
	return s.elevatedErr
}

type notifyCall struct {
	UserID domain.UserID
	Title  string
	Body   string
	Meta   map[string]string
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
	err   error
}

func (n *recordingNotifier) Notify(_ context.Context, userID domain.UserID, title, body string, meta map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifyCall{UserID: userID, Title: title, Body: body, Meta: meta})
	return n.err
}

func (n *recordingNotifier) Calls() []notifyCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notifyCall(nil), n.calls...)
}

type messageCall struct {
	Phone    string
	Template string
	Params   map[string]string
}

type recordingMessenger struct {
	mu    sync.Mutex
	calls []messageCall
	err   error
}

func (m *recordingMessenger) SendTemplate(_ context.Context, phone, template string, params map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, messageCall{Phone: phone, Template: template, Params: params})
	return m.err
}

func (m *recordingMessenger) Calls() []messageCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]messageCall(nil), m.calls...)
}

type recordingStaff struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *recordingStaff) NotifyJobStaff(context.Context, domain.JobID, string, string, map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.err
}

func (s *recordingStaff) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type recordingTrigger struct {
	mu   sync.Mutex
	reqs []analysis.TriggerRequest
	err  error
}

func (t *recordingTrigger) TriggerAnalysis(_ context.Context, req analysis.TriggerRequest) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reqs = append(t.reqs, req)
	return t.err
}

func (t *recordingTrigger) Requests() []analysis.TriggerRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]analysis.TriggerRequest(nil), t.reqs...)
}

type stubRooms struct {
	mu    sync.Mutex
	room  room.Room
	err   error
	calls int
}

func (r *stubRooms) CreateRoom(_ context.Context, name string, _ map[string]string, _, _ string) (room.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return room.Room{}, r.err
	}
	created := r.room
	if created.Name == "" {
		created.Name = name
	}
	return created, nil
}

func (r *stubRooms) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type fixture struct {
	apps      *appstore.MemoryStore
	notes     *appstore.MemoryNoteStore
	jobs      *job.MemoryStore
	users     *identity.MemoryUserStore
	profiles  *identity.MemoryProfileStore
	auditLog  *audit.MemoryStore
	notifier  *recordingNotifier
	staff     *recordingStaff
	messenger *recordingMessenger
	analyzer  *recordingTrigger
	rooms     *stubRooms
	ownership *stubOwnership
	runner    *sideeffect.Runner
	engine    *service.Engine
}

// newFixture wires the engine against memory stores and recording fakes.
// mutate, when non-nil, adjusts the deps before construction (e.g. to swap
// in a race-simulating store).
func newFixture(t *testing.T, mutate func(*service.Deps)) *fixture {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	f := &fixture{
		apps:      appstore.NewMemory(),
		notes:     appstore.NewMemoryNotes(),
		jobs:      job.NewMemory(),
		users:     identity.NewMemoryUsers(),
		profiles:  identity.NewMemoryProfiles(),
		auditLog:  audit.NewMemory(),
		notifier:  &recordingNotifier{},
		staff:     &recordingStaff{},
		messenger: &recordingMessenger{},
		analyzer:  &recordingTrigger{},
		rooms:     &stubRooms{room: room.Room{URL: "https://rooms.example/abc", Token: "join-token"}},
		ownership: &stubOwnership{},
	}
	f.runner = sideeffect.NewRunner(logger, metrics.NewForTest(), time.Second)

	deps := service.Deps{
		Applications:        f.apps,
		Notes:               f.notes,
		Jobs:                f.jobs,
		Users:               f.users,
		Profiles:            f.profiles,
		Provisioner:         identity.NewProvisioner(f.users, f.profiles, logger),
		Sessions:            session.NewJWTIssuer("test-key", "talentgate-test", time.Hour, session.NewMemory()),
		Ownership:           f.ownership,
		Notifier:            f.notifier,
		Staff:               f.staff,
		Messenger:           f.messenger,
		Analyzer:            f.analyzer,
		Rooms:               f.rooms,
		Audit:               audit.NewPublisher(f.auditLog, nil, logger),
		Runner:              f.runner,
		Metrics:             metrics.NewForTest(),
		Logger:              logger,
		Tx:                  passTx{},
		AnalysisCallbackURL: "https://api.example/callbacks/analysis",
	}
	if mutate != nil {
		mutate(&deps)
	}
	f.engine = service.New(deps)
	return f
}

// seedJob stores an open posting and returns it.
func (f *fixture) seedJob(t *testing.T, j job.Job) job.Job {
	t.Helper()
	if j.ID.IsNil() {
		j.ID = domain.NewJobID()
	}
	if j.Status == "" {
		j.Status = job.StatusOpen
	}
	if j.Title == "" {
		j.Title = "Backend Engineer"
	}
	if err := f.jobs.Create(context.Background(), j); err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return j
}

// testCtx pins the clock and optionally the acting user.
func testCtx(actor domain.UserID) context.Context {
	ctx := requestcontext.WithTime(context.Background(), fixedNow)
	ctx = requestcontext.WithRequestID(ctx, "test-request")
	if !actor.IsNil() {
		ctx = requestcontext.WithUserID(ctx, actor)
	}
	return ctx
}

// auditActions flattens the recorded audit log for assertions.
func (f *fixture) auditActions() []audit.Action {
	events := f.auditLog.All()
	actions := make([]audit.Action, 0, len(events))
	for _, e := range events {
		actions = append(actions, e.Action)
	}
	return actions
}
