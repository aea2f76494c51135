package crmsync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"staffing_ops_backend/internal/crmsync/repository"
	"staffing_ops_backend/internal/events"
	"staffing_ops_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	mu            sync.Mutex
	latest        *repository.SyncRun
	latestErr     error
	openVacancies []uuid.UUID
	listErr       error
	failVacancies map[uuid.UUID]bool
	recomputed    []uuid.UUID
}

func (f *fakeRepo) LatestCompletedSyncRun(ctx context.Context) (*repository.SyncRun, error) {
	return f.latest, f.latestErr
}

func (f *fakeRepo) RecentSyncRuns(ctx context.Context, limit int) ([]repository.SyncRun, error) {
	return nil, nil
}

func (f *fakeRepo) CreateSyncRun(ctx context.Context) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (f *fakeRepo) FinishSyncRun(ctx context.Context, id uuid.UUID, status string) error {
	return nil
}

func (f *fakeRepo) ListOpenVacancyIDs(ctx context.Context) ([]uuid.UUID, error) {
	return f.openVacancies, f.listErr
}

func (f *fakeRepo) RecomputeVacancyMatches(ctx context.Context, vacancyID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failVacancies[vacancyID] {
		return errors.New("recompute failed")
	}
	f.recomputed = append(f.recomputed, vacancyID)
	return nil
}

type fakeConnector struct {
	mu    sync.Mutex
	calls int
	err   error
	done  chan struct{}
}

func (f *fakeConnector) RunFullSync(ctx context.Context) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.done != nil {
		close(f.done)
	}
	return f.err
}

func (f *fakeConnector) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeScanner struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeScanner) ScanClients(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return nil
}

func (f *fakeScanner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(eventName string, handler events.Handler) {}

func (b *recordingBus) byName(name string) []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var matched []events.Event
	for _, e := range b.events {
		if e.EventName() == name {
			matched = append(matched, e)
		}
	}
	return matched
}

func newTestOrchestrator(repo *fakeRepo, conn *fakeConnector, scan *fakeScanner, bus events.Bus) *Orchestrator {
	return NewOrchestrator(repo, conn, scan, bus, logger.New("test"))
}

func TestStartupSyncSkipsWhenAlreadyCompletedToday(t *testing.T) {
	now := time.Date(2026, time.August, 30, 9, 0, 0, 0, time.UTC)
	completedAt := time.Date(2026, time.August, 30, 3, 0, 0, 0, time.UTC)
	repo := &fakeRepo{latest: &repository.SyncRun{
		ID:          uuid.New(),
		Status:      repository.StatusCompleted,
		CompletedAt: &completedAt,
	}}
	conn := &fakeConnector{}
	orch := newTestOrchestrator(repo, conn, &fakeScanner{}, &recordingBus{})

	orch.TriggerStartupSync(context.Background(), now)
	orch.TriggerStartupSync(context.Background(), now)

	// Give a stray goroutine time to surface if the skip logic were broken.
	time.Sleep(50 * time.Millisecond)
	if conn.callCount() != 0 {
		t.Fatalf("expected no sync when already completed today, got %d calls", conn.callCount())
	}
}

func TestStartupSyncRunsWhenLastCompletionWasYesterday(t *testing.T) {
	now := time.Date(2026, time.August, 30, 9, 0, 0, 0, time.UTC)
	completedAt := time.Date(2026, time.August, 29, 23, 0, 0, 0, time.UTC)
	repo := &fakeRepo{latest: &repository.SyncRun{
		ID:          uuid.New(),
		Status:      repository.StatusCompleted,
		CompletedAt: &completedAt,
	}}
	conn := &fakeConnector{done: make(chan struct{})}
	orch := newTestOrchestrator(repo, conn, &fakeScanner{}, &recordingBus{})

	orch.TriggerStartupSync(context.Background(), now)

	select {
	case <-conn.done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected sync to start for a new calendar day")
	}
}

func TestStartupSyncDoesNotRunWhenLookupFails(t *testing.T) {
	repo := &fakeRepo{latestErr: errors.New("db unavailable")}
	conn := &fakeConnector{}
	orch := newTestOrchestrator(repo, conn, &fakeScanner{}, &recordingBus{})

	orch.TriggerStartupSync(context.Background(), time.Now())

	time.Sleep(50 * time.Millisecond)
	if conn.callCount() != 0 {
		t.Fatalf("expected no sync when state is ambiguous, got %d calls", conn.callCount())
	}
}

func TestRunFullSyncIsolatesPerVacancyFailures(t *testing.T) {
	good1, bad, good2 := uuid.New(), uuid.New(), uuid.New()
	repo := &fakeRepo{
		openVacancies: []uuid.UUID{good1, bad, good2},
		failVacancies: map[uuid.UUID]bool{bad: true},
	}
	scanner := &fakeScanner{}
	bus := &recordingBus{}
	orch := newTestOrchestrator(repo, &fakeConnector{}, scanner, bus)

	if err := orch.RunFullSync(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.recomputed) != 2 {
		t.Fatalf("expected 2 recomputed vacancies, got %d", len(repo.recomputed))
	}
	if scanner.callCount() != 1 {
		t.Fatalf("expected one completeness scan, got %d", scanner.callCount())
	}

	recomputedEvents := bus.byName("crm.matches.recomputed")
	if len(recomputedEvents) != 1 {
		t.Fatalf("expected one recompute event, got %d", len(recomputedEvents))
	}
	event := recomputedEvents[0].(events.VacancyMatchesRecomputed)
	if event.Recomputed != 2 || event.Failed != 1 {
		t.Fatalf("unexpected recompute event: %+v", event)
	}
}

func TestRunFullSyncFailureSkipsCascade(t *testing.T) {
	repo := &fakeRepo{openVacancies: []uuid.UUID{uuid.New()}}
	scanner := &fakeScanner{}
	bus := &recordingBus{}
	conn := &fakeConnector{err: errors.New("crm rejected request")}
	orch := newTestOrchestrator(repo, conn, scanner, bus)

	if err := orch.RunFullSync(context.Background()); err == nil {
		t.Fatal("expected error from failing connector")
	}

	if len(repo.recomputed) != 0 {
		t.Fatalf("expected no recompute after failed sync, got %d", len(repo.recomputed))
	}
	if scanner.callCount() != 0 {
		t.Fatalf("expected no completeness scan after failed sync, got %d", scanner.callCount())
	}
	if len(bus.byName("crm.sync.failed")) != 1 {
		t.Fatal("expected a sync failed event")
	}
	if len(bus.byName("crm.sync.completed")) != 0 {
		t.Fatal("expected no sync completed event")
	}
}
