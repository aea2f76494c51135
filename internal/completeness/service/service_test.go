package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"staffing_ops_backend/internal/completeness/repository"
	"staffing_ops_backend/internal/events"
	"staffing_ops_backend/platform/apperr"
	"staffing_ops_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	clients    []repository.Client
	admins     []repository.User
	adminsErr  error
	openTodos  map[string]bool
	hasOpenErr error
	created    []repository.CreateTodoParams
	createErr  error
	completed  int
}

func openKey(entityID, assigneeID uuid.UUID) string {
	return entityID.String() + "/" + assigneeID.String()
}

func (f *fakeRepo) GetClient(ctx context.Context, id uuid.UUID) (repository.Client, error) {
	for _, c := range f.clients {
		if c.ID == id {
			return c, nil
		}
	}
	return repository.Client{}, apperr.NotFound("client not found")
}

func (f *fakeRepo) ListClients(ctx context.Context) ([]repository.Client, error) {
	return f.clients, nil
}

func (f *fakeRepo) ListAdmins(ctx context.Context) ([]repository.User, error) {
	return f.admins, f.adminsErr
}

func (f *fakeRepo) HasOpenTodo(ctx context.Context, entityType string, entityID, assigneeID uuid.UUID) (bool, error) {
	if f.hasOpenErr != nil {
		return false, f.hasOpenErr
	}
	return f.openTodos[openKey(entityID, assigneeID)], nil
}

func (f *fakeRepo) CreateTodo(ctx context.Context, params repository.CreateTodoParams) (uuid.UUID, error) {
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	f.created = append(f.created, params)
	if f.openTodos == nil {
		f.openTodos = make(map[string]bool)
	}
	f.openTodos[openKey(params.EntityID, params.AssigneeID)] = true
	return uuid.New(), nil
}

func (f *fakeRepo) CompleteOpenTodos(ctx context.Context, entityType string, entityID uuid.UUID) (int, error) {
	closed := 0
	for key, open := range f.openTodos {
		if open && key[:36] == entityID.String() {
			f.openTodos[key] = false
			closed++
		}
	}
	f.completed += closed
	return closed, nil
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

func strPtr(s string) *string { return &s }

func testService(repo *fakeRepo, bus events.Bus) *Service {
	return New(repo, bus, logger.New("test"))
}

func TestMissingClientFields(t *testing.T) {
	complete := repository.Client{
		ContactName:  strPtr("Anna"),
		ContactEmail: strPtr("anna@example.com"),
		ContactPhone: strPtr("+31612345678"),
	}
	if got := MissingClientFields(complete); len(got) != 0 {
		t.Fatalf("expected no missing fields, got %v", got)
	}

	blank := repository.Client{
		ContactName:  strPtr("   "),
		ContactEmail: nil,
		ContactPhone: strPtr(""),
	}
	got := MissingClientFields(blank)
	want := []string{"contact name", "contact email", "contact phone"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestScanCreatesOneTodoPerAdmin(t *testing.T) {
	client := repository.Client{
		ID:           uuid.New(),
		Name:         "Logistiek BV",
		ContactEmail: strPtr("info@logistiek.example"),
	}
	adminA := repository.User{ID: uuid.New(), Email: "a@example.com"}
	adminB := repository.User{ID: uuid.New(), Email: "b@example.com"}
	repo := &fakeRepo{
		clients: []repository.Client{client},
		admins:  []repository.User{adminA, adminB},
	}
	bus := &recordingBus{}

	result, err := testService(repo, bus).ScanClients(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Scanned != 1 || result.Incomplete != 1 || result.TodosCreated != 2 {
		t.Fatalf("unexpected scan result: %+v", result)
	}
	if len(repo.created) != 2 {
		t.Fatalf("expected 2 created todos, got %d", len(repo.created))
	}
	for _, params := range repo.created {
		if len(params.MissingFields) != 2 ||
			params.MissingFields[0] != "contact name" ||
			params.MissingFields[1] != "contact phone" {
			t.Fatalf("unexpected missing fields: %v", params.MissingFields)
		}
		if params.Priority != "medium" {
			t.Fatalf("expected medium priority for 2 missing fields, got %s", params.Priority)
		}
	}
	if len(bus.events) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(bus.events))
	}
}

func TestScanIsIdempotentAcrossRuns(t *testing.T) {
	client := repository.Client{ID: uuid.New(), Name: "Logistiek BV"}
	admin := repository.User{ID: uuid.New(), Email: "a@example.com"}
	repo := &fakeRepo{
		clients: []repository.Client{client},
		admins:  []repository.User{admin},
	}
	svc := testService(repo, &recordingBus{})

	if _, err := svc.ScanClients(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.ScanClients(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second.TodosCreated != 0 {
		t.Fatalf("second scan must not create duplicates, created %d", second.TodosCreated)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected exactly 1 todo total, got %d", len(repo.created))
	}
}

func TestDedupCheckFailureSkipsCreation(t *testing.T) {
	client := repository.Client{ID: uuid.New(), Name: "Logistiek BV"}
	repo := &fakeRepo{
		clients:    []repository.Client{client},
		admins:     []repository.User{{ID: uuid.New(), Email: "a@example.com"}},
		hasOpenErr: errors.New("db timeout"),
	}

	result, err := testService(repo, &recordingBus{}).ScanClients(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.TodosCreated != 0 || len(repo.created) != 0 {
		t.Fatal("expected no todo when the dedup check cannot run")
	}
	// Still counted as incomplete so the summary reflects data state.
	if result.Incomplete != 1 {
		t.Fatalf("expected 1 incomplete client, got %d", result.Incomplete)
	}
}

func TestTodoDueSevenDaysOut(t *testing.T) {
	client := repository.Client{ID: uuid.New(), Name: "Logistiek BV"}
	repo := &fakeRepo{
		clients: []repository.Client{client},
		admins:  []repository.User{{ID: uuid.New(), Email: "a@example.com"}},
	}
	before := time.Now()

	if _, err := testService(repo, &recordingBus{}).ScanClients(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected 1 todo, got %d", len(repo.created))
	}
	due := repo.created[0].DueAt
	lo := before.AddDate(0, 0, 7).Add(-time.Minute)
	hi := time.Now().AddDate(0, 0, 7).Add(time.Minute)
	if due.Before(lo) || due.After(hi) {
		t.Fatalf("expected due date 7 days out, got %s", due)
	}
}

func TestCompleteClientClosesOpenTodos(t *testing.T) {
	clientID := uuid.New()
	adminID := uuid.New()
	repo := &fakeRepo{
		clients: []repository.Client{{
			ID:           clientID,
			Name:         "Logistiek BV",
			ContactName:  strPtr("Anna"),
			ContactEmail: strPtr("anna@example.com"),
			ContactPhone: strPtr("+31612345678"),
		}},
		openTodos: map[string]bool{openKey(clientID, adminID): true},
	}

	result, err := testService(repo, &recordingBus{}).ResolveClientTodos(context.Background(), clientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Completed != 1 {
		t.Fatalf("expected 1 closed todo, got %d", result.Completed)
	}
}

func TestResolveRejectsStillIncompleteClient(t *testing.T) {
	clientID := uuid.New()
	repo := &fakeRepo{
		clients: []repository.Client{{ID: clientID, Name: "Logistiek BV"}},
	}

	_, err := testService(repo, &recordingBus{}).ResolveClientTodos(context.Background(), clientID)
	if err == nil {
		t.Fatal("expected validation error for incomplete client")
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
