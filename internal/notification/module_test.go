package notification

import (
	"context"
	"strings"
	"testing"

	"staffing_ops_backend/internal/email"
	"staffing_ops_backend/internal/events"
	"staffing_ops_backend/platform/config"
	"staffing_ops_backend/platform/logger"

	"github.com/google/uuid"
)

func testModule(t *testing.T) (*Module, events.Bus) {
	t.Helper()
	log := logger.New("test")
	bus := events.NewInMemoryBus(log)
	sender := email.NewSender(&config.Config{}, log)
	return NewModule(bus, sender, log), bus
}

func TestSyncCompletedLandsInFeed(t *testing.T) {
	module, bus := testModule(t)

	err := bus.PublishSync(context.Background(), events.CRMSyncCompleted{
		BaseEvent:  events.NewBaseEvent(),
		DurationMs: 1200,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	feed := module.Feed().List(0)
	if feed.Total != 1 {
		t.Fatalf("expected 1 feed entry, got %d", feed.Total)
	}
	entry := feed.Items[0]
	if entry.Kind != "crm_sync" || entry.Severity != "info" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestSyncFailureIsAnErrorEntry(t *testing.T) {
	module, bus := testModule(t)

	err := bus.PublishSync(context.Background(), events.CRMSyncFailed{
		BaseEvent: events.NewBaseEvent(),
		Reason:    "connection refused",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	feed := module.Feed().List(0)
	if feed.Total != 1 || feed.Items[0].Severity != "error" {
		t.Fatalf("expected one error entry, got %+v", feed.Items)
	}
	if !strings.Contains(feed.Items[0].Message, "connection refused") {
		t.Fatalf("expected failure reason in message, got %q", feed.Items[0].Message)
	}
}

func TestTodoCreatedListsMissingFields(t *testing.T) {
	module, bus := testModule(t)

	err := bus.PublishSync(context.Background(), events.CompletenessTodoCreated{
		BaseEvent:     events.NewBaseEvent(),
		TodoID:        uuid.New(),
		ClientID:      uuid.New(),
		ClientName:    "Logistiek BV",
		AssigneeID:    uuid.New(),
		AssigneeEmail: "ops@example.com",
		MissingFields: []string{"contact name", "contact phone"},
		Priority:      "medium",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	feed := module.Feed().List(0)
	if feed.Total != 1 {
		t.Fatalf("expected 1 feed entry, got %d", feed.Total)
	}
	msg := feed.Items[0].Message
	if !strings.Contains(msg, "Logistiek BV") || !strings.Contains(msg, "contact phone") {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestRecomputeWithFailuresIsAWarning(t *testing.T) {
	module, bus := testModule(t)

	err := bus.PublishSync(context.Background(), events.VacancyMatchesRecomputed{
		BaseEvent:  events.NewBaseEvent(),
		Recomputed: 9,
		Failed:     1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	feed := module.Feed().List(0)
	if feed.Total != 1 || feed.Items[0].Severity != "warning" {
		t.Fatalf("expected a warning entry, got %+v", feed.Items)
	}
}
