package events

import (
	"context"
	"errors"
	"testing"
)

type testEvent struct {
	BaseEvent
}

func (e testEvent) EventName() string { return "test.event" }

func TestPublishSyncJoinsHandlerErrors(t *testing.T) {
	bus := NewInMemoryBus(nil)
	bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, event Event) error {
		return errors.New("first failure")
	}))
	bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, event Event) error {
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent()})
	if err == nil {
		t.Fatal("expected joined handler error")
	}
}

func TestPublishSyncReachesAllSubscribers(t *testing.T) {
	bus := NewInMemoryBus(nil)
	calls := 0
	handler := HandlerFunc(func(ctx context.Context, event Event) error {
		calls++
		return nil
	})
	bus.Subscribe("test.event", handler)
	bus.Subscribe("test.event", handler)
	bus.Subscribe("other.event", handler)

	if err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 handler calls, got %d", calls)
	}
}
