package events

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
)

func TestBusPublishCallsHandlersInOrder(t *testing.T) {
	bus := NewBus(nil)
	calls := make([]int, 0, 2)

	bus.Subscribe(func(_ context.Context, _ Event) error {
		calls = append(calls, 1)
		return nil
	}, ProfileCreated)
	bus.Subscribe(func(_ context.Context, _ Event) error {
		calls = append(calls, 2)
		return nil
	}, ProfileCreated, ProfileDeleted)

	bus.Publish(context.Background(), Event{Name: ProfileCreated})

	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Fatalf("unexpected handler call sequence: %+v", calls)
	}
}

func TestBusPublishLogsAndContinuesOnError(t *testing.T) {
	var buf bytes.Buffer
	bus := NewBus(log.New(&buf, "", 0))
	var calledSecond bool

	bus.Subscribe(func(_ context.Context, _ Event) error {
		return errors.New("handler failed")
	}, SessionCompleted)
	bus.Subscribe(func(_ context.Context, _ Event) error {
		calledSecond = true
		return nil
	}, SessionCompleted)

	bus.Publish(context.Background(), Event{Name: SessionCompleted})

	if !calledSecond {
		t.Fatalf("expected second handler to run")
	}
	if !strings.Contains(buf.String(), "handler failed") {
		t.Fatalf("expected handler error to be logged, got %q", buf.String())
	}
}

func TestNilBusDropsEvents(t *testing.T) {
	var bus *Bus
	bus.Publish(context.Background(), Event{Name: StreakExtended})
}
