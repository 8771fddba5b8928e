package bus

import (
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestEventBus_EmitAndReceive(t *testing.T) {
	eb := NewEventBus(testLogger())

	var received int32
	eb.On(EventInvocationStarted, func(e Event) {
		atomic.AddInt32(&received, 1)
	})

	eb.Emit(Event{Type: EventInvocationStarted, Payload: map[string]any{"action": "connect"}})

	if atomic.LoadInt32(&received) != 1 {
		t.Errorf("expected 1 event received, got %d", received)
	}
}

func TestEventBus_WildcardHandler(t *testing.T) {
	eb := NewEventBus(testLogger())

	var count int32
	eb.On("*", func(e Event) {
		atomic.AddInt32(&count, 1)
	})

	eb.Emit(Event{Type: EventAuthFailed})
	eb.Emit(Event{Type: EventActionCompleted})

	if atomic.LoadInt32(&count) != 2 {
		t.Errorf("expected 2, got %d", count)
	}
}

func TestEventBus_Off(t *testing.T) {
	eb := NewEventBus(testLogger())

	var count int32
	id := eb.On(EventAuthFailed, func(e Event) {
		atomic.AddInt32(&count, 1)
	})
	eb.Emit(Event{Type: EventAuthFailed})
	eb.Off(EventAuthFailed, id)
	eb.Emit(Event{Type: EventAuthFailed})

	if atomic.LoadInt32(&count) != 1 {
		t.Errorf("expected 1 after Off, got %d", count)
	}
}

func TestEventBus_PanickingHandlerIsolated(t *testing.T) {
	eb := NewEventBus(testLogger())

	var after int32
	eb.On(EventAuthFailed, func(e Event) { panic("boom") })
	eb.On(EventAuthFailed, func(e Event) { atomic.AddInt32(&after, 1) })

	eb.Emit(Event{Type: EventAuthFailed})

	if atomic.LoadInt32(&after) != 1 {
		t.Error("handler after panicking one was not called")
	}
}

func TestEventBus_Replay(t *testing.T) {
	eb := NewEventBus(testLogger())

	eb.Emit(Event{Type: EventInvocationStarted})
	eb.Emit(Event{Type: EventInvocationFinished})

	all := eb.Replay("*", time.Time{})
	if len(all) != 2 {
		t.Fatalf("expected 2 events in history, got %d", len(all))
	}
	only := eb.Replay(EventInvocationFinished, time.Time{})
	if len(only) != 1 {
		t.Fatalf("expected 1 filtered event, got %d", len(only))
	}
}
