package cart

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemorySlotLoadOnFreshHubReturnsNil(t *testing.T) {
	slot := NewMemoryHub().Slot()

	data, err := slot.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if data != nil {
		t.Errorf("Expected nil for a never-written hub, got %q", data)
	}
}

func TestStalledWatcherDoesNotBlockTheHub(t *testing.T) {
	hub := NewMemoryHub()

	// A watcher that never drains its channel
	stalled := hub.Slot()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if _, err := stalled.Watch(ctx); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	writer := hub.Slot()
	done := make(chan struct{})
	go func() {
		defer close(done)
		// Well past the watch buffer size
		for i := 0; i < 100; i++ {
			writer.Store(context.Background(), []byte(fmt.Sprintf(`[{"id":"p%d","quantity":1}]`, i)))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Writes blocked on a watcher that stopped draining")
	}

	// The hub value is still the last write
	data, err := writer.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(data) != `[{"id":"p99","quantity":1}]` {
		t.Errorf("Expected last write to win, got %q", data)
	}
}

func TestDrainingWatcherStillObservesWritesPastAStalledPeer(t *testing.T) {
	hub := NewMemoryHub()

	stalled := hub.Slot()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if _, err := stalled.Watch(ctx); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	watcher := hub.Slot()
	updates, err := watcher.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	writer := hub.Slot()
	for i := 0; i < 100; i++ {
		writer.Store(context.Background(), []byte(`[]`))
	}

	var seen int
	for seen == 0 {
		select {
		case <-updates:
			seen++
		case <-time.After(2 * time.Second):
			t.Fatal("Draining watcher starved by a stalled peer")
		}
	}
}
