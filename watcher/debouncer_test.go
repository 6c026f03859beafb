package watcher

import (
	"sort"
	"testing"
	"time"
)

const testInterval = 50 * time.Millisecond

func receiveBatch(t *testing.T, d *Debouncer, timeout time.Duration) []DebouncedEvent {
	t.Helper()
	select {
	case batch := <-d.Output():
		return batch
	case <-time.After(timeout):
		t.Fatal("timed out waiting for debouncer batch")
		return nil
	}
}

func expectNoBatch(t *testing.T, d *Debouncer, wait time.Duration) {
	t.Helper()
	select {
	case batch := <-d.Output():
		t.Fatalf("expected no batch, got %v", batch)
	case <-time.After(wait):
	}
}

func Test_Debouncer_SingleEvent(t *testing.T) {
	d := NewDebouncer(testInterval)

	d.Add("main.go", OpWrite)

	batch := receiveBatch(t, d, 500*time.Millisecond)

	if len(batch) != 1 {
		t.Fatalf("expected 1 event, got %d", len(batch))
	}
	if batch[0].Path != "main.go" {
		t.Errorf("expected path 'main.go', got '%s'", batch[0].Path)
	}
	if batch[0].Op != OpWrite {
		t.Errorf("expected OpWrite, got %s", batch[0].Op)
	}
}

func Test_Debouncer_EventCollapsing(t *testing.T) {
	d := NewDebouncer(testInterval)

	// Add the same path twice — should collapse to one event with the latest op
	d.Add("main.go", OpCreate)
	d.Add("main.go", OpWrite)

	batch := receiveBatch(t, d, 500*time.Millisecond)

	if len(batch) != 1 {
		t.Fatalf("expected 1 event (collapsed), got %d", len(batch))
	}
	if batch[0].Op != OpWrite {
		t.Errorf("expected latest op OpWrite, got %s", batch[0].Op)
	}
}

func Test_Debouncer_CreateThenRemoveDropsOut(t *testing.T) {
	d := NewDebouncer(testInterval)

	// A path created and removed inside one window never existed as far as
	// the snapshot is concerned, so no batch should be emitted.
	d.Add("tmp.swp", OpCreate)
	d.Add("tmp.swp", OpRemove)

	expectNoBatch(t, d, 4*testInterval)
}

func Test_Debouncer_CreateThenRemoveKeepsOtherEvents(t *testing.T) {
	d := NewDebouncer(testInterval)

	d.Add("tmp.swp", OpCreate)
	d.Add("keep.go", OpWrite)
	d.Add("tmp.swp", OpRemove)

	batch := receiveBatch(t, d, 500*time.Millisecond)

	if len(batch) != 1 {
		t.Fatalf("expected 1 event, got %d", len(batch))
	}
	if batch[0].Path != "keep.go" {
		t.Errorf("expected only keep.go to survive, got '%s'", batch[0].Path)
	}
}

func Test_Debouncer_MultiplePaths(t *testing.T) {
	d := NewDebouncer(testInterval)

	d.Add("main.go", OpWrite)
	d.Add("util.go", OpCreate)
	d.Add("README.md", OpRemove)

	batch := receiveBatch(t, d, 500*time.Millisecond)

	if len(batch) != 3 {
		t.Fatalf("expected 3 events, got %d", len(batch))
	}

	// Sort by path for deterministic checks
	sort.Slice(batch, func(i, j int) bool {
		return batch[i].Path < batch[j].Path
	})

	expectedPaths := []string{"README.md", "main.go", "util.go"}
	for i, expected := range expectedPaths {
		if batch[i].Path != expected {
			t.Errorf("event[%d]: expected path '%s', got '%s'", i, expected, batch[i].Path)
		}
	}
}

func Test_Debouncer_TimerReset(t *testing.T) {
	d := NewDebouncer(testInterval)

	// Add first event
	d.Add("main.go", OpWrite)

	// Wait less than the interval, then add another event — should reset timer
	time.Sleep(testInterval / 2)
	d.Add("util.go", OpWrite)

	// Both events should arrive in a single batch
	batch := receiveBatch(t, d, 500*time.Millisecond)

	if len(batch) != 2 {
		t.Fatalf("expected 2 events in single batch, got %d", len(batch))
	}

	paths := make(map[string]bool)
	for _, e := range batch {
		paths[e.Path] = true
	}
	if !paths["main.go"] || !paths["util.go"] {
		t.Errorf("expected both main.go and util.go in batch, got: %v", batch)
	}
}

func Test_Debouncer_Stop_DiscardsPending(t *testing.T) {
	d := NewDebouncer(testInterval)

	d.Add("main.go", OpWrite)
	d.Stop()

	expectNoBatch(t, d, 4*testInterval)
}
