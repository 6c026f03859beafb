package index

import (
	"testing"
	"time"
)

func Test_Holder_LoadNilBeforeFirstSwap(t *testing.T) {
	h := NewHolder(time.Second)
	if h.Load() != nil {
		t.Error("expected nil snapshot before first swap")
	}
}

func Test_Holder_SwapReturnsPrevious(t *testing.T) {
	h := NewHolder(time.Minute)

	first := buildTestSnapshot(t, map[string]string{"a.go": "package a\n"})
	if prev := h.Swap(first); prev != nil {
		t.Errorf("expected nil previous on first swap, got %v", prev)
	}

	second := buildTestSnapshot(t, map[string]string{"b.go": "package b\n"})
	if prev := h.Swap(second); prev != first {
		t.Error("expected first snapshot returned on second swap")
	}
	if h.Load() != second {
		t.Error("expected second snapshot current after swap")
	}
}

func Test_Holder_ClosesReplacedAfterGrace(t *testing.T) {
	h := NewHolder(10 * time.Millisecond)

	first := buildTestSnapshot(t, map[string]string{"a.go": "package a\n"})
	h.Swap(first)

	second := buildTestSnapshot(t, map[string]string{"b.go": "package b\n"})
	h.Swap(second)

	// The replaced snapshot stays readable immediately after the swap.
	if got := first.Text().DocCount(); got != 1 {
		t.Errorf("expected replaced snapshot open right after swap, got %d docs", got)
	}

	// After the grace period its text index closes and stops counting.
	deadline := time.After(3 * time.Second)
	for first.Text().DocCount() != 0 {
		select {
		case <-deadline:
			t.Fatal("replaced snapshot still open after grace period")
		case <-time.After(20 * time.Millisecond):
		}
	}

	if h.Load() != second {
		t.Error("current snapshot must stay live")
	}
}
