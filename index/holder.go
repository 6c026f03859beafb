package index

import (
	"sync/atomic"
	"time"
)

// Holder publishes the current snapshot to request handlers. Rebuilds
// construct a new snapshot and Swap it in; readers always see either the old
// or the new snapshot, never a partial state.
type Holder struct {
	current    atomic.Pointer[Snapshot]
	closeGrace time.Duration
}

// NewHolder creates an empty holder. closeGrace is how long a replaced
// snapshot stays open after a swap; it must exceed the longest request
// deadline so in-flight reads never touch a closed text index.
func NewHolder(closeGrace time.Duration) *Holder {
	if closeGrace <= 0 {
		closeGrace = 30 * time.Second
	}
	return &Holder{closeGrace: closeGrace}
}

// Load returns the current snapshot, or nil before the first build.
func (h *Holder) Load() *Snapshot {
	return h.current.Load()
}

// Swap installs next as the current snapshot and schedules the previous one
// for closing after the grace period. Returns the previous snapshot, or nil.
func (h *Holder) Swap(next *Snapshot) *Snapshot {
	prev := h.current.Swap(next)
	if prev != nil {
		time.AfterFunc(h.closeGrace, func() {
			prev.Close()
		})
	}
	return prev
}
