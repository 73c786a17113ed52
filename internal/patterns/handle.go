package patterns

import "sync/atomic"

// Handle is a swappable reference to the current Tables. The watcher stores a
// freshly compiled value; readers load without locking.
type Handle struct {
	p atomic.Pointer[Tables]
}

// NewHandle creates a handle holding the given tables.
func NewHandle(t *Tables) *Handle {
	h := &Handle{}
	h.p.Store(t)
	return h
}

// Load returns the current tables.
func (h *Handle) Load() *Tables { return h.p.Load() }

// Swap replaces the current tables.
func (h *Handle) Swap(t *Tables) { h.p.Store(t) }
