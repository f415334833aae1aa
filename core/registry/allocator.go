package registry

import (
	"sync/atomic"

	"github.com/cogpy/hypersynth/core/symbol"
)

// Allocator hands out monotonically increasing, non-zero symbol ids. It is
// safe for concurrent use from many goroutines.
type Allocator struct {
	next atomic.Uint64
}

// NewAllocator creates an allocator that will hand out its first id as 1.
func NewAllocator() *Allocator {
	a := &Allocator{}
	a.next.Store(1)
	return a
}

// NewAllocatorFrom creates an allocator that resumes issuing ids starting
// at nextID, for restoring state across a restart (§4.3: "the allocator
// MUST resume past the highest previously issued id").
func NewAllocatorFrom(nextID uint64) *Allocator {
	if nextID == 0 {
		nextID = 1
	}
	a := &Allocator{}
	a.next.Store(nextID)
	return a
}

// Next atomically allocates and returns the next symbol id.
func (a *Allocator) Next() symbol.Id {
	return symbol.Id(a.next.Add(1) - 1)
}

// Peek returns the next id that Next would hand out, without consuming it.
// Used when persisting allocator state.
func (a *Allocator) Peek() uint64 {
	return a.next.Load()
}
