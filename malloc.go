//go:build !aparse_nomalloc

package aparse

import "github.com/mnurzia/aparse/internal/pool"

// UseMalloc reports whether the default allocator is compiled in. Build
// with -tags aparse_nomalloc to leave it out.
const UseMalloc = true

// DefaultAllocator returns the allocator used by ParseArgs: string slots
// recycled through bucketed pools, safe for concurrent use.
func DefaultAllocator() Allocator {
	return defaultAllocator
}

var defaultAllocator Allocator = poolAllocator{slots: pool.GlobalSlotPool}

type poolAllocator struct {
	slots *pool.SlotPool
}

func (a poolAllocator) Acquire(n int) ([]string, error) {
	buf := a.slots.Get(n)
	return (*buf)[:0], nil
}

func (a poolAllocator) Release(buf []string) {
	a.slots.Put(&buf)
}
