package aparse

import (
	"errors"
	"sync"
)

// Allocator supplies backing storage for output whose size is not known
// before parsing, currently the positional arguments.
//
// Storage is counted in string slots rather than bytes: positionals alias
// the argument vector, so only the slots that reference them are stored.
//
// Acquire returns a slice with length 0 and capacity of at least n whose
// slots are zero. Returning an error, or less capacity than asked for, is
// reported by Parse as ErrorTypeAllocationFailure. Release receives each
// acquired slice exactly once, after the engine has cleared it.
//
// The engine calls an Allocator from a single goroutine per Parse. An
// Allocator shared between concurrent parses must synchronize itself.
type Allocator interface {
	Acquire(n int) ([]string, error)
	Release(buf []string)
}

// Hook adapts a pair of functions to Allocator. A nil AcquireFunc makes
// every acquisition fail; a nil ReleaseFunc drops released buffers.
type Hook struct {
	AcquireFunc func(n int) ([]string, error)
	ReleaseFunc func(buf []string)
}

// Acquire calls h.AcquireFunc.
func (h Hook) Acquire(n int) ([]string, error) {
	if h.AcquireFunc == nil {
		return nil, ErrNoAllocator
	}
	return h.AcquireFunc(n)
}

// Release calls h.ReleaseFunc.
func (h Hook) Release(buf []string) {
	if h.ReleaseFunc != nil {
		h.ReleaseFunc(buf)
	}
}

// ErrBudgetExceeded is returned by a Limit allocator that is out of slots.
var ErrBudgetExceeded = errors.New("allocator budget exceeded")

// Limit wraps a so that at most slots string slots are outstanding at any
// time. It models the fixed arenas of constrained environments.
func Limit(a Allocator, slots int) Allocator {
	return &limitedAllocator{next: a, budget: slots}
}

type limitedAllocator struct {
	next   Allocator
	budget int

	mu    sync.Mutex
	inUse int
}

func (l *limitedAllocator) Acquire(n int) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.next == nil || l.inUse+n > l.budget {
		return nil, ErrBudgetExceeded
	}
	buf, err := l.next.Acquire(n)
	if err != nil {
		return nil, err
	}
	if l.inUse+cap(buf) > l.budget {
		l.next.Release(buf)
		return nil, ErrBudgetExceeded
	}
	l.inUse += cap(buf)
	return buf, nil
}

func (l *limitedAllocator) Release(buf []string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.inUse -= cap(buf)
	l.next.Release(buf)
}

// minSlots is the first capacity requested from an allocator.
const minSlots = 8

// slotBuffer is an append-only list of strings whose storage is either a
// caller buffer or a buffer owned through an Allocator. Moving a
// slotBuffer by value moves ownership; the source must not be used after.
type slotBuffer struct {
	buf      []string
	alloc    Allocator
	owned    bool // buf was acquired from alloc and must be released
	fixed    bool // the caller supplied the initial buf
	released bool
}

func newSlotBuffer(alloc Allocator, fixed []string, hasFixed bool) slotBuffer {
	if hasFixed {
		return slotBuffer{buf: fixed[:0], alloc: alloc, fixed: true}
	}
	return slotBuffer{alloc: alloc}
}

// append adds s, growing through the allocator when full. The returned
// error is the cause of an allocation failure.
func (b *slotBuffer) append(s string) error {
	if b.released {
		panic("aparse: append to released buffer")
	}
	if len(b.buf) < cap(b.buf) {
		b.buf = append(b.buf, s)
		return nil
	}
	return b.grow(s)
}

func (b *slotBuffer) grow(s string) error {
	if b.alloc == nil {
		if b.fixed {
			return ErrBufferExhausted
		}
		return ErrNoAllocator
	}

	n := 2 * cap(b.buf)
	if n < minSlots {
		n = minSlots
	}
	next, err := b.alloc.Acquire(n)
	if err != nil {
		return err
	}
	if cap(next) < n {
		b.alloc.Release(next)
		return ErrShortAcquire
	}

	next = append(next[:0], b.buf...)
	next = append(next, s)
	if b.owned {
		clear(b.buf)
		b.alloc.Release(b.buf)
	}
	b.buf = next
	b.owned = true
	return nil
}

// items returns the stored strings; nil after release.
func (b *slotBuffer) items() []string {
	return b.buf[:len(b.buf):len(b.buf)]
}

// release hands owned storage back to the allocator. It is idempotent.
func (b *slotBuffer) release() {
	if b.released {
		return
	}
	if b.owned {
		clear(b.buf)
		b.alloc.Release(b.buf)
	}
	b.buf = nil
	b.owned = false
	b.released = true
}
