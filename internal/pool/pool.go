// Package pool provides object pooling for aparse.
// It backs the default allocator so repeated parses reuse positional storage.
package pool

import (
	"sync"
	"sync/atomic"
)

// Pool provides a generic, type-safe object pool
type Pool[T any] struct {
	pool  sync.Pool
	reset func(*T) // Optional reset function called before reuse

	gets atomic.Int64
	news atomic.Int64
}

// NewPool creates a new generic pool with the given factory function
func NewPool[T any](factory func() *T) *Pool[T] {
	p := &Pool[T]{}
	p.pool.New = func() any {
		p.news.Add(1)
		return factory()
	}
	return p
}

// NewPoolWithReset creates a pool with a reset function called before reuse
func NewPoolWithReset[T any](factory func() *T, reset func(*T)) *Pool[T] {
	p := NewPool(factory)
	p.reset = reset
	return p
}

// Get retrieves an object from the pool or creates a new one
func (p *Pool[T]) Get() *T {
	p.gets.Add(1)
	obj := p.pool.Get().(*T)
	if p.reset != nil {
		p.reset(obj)
	}
	return obj
}

// Put returns an object to the pool for reuse
func (p *Pool[T]) Put(obj *T) {
	if obj == nil {
		return
	}
	p.pool.Put(obj)
}

// Stats returns how many objects were requested and how many of those had
// to be created.
func (p *Pool[T]) Stats() (gets, news int64) {
	return p.gets.Load(), p.news.Load()
}

// SlotPool pools string slices in power-of-two capacity buckets.
//
// Slices handed out have length 0 and zeroed backing slots, so callers can
// rely on never observing strings left behind by a previous user.
type SlotPool struct {
	buckets []int
	pools   []*Pool[[]string]
}

// NewSlotPool creates a slot pool with buckets from minCap to maxCap,
// doubling at each step.
func NewSlotPool(minCap, maxCap int) *SlotPool {
	sp := &SlotPool{}
	for c := minCap; c <= maxCap; c *= 2 {
		capacity := c // Capture for closure
		sp.buckets = append(sp.buckets, capacity)
		sp.pools = append(sp.pools, NewPoolWithReset(
			func() *[]string {
				s := make([]string, 0, capacity)
				return &s
			},
			func(s *[]string) {
				*s = (*s)[:0] // Reset length but keep capacity
			},
		))
	}
	return sp
}

// Get retrieves a slice with capacity of at least minCap. Requests above
// the largest bucket are allocated directly.
func (sp *SlotPool) Get(minCap int) *[]string {
	if i := sp.bucket(minCap); i >= 0 {
		return sp.pools[i].Get()
	}
	s := make([]string, 0, minCap)
	return &s
}

// Put clears s and returns it to its bucket. Slices whose capacity is not
// exactly a bucket size are left to the garbage collector.
func (sp *SlotPool) Put(s *[]string) {
	if s == nil {
		return
	}
	c := cap(*s)
	i := sp.bucket(c)
	if i < 0 || sp.buckets[i] != c {
		return
	}
	clear((*s)[:c])
	*s = (*s)[:0]
	sp.pools[i].Put(s)
}

// Buckets returns the bucket capacities in increasing order.
func (sp *SlotPool) Buckets() []int {
	return append([]int(nil), sp.buckets...)
}

// bucket returns the index of the smallest bucket holding n slots.
func (sp *SlotPool) bucket(n int) int {
	for i, c := range sp.buckets {
		if c >= n {
			return i
		}
	}
	return -1
}

// GlobalSlotPool backs the default allocator.
var GlobalSlotPool = NewSlotPool(8, 1024)

// init pre-warms the smallest buckets, which cover typical command lines
func init() {
	for i := 0; i < 3; i++ {
		GlobalSlotPool.Put(GlobalSlotPool.Get(8))
		GlobalSlotPool.Put(GlobalSlotPool.Get(16))
	}
}
