// File: pool/bounded.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Lock-free bounded free-list.

package pool

import (
	"sync/atomic"

	"github.com/momentics/hioload-mo/api"
	"github.com/momentics/hioload-mo/core/concurrency"
)

// BoundedFreeList parks recycled instances in a lock-free ring. Adds to a
// full or closed list go to the discard func.
type BoundedFreeList[T any] struct {
	queue   *concurrency.LockFreeQueue[T]
	closed  atomic.Bool
	discard func(T)

	added     atomic.Int64
	taken     atomic.Int64
	discarded atomic.Int64
}

// NewBoundedFreeList creates a list of capacity rounded up to a power of two.
func NewBoundedFreeList[T any](capacity int, discard func(T)) *BoundedFreeList[T] {
	return &BoundedFreeList[T]{
		queue:   concurrency.NewLockFreeQueue[T](capacity),
		discard: discard,
	}
}

func (b *BoundedFreeList[T]) Add(obj T) {
	if b.closed.Load() || !b.queue.Enqueue(obj) {
		b.drop(obj)
		return
	}
	b.added.Add(1)
	// Close may have drained between the check and the enqueue.
	if b.closed.Load() {
		b.Drain(b.drop)
	}
}

func (b *BoundedFreeList[T]) TryTake() (T, bool) {
	obj, ok := b.queue.Dequeue()
	if ok {
		b.taken.Add(1)
	}
	return obj, ok
}

func (b *BoundedFreeList[T]) Len() int { return b.queue.Len() }

// Cap returns the ring capacity.
func (b *BoundedFreeList[T]) Cap() int { return b.queue.Cap() }

func (b *BoundedFreeList[T]) Drain(fn func(T)) int {
	n := 0
	for {
		obj, ok := b.queue.Dequeue()
		if !ok {
			return n
		}
		n++
		b.taken.Add(1)
		if fn != nil {
			fn(obj)
		}
	}
}

func (b *BoundedFreeList[T]) Close() {
	if b.closed.Swap(true) {
		return
	}
	b.Drain(b.drop)
}

func (b *BoundedFreeList[T]) Stats() api.PoolStats {
	return api.PoolStats{
		Added:     b.added.Load(),
		Taken:     b.taken.Load(),
		Discarded: b.discarded.Load(),
		Free:      int64(b.queue.Len()),
	}
}

func (b *BoundedFreeList[T]) drop(obj T) {
	b.discarded.Add(1)
	if b.discard != nil {
		b.discard(obj)
	}
}
