// File: pool/freelist.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Mutex-guarded FIFO free-list for recycled mini-objects.

package pool

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-mo/api"
)

// Store is a recycler that its owner can also inspect, drain and close.
type Store[T any] interface {
	api.Recycler[T]
	Len() int
	Drain(fn func(T)) int
	Close()
	Stats() api.PoolStats
}

var (
	_ Store[any] = (*FreeList[any])(nil)
	_ Store[any] = (*BoundedFreeList[any])(nil)
)

// NewStore returns a BoundedFreeList when cfg.Bounded is set, a FreeList
// otherwise. discard receives instances the store refuses.
func NewStore[T any](cfg Config, discard func(T)) (Store[T], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Bounded {
		return NewBoundedFreeList[T](cfg.MaxFree, discard), nil
	}
	return NewFreeList[T](cfg.MaxFree, discard), nil
}

// FreeList parks recycled instances in FIFO order. Add and TryTake share one
// mutex; it is the only place the finalize path may block.
type FreeList[T any] struct {
	mu      sync.Mutex
	items   *queue.Queue
	closed  bool
	maxFree atomic.Int64
	discard func(T)

	added     atomic.Int64
	taken     atomic.Int64
	discarded atomic.Int64
}

// NewFreeList creates a free-list holding at most maxFree instances
// (0 = unbounded). discard may be nil.
func NewFreeList[T any](maxFree int, discard func(T)) *FreeList[T] {
	f := &FreeList[T]{
		items:   queue.New(),
		discard: discard,
	}
	f.maxFree.Store(int64(maxFree))
	return f
}

// Add parks obj, or discards it when the list is full or closed.
func (f *FreeList[T]) Add(obj T) {
	f.mu.Lock()
	if f.closed || f.full() {
		f.mu.Unlock()
		f.drop(obj)
		return
	}
	f.items.Add(obj)
	f.mu.Unlock()
	f.added.Add(1)
}

func (f *FreeList[T]) full() bool {
	limit := f.maxFree.Load()
	return limit > 0 && int64(f.items.Length()) >= limit
}

// TryTake pops the oldest parked instance.
func (f *FreeList[T]) TryTake() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.items.Length() == 0 {
		var zero T
		return zero, false
	}
	f.taken.Add(1)
	return f.items.Remove().(T), true
}

// Len returns the number of parked instances.
func (f *FreeList[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items.Length()
}

// Drain removes every parked instance and passes it to fn outside the lock.
// It returns the number of drained instances.
func (f *FreeList[T]) Drain(fn func(T)) int {
	f.mu.Lock()
	batch := make([]T, 0, f.items.Length())
	for f.items.Length() > 0 {
		batch = append(batch, f.items.Remove().(T))
	}
	f.mu.Unlock()

	f.taken.Add(int64(len(batch)))
	if fn != nil {
		for _, obj := range batch {
			fn(obj)
		}
	}
	return len(batch)
}

// Close discards every parked instance; later adds are discarded as well.
func (f *FreeList[T]) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	f.mu.Unlock()
	if n := f.Drain(f.drop); n > 0 {
		log.Printf("pool: free-list closed, discarded %d parked instances", n)
	}
}

// SetMaxFree changes the cap; parked instances above it stay until taken.
func (f *FreeList[T]) SetMaxFree(n int) {
	f.maxFree.Store(int64(n))
}

// Watch re-reads pool.max_free from src on every reload.
func (f *FreeList[T]) Watch(src ConfigSource) {
	src.OnReload(func() {
		cfg, err := ConfigFromMap(src.GetSnapshot())
		if err != nil {
			log.Printf("pool: ignoring reload: %v", err)
			return
		}
		f.SetMaxFree(cfg.MaxFree)
	})
}

// Stats returns recycling counters.
func (f *FreeList[T]) Stats() api.PoolStats {
	return api.PoolStats{
		Added:     f.added.Load(),
		Taken:     f.taken.Load(),
		Discarded: f.discarded.Load(),
		Free:      int64(f.Len()),
	}
}

func (f *FreeList[T]) drop(obj T) {
	f.discarded.Add(1)
	if f.discard != nil {
		f.discard(obj)
	}
}
