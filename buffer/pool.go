// File: buffer/pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pooled buffer class: finalize recycles into a free-list instead of
// releasing memory.

package buffer

import (
	"fmt"
	"sync/atomic"

	"github.com/momentics/hioload-mo/api"
	"github.com/momentics/hioload-mo/core/miniobject"
	"github.com/momentics/hioload-mo/pool"
)

// Pool hands out fixed-size buffers whose last Unref parks them in a
// free-list. Each Pool owns its own class, so the recycling finalize is
// chosen per type, never per instance.
type Pool struct {
	class *miniobject.Class
	size  int
	slab  *pool.ByteSlab
	store pool.Store[*Buffer]

	closed    atomic.Bool
	allocated atomic.Int64
	destroyed atomic.Int64
}

// NewPool creates a pool of size-byte buffers configured by cfg.
// cfg.Prealloc buffers are created and parked up front.
func NewPool(size int, cfg pool.Config) (*Pool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("buffer pool size %d: %w", size, api.ErrInvalidArgument)
	}
	p := &Pool{size: size, slab: pool.DefaultSlab()}
	p.class = &miniobject.Class{
		Name:    "Buffer(pooled)",
		Copy:    copyBuffer,
		Dispose: p.recycle,
		Free:    freeBuffer,
	}
	store, err := pool.NewStore[*Buffer](cfg, p.destroy)
	if err != nil {
		return nil, fmt.Errorf("buffer pool: %w", err)
	}
	p.store = store

	for i := 0; i < cfg.Prealloc; i++ {
		p.allocate().Unref()
	}
	return p, nil
}

// Acquire returns a zeroed, writable buffer with refcount 1, reusing a
// parked one when available.
func (p *Pool) Acquire() (*Buffer, error) {
	if p.closed.Load() {
		return nil, api.Wrap(api.ErrCodePoolClosed, api.ErrPoolClosed)
	}
	if b, ok := p.store.TryTake(); ok {
		b.Reinit(0)
		b.resetMeta()
		b.data = b.data[:cap(b.data)]
		clear(b.data)
		b.data = b.data[:p.size]
		return b, nil
	}
	return p.allocate(), nil
}

func (p *Pool) allocate() *Buffer {
	p.allocated.Add(1)
	return newBuffer(p.class, p.slab.Alloc(p.size), p.slab)
}

func (p *Pool) recycle(o *miniobject.MiniObject) bool {
	p.store.Add(o.Self().(*Buffer))
	return false
}

func (p *Pool) destroy(b *Buffer) {
	b.Destroy()
	p.destroyed.Add(1)
}

// Size returns the payload size of pooled buffers.
func (p *Pool) Size() int { return p.size }

// Recycler exposes the free-list the pooled class finalizes into.
func (p *Pool) Recycler() api.Recycler[*Buffer] { return p.store }

// Drain destroys every parked buffer and returns how many were destroyed.
func (p *Pool) Drain() int {
	return p.store.Drain(p.destroy)
}

// Close destroys parked buffers. Buffers still in use are destroyed as
// their last reference drops; Acquire fails from now on.
func (p *Pool) Close() {
	if p.closed.Swap(true) {
		return
	}
	p.store.Close()
}

// Watch follows pool.max_free reloads when the pool uses a FreeList.
func (p *Pool) Watch(src pool.ConfigSource) bool {
	fl, ok := p.store.(*pool.FreeList[*Buffer])
	if ok {
		fl.Watch(src)
	}
	return ok
}

// Stats returns recycling counters.
func (p *Pool) Stats() api.PoolStats {
	return p.store.Stats()
}

// Live returns buffers allocated and not yet destroyed, parked included.
func (p *Pool) Live() int64 {
	return p.allocated.Load() - p.destroyed.Load()
}
