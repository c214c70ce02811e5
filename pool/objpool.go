// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package pool

import (
	"sync"
	"sync/atomic"
)

// SyncPool is a typed sync.Pool tier that counts how often it had to fall
// back to its creator.
type SyncPool[T any] struct {
	pool   sync.Pool
	misses atomic.Int64
}

// NewSyncPool creates a tier whose misses are served by creator.
func NewSyncPool[T any](creator func() T) *SyncPool[T] {
	sp := &SyncPool[T]{}
	sp.pool.New = func() any {
		sp.misses.Add(1)
		return creator()
	}
	return sp
}

func (sp *SyncPool[T]) Get() T {
	return sp.pool.Get().(T)
}

func (sp *SyncPool[T]) Put(obj T) {
	sp.pool.Put(obj)
}

// Misses returns the number of Gets served by the creator.
func (sp *SyncPool[T]) Misses() int64 {
	return sp.misses.Load()
}
