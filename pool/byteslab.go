// File: pool/byteslab.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Size-classed byte allocator backing payload memory.

package pool

import (
	"sync"
	"sync/atomic"
)

// Predefined (power-of-two) size classes. The largest covers a 4K video
// I-frame; bigger requests bypass the slab.
var sizeClasses = [...]int{
	512,             // 512B
	2 * 1024,        // 2K
	4 * 1024,        // 4K
	16 * 1024,       // 16K
	64 * 1024,       // 64K
	256 * 1024,      // 256K
	1 * 1024 * 1024, // 1M
	4 * 1024 * 1024, // 4M
	8 * 1024 * 1024, // 8M
}

// SizeClass returns the smallest class >= size, or -1 if size exceeds the
// largest class.
func SizeClass(size int) int {
	for _, c := range sizeClasses {
		if size <= c {
			return c
		}
	}
	return -1
}

// ByteSlab hands out byte slices from per-class sync.Pool tiers.
type ByteSlab struct {
	tiers [len(sizeClasses)]*SyncPool[*[]byte]

	allocs atomic.Int64
	frees  atomic.Int64
}

// NewByteSlab creates an empty slab.
func NewByteSlab() *ByteSlab {
	s := &ByteSlab{}
	for i, c := range sizeClasses {
		class := c
		s.tiers[i] = NewSyncPool(func() *[]byte {
			b := make([]byte, class)
			return &b
		})
	}
	return s
}

// Alloc returns a slice of length n. Its capacity is the size class, so
// Free can route it back to the right tier.
func (s *ByteSlab) Alloc(n int) []byte {
	s.allocs.Add(1)
	for i, c := range sizeClasses {
		if n <= c {
			return (*s.tiers[i].Get())[:n]
		}
	}
	return make([]byte, n)
}

// Free zeroes b and returns it to its tier, so Alloc never exposes a
// previous owner's bytes. Slices whose capacity is not a size class are
// left to the garbage collector.
func (s *ByteSlab) Free(b []byte) {
	if b == nil {
		return
	}
	s.frees.Add(1)
	for i, c := range sizeClasses {
		if cap(b) == c {
			b = b[:c]
			clear(b)
			s.tiers[i].Put(&b)
			return
		}
	}
}

// Outstanding returns allocations not yet freed.
func (s *ByteSlab) Outstanding() int64 {
	return s.allocs.Load() - s.frees.Load()
}

// Misses returns tier allocations that could not reuse freed memory.
func (s *ByteSlab) Misses() int64 {
	var n int64
	for _, tier := range s.tiers {
		n += tier.Misses()
	}
	return n
}

var (
	defaultOnce sync.Once
	defaultSlab *ByteSlab
)

// DefaultSlab returns the process-wide slab so every payload type shares the
// same tiers.
func DefaultSlab() *ByteSlab {
	defaultOnce.Do(func() {
		defaultSlab = NewByteSlab()
	})
	return defaultSlab
}
