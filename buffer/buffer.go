// File: buffer/buffer.go
// Package buffer
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Media buffer mini-object: payload bytes plus timing metadata.

package buffer

import (
	"fmt"
	"time"

	"github.com/momentics/hioload-mo/api"
	"github.com/momentics/hioload-mo/core/miniobject"
	"github.com/momentics/hioload-mo/pool"
)

// Buffer flags, above the mini-object flag range.
const (
	FlagDiscont   = miniobject.FlagLast << iota // data discontinuity
	FlagDeltaUnit                               // not decodable on its own
	FlagHeader                                  // stream header
	FlagGap                                     // no media, only timing
)

// ClockTimeNone marks an unset timestamp.
const ClockTimeNone time.Duration = -1

// Buffer is a reference-counted media payload. Metadata fields may only be
// changed while the caller holds the sole reference (IsWritable).
type Buffer struct {
	miniobject.MiniObject

	PTS      time.Duration
	DTS      time.Duration
	Duration time.Duration
	Offset   uint64

	data []byte
	slab *pool.ByteSlab
}

var bufferClass = &miniobject.Class{
	Name: "Buffer",
	Free: freeBuffer,
}

// Copy is bound here because copyBuffer refers back to bufferClass.
func init() { bufferClass.Copy = copyBuffer }

// New allocates a buffer of size bytes from the default slab.
func New(size int) *Buffer {
	slab := pool.DefaultSlab()
	return newBuffer(bufferClass, slab.Alloc(size), slab)
}

// NewWrapped wraps data without copying. The buffer owns data from now on;
// it is left to the garbage collector when the buffer dies.
func NewWrapped(data []byte) *Buffer {
	return newBuffer(bufferClass, data, nil)
}

func newBuffer(class *miniobject.Class, data []byte, slab *pool.ByteSlab) *Buffer {
	b := &Buffer{data: data, slab: slab}
	b.resetMeta()
	miniobject.Init(&b.MiniObject, class, b, 0)
	return b
}

func (b *Buffer) resetMeta() {
	b.PTS = ClockTimeNone
	b.DTS = ClockTimeNone
	b.Duration = ClockTimeNone
	b.Offset = 0
}

// Bytes returns the payload. Callers must not modify it unless the buffer is
// writable.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the payload size.
func (b *Buffer) Len() int { return len(b.data) }

// Fill copies src into the payload at offset and returns the number of
// bytes written.
func (b *Buffer) Fill(offset int, src []byte) (int, error) {
	if !b.IsWritable() {
		return 0, api.Wrap(api.ErrCodeNotWritable, api.ErrNotWritable).
			WithContext("op", "fill").
			WithContext("refcount", b.RefCount())
	}
	if offset < 0 || offset > len(b.data) {
		return 0, fmt.Errorf("fill offset %d out of range [0,%d]: %w", offset, len(b.data), api.ErrInvalidArgument)
	}
	return copy(b.data[offset:], src), nil
}

// Resize changes the payload length within its capacity.
func (b *Buffer) Resize(n int) error {
	if !b.IsWritable() {
		return api.Wrap(api.ErrCodeNotWritable, api.ErrNotWritable).WithContext("op", "resize")
	}
	if n < 0 || n > cap(b.data) {
		return fmt.Errorf("resize to %d beyond capacity %d: %w", n, cap(b.data), api.ErrInvalidArgument)
	}
	b.data = b.data[:n]
	return nil
}

// Ref takes a reference and returns b.
func (b *Buffer) Ref() *Buffer {
	b.MiniObject.Ref()
	return b
}

// Copy returns an independent, non-pooled deep copy.
func (b *Buffer) Copy() (*Buffer, error) {
	return miniobject.Copy(b)
}

// MakeWritable returns b if it is writable, otherwise a private copy; the
// caller's reference to b is consumed in the latter case.
func (b *Buffer) MakeWritable() (*Buffer, error) {
	return miniobject.MakeWritable(b)
}

func copyBuffer(o *miniobject.MiniObject) (*miniobject.MiniObject, error) {
	src := o.Self().(*Buffer)
	slab := src.slab
	if slab == nil {
		slab = pool.DefaultSlab()
	}
	data := slab.Alloc(len(src.data))
	copy(data, src.data)

	dst := &Buffer{
		PTS:      src.PTS,
		DTS:      src.DTS,
		Duration: src.Duration,
		Offset:   src.Offset,
		data:     data,
		slab:     slab,
	}
	miniobject.Init(&dst.MiniObject, bufferClass, dst, src.Flags())
	return &dst.MiniObject, nil
}

func freeBuffer(o *miniobject.MiniObject) {
	b := o.Self().(*Buffer)
	if b.slab != nil {
		b.slab.Free(b.data)
	}
	b.data = nil
}
