// File: core/miniobject/flags.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package miniobject

// Flags is the mini-object flag bitset.
type Flags uint32

const (
	// FlagReadonly forbids writability regardless of the refcount.
	FlagReadonly Flags = 1 << iota
	// FlagMayBeLeaked tells leak tracers to ignore the object.
	FlagMayBeLeaked

	// FlagLast is the first bit available to subtypes.
	FlagLast Flags = 1 << 8
)

// Flags returns the current flag set.
func (o *MiniObject) Flags() Flags {
	return Flags(o.flags.Load())
}

// HasFlag reports whether every bit of f is set.
func (o *MiniObject) HasFlag(f Flags) bool {
	return Flags(o.flags.Load())&f == f
}

// SetFlags sets the bits of f. The caller must hold the sole reference.
func (o *MiniObject) SetFlags(f Flags) {
	o.flags.Store(o.flags.Load() | uint32(f))
}

// UnsetFlags clears the bits of f. The caller must hold the sole reference.
func (o *MiniObject) UnsetFlags(f Flags) {
	o.flags.Store(o.flags.Load() &^ uint32(f))
}
