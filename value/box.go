// File: value/box.go
// Package value
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Boxed transfer of mini-objects into generic containers. Every call that
// moves an object in names its convention with an api.Transfer marker.

package value

import (
	"github.com/momentics/hioload-mo/api"
	"github.com/momentics/hioload-mo/core/miniobject"
)

// Box holds at most one mini-object. Under api.Owned the box holds a
// reference of its own and releases it on Set or Reset; under api.Borrow it
// holds none and the caller keeps the object alive.
//
// A Box is not safe for concurrent mutation; PropertyStore adds locking.
type Box[T miniobject.Object] struct {
	obj      T
	transfer api.Transfer
}

// NewBox wraps obj. With api.Owned the caller's reference moves into the box.
func NewBox[T miniobject.Object](obj T, transfer api.Transfer) *Box[T] {
	return &Box[T]{obj: obj, transfer: transfer}
}

// Get returns the contained object without touching its refcount. An empty
// box yields the zero value.
func (b *Box[T]) Get() T {
	return b.obj
}

// Dup returns the contained object with a new reference the caller owns.
// An empty box yields the zero value.
func (b *Box[T]) Dup() T {
	var zero T
	if b.obj == zero {
		return zero
	}
	b.obj.Base().Ref()
	return b.obj
}

// Set stores obj under transfer, releasing the previous content if the box
// owned it. With api.Owned the caller's reference to obj is consumed.
func (b *Box[T]) Set(obj T, transfer api.Transfer) {
	old, owned := b.obj, b.transfer == api.Owned
	b.obj, b.transfer = obj, transfer
	var zero T
	if owned && old != zero {
		old.Base().Unref()
	}
}

// Reset releases owned content and empties the box.
func (b *Box[T]) Reset() {
	var zero T
	b.Set(zero, api.Borrow)
}

// Steal empties the box and returns its content. The caller receives the
// box's reference when the box owned it, a borrow otherwise.
func (b *Box[T]) Steal() (T, api.Transfer) {
	var zero T
	obj, transfer := b.obj, b.transfer
	b.obj, b.transfer = zero, api.Borrow
	return obj, transfer
}

// IsEmpty reports whether the box holds nothing.
func (b *Box[T]) IsEmpty() bool {
	var zero T
	return b.obj == zero
}

// Transfer reports the convention the current content was stored under.
func (b *Box[T]) Transfer() api.Transfer {
	return b.transfer
}
