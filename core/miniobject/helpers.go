// File: core/miniobject/helpers.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Typed helpers over payload structs embedding MiniObject.

package miniobject

// Handle is any value carrying a MiniObject.
type Handle interface {
	Base() *MiniObject
}

// Object is any payload type that embeds MiniObject by value and is used
// through a pointer, e.g. *buffer.Buffer.
type Object interface {
	comparable
	Handle
}

// Ref takes a reference on obj and returns it with its own type.
func Ref[T Object](obj T) T {
	obj.Base().Ref()
	return obj
}

// Copy returns an independent typed copy of obj.
func Copy[T Object](obj T) (T, error) {
	cp, err := obj.Base().Copy()
	if err != nil {
		var zero T
		return zero, err
	}
	return cp.Self().(T), nil
}

// MakeWritable is the typed form of MiniObject.MakeWritable: it consumes
// the caller's reference to obj unless obj is returned unchanged or an
// error is reported.
func MakeWritable[T Object](obj T) (T, error) {
	w, err := obj.Base().MakeWritable()
	if err != nil {
		var zero T
		return zero, err
	}
	if w == obj.Base() {
		return obj, nil
	}
	return w.Self().(T), nil
}

// Replace stores obj in *slot, taking a new reference on obj and dropping
// the one held by the previous content. Either may be nil. It reports
// whether the slot changed.
func Replace[T Object](slot *T, obj T) bool {
	var zero T
	old := *slot
	if old == obj {
		return false
	}
	if obj != zero {
		obj.Base().Ref()
	}
	*slot = obj
	if old != zero {
		old.Base().Unref()
	}
	return true
}

// Take stores obj in *slot, taking over the caller's reference on obj and
// dropping the reference held by the previous content. If obj is already
// in the slot the caller's extra reference is dropped instead. It reports
// whether the slot changed.
func Take[T Object](slot *T, obj T) bool {
	var zero T
	old := *slot
	if old == obj {
		if obj != zero {
			obj.Base().Unref()
		}
		return false
	}
	*slot = obj
	if old != zero {
		old.Base().Unref()
	}
	return true
}

// Steal empties *slot and hands its reference to the caller.
func Steal[T Object](slot *T) T {
	var zero T
	old := *slot
	*slot = zero
	return old
}

// Clear drops the reference held in *slot and empties it.
func Clear[T Object](slot *T) {
	var zero T
	if old := Steal(slot); old != zero {
		old.Base().Unref()
	}
}
