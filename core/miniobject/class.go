// File: core/miniobject/class.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Per-type dispatch table: copy, dispose and free.

package miniobject

// Class describes one payload kind. Classes are declared once, as
// package-level values, and bound to instances by Init.
type Class struct {
	// Name is the type tag reported by TypeName and tracers.
	Name string

	// Copy returns a new, independent instance initialised with Init.
	// A nil Copy makes the class uncopyable.
	Copy func(obj *MiniObject) (*MiniObject, error)

	// Dispose runs after weak notifications at the 1 -> 0 transition.
	// Returning false means the instance was handed elsewhere (a pool) and
	// must not be freed; the core no longer touches it afterwards.
	Dispose func(obj *MiniObject) bool

	// Free releases payload resources. When nil the payload is dropped and
	// left to the garbage collector.
	Free func(obj *MiniObject)
}

// CanCopy reports whether the class declares a copy function.
func (c *Class) CanCopy() bool {
	return c.Copy != nil
}
