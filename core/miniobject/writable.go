// File: core/miniobject/writable.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Writability gate built on the refcount.

package miniobject

// IsWritable reports whether the caller, as sole owner, may mutate the
// payload in place: refcount is exactly one and FlagReadonly is unset.
// With refcount one there is no other owner to race against, so the
// point-in-time answer holds until the caller shares the object.
func (o *MiniObject) IsWritable() bool {
	return o.refcount.Load() == 1 && !o.HasFlag(FlagReadonly)
}

// MakeWritable returns o itself when it is writable. Otherwise it copies o,
// drops the caller's reference to o and returns the copy, so the caller
// always ends up owning exactly one reference to a writable object.
//
// If the class cannot copy, the error wraps api.ErrCopyUnsupported and the
// caller's reference to o is left untouched.
func (o *MiniObject) MakeWritable() (*MiniObject, error) {
	if o.IsWritable() {
		return o, nil
	}
	cp, err := o.Copy()
	if err != nil {
		return nil, err
	}
	o.Unref()
	return cp, nil
}
