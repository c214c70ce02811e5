// File: core/miniobject/miniobject.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Ownership core: atomic refcount, finalize dispatch, copy.

package miniobject

import (
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-mo/api"
)

const (
	stateAlive uint32 = iota
	stateFinalizing
	stateRecycled
	stateDead
)

// MiniObject is the reference-counted base embedded by every payload type.
// The zero value is not usable; construct through a type factory that calls
// Init.
type MiniObject struct {
	refcount atomic.Int32
	_        cpu.CacheLinePad // keep ref/unref traffic off the registry lock
	flags    atomic.Uint32
	state    atomic.Uint32
	class    *Class
	self     any

	mu        sync.Mutex // guards weak, qdata, nextToken and state transitions
	weak      []weakEntry
	qdata     []qdataEntry
	nextToken WeakToken
}

// Init binds obj to class with refcount 1. self is the payload struct that
// embeds obj; it is what Self and the generic helpers hand back.
func Init(obj *MiniObject, class *Class, self any, flags Flags) {
	if class == nil {
		panic(api.Wrap(api.ErrCodeInvalidArgument, api.ErrInvalidArgument).
			WithContext("op", "init"))
	}
	obj.class = class
	obj.self = self
	obj.flags.Store(uint32(flags))
	obj.refcount.Store(1)
	obj.state.Store(stateAlive)
	obj.weak = nil
	obj.qdata = nil
	traceCreated(obj)
}

// Reinit brings a recycled instance back to life: refcount 1, flags reset,
// no weak references or qdata. Pools call it on instances returned by
// TryTake before handing them to a new owner.
func (o *MiniObject) Reinit(flags Flags) {
	o.mu.Lock()
	if st := o.state.Load(); st != stateRecycled {
		o.mu.Unlock()
		panic(api.Wrap(api.ErrCodeInvalidArgument, api.ErrInvalidArgument).
			WithContext("op", "reinit").
			WithContext("type", o.TypeName()).
			WithContext("state", stateName(st)))
	}
	o.weak = nil
	o.qdata = nil
	o.flags.Store(uint32(flags))
	o.refcount.Store(1)
	o.state.Store(stateAlive)
	o.mu.Unlock()
	traceCreated(o)
}

// Base returns o. Payload types embedding MiniObject inherit it, which is
// what the generic helpers key on.
func (o *MiniObject) Base() *MiniObject { return o }

// Self returns the payload struct bound by Init.
func (o *MiniObject) Self() any { return o.self }

// Class returns the dispatch table bound by Init.
func (o *MiniObject) Class() *Class { return o.class }

// TypeName returns the class name.
func (o *MiniObject) TypeName() string {
	if o.class == nil {
		return "<uninitialised>"
	}
	return o.class.Name
}

// RefCount returns a point-in-time view of the refcount.
func (o *MiniObject) RefCount() int32 {
	return o.refcount.Load()
}

// IsAlive reports whether the object has not started finalizing.
func (o *MiniObject) IsAlive() bool {
	return o.state.Load() == stateAlive
}

// Ref takes one more reference and returns the same object.
// Panics with api.ErrUseAfterFree if the refcount had already reached zero;
// the count is left untouched in that case.
func (o *MiniObject) Ref() *MiniObject {
	for {
		n := o.refcount.Load()
		if n <= 0 {
			panic(o.useAfterFree("ref", n))
		}
		if o.refcount.CompareAndSwap(n, n+1) {
			return o
		}
	}
}

// Unref drops one reference. Dropping the last one finalizes the object.
// Panics with api.ErrUseAfterFree on an unref past zero; the count never
// goes negative.
func (o *MiniObject) Unref() {
	for {
		n := o.refcount.Load()
		if n <= 0 {
			panic(o.useAfterFree("unref", n))
		}
		if o.refcount.CompareAndSwap(n, n-1) {
			if n == 1 {
				o.finalize()
			}
			return
		}
	}
}

func (o *MiniObject) finalize() {
	o.mu.Lock()
	o.state.Store(stateFinalizing)
	weak := o.weak
	qdata := o.qdata
	o.weak = nil
	o.qdata = nil
	o.mu.Unlock()

	for _, w := range weak {
		w.notify(w.data, o)
	}
	for _, q := range qdata {
		if q.destroy != nil {
			q.destroy(q.value)
		}
	}
	traceDestroyed(o)

	// Dispose may hand o to another goroutine that reinitialises it at once,
	// so the recycled state must be visible before the call.
	o.state.Store(stateRecycled)
	if dispose := o.class.Dispose; dispose != nil && !dispose(o) {
		return
	}
	o.free()
}

// Destroy frees a recycled instance that its pool decided not to reuse.
// Destroying anything but a recycled instance panics with
// api.ErrUseAfterFree (dead) or api.ErrInvalidArgument (alive).
func (o *MiniObject) Destroy() {
	o.mu.Lock()
	st := o.state.Load()
	if st != stateRecycled {
		o.mu.Unlock()
		code, cause := api.ErrCodeInvalidArgument, api.ErrInvalidArgument
		if st == stateDead {
			code, cause = api.ErrCodeUseAfterFree, api.ErrUseAfterFree
		}
		panic(api.Wrap(code, cause).
			WithContext("op", "destroy").
			WithContext("type", o.TypeName()).
			WithContext("state", stateName(st)))
	}
	o.state.Store(stateFinalizing)
	o.mu.Unlock()
	o.free()
}

func (o *MiniObject) free() {
	if free := o.class.Free; free != nil {
		free(o)
	}
	o.self = nil
	o.state.Store(stateDead)
}

// Copy returns a new, independent object with refcount 1, no weak
// references and no qdata. The copy never carries FlagReadonly.
func (o *MiniObject) Copy() (*MiniObject, error) {
	if !o.class.CanCopy() {
		return nil, fmt.Errorf("%s: %w", o.TypeName(), api.ErrCopyUnsupported)
	}
	cp, err := o.class.Copy(o)
	if err != nil {
		return nil, fmt.Errorf("%s: copy: %w", o.TypeName(), err)
	}
	cp.UnsetFlags(FlagReadonly)
	return cp, nil
}

// String implements fmt.Stringer for diagnostics.
func (o *MiniObject) String() string {
	return fmt.Sprintf("%s@%p(refcount=%d, flags=%#x, state=%s)",
		o.TypeName(), o, o.refcount.Load(), o.flags.Load(), stateName(o.state.Load()))
}

func (o *MiniObject) useAfterFree(op string, before int32) *api.Error {
	return api.Wrap(api.ErrCodeUseAfterFree, api.ErrUseAfterFree).
		WithContext("op", op).
		WithContext("type", o.TypeName()).
		WithContext("refcount", before)
}

func stateName(st uint32) string {
	switch st {
	case stateAlive:
		return "alive"
	case stateFinalizing:
		return "finalizing"
	case stateRecycled:
		return "recycled"
	case stateDead:
		return "dead"
	default:
		return "unknown"
	}
}
