// File: core/miniobject/tracer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Process-wide lifecycle tracer hook.

package miniobject

import "sync/atomic"

// Tracer observes object lifecycles. Hooks run on the goroutine that
// creates or finalizes the object and must not block.
type Tracer interface {
	// ObjectCreated fires from Init and Reinit.
	ObjectCreated(obj *MiniObject)
	// ObjectDestroyed fires at finalization, after weak notifications and
	// before Dispose or Free.
	ObjectDestroyed(obj *MiniObject)
}

type tracerHolder struct{ t Tracer }

var activeTracer atomic.Pointer[tracerHolder]

// SetTracer installs t, or removes the tracer when t is nil, and returns the
// previously installed one.
func SetTracer(t Tracer) Tracer {
	var h *tracerHolder
	if t != nil {
		h = &tracerHolder{t: t}
	}
	if prev := activeTracer.Swap(h); prev != nil {
		return prev.t
	}
	return nil
}

func traceCreated(o *MiniObject) {
	if h := activeTracer.Load(); h != nil {
		h.t.ObjectCreated(o)
	}
}

func traceDestroyed(o *MiniObject) {
	if h := activeTracer.Load(); h != nil {
		h.t.ObjectDestroyed(o)
	}
}
