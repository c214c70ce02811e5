// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"sync/atomic"

	"github.com/momentics/hioload-mo/api"
	"github.com/momentics/hioload-mo/core/miniobject"
)

// Payload is a minimal mini-object carrying a string.
type Payload struct {
	miniobject.MiniObject

	Value string
	freed atomic.Int32
}

// Freed returns how many times the class Free ran on p.
func (p *Payload) Freed() int32 { return p.freed.Load() }

// PayloadClass is copyable and counts frees.
var PayloadClass = &miniobject.Class{
	Name: "FakePayload",
	Free: freePayload,
}

func init() { PayloadClass.Copy = copyPayload }

// UncopyableClass declares no copy function.
var UncopyableClass = &miniobject.Class{
	Name: "FakeUncopyable",
	Free: freePayload,
}

// NewPayload creates a copyable payload with refcount 1.
func NewPayload(value string) *Payload {
	return NewPayloadOf(PayloadClass, value)
}

// NewPayloadOf creates a payload bound to class.
func NewPayloadOf(class *miniobject.Class, value string) *Payload {
	p := &Payload{Value: value}
	miniobject.Init(&p.MiniObject, class, p, 0)
	return p
}

// PooledClass returns a class whose finalize hands instances to rec.
func PooledClass(rec api.Recycler[*Payload]) *miniobject.Class {
	return &miniobject.Class{
		Name: "FakePooled",
		Copy: copyPayload,
		Dispose: func(o *miniobject.MiniObject) bool {
			rec.Add(o.Self().(*Payload))
			return false
		},
		Free: freePayload,
	}
}

func copyPayload(o *miniobject.MiniObject) (*miniobject.MiniObject, error) {
	src := o.Self().(*Payload)
	dst := NewPayload(src.Value)
	dst.SetFlags(src.Flags())
	return &dst.MiniObject, nil
}

func freePayload(o *miniobject.MiniObject) {
	o.Self().(*Payload).freed.Add(1)
}
