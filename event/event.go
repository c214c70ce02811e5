// File: event/event.go
// Package event
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Control event mini-object travelling alongside buffers.

package event

import (
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-mo/api"
	"github.com/momentics/hioload-mo/core/miniobject"
)

// Type enumerates event kinds.
type Type int

const (
	TypeUnknown Type = iota
	TypeFlushStart
	TypeFlushStop
	TypeStreamStart
	TypeCaps
	TypeSegment
	TypeTag
	TypeGap
	TypeEOS
	TypeCustom
)

func (t Type) String() string {
	switch t {
	case TypeFlushStart:
		return "flush-start"
	case TypeFlushStop:
		return "flush-stop"
	case TypeStreamStart:
		return "stream-start"
	case TypeCaps:
		return "caps"
	case TypeSegment:
		return "segment"
	case TypeTag:
		return "tag"
	case TypeGap:
		return "gap"
	case TypeEOS:
		return "eos"
	case TypeCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Field names used by the typed constructors.
const (
	FieldCaps     = "caps"
	FieldStreamID = "stream-id"
)

var seqnum atomic.Uint32

// NextSeqnum returns a process-wide sequence number, never zero.
func NextSeqnum() uint32 {
	for {
		if n := seqnum.Add(1); n != 0 {
			return n
		}
	}
}

// Event is a typed control message. Field values that are mini-objects are
// owned by the event: they are referenced on copy and released when the
// event dies.
type Event struct {
	miniobject.MiniObject

	typ       Type
	seqnum    uint32
	Timestamp time.Duration
	fields    map[string]any
}

var eventClass = &miniobject.Class{
	Name: "Event",
	Free: freeEvent,
}

func init() { eventClass.Copy = copyEvent }

// New creates an event of type t. Mini-object values in fields are taken
// over with their caller references.
func New(t Type, fields map[string]any) *Event {
	e := &Event{typ: t, seqnum: NextSeqnum(), Timestamp: -1, fields: make(map[string]any, len(fields))}
	for k, v := range fields {
		e.fields[k] = v
	}
	miniobject.Init(&e.MiniObject, eventClass, e, 0)
	return e
}

// NewCaps creates a caps event. It takes over the caller's reference to c.
func NewCaps(c miniobject.Handle) *Event {
	return New(TypeCaps, map[string]any{FieldCaps: c})
}

// NewStreamStart creates a stream-start event.
func NewStreamStart(streamID string) *Event {
	return New(TypeStreamStart, map[string]any{FieldStreamID: streamID})
}

// NewEOS creates an end-of-stream event.
func NewEOS() *Event { return New(TypeEOS, nil) }

// Type returns the event kind.
func (e *Event) Type() Type { return e.typ }

// Seqnum returns the event sequence number.
func (e *Event) Seqnum() uint32 { return e.seqnum }

// SetSeqnum overrides the sequence number. The caller must hold the sole
// reference.
func (e *Event) SetSeqnum(n uint32) error {
	if !e.IsWritable() {
		return api.Wrap(api.ErrCodeNotWritable, api.ErrNotWritable).WithContext("op", "set-seqnum")
	}
	e.seqnum = n
	return nil
}

// Field returns a borrowed field value. Mini-object values stay owned by
// the event; Ref them to keep them past the event.
func (e *Event) Field(key string) (any, bool) {
	v, ok := e.fields[key]
	return v, ok
}

// SetField stores value under key, releasing a mini-object previously
// stored there. A mini-object value is taken over with the caller's
// reference. The caller must hold the sole reference to e.
func (e *Event) SetField(key string, value any) error {
	if !e.IsWritable() {
		return api.Wrap(api.ErrCodeNotWritable, api.ErrNotWritable).WithContext("op", "set-field")
	}
	if old, ok := e.fields[key].(miniobject.Handle); ok {
		old.Base().Unref()
	}
	e.fields[key] = value
	return nil
}

// Ref takes a reference and returns e.
func (e *Event) Ref() *Event {
	e.MiniObject.Ref()
	return e
}

// MakeWritable returns e if it is writable, otherwise a private copy that
// keeps the seqnum; the caller's reference to e is consumed in that case.
func (e *Event) MakeWritable() (*Event, error) {
	return miniobject.MakeWritable(e)
}

func copyEvent(o *miniobject.MiniObject) (*miniobject.MiniObject, error) {
	src := o.Self().(*Event)
	dst := &Event{
		typ:       src.typ,
		seqnum:    src.seqnum,
		Timestamp: src.Timestamp,
		fields:    make(map[string]any, len(src.fields)),
	}
	for k, v := range src.fields {
		if mo, ok := v.(miniobject.Handle); ok {
			mo.Base().Ref()
		}
		dst.fields[k] = v
	}
	miniobject.Init(&dst.MiniObject, eventClass, dst, src.Flags())
	return &dst.MiniObject, nil
}

func freeEvent(o *miniobject.MiniObject) {
	e := o.Self().(*Event)
	for k, v := range e.fields {
		if mo, ok := v.(miniobject.Handle); ok {
			mo.Base().Unref()
		}
		delete(e.fields, k)
	}
}
