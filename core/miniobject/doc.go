// Package miniobject
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Reference-counted, copy-on-write base for every transient data unit that
// flows through a media pipeline: buffers, events, capability descriptors.
//
// A MiniObject is embedded by value in its payload struct and bound to a
// static Class at construction. Owners share read access through Ref/Unref;
// the sole owner may mutate in place once IsWritable reports true, and
// MakeWritable hands any other owner a private copy. The last Unref fires
// weak notifications and qdata destroy hooks, then runs the class Dispose
// (which may recycle the instance into a pool) or Free.
//
// Ref and Unref are a single compare-and-swap when uncontended and never
// lock. The count never moves away from zero. WeakRef, WeakUnref
// and the finalize transition share one per-object mutex.
package miniobject
