// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime configuration, metrics and debug introspection for mini-object
// pools and lifecycles.
//
// Provides concurrent-safe state handling primitives including:
//   - Config snapshots with merge updates and reload listeners
//   - Metrics counters and gauges
//   - Debug probe registration and state export
//   - A leak tracer over mini-object creation and destruction
package control
