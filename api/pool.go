// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Pool collaborator contracts for mini-object recycling.

package api

// Recycler is the collaborator a pooled mini-object class hands its dead
// instances to. The object core only ever calls Add, from its finalize path;
// TryTake belongs to whoever owns the pool.
type Recycler[T any] interface {
	// Add receives an instance whose last reference was just dropped.
	// Implementations may take a lock shared with the TryTake side.
	Add(obj T)

	// TryTake returns a previously added instance, or false if none is
	// available. The caller must reinitialize the instance before use.
	TryTake() (T, bool)
}

// PoolStats aggregates recycling counters.
type PoolStats struct {
	Added     int64 // instances handed to Add
	Taken     int64 // instances returned by TryTake
	Discarded int64 // instances dropped on overflow or after close
	Free      int64 // instances currently parked
}
