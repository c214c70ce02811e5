// Package pool
// Author: momentics <momentics@gmail.com>
//
// Recycling collaborators for pooled mini-object classes.
//
// A pooled class hands every finalized instance to an api.Recycler through
// its Dispose hook. FreeList parks instances in a mutex-guarded FIFO shared
// with the consumer side; BoundedFreeList does the same over a lock-free
// ring and discards on overflow. Whoever owns the pool decides when to take
// instances back (and must Reinit them) or drain and destroy them.
//
// ByteSlab backs payload memory with size-classed sync.Pool tiers.
package pool
