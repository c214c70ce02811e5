// File: api/types.go
// Author: momentics <momentics@gmail.com>
//
// Shared API-level type declarations and constants.

package api

// Transfer declares who owns the reference moving into a container.
type Transfer int

const (
	// Borrow wraps the object without taking a reference; the caller keeps
	// the object alive for as long as the container uses it.
	Borrow Transfer = iota
	// Owned hands the caller's reference over to the container.
	Owned
)

func (t Transfer) String() string {
	switch t {
	case Borrow:
		return "borrow"
	case Owned:
		return "owned"
	default:
		return "unknown"
	}
}
