// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"sync"

	"github.com/momentics/hioload-mo/api"
)

var _ api.Recycler[any] = (*Recycler[any])(nil)

// Recycler records every instance handed to Add and returns them LIFO.
type Recycler[T any] struct {
	mu     sync.Mutex
	parked []T
	adds   int
}

// Add parks obj.
func (r *Recycler[T]) Add(obj T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parked = append(r.parked, obj)
	r.adds++
}

// TryTake pops the most recently parked instance.
func (r *Recycler[T]) TryTake() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	if len(r.parked) == 0 {
		return zero, false
	}
	last := len(r.parked) - 1
	obj := r.parked[last]
	r.parked[last] = zero
	r.parked = r.parked[:last]
	return obj, true
}

// Adds returns the total number of Add calls.
func (r *Recycler[T]) Adds() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.adds
}

// Parked returns the number of instances waiting in the recycler.
func (r *Recycler[T]) Parked() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.parked)
}
