// File: value/properties.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Named mini-object properties with change notification.

package value

import (
	"sort"
	"sync"

	"github.com/momentics/hioload-mo/api"
	"github.com/momentics/hioload-mo/core/miniobject"
)

// PropertyStore maps property names to boxed mini-objects. Getters hand
// out references of their own, independent of the store's bookkeeping.
type PropertyStore struct {
	mu        sync.RWMutex
	props     map[string]*Box[*miniobject.MiniObject]
	listeners []func(name string)
}

// NewPropertyStore initializes an empty store.
func NewPropertyStore() *PropertyStore {
	return &PropertyStore{
		props: make(map[string]*Box[*miniobject.MiniObject]),
	}
}

// SetProperty stores obj under name. With api.Owned the caller's reference
// moves into the store; with api.Borrow the caller keeps obj alive for as
// long as it stays set. A nil obj clears the property.
//
// The displaced value is released after the store lock is dropped, so its
// finalizers may call back into the store.
func (s *PropertyStore) SetProperty(name string, obj miniobject.Handle, transfer api.Transfer) {
	var mo *miniobject.MiniObject
	if obj != nil {
		mo = obj.Base()
	}
	var old Box[*miniobject.MiniObject]
	s.mu.Lock()
	box, ok := s.props[name]
	if ok {
		old.Set(box.Steal())
	}
	switch {
	case mo == nil && ok:
		delete(s.props, name)
	case mo == nil:
	case ok:
		box.Set(mo, transfer)
	default:
		s.props[name] = NewBox(mo, transfer)
	}
	listeners := s.listeners
	s.mu.Unlock()

	old.Reset()
	for _, fn := range listeners {
		fn(name)
	}
}

// Property returns a new reference to the object stored under name, or nil.
// The caller owns the returned reference.
func (s *PropertyStore) Property(name string) *miniobject.MiniObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if box, ok := s.props[name]; ok {
		return box.Dup()
	}
	return nil
}

// BorrowProperty returns the stored object without a reference. It is only
// valid while the property stays set.
func (s *PropertyStore) BorrowProperty(name string) *miniobject.MiniObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if box, ok := s.props[name]; ok {
		return box.Get()
	}
	return nil
}

// PropertyAs is the typed form of Property.
func PropertyAs[T miniobject.Object](s *PropertyStore, name string) (T, bool) {
	var zero T
	mo := s.Property(name)
	if mo == nil {
		return zero, false
	}
	v, ok := mo.Self().(T)
	if !ok {
		mo.Unref()
		return zero, false
	}
	return v, true
}

// Names returns the set property names, sorted.
func (s *PropertyStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.props))
	for name := range s.props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OnChange registers a listener called after every SetProperty.
func (s *PropertyStore) OnChange(fn func(name string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Reset releases every owned property and empties the store.
func (s *PropertyStore) Reset() {
	s.mu.Lock()
	props := s.props
	s.props = make(map[string]*Box[*miniobject.MiniObject])
	s.mu.Unlock()
	for _, box := range props {
		box.Reset()
	}
}
