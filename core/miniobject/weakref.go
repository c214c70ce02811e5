// File: core/miniobject/weakref.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Weak reference registry: non-owning destruction notifications.

package miniobject

import "github.com/momentics/hioload-mo/api"

// WeakNotify is called exactly once when the object it was registered on
// finalizes. obj is passed for identification only: its payload may already
// be on its way into a pool and must not be used.
type WeakNotify func(data any, obj *MiniObject)

// WeakToken identifies one registration. Tokens are never reused on the same
// object, including across pool recycling.
type WeakToken uint64

type weakEntry struct {
	token  WeakToken
	notify WeakNotify
	data   any
}

// WeakRef registers notify to fire at destruction. It does not affect the
// refcount. Registering on an object that already started finalizing panics
// with api.ErrUseAfterFree.
func (o *MiniObject) WeakRef(notify WeakNotify, data any) WeakToken {
	if notify == nil {
		panic(api.Wrap(api.ErrCodeInvalidArgument, api.ErrInvalidArgument).
			WithContext("op", "weak-ref"))
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if st := o.state.Load(); st != stateAlive {
		panic(api.Wrap(api.ErrCodeUseAfterFree, api.ErrUseAfterFree).
			WithContext("op", "weak-ref").
			WithContext("type", o.TypeName()).
			WithContext("state", stateName(st)))
	}
	o.nextToken++
	o.weak = append(o.weak, weakEntry{token: o.nextToken, notify: notify, data: data})
	return o.nextToken
}

// WeakUnref removes a registration. It reports false when the token is
// unknown or the object already started finalizing, in which case the
// notification has fired or is about to.
func (o *MiniObject) WeakUnref(token WeakToken) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.Load() != stateAlive {
		return false
	}
	for i := range o.weak {
		if o.weak[i].token == token {
			last := len(o.weak) - 1
			copy(o.weak[i:], o.weak[i+1:])
			o.weak[last] = weakEntry{}
			o.weak = o.weak[:last]
			return true
		}
	}
	return false
}

// WeakRefCount returns the number of pending registrations.
func (o *MiniObject) WeakRefCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.weak)
}
