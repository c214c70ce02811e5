// File: core/miniobject/qdata.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Keyed user data attached to a mini-object, destroyed with it.

package miniobject

import "github.com/momentics/hioload-mo/api"

type qdataEntry struct {
	key     string
	value   any
	destroy func(any)
}

// SetQData attaches value under key. A previous value under the same key is
// replaced and its destroy hook runs. A nil value removes the key. destroy,
// if set, runs once when the object finalizes or the value is replaced.
// Copies never inherit qdata. Attaching to an object that already started
// finalizing panics with api.ErrUseAfterFree.
func (o *MiniObject) SetQData(key string, value any, destroy func(any)) {
	var old qdataEntry
	o.mu.Lock()
	if st := o.state.Load(); st != stateAlive {
		o.mu.Unlock()
		panic(api.Wrap(api.ErrCodeUseAfterFree, api.ErrUseAfterFree).
			WithContext("op", "set-qdata").
			WithContext("type", o.TypeName()).
			WithContext("key", key).
			WithContext("state", stateName(st)))
	}
	idx := o.findQData(key)
	if idx >= 0 {
		old = o.qdata[idx]
		o.removeQData(idx)
	}
	if value != nil {
		o.qdata = append(o.qdata, qdataEntry{key: key, value: value, destroy: destroy})
	}
	o.mu.Unlock()

	if old.destroy != nil {
		old.destroy(old.value)
	}
}

// QData returns the value stored under key.
func (o *MiniObject) QData(key string) (any, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if idx := o.findQData(key); idx >= 0 {
		return o.qdata[idx].value, true
	}
	return nil, false
}

// StealQData removes the value under key without running its destroy hook.
func (o *MiniObject) StealQData(key string) (any, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	idx := o.findQData(key)
	if idx < 0 {
		return nil, false
	}
	v := o.qdata[idx].value
	o.removeQData(idx)
	return v, true
}

func (o *MiniObject) findQData(key string) int {
	for i := range o.qdata {
		if o.qdata[i].key == key {
			return i
		}
	}
	return -1
}

func (o *MiniObject) removeQData(idx int) {
	last := len(o.qdata) - 1
	o.qdata[idx] = o.qdata[last]
	o.qdata[last] = qdataEntry{}
	o.qdata = o.qdata[:last]
}
