// File: caps/caps.go
// Package caps
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Capability descriptor mini-object: an ordered list of media structures.

package caps

import (
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"

	"github.com/momentics/hioload-mo/api"
	"github.com/momentics/hioload-mo/core/miniobject"
)

// Structure is a named set of fields such as
// video/x-raw, width=1920, height=1080.
type Structure struct {
	Name   string
	Fields map[string]any
}

// NewStructure builds a structure from alternating key/value pairs.
func NewStructure(name string, kv ...any) Structure {
	s := Structure{Name: name, Fields: make(map[string]any, len(kv)/2)}
	for i := 0; i+1 < len(kv); i += 2 {
		if key, ok := kv[i].(string); ok {
			s.Fields[key] = kv[i+1]
		}
	}
	return s
}

func (s Structure) clone() Structure {
	return Structure{Name: s.Name, Fields: maps.Clone(s.Fields)}
}

// String renders the structure with sorted field names.
func (s Structure) String() string {
	keys := make([]string, 0, len(s.Fields))
	for k := range s.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteString(s.Name)
	for _, k := range keys {
		fmt.Fprintf(&sb, ", %s=%v", k, s.Fields[k])
	}
	return sb.String()
}

// Caps describes what a pad accepts or produces.
type Caps struct {
	miniobject.MiniObject

	any        bool
	structures []Structure
}

var capsClass = &miniobject.Class{Name: "Caps"}

func init() { capsClass.Copy = copyCaps }

// New creates caps holding the given structures.
func New(structures ...Structure) *Caps {
	c := &Caps{structures: make([]Structure, 0, len(structures))}
	for _, s := range structures {
		c.structures = append(c.structures, s.clone())
	}
	miniobject.Init(&c.MiniObject, capsClass, c, 0)
	return c
}

var (
	anyOnce sync.Once
	anyCaps *Caps
)

// Any returns a new reference to the shared, read-only ANY caps.
func Any() *Caps {
	anyOnce.Do(func() {
		anyCaps = &Caps{any: true}
		miniobject.Init(&anyCaps.MiniObject, capsClass, anyCaps,
			miniobject.FlagReadonly|miniobject.FlagMayBeLeaked)
	})
	return anyCaps.Ref()
}

// IsAny reports whether the caps accept anything.
func (c *Caps) IsAny() bool { return c.any }

// IsEmpty reports whether the caps accept nothing.
func (c *Caps) IsEmpty() bool { return !c.any && len(c.structures) == 0 }

// IsFixed reports whether the caps describe exactly one format.
func (c *Caps) IsFixed() bool { return !c.any && len(c.structures) == 1 }

// Size returns the number of structures.
func (c *Caps) Size() int { return len(c.structures) }

// Structure returns a copy of the i-th structure.
func (c *Caps) Structure(i int) (Structure, bool) {
	if i < 0 || i >= len(c.structures) {
		return Structure{}, false
	}
	return c.structures[i].clone(), true
}

// Append adds a structure. The caller must hold the sole reference.
func (c *Caps) Append(s Structure) error {
	if !c.IsWritable() {
		return api.Wrap(api.ErrCodeNotWritable, api.ErrNotWritable).WithContext("op", "append")
	}
	if c.any {
		return nil
	}
	c.structures = append(c.structures, s.clone())
	return nil
}

// SetField sets key on every structure. The caller must hold the sole
// reference.
func (c *Caps) SetField(key string, value any) error {
	if !c.IsWritable() {
		return api.Wrap(api.ErrCodeNotWritable, api.ErrNotWritable).WithContext("op", "set-field")
	}
	for i := range c.structures {
		if c.structures[i].Fields == nil {
			c.structures[i].Fields = make(map[string]any)
		}
		c.structures[i].Fields[key] = value
	}
	return nil
}

// Ref takes a reference and returns c.
func (c *Caps) Ref() *Caps {
	c.MiniObject.Ref()
	return c
}

// MakeWritable returns c if it is writable, otherwise a private copy; the
// caller's reference to c is consumed in the latter case.
func (c *Caps) MakeWritable() (*Caps, error) {
	return miniobject.MakeWritable(c)
}

// String renders caps as "ANY", "EMPTY" or structures joined by "; ".
func (c *Caps) String() string {
	switch {
	case c.any:
		return "ANY"
	case len(c.structures) == 0:
		return "EMPTY"
	}
	parts := make([]string, len(c.structures))
	for i, s := range c.structures {
		parts[i] = s.String()
	}
	return strings.Join(parts, "; ")
}

func copyCaps(o *miniobject.MiniObject) (*miniobject.MiniObject, error) {
	src := o.Self().(*Caps)
	dst := &Caps{any: src.any, structures: make([]Structure, len(src.structures))}
	for i, s := range src.structures {
		dst.structures[i] = s.clone()
	}
	miniobject.Init(&dst.MiniObject, capsClass, dst, src.Flags())
	return &dst.MiniObject, nil
}
