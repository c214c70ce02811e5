package caps_test

import (
	"errors"
	"testing"

	"github.com/momentics/hioload-mo/api"
	"github.com/momentics/hioload-mo/caps"
	"github.com/momentics/hioload-mo/core/miniobject"
)

func TestCapsBasics(t *testing.T) {
	c := caps.New(caps.NewStructure("video/x-raw", "width", 1920, "height", 1080))
	defer c.Unref()
	if !c.IsFixed() || c.IsEmpty() || c.IsAny() {
		t.Errorf("unexpected caps kind: %s", c)
	}
	if got := c.String(); got != "video/x-raw, height=1080, width=1920" {
		t.Errorf("String() = %q", got)
	}
	s, ok := c.Structure(0)
	if !ok || s.Fields["width"] != 1920 {
		t.Fatalf("Structure(0) = %v, %v", s, ok)
	}
	s.Fields["width"] = 1
	if again, _ := c.Structure(0); again.Fields["width"] != 1920 {
		t.Error("Structure returned an aliased map")
	}
	if _, ok := c.Structure(5); ok {
		t.Error("out of range structure returned ok")
	}
}

func TestCapsCopyOnWrite(t *testing.T) {
	c := caps.New(caps.NewStructure("audio/x-raw", "rate", 48000))
	shared := c.Ref()

	if err := c.SetField("rate", 44100); !errors.Is(err, api.ErrNotWritable) {
		t.Fatalf("SetField on shared caps: expected ErrNotWritable, got %v", err)
	}
	w, err := c.MakeWritable()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.SetField("rate", 44100); err != nil {
		t.Fatal(err)
	}
	if err := w.Append(caps.NewStructure("audio/x-opus")); err != nil {
		t.Fatal(err)
	}
	if s, _ := shared.Structure(0); s.Fields["rate"] != 48000 || shared.Size() != 1 {
		t.Errorf("original changed: %s", shared)
	}
	if w.Size() != 2 || w.IsFixed() {
		t.Errorf("writable copy: %s", w)
	}
	w.Unref()
	shared.Unref()
}

func TestAnyCapsIsSharedAndReadonly(t *testing.T) {
	a := caps.Any()
	b := caps.Any()
	if a != b {
		t.Fatal("Any returned different instances")
	}
	b.Unref()
	if a.IsWritable() {
		t.Error("shared ANY caps reported writable")
	}
	if a.String() != "ANY" {
		t.Errorf("String() = %q", a.String())
	}

	w, err := a.MakeWritable()
	if err != nil {
		t.Fatal(err)
	}
	if w == a || !w.IsAny() || !w.IsWritable() {
		t.Errorf("MakeWritable on ANY produced %s", w)
	}
	w.Unref()

	empty := caps.New()
	if !empty.IsEmpty() || empty.String() != "EMPTY" {
		t.Errorf("empty caps: %s", empty)
	}
	empty.Unref()
}

func TestCapsCopyKeepsFlagsButReadonly(t *testing.T) {
	c := caps.New(caps.NewStructure("video/x-h264"))
	c.SetFlags(miniobject.FlagMayBeLeaked | miniobject.FlagReadonly)
	shared := c.Ref()

	w, err := c.MakeWritable()
	if err != nil {
		t.Fatal(err)
	}
	if w == shared {
		t.Fatal("MakeWritable returned the shared caps")
	}
	if !w.HasFlag(miniobject.FlagMayBeLeaked) {
		t.Error("copy dropped FlagMayBeLeaked")
	}
	if w.HasFlag(miniobject.FlagReadonly) || !w.IsWritable() {
		t.Error("copy is not writable")
	}
	w.Unref()
	shared.Unref()
}
