package value_test

import (
	"testing"

	"github.com/momentics/hioload-mo/api"
	"github.com/momentics/hioload-mo/buffer"
	"github.com/momentics/hioload-mo/value"
)

func TestBoxOwnedRoundTrip(t *testing.T) {
	b := buffer.NewWrapped([]byte("payload"))
	box := value.NewBox(b, api.Owned) // box takes our reference
	if box.Transfer() != api.Owned || box.IsEmpty() {
		t.Fatalf("box state: %v empty=%v", box.Transfer(), box.IsEmpty())
	}

	got := box.Get()
	if got != b || got.RefCount() != 1 {
		t.Fatalf("Get returned %p refcount %d", got, got.RefCount())
	}

	dup := box.Dup()
	if dup != b || b.RefCount() != 2 {
		t.Fatalf("Dup refcount %d, want 2", b.RefCount())
	}
	dup.Unref()

	box.Reset()
	if !box.IsEmpty() {
		t.Error("box not empty after Reset")
	}
	if b.Bytes() != nil {
		t.Error("Reset did not release the owned buffer")
	}
}

func TestBoxBorrowDoesNotOwn(t *testing.T) {
	b := buffer.NewWrapped([]byte("borrowed"))
	box := value.NewBox(b, api.Borrow)
	if b.RefCount() != 1 {
		t.Fatalf("borrowing changed refcount to %d", b.RefCount())
	}
	box.Reset()
	if b.RefCount() != 1 || b.Bytes() == nil {
		t.Error("resetting a borrowing box released the buffer")
	}
	b.Unref()
}

func TestBoxSetReleasesPrevious(t *testing.T) {
	a := buffer.NewWrapped([]byte("a"))
	b := buffer.NewWrapped([]byte("b"))
	box := value.NewBox(a, api.Owned)

	b.Ref()
	box.Set(b, api.Owned)
	if a.Bytes() != nil {
		t.Error("Set did not release the previously owned buffer")
	}
	if b.RefCount() != 2 || box.Get() != b {
		t.Errorf("after Set refcount %d", b.RefCount())
	}

	obj, transfer := box.Steal()
	if obj != b || transfer != api.Owned || !box.IsEmpty() {
		t.Errorf("Steal returned %p %v", obj, transfer)
	}
	obj.Unref()
	b.Unref()
}

func TestEmptyBoxYieldsNil(t *testing.T) {
	var box value.Box[*buffer.Buffer]
	if box.Get() != nil {
		t.Error("Get on empty box returned non-nil")
	}
	if box.Dup() != nil {
		t.Error("Dup on empty box returned non-nil")
	}
	box.Reset()
}
