package buffer_test

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/momentics/hioload-mo/api"
	"github.com/momentics/hioload-mo/buffer"
	"github.com/momentics/hioload-mo/control"
	"github.com/momentics/hioload-mo/core/miniobject"
	"github.com/momentics/hioload-mo/pool"
)

func TestPoolRecyclesOnLastUnref(t *testing.T) {
	p, err := buffer.NewPool(256, pool.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	b, err := p.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	b.PTS = 99
	b.Resize(10)
	b.Fill(0, []byte("secret"))
	b.SetFlags(buffer.FlagHeader)

	var notified int
	b.WeakRef(func(any, *miniobject.MiniObject) { notified++ }, nil)
	b.Ref()
	b.Unref()
	b.Unref()

	if st := p.Stats(); st.Added != 1 || st.Free != 1 {
		t.Fatalf("after unref stats %+v", st)
	}
	if notified != 1 {
		t.Errorf("weak notify fired %d times", notified)
	}
	if b.Bytes() == nil {
		t.Error("recycled buffer lost its memory")
	}

	again, err := p.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	if again != b {
		t.Error("pool allocated instead of reusing the parked buffer")
	}
	if again.RefCount() != 1 || again.PTS != buffer.ClockTimeNone || again.Len() != 256 || again.Flags() != 0 {
		t.Errorf("reused buffer not reinitialised: %s pts=%v len=%d", again.String(), again.PTS, again.Len())
	}
	if bytes.Count(again.Bytes(), []byte{0}) != again.Len() {
		t.Error("reused buffer still holds the previous payload")
	}
	again.Unref()
	if p.Live() != 1 {
		t.Errorf("Live %d, want 1", p.Live())
	}
}

func TestPoolProducerConsumer(t *testing.T) {
	p, err := buffer.NewPool(64, pool.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	// The producer waits for each drain so every buffer is a fresh
	// allocation.
	dropped := make(chan struct{})
	drained := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer close(dropped)
		for i := 0; i < 10; i++ {
			b, err := p.Acquire()
			if err != nil {
				t.Error(err)
				return
			}
			b.Fill(0, []byte{byte(i)})
			b.Unref()
			dropped <- struct{}{}
			<-drained
		}
	}()
	destroyed := 0
	go func() {
		defer wg.Done()
		for range dropped {
			destroyed += p.Drain()
			drained <- struct{}{}
		}
	}()
	wg.Wait()

	if destroyed != 10 {
		t.Errorf("destroyed %d, want 10", destroyed)
	}
	if p.Live() != 0 {
		t.Errorf("leaked %d buffers", p.Live())
	}
	p.Close()
}

func TestPoolBoundedOverflowAndClose(t *testing.T) {
	p, err := buffer.NewPool(32, pool.Config{MaxFree: 2, Bounded: true})
	if err != nil {
		t.Fatal(err)
	}
	bufs := make([]*buffer.Buffer, 4)
	for i := range bufs {
		if bufs[i], err = p.Acquire(); err != nil {
			t.Fatal(err)
		}
	}
	held := bufs[3]
	for _, b := range bufs[:3] {
		b.Unref()
	}
	if st := p.Stats(); st.Free != 2 || st.Discarded != 1 {
		t.Errorf("stats %+v, want 2 parked and 1 discarded", st)
	}
	if p.Live() != 3 {
		t.Errorf("Live %d, want 3", p.Live())
	}

	p.Close()
	if _, err := p.Acquire(); !errors.Is(err, api.ErrPoolClosed) {
		t.Errorf("Acquire after close: expected ErrPoolClosed, got %v", err)
	}
	held.Unref()
	if p.Live() != 0 {
		t.Errorf("Live %d after close and final unref, want 0", p.Live())
	}
}

func TestPoolPrealloc(t *testing.T) {
	p, err := buffer.NewPool(16, pool.Config{MaxFree: 8, Prealloc: 3})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	if st := p.Stats(); st.Free != 3 {
		t.Errorf("parked %d, want 3", st.Free)
	}
	if p.Live() != 3 {
		t.Errorf("Live %d, want 3", p.Live())
	}
}

func TestPoolWatchesConfigStore(t *testing.T) {
	cs := control.NewConfigStore(nil)
	p, err := buffer.NewPool(16, pool.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	if !p.Watch(cs) {
		t.Fatal("FreeList-backed pool refused to watch config")
	}
	cs.SetConfigSync(map[string]any{pool.KeyMaxFree: 1})

	a, _ := p.Acquire()
	b, _ := p.Acquire()
	a.Unref()
	b.Unref()
	if st := p.Stats(); st.Free != 1 || st.Discarded != 1 {
		t.Errorf("stats %+v after max_free=1", st)
	}
}

func TestPoolCopyIsNotPooled(t *testing.T) {
	p, err := buffer.NewPool(16, pool.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	b, _ := p.Acquire()
	cp, err := b.Copy()
	if err != nil {
		t.Fatal(err)
	}
	cp.Unref()
	if st := p.Stats(); st.Added != 0 {
		t.Errorf("copy of pooled buffer was recycled: %+v", st)
	}
	b.Unref()
	if st := p.Stats(); st.Added != 1 {
		t.Errorf("pooled buffer not recycled: %+v", st)
	}
}

func TestNewPoolRejectsBadArguments(t *testing.T) {
	if _, err := buffer.NewPool(0, pool.DefaultConfig()); !errors.Is(err, api.ErrInvalidArgument) {
		t.Errorf("size 0: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := buffer.NewPool(8, pool.Config{Bounded: true}); !errors.Is(err, api.ErrInvalidArgument) {
		t.Errorf("bounded without cap: expected ErrInvalidArgument, got %v", err)
	}
}
