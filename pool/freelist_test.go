package pool_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/momentics/hioload-mo/api"
	"github.com/momentics/hioload-mo/pool"
)

type item struct{ id int }

func TestFreeListFIFO(t *testing.T) {
	fl := pool.NewFreeList[*item](0, nil)
	for i := 0; i < 3; i++ {
		fl.Add(&item{id: i})
	}
	if fl.Len() != 3 {
		t.Fatalf("Len %d, want 3", fl.Len())
	}
	for i := 0; i < 3; i++ {
		it, ok := fl.TryTake()
		if !ok || it.id != i {
			t.Fatalf("take %d: got %v, %v", i, it, ok)
		}
	}
	if _, ok := fl.TryTake(); ok {
		t.Error("TryTake on empty list succeeded")
	}
	st := fl.Stats()
	if st.Added != 3 || st.Taken != 3 || st.Free != 0 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestFreeListMaxFreeDiscards(t *testing.T) {
	var discarded []int
	fl := pool.NewFreeList(2, func(it *item) { discarded = append(discarded, it.id) })
	for i := 0; i < 4; i++ {
		fl.Add(&item{id: i})
	}
	if fl.Len() != 2 {
		t.Errorf("Len %d, want 2", fl.Len())
	}
	if len(discarded) != 2 || discarded[0] != 2 || discarded[1] != 3 {
		t.Errorf("discarded %v, want [2 3]", discarded)
	}
	fl.SetMaxFree(3)
	fl.Add(&item{id: 4})
	if fl.Len() != 3 {
		t.Errorf("Len after raising cap %d, want 3", fl.Len())
	}
}

func TestFreeListCloseDrainsAndDiscards(t *testing.T) {
	var discarded int
	fl := pool.NewFreeList(0, func(*item) { discarded++ })
	fl.Add(&item{})
	fl.Add(&item{})
	fl.Close()
	if discarded != 2 || fl.Len() != 0 {
		t.Fatalf("close discarded %d, Len %d", discarded, fl.Len())
	}
	fl.Add(&item{})
	if discarded != 3 {
		t.Error("add after close was not discarded")
	}
	fl.Close()
	if st := fl.Stats(); st.Discarded != 3 {
		t.Errorf("Discarded %d, want 3", st.Discarded)
	}
}

func TestFreeListDrain(t *testing.T) {
	fl := pool.NewFreeList[*item](0, nil)
	for i := 0; i < 5; i++ {
		fl.Add(&item{id: i})
	}
	var sum int
	if n := fl.Drain(func(it *item) { sum += it.id }); n != 5 {
		t.Errorf("drained %d, want 5", n)
	}
	if sum != 10 || fl.Len() != 0 {
		t.Errorf("sum %d Len %d", sum, fl.Len())
	}
}

func TestFreeListConcurrentAddTake(t *testing.T) {
	const producers = 8
	const perProducer = 2000

	fl := pool.NewFreeList[*item](0, nil)
	var wg sync.WaitGroup
	var mu sync.Mutex
	taken := 0

	for p := 0; p < producers; p++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				fl.Add(&item{id: i})
			}
		}()
		go func() {
			defer wg.Done()
			n := 0
			for i := 0; i < perProducer; i++ {
				if _, ok := fl.TryTake(); ok {
					n++
				}
			}
			mu.Lock()
			taken += n
			mu.Unlock()
		}()
	}
	wg.Wait()

	if got := taken + fl.Len(); got != producers*perProducer {
		t.Errorf("taken+parked %d, want %d", got, producers*perProducer)
	}
}

func TestFreeListWatchesReload(t *testing.T) {
	src := &staticSource{cfg: map[string]any{pool.KeyMaxFree: 1}}
	fl := pool.NewFreeList[*item](8, nil)
	fl.Watch(src)
	src.reload()

	fl.Add(&item{})
	fl.Add(&item{})
	if fl.Len() != 1 {
		t.Errorf("Len %d after reload to max_free=1", fl.Len())
	}

	src.cfg[pool.KeyMaxFree] = "bogus"
	src.reload()
	fl.Add(&item{})
	if fl.Len() != 1 {
		t.Error("invalid reload changed the cap")
	}
}

func TestNewStoreSelectsImplementation(t *testing.T) {
	s, err := pool.NewStore[*item](pool.Config{MaxFree: 4, Bounded: true}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*pool.BoundedFreeList[*item]); !ok {
		t.Errorf("bounded config produced %T", s)
	}
	s, err = pool.NewStore[*item](pool.DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*pool.FreeList[*item]); !ok {
		t.Errorf("default config produced %T", s)
	}
	if _, err := pool.NewStore[*item](pool.Config{Bounded: true}, nil); !errors.Is(err, api.ErrInvalidArgument) {
		t.Errorf("bounded without max_free: expected ErrInvalidArgument, got %v", err)
	}
}

type staticSource struct {
	cfg       map[string]any
	listeners []func()
}

func (s *staticSource) GetSnapshot() map[string]any { return s.cfg }
func (s *staticSource) OnReload(fn func())          { s.listeners = append(s.listeners, fn) }
func (s *staticSource) reload() {
	for _, fn := range s.listeners {
		fn()
	}
}
