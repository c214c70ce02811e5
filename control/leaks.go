// control/leaks.go
// Author: momentics <momentics@gmail.com>
//
// Leak tracer: tracks live mini-objects between creation and destruction.

package control

import (
	"log"
	"sort"
	"sync"

	"github.com/momentics/hioload-mo/core/miniobject"
)

var _ miniobject.Tracer = (*LeakTracer)(nil)

// LeakRecord describes one object still alive at report time.
type LeakRecord struct {
	Type     string
	RefCount int32
	Object   string
}

// LeakTracer records every created mini-object until it is destroyed.
// Objects flagged FlagMayBeLeaked at creation are ignored.
type LeakTracer struct {
	mu      sync.Mutex
	live    map[*miniobject.MiniObject]struct{}
	metrics *MetricsRegistry

	installed bool
	prev      miniobject.Tracer
}

// NewLeakTracer creates a tracer publishing per-type counters to metrics
// (may be nil).
func NewLeakTracer(metrics *MetricsRegistry) *LeakTracer {
	return &LeakTracer{
		live:    make(map[*miniobject.MiniObject]struct{}),
		metrics: metrics,
	}
}

// Install makes lt the process-wide tracer.
func (lt *LeakTracer) Install() {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	if lt.installed {
		return
	}
	lt.prev = miniobject.SetTracer(lt)
	lt.installed = true
}

// Uninstall restores the tracer that was active before Install.
func (lt *LeakTracer) Uninstall() {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	if !lt.installed {
		return
	}
	miniobject.SetTracer(lt.prev)
	lt.prev = nil
	lt.installed = false
}

func (lt *LeakTracer) ObjectCreated(obj *miniobject.MiniObject) {
	if obj.HasFlag(miniobject.FlagMayBeLeaked) {
		return
	}
	lt.mu.Lock()
	lt.live[obj] = struct{}{}
	lt.mu.Unlock()
	lt.count("objects.created.", obj, 1)
	lt.count("objects.live.", obj, 1)
}

func (lt *LeakTracer) ObjectDestroyed(obj *miniobject.MiniObject) {
	lt.mu.Lock()
	_, tracked := lt.live[obj]
	delete(lt.live, obj)
	lt.mu.Unlock()
	if !tracked {
		return
	}
	lt.count("objects.destroyed.", obj, 1)
	lt.count("objects.live.", obj, -1)
}

func (lt *LeakTracer) count(prefix string, obj *miniobject.MiniObject, delta int64) {
	if lt.metrics != nil {
		if _, err := lt.metrics.Add(prefix+obj.TypeName(), delta); err != nil {
			log.Printf("leaks: %v", err)
		}
	}
}

// LiveCount returns the number of tracked live objects.
func (lt *LeakTracer) LiveCount() int {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	return len(lt.live)
}

// Live returns the tracked live objects ordered by type.
func (lt *LeakTracer) Live() []LeakRecord {
	lt.mu.Lock()
	out := make([]LeakRecord, 0, len(lt.live))
	for obj := range lt.live {
		out = append(out, LeakRecord{
			Type:     obj.TypeName(),
			RefCount: obj.RefCount(),
			Object:   obj.String(),
		})
	}
	lt.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Object < out[j].Object
	})
	return out
}

// Report logs every live object and returns how many there were.
func (lt *LeakTracer) Report() int {
	live := lt.Live()
	for _, rec := range live {
		log.Printf("leaks: %s still alive (refcount=%d): %s", rec.Type, rec.RefCount, rec.Object)
	}
	if len(live) > 0 {
		log.Printf("leaks: %d mini-objects alive", len(live))
	}
	return len(live)
}
