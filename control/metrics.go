// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics collector.
// Exposes values in a thread-safe map with dynamic registration.

package control

import (
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/momentics/hioload-mo/api"
)

// MetricsRegistry holds named metric values.
type MetricsRegistry struct {
	mu      sync.RWMutex
	metrics map[string]any
	updated time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics: make(map[string]any),
	}
}

// Set sets or updates a metric key.
func (mr *MetricsRegistry) Set(key string, value any) {
	mr.mu.Lock()
	mr.metrics[key] = value
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// Add adjusts an int64 counter by delta and returns the new value. A key
// that Set stored with another type is left unchanged and Add returns
// api.ErrInvalidArgument.
func (mr *MetricsRegistry) Add(key string, delta int64) (int64, error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	var n int64
	if v, ok := mr.metrics[key]; ok {
		if n, ok = v.(int64); !ok {
			return 0, fmt.Errorf("metric %q holds %T, not a counter: %w", key, v, api.ErrInvalidArgument)
		}
	}
	n += delta
	mr.metrics[key] = n
	mr.updated = time.Now()
	return n, nil
}

// Counter returns an int64 counter, zero if unset.
func (mr *MetricsRegistry) Counter(key string) int64 {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	n, _ := mr.metrics[key].(int64)
	return n
}

// GetSnapshot returns the latest metrics.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return maps.Clone(mr.metrics)
}

// Updated returns the time of the last change.
func (mr *MetricsRegistry) Updated() time.Time {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.updated
}
