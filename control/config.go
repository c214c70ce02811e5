// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Thread-safe configuration store with dynamic update and reload propagation.

package control

import (
	"maps"
	"sync"
)

// ConfigStore is a dynamic key/value map with snapshot reads and listener
// support. It satisfies pool.ConfigSource.
type ConfigStore struct {
	mu        sync.RWMutex
	config    map[string]any
	listeners []func()
}

// NewConfigStore initializes a store seeded with initial (may be nil).
func NewConfigStore(initial map[string]any) *ConfigStore {
	cs := &ConfigStore{config: make(map[string]any, len(initial))}
	maps.Copy(cs.config, initial)
	return cs
}

// GetSnapshot returns a copy of all config values.
func (cs *ConfigStore) GetSnapshot() map[string]any {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return maps.Clone(cs.config)
}

// Get returns a single value.
func (cs *ConfigStore) Get(key string) (any, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	v, ok := cs.config[key]
	return v, ok
}

// SetConfig merges new values and dispatches listeners asynchronously.
func (cs *ConfigStore) SetConfig(newCfg map[string]any) {
	for _, fn := range cs.merge(newCfg) {
		go fn()
	}
}

// SetConfigSync merges new values and runs listeners before returning.
func (cs *ConfigStore) SetConfigSync(newCfg map[string]any) {
	for _, fn := range cs.merge(newCfg) {
		fn()
	}
}

func (cs *ConfigStore) merge(newCfg map[string]any) []func() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	maps.Copy(cs.config, newCfg)
	return cs.listeners
}

// OnReload registers a listener hook called on config changes.
func (cs *ConfigStore) OnReload(fn func()) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}
