// File: pool/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Free-list settings, read from a control.ConfigStore style source.

package pool

import (
	"fmt"
	"strconv"

	"github.com/momentics/hioload-mo/api"
)

// Configuration keys understood by ConfigFromMap.
const (
	KeyMaxFree  = "pool.max_free"
	KeyBounded  = "pool.bounded"
	KeyPrealloc = "pool.prealloc"
)

// Config tunes a free-list.
type Config struct {
	// MaxFree caps parked instances; adds beyond it are discarded.
	// Zero means unbounded for FreeList. BoundedFreeList rounds it up to a
	// power of two and requires it to be positive.
	MaxFree int
	// Bounded selects the lock-free BoundedFreeList.
	Bounded bool
	// Prealloc is the number of instances a pool creates up front.
	Prealloc int
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{MaxFree: 1024}
}

// ConfigSource is the part of control.ConfigStore a free-list watches.
type ConfigSource interface {
	GetSnapshot() map[string]any
	OnReload(fn func())
}

// ConfigFromMap overlays recognised keys from m onto DefaultConfig.
func ConfigFromMap(m map[string]any) (Config, error) {
	cfg := DefaultConfig()
	var err error
	if v, ok := m[KeyMaxFree]; ok {
		if cfg.MaxFree, err = toInt(KeyMaxFree, v); err != nil {
			return cfg, err
		}
	}
	if v, ok := m[KeyPrealloc]; ok {
		if cfg.Prealloc, err = toInt(KeyPrealloc, v); err != nil {
			return cfg, err
		}
	}
	if v, ok := m[KeyBounded]; ok {
		switch b := v.(type) {
		case bool:
			cfg.Bounded = b
		case string:
			if cfg.Bounded, err = strconv.ParseBool(b); err != nil {
				return cfg, fmt.Errorf("%s: %w", KeyBounded, api.ErrInvalidArgument)
			}
		default:
			return cfg, fmt.Errorf("%s: unsupported type %T: %w", KeyBounded, v, api.ErrInvalidArgument)
		}
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.MaxFree < 0 || c.Prealloc < 0 {
		return fmt.Errorf("negative pool size: %w", api.ErrInvalidArgument)
	}
	if c.Bounded && c.MaxFree == 0 {
		return fmt.Errorf("bounded free-list needs %s > 0: %w", KeyMaxFree, api.ErrInvalidArgument)
	}
	return nil
}

func toInt(key string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, api.ErrInvalidArgument)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%s: unsupported type %T: %w", key, v, api.ErrInvalidArgument)
	}
}
