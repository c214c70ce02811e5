package pool_test

import (
	"errors"
	"testing"

	"github.com/momentics/hioload-mo/api"
	"github.com/momentics/hioload-mo/pool"
)

func TestConfigFromMap(t *testing.T) {
	cfg, err := pool.ConfigFromMap(nil)
	if err != nil || cfg != pool.DefaultConfig() {
		t.Fatalf("empty map: %+v, %v", cfg, err)
	}

	cfg, err = pool.ConfigFromMap(map[string]any{
		pool.KeyMaxFree:  float64(64),
		pool.KeyPrealloc: "8",
		pool.KeyBounded:  "true",
	})
	if err != nil {
		t.Fatal(err)
	}
	want := pool.Config{MaxFree: 64, Prealloc: 8, Bounded: true}
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}

	bad := []map[string]any{
		{pool.KeyMaxFree: "lots"},
		{pool.KeyMaxFree: -1},
		{pool.KeyBounded: 1},
		{pool.KeyBounded: true, pool.KeyMaxFree: 0},
		{pool.KeyPrealloc: []int{1}},
	}
	for _, m := range bad {
		if _, err := pool.ConfigFromMap(m); !errors.Is(err, api.ErrInvalidArgument) {
			t.Errorf("%v: expected ErrInvalidArgument, got %v", m, err)
		}
	}
}
