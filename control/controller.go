// File: control/controller.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Controller bundles config, metrics, probes and the leak tracer behind
// api.Control.

package control

import (
	"runtime"

	"github.com/momentics/hioload-mo/api"
	"github.com/momentics/hioload-mo/pool"
)

// Config keys read by the controller itself.
const (
	KeyTraceLeaks = "debug.trace_leaks"
)

var _ api.Control = (*Controller)(nil)

// Controller is the runtime control surface of a process using mini-objects.
type Controller struct {
	config  *ConfigStore
	metrics *MetricsRegistry
	probes  *DebugProbes
	leaks   *LeakTracer
}

// NewController creates a controller seeded with initial config. The leak
// tracer is installed when debug.trace_leaks is true, now or on reload.
func NewController(initial map[string]any) *Controller {
	c := &Controller{
		config:  NewConfigStore(initial),
		metrics: NewMetricsRegistry(),
		probes:  NewDebugProbes(),
	}
	c.leaks = NewLeakTracer(c.metrics)
	c.probes.RegisterProbe("runtime.cpus", func() any { return runtime.NumCPU() })
	c.probes.RegisterProbe("leaks.live", func() any { return c.leaks.LiveCount() })
	c.probes.RegisterProbe("slab.outstanding", func() any { return pool.DefaultSlab().Outstanding() })
	c.probes.RegisterProbe("slab.misses", func() any { return pool.DefaultSlab().Misses() })
	c.applyTracing()
	c.config.OnReload(c.applyTracing)
	return c
}

func (c *Controller) applyTracing() {
	on, _ := c.config.GetSnapshot()[KeyTraceLeaks].(bool)
	if on {
		c.leaks.Install()
	} else {
		c.leaks.Uninstall()
	}
}

// Config returns the underlying store, usable as a pool.ConfigSource.
func (c *Controller) Config() *ConfigStore { return c.config }

// Metrics returns the metrics registry.
func (c *Controller) Metrics() *MetricsRegistry { return c.metrics }

// Leaks returns the leak tracer.
func (c *Controller) Leaks() *LeakTracer { return c.leaks }

func (c *Controller) GetConfig() map[string]any { return c.config.GetSnapshot() }

// SetConfig merges cfg and runs reload listeners before returning.
func (c *Controller) SetConfig(cfg map[string]any) error {
	c.config.SetConfigSync(cfg)
	return nil
}

func (c *Controller) Stats() map[string]any { return c.metrics.GetSnapshot() }

func (c *Controller) OnReload(fn func()) { c.config.OnReload(fn) }

func (c *Controller) RegisterDebugProbe(name string, fn func() any) {
	c.probes.RegisterProbe(name, fn)
}

// DumpState returns the output of every debug probe.
func (c *Controller) DumpState() map[string]any { return c.probes.DumpState() }

// WatchPool publishes pool counters as a debug probe.
func (c *Controller) WatchPool(name string, stats func() api.PoolStats) {
	c.probes.RegisterProbe("pool."+name, func() any { return stats() })
}

// Close uninstalls the leak tracer.
func (c *Controller) Close() {
	c.leaks.Uninstall()
}
