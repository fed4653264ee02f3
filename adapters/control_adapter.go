// Package adapters
// Author: momentics <momentics@gmail.com>
//
// Control adapter implementing api.Control interface using control package primitives.

package adapters

import (
	"github.com/momentics/hioload-rx/api"
	"github.com/momentics/hioload-rx/control"
)

type ControlAdapter struct {
	metrics *control.RxMetrics
	trace   *control.Trace
	debug   *control.DebugProbes
}

// NewControlAdapter wires metrics, an optional trace (nil disables) and platform probes.
func NewControlAdapter(metrics *control.RxMetrics, trace *control.Trace) *ControlAdapter {
	adapter := &ControlAdapter{
		metrics: metrics,
		trace:   trace,
		debug:   control.NewDebugProbes(),
	}
	control.RegisterPlatformProbes(adapter.debug)
	return adapter
}

// Observer returns the slot observer feeding metrics and trace.
func (c *ControlAdapter) Observer() api.SlotObserver {
	if c.trace == nil {
		return c.metrics
	}
	return control.Tee(c.metrics, c.trace)
}

func (c *ControlAdapter) Stats() map[string]any {
	stats := c.metrics.GetSnapshot()
	debugStats := c.debug.DumpState()
	combined := make(map[string]any, len(stats)+len(debugStats)+2)
	for k, v := range stats {
		combined[k] = v
	}
	for k, v := range debugStats {
		combined["debug."+k] = v
	}
	if c.trace != nil {
		combined["trace.overwritten"] = c.trace.Overwritten()
		combined["trace.dropped"] = c.trace.Dropped()
	}
	return combined
}

func (c *ControlAdapter) Events() []api.SlotEvent {
	if c.trace == nil {
		return nil
	}
	return c.trace.Drain()
}

func (c *ControlAdapter) DumpState() map[string]any {
	return c.debug.DumpState()
}

func (c *ControlAdapter) RegisterProbe(name string, fn func() any) {
	c.debug.RegisterProbe(name, fn)
}

func (c *ControlAdapter) RegisterDebugProbe(name string, fn func() any) {
	c.debug.RegisterProbe(name, fn)
}

var (
	_ api.Control = (*ControlAdapter)(nil)
	_ api.Debug   = (*ControlAdapter)(nil)
)
