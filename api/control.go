// File: api/control.go
// Package api defines Control and Debug interfaces.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Control exposes runtime metrics, slot traces and debug probes of a socket.
type Control interface {
	Stats() map[string]any
	Events() []SlotEvent
	RegisterDebugProbe(name string, fn func() any)
}

// Debug is probe-based state export, evaluated on every DumpState.
type Debug interface {
	DumpState() map[string]any
	RegisterProbe(name string, fn func() any)
}
