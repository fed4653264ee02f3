// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, runtime metrics, slot event tracing and debug introspection
// for hioload-rx sockets.
//
// Provides concurrent-safe primitives including:
//   - Config with struct-tag defaults and YAML overlay
//   - Atomic slot lifecycle counters (RxMetrics)
//   - A bounded, overwrite-oldest event Trace
//   - Probe registration and state export (DebugProbes)
package control
