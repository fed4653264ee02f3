// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Lock-free slot lifecycle counters.

package control

import (
	"sync/atomic"

	"github.com/momentics/hioload-rx/api"
)

// RxMetrics counts slot transitions. All fields use atomic operations.
type RxMetrics struct {
	claims   atomic.Uint64
	releases atomic.Uint64
	reclaims atomic.Uint64
	misses   atomic.Uint64
}

// NewRxMetrics creates zeroed counters.
func NewRxMetrics() *RxMetrics {
	return &RxMetrics{}
}

// OnSlotEvent implements api.SlotObserver.
func (m *RxMetrics) OnSlotEvent(ev api.SlotEvent) {
	switch ev.Kind {
	case api.SlotClaimed:
		m.claims.Add(1)
	case api.SlotReleased:
		m.releases.Add(1)
	case api.SlotReclaimed:
		m.reclaims.Add(1)
	case api.SlotMiss:
		m.misses.Add(1)
	}
}

func (m *RxMetrics) Claims() uint64 { return m.claims.Load() }
func (m *RxMetrics) Releases() uint64 { return m.releases.Load() }
func (m *RxMetrics) Reclaims() uint64 { return m.reclaims.Load() }
func (m *RxMetrics) Misses() uint64 { return m.misses.Load() }

// GetSnapshot returns the counters keyed by metric name.
func (m *RxMetrics) GetSnapshot() map[string]any {
	return map[string]any{
		"rx.claims":   m.Claims(),
		"rx.releases": m.Releases(),
		"rx.reclaims": m.Reclaims(),
		"rx.misses":   m.Misses(),
	}
}
