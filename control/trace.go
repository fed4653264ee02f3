// control/trace.go
// Author: momentics <momentics@gmail.com>
//
// Bounded slot event trace. Oldest events are overwritten when full.

package control

import (
	"sync/atomic"

	"github.com/hedzr/go-ringbuf/v2/mpmc"

	"github.com/momentics/hioload-rx/api"
)

// Trace keeps the most recent slot events in an overlapped MPMC ring.
// Release may run on any goroutine, so the ring must be multi-producer.
type Trace struct {
	buf         mpmc.RichOverlappedRingBuffer[api.SlotEvent]
	overwritten atomic.Uint64
	dropped     atomic.Uint64
}

// NewTrace creates a trace retaining about depth events.
func NewTrace(depth uint32) *Trace {
	return &Trace{buf: mpmc.NewOverlappedRingBuffer[api.SlotEvent](depth)}
}

// OnSlotEvent implements api.SlotObserver.
func (t *Trace) OnSlotEvent(ev api.SlotEvent) {
	n, err := t.buf.EnqueueM(ev)
	if err != nil {
		t.dropped.Add(1)
		return
	}
	t.overwritten.Add(uint64(n))
}

// Drain removes and returns all buffered events, oldest first.
func (t *Trace) Drain() []api.SlotEvent {
	var out []api.SlotEvent
	for !t.buf.IsEmpty() {
		ev, err := t.buf.Dequeue()
		if err != nil {
			break
		}
		out = append(out, ev)
	}
	return out
}

// Overwritten returns how many events were lost to overflow.
func (t *Trace) Overwritten() uint64 { return t.overwritten.Load() }

// Dropped returns how many events failed to enqueue.
func (t *Trace) Dropped() uint64 { return t.dropped.Load() }
