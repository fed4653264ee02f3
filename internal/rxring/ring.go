// File: internal/rxring/ring.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Round-robin RX ring: claim at cursor, advance on success only.

package rxring

import (
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-rx/api"
)

// FrameSource provides the fixed frames backing the ring slots.
// *pool.Arena satisfies it.
type FrameSource interface {
	Frames() int
	Frame(i int) []byte
}

// Ring is a fixed-length sequence of slots with a wrapping cursor.
// Not safe for concurrent Receive; see package docs.
type Ring struct {
	slots    []slot
	cursor   int
	fill     Filler
	clock    func() time.Time
	observer api.SlotObserver
	inUse    atomic.Int64
	detached atomic.Int64 // reclaimed handles whose Release has not run yet
}

// Option configures a Ring at construction.
type Option func(*Ring)

// WithFiller replaces PatternFill.
func WithFiller(f Filler) Option {
	return func(r *Ring) { r.fill = f }
}

// WithClock replaces time.Now for claim timestamps and reclaim ages.
func WithClock(clock func() time.Time) Option {
	return func(r *Ring) { r.clock = clock }
}

// WithObserver receives every claim, release, reclaim and miss.
func WithObserver(o api.SlotObserver) Option {
	return func(r *Ring) { r.observer = o }
}

// New builds one slot per frame of src, all free, cursor at 0.
func New(src FrameSource, opts ...Option) *Ring {
	r := &Ring{
		slots: make([]slot, src.Frames()),
		fill:  PatternFill,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	now := r.clock()
	for i := range r.slots {
		s := &r.slots[i]
		s.buf = src.Frame(i)
		s.ts = now
		initialFill(i, s.buf)
	}
	return r
}

// Receive claims the slot under the cursor.
// Returns (nil, false) without moving the cursor when that slot is still held.
func (r *Ring) Receive() (*Handle, bool) {
	idx := r.cursor
	s := &r.slots[idx]
	gen, ok := s.tryClaim()
	if !ok {
		r.notify(api.SlotMiss, idx, s.generation())
		return nil, false
	}
	now := r.clock()
	s.ts = now
	r.cursor = (idx + 1) % len(r.slots)
	r.fill(idx, s.buf)
	r.inUse.Add(1)
	r.notify(api.SlotClaimed, idx, gen)
	return &Handle{ring: r, idx: idx, gen: gen, ts: now}, true
}

// Reclaim frees every slot claimed at least olderThan ago and returns how many
// were freed. Handles issued for those slots become inert, but their owners
// may still hold frame views, so each one counts as detached until its
// Release runs.
func (r *Ring) Reclaim(olderThan time.Duration) int {
	now := r.clock()
	n := 0
	for i := range r.slots {
		s := &r.slots[i]
		cur := s.state.Load()
		if cur&occupiedBit == 0 || now.Sub(s.ts) < olderThan {
			continue
		}
		gen := cur >> 1
		r.detached.Add(1)
		if !s.release(gen) {
			r.detached.Add(-1)
			continue
		}
		r.inUse.Add(-1)
		r.notify(api.SlotReclaimed, i, gen)
		n++
	}
	return n
}

// Snapshot enumerates all slots for diagnostics.
func (r *Ring) Snapshot() []api.SlotInfo {
	out := make([]api.SlotInfo, len(r.slots))
	for i := range r.slots {
		s := &r.slots[i]
		cur := s.state.Load()
		out[i] = api.SlotInfo{
			Index:      i,
			Occupied:   cur&occupiedBit != 0,
			Generation: cur >> 1,
			ClaimedAt:  s.ts,
		}
	}
	return out
}

// Cap returns the number of slots.
func (r *Ring) Cap() int { return len(r.slots) }

// Cursor returns the index the next Receive will try.
func (r *Ring) Cursor() int { return r.cursor }

// InUse returns the number of occupied slots.
func (r *Ring) InUse() int { return int(r.inUse.Load()) }

// Detached returns the number of reclaimed handles not yet released.
// Frame memory must outlive them.
func (r *Ring) Detached() int { return int(r.detached.Load()) }

func (r *Ring) notify(kind api.SlotEventKind, idx int, gen uint64) {
	if r.observer == nil {
		return
	}
	r.observer.OnSlotEvent(api.SlotEvent{Kind: kind, Index: idx, Generation: gen, At: r.clock()})
}
