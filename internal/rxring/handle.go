// File: internal/rxring/handle.go
// Author: momentics <momentics@gmail.com>

package rxring

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-rx/api"
)

// Handle is a borrowed view of one claimed slot.
// Release is the only way the slot becomes free again; callers typically
// `defer h.Release()`. A leaked handle keeps its slot occupied until the
// owner reclaims it. Handle must not be copied.
type Handle struct {
	ring     *Ring
	idx      int
	gen      uint64
	ts       time.Time
	released atomic.Bool
}

var _ api.Packet = (*Handle)(nil)

// Index returns the slot index.
func (h *Handle) Index() int { return h.idx }

// Generation returns the claim generation this handle was issued with.
func (h *Handle) Generation() uint64 { return h.gen }

// Timestamp returns the claim time.
func (h *Handle) Timestamp() time.Time { return h.ts }

// Occupied reports the slot's current occupancy flag, which after a reclaim
// may belong to a newer handle. Use Live for this handle's own state.
func (h *Handle) Occupied() bool {
	return h.ring.slots[h.idx].occupied()
}

// Live reports whether this handle still holds its slot.
func (h *Handle) Live() bool {
	return !h.released.Load() && h.ring.slots[h.idx].heldBy(h.gen)
}

// Bytes returns the frame without copying, or nil once the handle is dead.
func (h *Handle) Bytes() []byte {
	if !h.Live() {
		return nil
	}
	return h.ring.slots[h.idx].buf
}

// Release returns the slot to the ring. Only the first call has an effect.
func (h *Handle) Release() {
	if !h.released.CompareAndSwap(false, true) {
		return
	}
	r := h.ring
	if !r.slots[h.idx].release(h.gen) {
		// slot was reclaimed under us
		r.detached.Add(-1)
		return
	}
	r.inUse.Add(-1)
	r.notify(api.SlotReleased, h.idx, h.gen)
}

func (h *Handle) String() string {
	return fmt.Sprintf("idx: %d, status: %t, packet: %v", h.idx, h.Live(), h.Bytes())
}

// ReleaseAll releases every non-nil handle in hs and clears the slice entries.
func ReleaseAll(hs []*Handle) {
	for i, h := range hs {
		if h != nil {
			h.Release()
			hs[i] = nil
		}
	}
}
