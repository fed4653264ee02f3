// File: internal/rxring/slot.go
// Author: momentics <momentics@gmail.com>

package rxring

import (
	"sync/atomic"
	"time"

	"golang.org/x/sys/cpu"
)

const occupiedBit = 1

// slot is one frame plus its occupancy gate and claim timestamp.
// buf and ts are written only by the claimer, right after the gate is taken.
type slot struct {
	state atomic.Uint64 // gen<<1 | occupied
	_     cpu.CacheLinePad
	buf   []byte
	ts    time.Time
}

func (s *slot) occupied() bool {
	return s.state.Load()&occupiedBit != 0
}

func (s *slot) generation() uint64 {
	return s.state.Load() >> 1
}

// tryClaim takes a free gate and returns the new generation.
func (s *slot) tryClaim() (uint64, bool) {
	cur := s.state.Load()
	if cur&occupiedBit != 0 {
		return 0, false
	}
	gen := cur>>1 + 1
	if !s.state.CompareAndSwap(cur, gen<<1|occupiedBit) {
		return 0, false
	}
	return gen, true
}

// release frees the gate only if it is still held by generation gen.
func (s *slot) release(gen uint64) bool {
	return s.state.CompareAndSwap(gen<<1|occupiedBit, gen<<1)
}

func (s *slot) heldBy(gen uint64) bool {
	return s.state.Load() == gen<<1|occupiedBit
}
