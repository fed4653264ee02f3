// File: api/types.go
// Author: momentics <momentics@gmail.com>
//
// Shared API-level type declarations, DTOs, and constants.

package api

import (
	"fmt"
	"time"
)

// SlotInfo is a diagnostic snapshot of one ring slot.
type SlotInfo struct {
	Index      int
	Occupied   bool
	Generation uint64
	ClaimedAt  time.Time
}

func (s SlotInfo) String() string {
	return fmt.Sprintf("idx: %d, status: %t, gen: %d", s.Index, s.Occupied, s.Generation)
}

// SlotEventKind enumerates slot lifecycle transitions.
type SlotEventKind int

const (
	SlotClaimed SlotEventKind = iota
	SlotReleased
	SlotReclaimed
	SlotMiss
)

func (k SlotEventKind) String() string {
	switch k {
	case SlotClaimed:
		return "claim"
	case SlotReleased:
		return "release"
	case SlotReclaimed:
		return "reclaim"
	case SlotMiss:
		return "miss"
	default:
		return "unknown"
	}
}

// SlotEvent records one lifecycle transition for tracing.
type SlotEvent struct {
	Kind       SlotEventKind
	Index      int
	Generation uint64
	At         time.Time
}

// SlotObserver receives lifecycle transitions from a ring.
// Implementations must not block; Release may call them from any goroutine.
type SlotObserver interface {
	OnSlotEvent(ev SlotEvent)
}
