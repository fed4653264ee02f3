// Package rxring
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fixed-capacity RX ring of pre-allocated frame slots.
//
// A Ring hands out one borrowed *Handle per successful Receive. Releasing the
// handle is the only path that returns its slot to the free pool; the cursor
// walks slots strictly round-robin, so a freed slot is reused only when the
// cursor comes back to it.
//
// Each slot carries a single atomic gate word: bit 0 is the occupancy flag and
// the remaining bits are a generation counter bumped on every claim. Handles
// remember the generation they were issued with, so a handle that outlived a
// reclaim can neither read nor free a slot that has since been reissued.
// Such handles are counted as detached until released; their owners may still
// hold a frame view, so the backing memory must outlive them.
//
// Concurrency contract:
//   - Receive, Reclaim and Snapshot mutate or read non-atomic slot fields and
//     must be serialised by the caller (the socket package holds a mutex).
//   - Handle.Release touches only the gate word and atomic counters and may
//     run on any goroutine.
package rxring
