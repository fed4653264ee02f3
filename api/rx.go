// File: api/rx.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Receive-side contracts for ring-backed packet sockets.

package api

import "time"

// Packet is a borrowed, zero-copy view of one received frame.
// The view stays valid until Release; Release returns the slot to the ring.
type Packet interface {
	// Index is the ring slot backing this packet.
	Index() int

	// Bytes returns the frame contents without copying.
	// Returns nil once the packet is released or reclaimed.
	Bytes() []byte

	// Timestamp reports when the slot was claimed.
	Timestamp() time.Time

	// Release returns the slot to the free pool. Safe to call more than once.
	Release()
}

// RxSocket is the receive path of a ring-backed socket.
type RxSocket interface {
	// ReceivePacket claims the slot at the ring cursor.
	// ok==false means no free slot is available right now; callers poll again.
	ReceivePacket() (p Packet, ok bool)

	// Cap returns the fixed number of ring slots.
	Cap() int

	// InUse returns the number of slots currently held by live packets.
	InUse() int
}
