// File: internal/rxring/fill.go
// Author: momentics <momentics@gmail.com>

package rxring

// Filler writes packet contents into a freshly claimed frame.
// It stands in for "data arrived from the NIC" and must be deterministic in
// (idx, len(frame)) so repeated claims of one slot yield identical bytes.
type Filler func(idx int, frame []byte)

// PatternFill writes byte(idx+i) at offset i.
func PatternFill(idx int, frame []byte) {
	for i := range frame {
		frame[i] = byte(idx + i)
	}
}

// initialFill is the pre-receive pattern: every byte is the slot index.
func initialFill(idx int, frame []byte) {
	for i := range frame {
		frame[i] = byte(idx)
	}
}
