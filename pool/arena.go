// File: pool/arena.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fixed-frame memory arena backing the RX ring slots.
// Frames are carved from one contiguous region, in the manner of an AF_XDP UMEM.

package pool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/momentics/hioload-rx/api"
)

// Arena is a contiguous region split into equally sized frames.
// Frame i is owned by ring slot i for the arena's whole lifetime.
type Arena struct {
	region    []byte
	mapping   []byte
	frameSize int
	frames    int
	mapped    bool

	mu     sync.Mutex
	closed bool
}

// NewArena allocates frames*frameSize bytes. When useMmap is set and the
// platform supports it, the region is an anonymous private mapping;
// otherwise it is a plain heap slice.
func NewArena(frames, frameSize int, useMmap bool) (*Arena, error) {
	if frames < 1 {
		return nil, fmt.Errorf("pool: arena frames %d: %w", frames, api.ErrInvalidArgument)
	}
	if frameSize < 1 {
		return nil, fmt.Errorf("pool: arena frame size %d: %w", frameSize, api.ErrInvalidArgument)
	}
	a := &Arena{frameSize: frameSize, frames: frames}
	size := frames * frameSize
	if useMmap {
		region, err := mapRegion(size)
		if err == nil {
			a.mapping = region
			a.region = region[:size:size]
			a.mapped = true
			return a, nil
		}
		if !errors.Is(err, api.ErrNotSupported) {
			return nil, fmt.Errorf("pool: map arena: %w", err)
		}
	}
	a.region = make([]byte, size)
	return a, nil
}

// Frame returns the fixed-length view of frame i.
// The slice capacity is clipped so appends cannot spill into a neighbour.
func (a *Arena) Frame(i int) []byte {
	off := i * a.frameSize
	return a.region[off : off+a.frameSize : off+a.frameSize]
}

// Frames returns the number of frames.
func (a *Arena) Frames() int { return a.frames }

// FrameSize returns the per-frame length in bytes.
func (a *Arena) FrameSize() int { return a.frameSize }

// Mapped reports whether the region came from mmap.
func (a *Arena) Mapped() bool { return a.mapped }

// Close unmaps the region. Frames must not be touched afterwards.
func (a *Arena) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	if !a.mapped {
		a.region = nil
		return nil
	}
	// Munmap wants the slice exactly as mmap returned it.
	err := unmapRegion(a.mapping)
	a.region, a.mapping = nil, nil
	return err
}
