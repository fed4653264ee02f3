// File: socket/socket.go
// Package socket is the public entry point of hioload-rx.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Socket owns exactly one RX ring for its whole lifetime and exposes a
// non-blocking Receive on a shared *Socket. The ring is single-writer, so
// Socket serialises claims behind a mutex; handle release stays lock-free.

package socket

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/momentics/hioload-rx/adapters"
	"github.com/momentics/hioload-rx/api"
	"github.com/momentics/hioload-rx/control"
	"github.com/momentics/hioload-rx/internal/rxring"
	"github.com/momentics/hioload-rx/pool"
)

// Handle is a borrowed received packet. Release it exactly when done.
type Handle = rxring.Handle

// ReleaseAll releases every handle in hs and clears the entries.
func ReleaseAll(hs []*Handle) { rxring.ReleaseAll(hs) }

// Filler produces the frame contents of a claimed slot.
type Filler = rxring.Filler

// Socket is a ring-backed packet socket, receive side only.
type Socket struct {
	mu     sync.Mutex // guards ring cursor, slot buffers and timestamps
	ring   *rxring.Ring
	arena  *pool.Arena
	closed bool

	cfg     *control.Config
	control *adapters.ControlAdapter
	log     *logrus.Logger

	clock  func() time.Time
	filler Filler
}

var (
	_ api.RxSocket         = (*Socket)(nil)
	_ api.GracefulShutdown = (*Socket)(nil)
)

// New builds the arena, ring and control plane described by cfg.
// A nil cfg means control.DefaultConfig().
func New(cfg *control.Config, opts ...Option) (*Socket, error) {
	if cfg == nil {
		cfg = control.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Socket{cfg: cfg, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = cfg.NewLogger()
	}

	arena, err := pool.NewArena(cfg.Capacity, cfg.FrameSize, cfg.UseMmap)
	if err != nil {
		return nil, err
	}
	s.arena = arena

	var trace *control.Trace
	if cfg.TraceDepth > 0 {
		trace = control.NewTrace(cfg.TraceDepth)
	}
	s.control = adapters.NewControlAdapter(control.NewRxMetrics(), trace)

	ringOpts := []rxring.Option{
		rxring.WithClock(s.clock),
		rxring.WithObserver(control.Tee(s.control.Observer(), logObserver{s.log})),
	}
	if s.filler != nil {
		ringOpts = append(ringOpts, rxring.WithFiller(s.filler))
	}
	s.ring = rxring.New(arena, ringOpts...)
	s.registerProbes()

	s.log.WithFields(logrus.Fields{
		"capacity":   cfg.Capacity,
		"frame_size": cfg.FrameSize,
		"mmap":       arena.Mapped(),
	}).Info("rx socket ready")
	return s, nil
}

// Receive claims the next ring slot. ok==false means the slot under the
// cursor is still held; poll again later. Safe for concurrent callers.
func (s *Socket) Receive() (h *Handle, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false
	}
	return s.ring.Receive()
}

// ReceivePacket is Receive behind the api.Packet interface.
func (s *Socket) ReceivePacket() (api.Packet, bool) {
	h, ok := s.Receive()
	if !ok {
		return nil, false
	}
	return h, true
}

// Reclaim frees slots held longer than Config.StaleAfter.
// With StaleAfter zero, leaked handles keep their slots forever and Reclaim is a no-op.
func (s *Socket) Reclaim() int {
	if s.cfg.StaleAfter <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	n := s.ring.Reclaim(s.cfg.StaleAfter)
	if n > 0 {
		s.log.WithFields(logrus.Fields{
			"reclaimed":   n,
			"stale_after": s.cfg.StaleAfter,
		}).Warn("reclaimed stale rx slots")
	}
	return n
}

// Snapshot returns per-slot diagnostics.
func (s *Socket) Snapshot() []api.SlotInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ring.Snapshot()
}

// Cap returns the fixed slot count.
func (s *Socket) Cap() int { return s.ring.Cap() }

// InUse returns the number of slots held by live handles.
func (s *Socket) InUse() int { return s.ring.InUse() }

// Config returns the configuration the socket was built with.
func (s *Socket) Config() *control.Config { return s.cfg }

// Control exposes metrics, the slot event trace and debug probes.
func (s *Socket) Control() api.Control { return s.control }

// Close releases the arena. It fails with api.ErrSlotsInUse while any handle
// is live or a reclaimed handle has not been released yet, since its owner
// may still read the frame. After a successful Close, Receive always reports
// unavailable.
func (s *Socket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	inUse, detached := s.ring.InUse(), s.ring.Detached()
	if inUse+detached > 0 {
		return api.NewError(api.ErrCodeSlotsInUse, "socket has outstanding handles").
			WithContext("in_use", inUse).
			WithContext("detached", detached)
	}
	s.closed = true
	s.log.Debug("rx socket closed")
	return s.arena.Close()
}

// Shutdown implements api.GracefulShutdown by delegating to Close().
func (s *Socket) Shutdown() error {
	return s.Close()
}

func (s *Socket) registerProbes() {
	s.control.RegisterDebugProbe("ring.capacity", func() any { return s.ring.Cap() })
	s.control.RegisterDebugProbe("ring.in_use", func() any { return s.ring.InUse() })
	s.control.RegisterDebugProbe("ring.detached", func() any { return s.ring.Detached() })
	s.control.RegisterDebugProbe("ring.frame_size", func() any { return s.arena.FrameSize() })
	s.control.RegisterDebugProbe("ring.mmap", func() any { return s.arena.Mapped() })
}

// logObserver mirrors slot transitions into the logger.
type logObserver struct {
	log *logrus.Logger
}

func (o logObserver) OnSlotEvent(ev api.SlotEvent) {
	if ev.Kind == api.SlotMiss {
		if o.log.IsLevelEnabled(logrus.TraceLevel) {
			o.log.WithField("idx", ev.Index).Trace("no free rx slot")
		}
		return
	}
	if !o.log.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	entry := o.log.WithFields(logrus.Fields{"idx": ev.Index, "gen": ev.Generation})
	switch ev.Kind {
	case api.SlotClaimed:
		entry.Debug("packet received")
	case api.SlotReleased:
		entry.Debug("packet released")
	case api.SlotReclaimed:
		entry.Debug("packet reclaimed")
	}
}
