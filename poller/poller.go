// File: poller/poller.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Poll-mode consumer for an RX socket. A full ring is the steady state under
// load, so the loop treats "no free slot" as a cue to back off, not an error.

package poller

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"
	"github.com/mcuadros/go-defaults"
	"github.com/sirupsen/logrus"

	"github.com/momentics/hioload-rx/affinity"
	"github.com/momentics/hioload-rx/api"
)

// Handler consumes one packet. Returning true keeps the packet live in the
// poller's hold window; false releases it immediately.
type Handler func(p api.Packet) (hold bool)

// Config tunes the polling loop.
type Config struct {
	Batch     int           `default:"8"`     // max packets per Poll
	HoldLimit int           `default:"4"`     // live packets kept before the oldest is released
	Idle      time.Duration `default:"100us"` // back-off after an empty poll
	CPU       int           `default:"-1"`    // pin Run's thread, -1 disables
}

// DefaultConfig returns default polling parameters.
func DefaultConfig() Config {
	var cfg Config
	defaults.SetDefaults(&cfg)
	return cfg
}

// reclaimer is implemented by sockets with a staleness policy.
type reclaimer interface {
	Reclaim() int
}

// Poller drives Receive in a loop and keeps a FIFO window of held packets.
// Poll, Run and Flush must be called from a single goroutine.
type Poller struct {
	rx      api.RxSocket
	handler Handler
	held    *queue.Queue
	cfg     Config
	log     *logrus.Logger

	handled atomic.Uint64
	empty   atomic.Uint64
	evicted atomic.Uint64
}

var _ api.Poller = (*Poller)(nil)

// Validate checks the polling parameters.
func (c Config) Validate() error {
	if c.Batch < 1 {
		return fmt.Errorf("poller: batch %d: %w", c.Batch, api.ErrInvalidArgument)
	}
	if c.HoldLimit < 0 {
		return fmt.Errorf("poller: hold limit %d: %w", c.HoldLimit, api.ErrInvalidArgument)
	}
	return nil
}

// New creates a poller over rx. A nil handler holds every packet.
func New(rx api.RxSocket, handler Handler, cfg Config, log *logrus.Logger) (*Poller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if handler == nil {
		handler = func(api.Packet) bool { return true }
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Poller{
		rx:      rx,
		handler: handler,
		held:    queue.New(),
		cfg:     cfg,
		log:     log,
	}, nil
}

// Poll receives up to maxEvents packets and returns how many were handled.
// It stops early at the first "no free slot".
func (p *Poller) Poll(maxEvents int) (int, error) {
	if maxEvents < 1 {
		return 0, fmt.Errorf("poller: maxEvents %d: %w", maxEvents, api.ErrInvalidArgument)
	}
	handled := 0
	for handled < maxEvents {
		pkt, ok := p.rx.ReceivePacket()
		if !ok {
			break
		}
		handled++
		if p.handler(pkt) {
			p.held.Add(pkt)
			p.trim()
		} else {
			pkt.Release()
		}
	}
	if handled == 0 {
		p.empty.Add(1)
	}
	p.handled.Add(uint64(handled))
	return handled, nil
}

// Pin binds the calling goroutine to Config.CPU. It is a no-op when CPU is
// negative. The goroutine stays locked to its OS thread afterwards, so call
// it only from a goroutine dedicated to polling.
func (p *Poller) Pin() error {
	if p.cfg.CPU < 0 {
		return nil
	}
	return affinity.PinCurrentGoroutine(p.cfg.CPU)
}

// Run polls until ctx is done, then releases everything still held.
//
// With Config.CPU set, Run pins the calling goroutine and never unlocks it
// from its OS thread. Start Run on a dedicated goroutine.
func (p *Poller) Run(ctx context.Context) error {
	if err := p.Pin(); err != nil {
		p.log.WithError(err).WithField("cpu", p.cfg.CPU).Warn("poller: cpu pinning failed")
	}
	defer p.Flush()

	rc, canReclaim := p.rx.(reclaimer)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		n, err := p.Poll(p.cfg.Batch)
		if err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		if canReclaim {
			rc.Reclaim()
		}
		if p.cfg.Idle > 0 {
			timer := time.NewTimer(p.cfg.Idle)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil
			case <-timer.C:
			}
		}
	}
}

// Flush releases every held packet, oldest first.
func (p *Poller) Flush() int {
	n := 0
	for p.held.Length() > 0 {
		p.held.Remove().(api.Packet).Release()
		n++
	}
	return n
}

// Held returns the number of packets in the hold window.
func (p *Poller) Held() int { return p.held.Length() }

// Stats reports poller counters.
func (p *Poller) Stats() map[string]any {
	return map[string]any{
		"poller.handled":     p.handled.Load(),
		"poller.empty_polls": p.empty.Load(),
		"poller.evicted":     p.evicted.Load(),
	}
}

func (p *Poller) trim() {
	for p.held.Length() > p.cfg.HoldLimit {
		p.held.Remove().(api.Packet).Release()
		p.evicted.Add(1)
	}
}
