package poller_test

import (
	"context"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-rx/api"
	"github.com/momentics/hioload-rx/control"
	"github.com/momentics/hioload-rx/poller"
	"github.com/momentics/hioload-rx/socket"
)

func newSocket(t *testing.T, capacity int) *socket.Socket {
	t.Helper()
	cfg := control.DefaultConfig()
	cfg.Capacity = capacity
	logger, _ := logtest.NewNullLogger()
	sock, err := socket.New(cfg, socket.WithLogger(logger))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, sock.Close()) })
	return sock
}

func newPoller(t *testing.T, rx api.RxSocket, h poller.Handler, cfg poller.Config) *poller.Poller {
	t.Helper()
	p, err := poller.New(rx, h, cfg, nil)
	require.NoError(t, err)
	return p
}

func TestDefaultConfig(t *testing.T) {
	cfg := poller.DefaultConfig()
	assert.Equal(t, 8, cfg.Batch)
	assert.Equal(t, 4, cfg.HoldLimit)
	assert.Equal(t, 100*time.Microsecond, cfg.Idle)
	assert.Equal(t, -1, cfg.CPU)
}

func TestPollHoldWindowEvictsOldest(t *testing.T) {
	sock := newSocket(t, 5)
	var seen []int
	p := newPoller(t, sock, func(pkt api.Packet) bool {
		seen = append(seen, pkt.Index())
		return true
	}, poller.DefaultConfig())

	n, err := p.Poll(8)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 0, 1, 2}, seen)
	assert.Equal(t, 4, p.Held())
	assert.Equal(t, 4, sock.InUse())
	assert.Equal(t, uint64(4), p.Stats()["poller.evicted"])

	assert.Equal(t, 4, p.Flush())
	assert.Equal(t, 0, sock.InUse())
}

func TestPollStopsWhenRingFull(t *testing.T) {
	sock := newSocket(t, 3)
	cfg := poller.DefaultConfig()
	cfg.HoldLimit = 10
	p := newPoller(t, sock, nil, cfg)

	n, err := p.Poll(8)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = p.Poll(8)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, uint64(1), p.Stats()["poller.empty_polls"])
	p.Flush()
}

func TestPollReleaseImmediately(t *testing.T) {
	sock := newSocket(t, 2)
	p := newPoller(t, sock, func(api.Packet) bool { return false }, poller.DefaultConfig())
	n, err := p.Poll(10)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, 0, p.Held())
	assert.Equal(t, 0, sock.InUse())
}

func TestPollRejectsZeroBatch(t *testing.T) {
	sock := newSocket(t, 2)
	p := newPoller(t, sock, nil, poller.DefaultConfig())
	_, err := p.Poll(0)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestPollRejectsNegativeHold(t *testing.T) {
	sock := newSocket(t, 3)
	cfg := poller.DefaultConfig()
	cfg.HoldLimit = -1
	p, err := poller.New(sock, nil, cfg, nil)
	assert.Nil(t, p)
	require.ErrorIs(t, err, api.ErrInvalidArgument)
	assert.Equal(t, 0, sock.InUse())
}

func TestNewValidatesConfig(t *testing.T) {
	sock := newSocket(t, 2)
	tests := []struct {
		name string
		mut  func(*poller.Config)
		ok   bool
	}{
		{"defaults", func(*poller.Config) {}, true},
		{"zero hold releases at once", func(c *poller.Config) { c.HoldLimit = 0 }, true},
		{"zero batch", func(c *poller.Config) { c.Batch = 0 }, false},
		{"negative batch", func(c *poller.Config) { c.Batch = -3 }, false},
		{"negative hold", func(c *poller.Config) { c.HoldLimit = -2 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := poller.DefaultConfig()
			tt.mut(&cfg)
			_, err := poller.New(sock, nil, cfg, nil)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, api.ErrInvalidArgument)
			}
		})
	}
}

func TestPollZeroHoldKeepsNothing(t *testing.T) {
	sock := newSocket(t, 3)
	cfg := poller.DefaultConfig()
	cfg.HoldLimit = 0
	p := newPoller(t, sock, nil, cfg)

	n, err := p.Poll(5)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 0, p.Held())
	assert.Equal(t, 0, sock.InUse())
	assert.Equal(t, uint64(5), p.Stats()["poller.evicted"])
}

func TestPinDisabled(t *testing.T) {
	p := newPoller(t, &stubSocket{}, nil, poller.DefaultConfig())
	assert.NoError(t, p.Pin())
}

func TestRunFlushesOnCancel(t *testing.T) {
	sock := newSocket(t, 4)
	cfg := poller.DefaultConfig()
	cfg.HoldLimit = 4
	p := newPoller(t, sock, nil, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.NoError(t, p.Run(ctx))

	assert.Equal(t, 0, p.Held())
	assert.Equal(t, 0, sock.InUse())
	assert.NotZero(t, p.Stats()["poller.handled"])
}

// stubSocket never has a free slot and counts reclaim attempts.
type stubSocket struct {
	reclaims int
}

func (s *stubSocket) ReceivePacket() (api.Packet, bool) { return nil, false }
func (s *stubSocket) Cap() int { return 1 }
func (s *stubSocket) InUse() int { return 1 }
func (s *stubSocket) Reclaim() int {
	s.reclaims++
	return 0
}

func TestRunReclaimsWhenIdle(t *testing.T) {
	rx := &stubSocket{}
	cfg := poller.DefaultConfig()
	cfg.Idle = time.Millisecond
	p := newPoller(t, rx, nil, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.NoError(t, p.Run(ctx))
	assert.Greater(t, rx.reclaims, 0)
}
