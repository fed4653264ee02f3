package socket_test

import (
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/momentics/hioload-rx/api"
	"github.com/momentics/hioload-rx/control"
	"github.com/momentics/hioload-rx/socket"
)

type SocketSuite struct {
	suite.Suite
	cfg  *control.Config
	sock *socket.Socket
	hook *logtest.Hook
	now  time.Time
}

func (s *SocketSuite) SetupTest() {
	s.cfg = control.DefaultConfig()
	s.cfg.UseMmap = false
	s.now = time.Unix(1700000000, 0)

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s.hook = hook

	sock, err := socket.New(s.cfg,
		socket.WithLogger(logger),
		socket.WithClock(func() time.Time { return s.now }),
	)
	s.Require().NoError(err)
	s.sock = sock
}

func (s *SocketSuite) TearDownTest() {
	for _, info := range s.sock.Snapshot() {
		s.Require().False(info.Occupied, "test leaked slot %d", info.Index)
	}
	s.Require().NoError(s.sock.Close())
}

func (s *SocketSuite) drain() []*socket.Handle {
	var hs []*socket.Handle
	for {
		h, ok := s.sock.Receive()
		if !ok {
			return hs
		}
		hs = append(hs, h)
	}
}

func (s *SocketSuite) TestDrainReleaseDrain() {
	first := s.drain()
	s.Require().Len(first, 5)
	for i, h := range first {
		s.Equal(i, h.Index())
		s.Equal([]byte{byte(i), byte(i + 1), byte(i + 2), byte(i + 3), byte(i + 4)}, h.Bytes())
	}
	_, ok := s.sock.Receive()
	s.False(ok)
	s.Equal(5, s.sock.InUse())

	for _, h := range first {
		h.Release()
	}
	second := s.drain()
	s.Require().Len(second, 5)
	for i, h := range second {
		s.Equal(i, h.Index())
		h.Release()
	}

	stats := s.sock.Control().Stats()
	s.Equal(uint64(10), stats["rx.claims"])
	s.Equal(uint64(10), stats["rx.releases"])
	s.Equal(uint64(3), stats["rx.misses"])
	s.Equal(5, stats["debug.ring.capacity"])
	s.Equal(false, stats["debug.ring.mmap"])
}

func (s *SocketSuite) TestReceiveLogsLifecycle() {
	h, ok := s.sock.Receive()
	s.Require().True(ok)
	h.Release()

	var msgs []string
	for _, e := range s.hook.AllEntries() {
		msgs = append(msgs, e.Message)
	}
	s.Contains(msgs, "packet received")
	s.Contains(msgs, "packet released")
	s.Equal(0, s.hook.LastEntry().Data["idx"])
}

func (s *SocketSuite) TestEventsTraceOrder() {
	s.sock.Control().Events() // drop construction noise, if any

	h, ok := s.sock.Receive()
	s.Require().True(ok)
	h.Release()

	evs := s.sock.Control().Events()
	s.Require().Len(evs, 2)
	s.Equal(api.SlotClaimed, evs[0].Kind)
	s.Equal(api.SlotReleased, evs[1].Kind)
	s.Equal(s.now, evs[0].At)
}

func (s *SocketSuite) TestCloseRefusesLiveHandles() {
	h, ok := s.sock.Receive()
	s.Require().True(ok)

	err := s.sock.Close()
	s.Require().Error(err)
	s.ErrorIs(err, api.ErrSlotsInUse)

	h.Release()
}

func (s *SocketSuite) TestReclaimDisabledByDefault() {
	h, ok := s.sock.Receive()
	s.Require().True(ok)
	s.now = s.now.Add(time.Hour)
	s.Equal(0, s.sock.Reclaim())
	s.True(h.Live())
	h.Release()
}

func (s *SocketSuite) TestReceivePacketInterface() {
	var rx api.RxSocket = s.sock
	p, ok := rx.ReceivePacket()
	s.Require().True(ok)
	s.Equal(0, p.Index())
	s.Equal(s.now, p.Timestamp())
	p.Release()
	s.Equal(0, rx.InUse())
	s.Equal(5, rx.Cap())
}

func TestSocketSuite(t *testing.T) {
	suite.Run(t, new(SocketSuite))
}

func TestSocketReclaimStale(t *testing.T) {
	now := time.Unix(0, 0)
	cfg := control.DefaultConfig()
	cfg.Capacity = 2
	cfg.StaleAfter = time.Second

	logger, hook := logtest.NewNullLogger()
	sock, err := socket.New(cfg, socket.WithLogger(logger), socket.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	leaked, ok := sock.Receive()
	require.True(t, ok)
	now = now.Add(2 * time.Second)
	kept, ok := sock.Receive()
	require.True(t, ok)

	assert.Equal(t, 1, sock.Reclaim())
	assert.False(t, leaked.Live())
	assert.True(t, kept.Live())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, uint64(1), sock.Control().Stats()["rx.reclaims"])

	kept.Release()
	leaked.Release()
	require.NoError(t, sock.Close())
}

func TestSocketCloseWaitsForReclaimedHandles(t *testing.T) {
	now := time.Unix(0, 0)
	cfg := control.DefaultConfig()
	cfg.StaleAfter = time.Second

	logger, _ := logtest.NewNullLogger()
	sock, err := socket.New(cfg, socket.WithLogger(logger), socket.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	h, ok := sock.Receive()
	require.True(t, ok)
	view := h.Bytes()
	require.NotEmpty(t, view)

	now = now.Add(2 * time.Second)
	require.Equal(t, 1, sock.Reclaim())
	assert.Equal(t, 0, sock.InUse())
	assert.Equal(t, 1, sock.Control().Stats()["debug.ring.detached"])

	err = sock.Close()
	require.ErrorIs(t, err, api.ErrSlotsInUse)
	assert.Equal(t, byte(0), view[0], "frame must stay mapped while the reclaimed handle is out")

	next, ok := sock.Receive()
	require.True(t, ok, "socket stays open after a refused Close")
	next.Release()

	h.Release()
	assert.Equal(t, 0, sock.Control().Stats()["debug.ring.detached"])
	require.NoError(t, sock.Close())
}

func TestSocketRejectsInvalidConfig(t *testing.T) {
	cfg := control.DefaultConfig()
	cfg.Capacity = 0
	_, err := socket.New(cfg)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestSocketNilConfigUsesDefaults(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	sock, err := socket.New(nil, socket.WithLogger(logger))
	require.NoError(t, err)
	assert.Equal(t, 5, sock.Cap())
	require.NoError(t, sock.Shutdown())

	_, ok := sock.Receive()
	assert.False(t, ok, "closed socket never hands out slots")
	require.NoError(t, sock.Close())
}

func TestSocketCustomFiller(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	fill := func(idx int, frame []byte) {
		for i := range frame {
			frame[i] = 0xa0 | byte(idx)
		}
	}
	sock, err := socket.New(nil, socket.WithLogger(logger), socket.WithFiller(fill))
	require.NoError(t, err)
	h, ok := sock.Receive()
	require.True(t, ok)
	assert.Equal(t, []byte{0xa0, 0xa0, 0xa0, 0xa0, 0xa0}, h.Bytes())
	h.Release()
	require.NoError(t, sock.Close())
}

// TestSocketSharedReceivers hammers one *Socket from several goroutines and
// checks no slot is ever issued twice while held.
func TestSocketSharedReceivers(t *testing.T) {
	cfg := control.DefaultConfig()
	cfg.Capacity = 8
	cfg.TraceDepth = 0
	logger, _ := logtest.NewNullLogger()
	sock, err := socket.New(cfg, socket.WithLogger(logger))
	require.NoError(t, err)

	var (
		mu   sync.Mutex
		held = map[int]bool{}
		wg   sync.WaitGroup
	)
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for got := 0; got < 500; {
				h, ok := sock.Receive()
				if !ok {
					continue
				}
				got++
				mu.Lock()
				dup := held[h.Index()]
				held[h.Index()] = true
				mu.Unlock()
				assert.False(t, dup, "slot %d issued twice", h.Index())

				mu.Lock()
				delete(held, h.Index())
				mu.Unlock()
				h.Release()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, sock.InUse())
	require.NoError(t, sock.Close())
}
