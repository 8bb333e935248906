// Package outbound implements the packet-sender worker: a bounded queue of
// ready-to-send datagrams drained to a UDP socket either by an owned goroutine
// or by cooperative Process calls. Enqueues never block and send failures
// never propagate to producers.
package outbound

import (
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/linchenxuan/voxnet/log"
	"github.com/linchenxuan/voxnet/metrics"
	"github.com/linchenxuan/voxnet/network/packet"
)

// Conn is the socket surface the worker writes to. *net.UDPConn satisfies it;
// tests substitute a capture.
type Conn interface {
	WriteToUDP(b []byte, addr *net.UDPAddr) (int, error)
}

// Config tunes the worker.
type Config struct {
	// QueueCapacity bounds the pending datagrams; enqueues past it drop the
	// newest and are counted.
	QueueCapacity int `yaml:"queueCapacity"`
	// PacketsPerTick is the send budget of one Process call.
	PacketsPerTick int `yaml:"packetsPerTick"`
	// TickIntervalMS is the drain cadence of the owned goroutine in threaded
	// mode.
	TickIntervalMS int `yaml:"tickIntervalMS"`
}

// DefaultConfig returns the worker defaults.
func DefaultConfig() Config {
	return Config{QueueCapacity: 1024, PacketsPerTick: 64, TickIntervalMS: 10}
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.QueueCapacity < 1 {
		return errors.Errorf("outbound queue capacity must be positive, got %d", c.QueueCapacity)
	}
	if c.PacketsPerTick < 1 {
		return errors.Errorf("outbound packets per tick must be positive, got %d", c.PacketsPerTick)
	}
	if c.TickIntervalMS < 1 {
		return errors.Errorf("outbound tick interval must be positive, got %dms", c.TickIntervalMS)
	}
	return nil
}

// Sender is the worker. It may run threaded (Start/Stop) or cooperatively
// (the owner calls Process from its own loop); the queue is safe either way.
type Sender struct {
	cfg  Config
	conn Conn

	mu    sync.Mutex
	queue []packet.NetworkPacket

	stopOnce sync.Once
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewSender builds a worker around an existing socket.
func NewSender(cfg Config, conn Conn) (*Sender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Sender{cfg: cfg, conn: conn, stop: make(chan struct{})}, nil
}

// NewUDPSender builds a worker with its own unbound UDP socket.
func NewUDPSender(cfg Config) (*Sender, error) {
	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		return nil, errors.Wrap(err, "outbound socket")
	}
	return NewSender(cfg, conn)
}

// QueuePacketForSending copies data into the queue for delivery to addr. It
// never blocks: an over-capacity queue or an oversized payload drops the
// packet, counted and logged.
func (s *Sender) QueuePacketForSending(addr *net.UDPAddr, data []byte) {
	p, ok := packet.NewNetworkPacket(addr, data)
	if !ok {
		log.Error().Int("bytes", len(data)).Msg("outbound payload exceeds max packet size")
		metrics.IncrCounterWithGroup(metrics.NameOutboundDroppedTotal, metrics.GroupVoxnet, 1)
		return
	}

	s.mu.Lock()
	if len(s.queue) >= s.cfg.QueueCapacity {
		s.mu.Unlock()
		log.Warn().Int("capacity", s.cfg.QueueCapacity).Msg("outbound queue full, dropping packet")
		metrics.IncrCounterWithGroup(metrics.NameOutboundDroppedTotal, metrics.GroupVoxnet, 1)
		return
	}
	s.queue = append(s.queue, p)
	depth := len(s.queue)
	s.mu.Unlock()

	metrics.IncrCounterWithGroup(metrics.NameOutboundQueuedTotal, metrics.GroupVoxnet, 1)
	metrics.UpdateGaugeWithGroup(metrics.NameOutboundQueueDepth, metrics.GroupVoxnet, metrics.Value(depth))
}

// QueueDepth returns the number of datagrams awaiting send.
func (s *Sender) QueueDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Process drains up to the per-tick budget to the socket and reports whether
// packets remain queued.
func (s *Sender) Process() bool {
	for i := 0; i < s.cfg.PacketsPerTick; i++ {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return false
		}
		p := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		if p.Address() == nil {
			metrics.IncrCounterWithGroup(metrics.NameOutboundDroppedTotal, metrics.GroupVoxnet, 1)
			continue
		}
		if _, err := s.conn.WriteToUDP(p.Data(), p.Address()); err != nil {
			log.Warn().Str("addr", p.Address().String()).Err(err).Msg("outbound send failed")
			metrics.IncrCounterWithGroup(metrics.NameOutboundSendErrTotal, metrics.GroupVoxnet, 1)
			continue
		}
		metrics.IncrCounterWithGroup(metrics.NameOutboundSentTotal, metrics.GroupVoxnet, 1)
		metrics.UpdateAvgGaugeWithGroup(metrics.NameOutboundPacketSizeAvg, metrics.GroupVoxnet, metrics.Value(p.Length()))
	}

	s.mu.Lock()
	remaining := len(s.queue)
	s.mu.Unlock()
	return remaining > 0
}

// Start runs the drain loop on an owned goroutine until Stop.
func (s *Sender) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(time.Duration(s.cfg.TickIntervalMS) * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				// final drain so Stop does not strand queued packets
				for s.Process() {
				}
				return
			case <-ticker.C:
				s.Process()
			}
		}
	}()
}

// Stop ends the threaded drain loop, flushing the queue first. It is safe to
// call when Start was never used.
func (s *Sender) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.wg.Wait()
}
