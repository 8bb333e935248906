package outbound

import (
	"bytes"
	"net"
	"sync"
	"testing"
)

// captureConn records writes instead of hitting a socket.
type captureConn struct {
	mu     sync.Mutex
	writes []capturedWrite
	err    error
}

type capturedWrite struct {
	addr *net.UDPAddr
	data []byte
}

func (c *captureConn) WriteToUDP(b []byte, addr *net.UDPAddr) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	data := make([]byte, len(b))
	copy(data, b)
	c.writes = append(c.writes, capturedWrite{addr: addr, data: data})
	return len(b), nil
}

func (c *captureConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.writes)
}

func testAddr(port int) *net.UDPAddr {
	return &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: port}
}

func TestProcessDrainsInOrder(t *testing.T) {
	conn := &captureConn{}
	s, err := NewSender(DefaultConfig(), conn)
	if err != nil {
		t.Fatal(err)
	}

	s.QueuePacketForSending(testAddr(40100), []byte{1})
	s.QueuePacketForSending(testAddr(40101), []byte{2})
	s.QueuePacketForSending(testAddr(40102), []byte{3})

	if more := s.Process(); more {
		t.Error("Process reported leftover work after a full drain")
	}
	if conn.count() != 3 {
		t.Fatalf("sent %d packets, want 3", conn.count())
	}
	for i, want := range [][]byte{{1}, {2}, {3}} {
		if !bytes.Equal(conn.writes[i].data, want) {
			t.Errorf("packet %d = %v, want %v", i, conn.writes[i].data, want)
		}
	}
}

func TestProcessHonoursBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PacketsPerTick = 2
	conn := &captureConn{}
	s, err := NewSender(cfg, conn)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		s.QueuePacketForSending(testAddr(40100), []byte{byte(i)})
	}
	if more := s.Process(); !more {
		t.Error("Process claimed the queue was empty with 3 packets left")
	}
	if conn.count() != 2 {
		t.Errorf("first tick sent %d packets, want 2", conn.count())
	}
	s.Process()
	s.Process()
	if conn.count() != 5 || s.QueueDepth() != 0 {
		t.Errorf("after all ticks: sent %d, depth %d", conn.count(), s.QueueDepth())
	}
}

func TestQueueCapacityDropsNewest(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QueueCapacity = 2
	conn := &captureConn{}
	s, err := NewSender(cfg, conn)
	if err != nil {
		t.Fatal(err)
	}

	s.QueuePacketForSending(testAddr(40100), []byte{1})
	s.QueuePacketForSending(testAddr(40100), []byte{2})
	s.QueuePacketForSending(testAddr(40100), []byte{3}) // dropped

	s.Process()
	if conn.count() != 2 {
		t.Fatalf("sent %d packets, want 2", conn.count())
	}
	if !bytes.Equal(conn.writes[1].data, []byte{2}) {
		t.Error("the overflow drop displaced a queued packet instead of the newest")
	}
}

func TestSendErrorDoesNotStopDrain(t *testing.T) {
	conn := &captureConn{err: net.ErrClosed}
	s, err := NewSender(DefaultConfig(), conn)
	if err != nil {
		t.Fatal(err)
	}
	s.QueuePacketForSending(testAddr(40100), []byte{1})
	s.QueuePacketForSending(testAddr(40100), []byte{2})
	if more := s.Process(); more {
		t.Error("Process left packets queued after erroring sends")
	}
}

func TestConfigValidate(t *testing.T) {
	bad := []Config{
		{QueueCapacity: 0, PacketsPerTick: 1, TickIntervalMS: 1},
		{QueueCapacity: 1, PacketsPerTick: 0, TickIntervalMS: 1},
		{QueueCapacity: 1, PacketsPerTick: 1, TickIntervalMS: 0},
	}
	for i, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Errorf("config %d validated", i)
		}
	}
	good := DefaultConfig()
	if err := good.Validate(); err != nil {
		t.Errorf("default config rejected: %v", err)
	}
}
