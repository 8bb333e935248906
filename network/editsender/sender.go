package editsender

import (
	"encoding/binary"
	"net"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/linchenxuan/voxnet/jurisdiction"
	"github.com/linchenxuan/voxnet/log"
	"github.com/linchenxuan/voxnet/metrics"
	"github.com/linchenxuan/voxnet/network/nodelist"
	"github.com/linchenxuan/voxnet/network/packet"
	"github.com/linchenxuan/voxnet/octal"
	"github.com/linchenxuan/voxnet/utils/pool"
	"github.com/linchenxuan/voxnet/voxel"
)

// Worker is the outbound queue the sender hands finished packets to. It owns
// the socket writes; QueuePacketForSending must copy and must not block.
type Worker interface {
	QueuePacketForSending(addr *net.UDPAddr, data []byte)
	Process() bool
}

// scratch buffers for per-detail encoding in QueueEditMessages.
var _scratchPool = pool.NewPool("editscratch", func() any {
	return make([]byte, packet.MaxPacketSize)
})

// EditPacketSender accepts voxel edits from a single producer goroutine,
// classifies them by jurisdiction against every known voxel server, and
// coalesces them into per-server packets. Its batching state (buffers,
// pre-server queues, sequence counter, release flag) is confined to that
// goroutine: Process must run on it too. The node list and jurisdiction store
// may be mutated elsewhere; the sender only ever reads snapshots of them.
type EditPacketSender struct {
	cfg           Config
	nodes         *nodelist.List
	jurisdictions *jurisdiction.Store
	worker        Worker

	shouldSend     atomic.Bool
	sequence       uint16
	releasePending bool

	pending           map[uuid.UUID]*EditPacketBuffer
	preServerSingle   []*EditPacketBuffer
	preServerPackable []*EditPacketBuffer

	// nowUsec is the microsecond clock stamped into packet headers; tests
	// substitute a fixed one.
	nowUsec func() uint64
}

// New builds an edit sender. jurisdictions may be nil, in which case every
// voxel server is treated as authoritative for everything (used by tools that
// talk to a single local server).
func New(cfg Config, nodes *nodelist.List, jurisdictions *jurisdiction.Store, worker Worker) (*EditPacketSender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &EditPacketSender{
		cfg:           cfg,
		nodes:         nodes,
		jurisdictions: jurisdictions,
		worker:        worker,
		pending:       make(map[uuid.UUID]*EditPacketBuffer),
		nowUsec:       usecNow,
	}
	s.shouldSend.Store(cfg.ShouldSend)
	return s, nil
}

func usecNow() uint64 {
	return uint64(time.Now().UnixMicro())
}

// SetShouldSend gates or ungates every public entry point. Quiescing does not
// discard already-staged packets; they go out on the first release after the
// sender is re-enabled.
func (s *EditPacketSender) SetShouldSend(send bool) {
	s.shouldSend.Store(send)
}

// nextSequence hands out the sender-wide packet sequence number, wrapping
// naturally at 2^16.
func (s *EditPacketSender) nextSequence() uint16 {
	seq := s.sequence
	s.sequence++
	return seq
}

// voxelServersExist reports whether edits can be routed right now: at least
// one voxel server with an active socket, and no active voxel server whose
// jurisdiction is still unknown. While any jurisdiction is missing the sender
// keeps buffering, otherwise edits for that server's region would be lost.
func (s *EditPacketSender) voxelServersExist() bool {
	hasVoxelServers := false
	for _, node := range s.nodes.Snapshot() {
		if node.Type() != nodelist.NodeTypeVoxelServer {
			continue
		}
		if !s.nodes.ActiveSocketOrPing(node) {
			continue
		}
		if s.jurisdictions != nil && s.jurisdictions.Get(node.UUID()) == nil {
			return false
		}
		hasVoxelServers = true
	}
	return hasVoxelServers
}

// SendEditMessage encodes one detail as a whole single-edit packet and
// dispatches it, or holds it on the pre-server single-message queue while no
// servers are known. Single-message packets draw from the same sequence
// counter as batched ones, so sequence numbers stay strictly increasing
// across everything emitted.
func (s *EditPacketSender) SendEditMessage(t packet.Type, detail voxel.Detail) {
	if !s.shouldSend.Load() {
		return
	}

	msg := voxel.CreateEditMessage(t, s.nextSequence(), s.nowUsec(), detail)
	if msg == nil {
		log.Warn().Str("type", t.String()).Msg("edit detail failed to encode, dropping")
		metrics.IncrCounterWithGroup(metrics.NameEditEncodeFailTotal, metrics.GroupVoxnet, 1)
		return
	}

	if !s.voxelServersExist() {
		if s.cfg.MaxPendingMessages > 0 {
			s.preServerSingle = append(s.preServerSingle, newPendingBuffer(t, msg))
			s.evictIfOverCap(&s.preServerSingle)
			s.reportBacklog()
		}
		return
	}
	s.QueuePacketToNodes(msg)
}

// QueueEditMessages encodes each detail separately and feeds the batching
// entry point.
func (s *EditPacketSender) QueueEditMessages(t packet.Type, details []voxel.Detail) {
	if !s.shouldSend.Load() {
		return
	}

	scratch := _scratchPool.Get().([]byte)
	defer _scratchPool.Put(scratch)

	for i := range details {
		n, ok := voxel.EncodeEditDetails(t, details[i:i+1], scratch[:s.cfg.MaxPacketSize])
		if !ok {
			log.Warn().Str("type", t.String()).Msg("edit detail failed to encode, dropping")
			metrics.IncrCounterWithGroup(metrics.NameEditEncodeFailTotal, metrics.GroupVoxnet, 1)
			continue
		}
		s.QueueEditMessage(t, scratch[:n])
	}
}

// QueueEditMessage is the batching entry point. codeColor is a bare
// octal-code+colour payload, not a whole packet. While no servers are known
// it joins the pre-server packable queue; otherwise it is appended to the
// staging buffer of every server whose jurisdiction contains its code. An
// edit may legitimately land on zero, one, or several servers.
func (s *EditPacketSender) QueueEditMessage(t packet.Type, codeColor []byte) {
	if !s.shouldSend.Load() {
		return
	}

	if !s.voxelServersExist() {
		if s.cfg.MaxPendingMessages > 0 {
			s.preServerPackable = append(s.preServerPackable, newPendingBuffer(t, codeColor))
			s.evictIfOverCap(&s.preServerPackable)
			s.reportBacklog()
		}
		return
	}

	matched := 0
	for _, node := range s.nodes.Snapshot() {
		if node.Type() != nodelist.NodeTypeVoxelServer || node.ActiveSocket() == nil {
			continue
		}
		if !s.isServerJurisdiction(node.UUID(), octal.Code(codeColor)) {
			continue
		}
		matched++

		buf, ok := s.pending[node.UUID()]
		if !ok {
			buf = newEditPacketBuffer(node.UUID())
			s.pending[node.UUID()] = buf
		}

		// A type switch or a would-overflow append flushes the packet in
		// flight and starts a fresh one.
		if (t != buf.currentType && buf.currentSize > 0) ||
			buf.currentSize+len(codeColor) > s.cfg.MaxPacketSize {
			s.releaseQueuedPacket(buf)
			s.initializePacket(buf, t)
		}
		if buf.currentSize == 0 {
			s.initializePacket(buf, t)
		}

		if buf.currentSize+len(codeColor) > s.cfg.MaxPacketSize {
			// a single payload larger than an empty packet can hold
			log.Error().Int("bytes", len(codeColor)).Msg("edit payload exceeds max packet size, dropping")
			metrics.IncrCounterWithGroup(metrics.NameEditEncodeFailTotal, metrics.GroupVoxnet, 1)
			continue
		}
		buf.currentSize += copy(buf.buffer[buf.currentSize:], codeColor)
		metrics.IncrCounterWithDimGroup(metrics.NameEditQueuedTotal, metrics.GroupVoxnet, 1,
			metrics.Dimension{metrics.DimPacketType: t.String()})
	}

	if matched == 0 {
		metrics.IncrCounterWithGroup(metrics.NameEditNoJurisdictionTotal, metrics.GroupVoxnet, 1)
	}
}

// isServerJurisdiction reports whether code is Within the named server's
// jurisdiction. An unknown jurisdiction counts as not mine; a nil store
// trusts every server.
func (s *EditPacketSender) isServerJurisdiction(id uuid.UUID, code octal.Code) bool {
	if s.jurisdictions == nil {
		return true
	}
	m := s.jurisdictions.Get(id)
	if m == nil {
		return false
	}
	return m.Classify(code, octal.CheckNodeOnly) == jurisdiction.Within
}

// QueuePacketToNodes dispatches a whole pre-encoded packet to every server
// whose jurisdiction contains its octal code. The packet already carries its
// header, sequence and timestamp; there is no re-batching.
func (s *EditPacketSender) QueuePacketToNodes(buf []byte) {
	if !s.shouldSend.Load() {
		return
	}

	headerBytes := packet.HeaderSize(buf) + packet.SequenceSize + packet.TimestampSize
	if len(buf) <= headerBytes {
		log.Error().Int("bytes", len(buf)).Msg("edit packet shorter than its own header, dropping")
		return
	}
	code := octal.Code(buf[headerBytes:])

	matched := 0
	for _, node := range s.nodes.Snapshot() {
		if node.Type() != nodelist.NodeTypeVoxelServer || node.ActiveSocket() == nil {
			continue
		}
		if !s.isServerJurisdiction(node.UUID(), code) {
			continue
		}
		matched++
		s.QueuePacketToNode(node.UUID(), buf)
	}
	if matched == 0 {
		metrics.IncrCounterWithGroup(metrics.NameEditNoJurisdictionTotal, metrics.GroupVoxnet, 1)
	}
}

// QueuePacketToNode pushes the literal bytes to the named voxel server's
// active socket. The nil UUID broadcasts to every voxel server.
func (s *EditPacketSender) QueuePacketToNode(id uuid.UUID, buf []byte) {
	if !s.shouldSend.Load() {
		return
	}

	for _, node := range s.nodes.Snapshot() {
		if node.Type() != nodelist.NodeTypeVoxelServer {
			continue
		}
		if id != uuid.Nil && node.UUID() != id {
			continue
		}
		if !s.nodes.ActiveSocketOrPing(node) {
			continue
		}
		s.worker.QueuePacketForSending(node.ActiveSocket(), buf)

		if t, _, n, ok := packet.ReadHeader(buf); ok && packet.IsEdit(t) && len(buf) >= n+packet.SequenceSize+packet.TimestampSize {
			seq := binary.LittleEndian.Uint16(buf[n:])
			createdAt := binary.LittleEndian.Uint64(buf[n+packet.SequenceSize:])
			log.Debug().
				Str("node", node.UUID().String()).
				Str("type", t.String()).
				Int("bytes", len(buf)).
				Uint16("sequence", seq).
				Uint64("transitUsec", s.nowUsec()-createdAt).
				Msg("queued edit packet")
		}
		metrics.IncrCounterWithGroup(metrics.NameEditPacketsReleasedTotal, metrics.GroupVoxnet, 1)
	}
}

// ReleaseQueuedMessages flushes every staged per-server packet. While no
// servers are known the request is remembered and honoured by the Process
// tick that first sees servers.
func (s *EditPacketSender) ReleaseQueuedMessages() {
	if !s.shouldSend.Load() {
		return
	}

	if !s.voxelServersExist() {
		s.releasePending = true
		return
	}
	for _, buf := range s.pending {
		s.releaseQueuedPacket(buf)
	}
}

// releaseQueuedPacket submits an OPEN buffer to the outbound worker and
// resets it to EMPTY. An EMPTY buffer is left alone.
func (s *EditPacketSender) releaseQueuedPacket(buf *EditPacketBuffer) {
	if buf.currentSize > 0 && buf.currentType != packet.TypeUnknown {
		s.QueuePacketToNode(buf.nodeUUID, buf.contents())
	}
	buf.currentSize = 0
	buf.currentType = packet.TypeUnknown
}

// initializePacket stamps the packet preamble: header, sender-wide sequence
// number, and the microsecond creation timestamp. Appends begin past it.
func (s *EditPacketSender) initializePacket(buf *EditPacketBuffer, t packet.Type) {
	n := packet.WriteHeader(buf.buffer[:], t)
	binary.LittleEndian.PutUint16(buf.buffer[n:], s.nextSequence())
	n += packet.SequenceSize
	binary.LittleEndian.PutUint64(buf.buffer[n:], s.nowUsec())
	n += packet.TimestampSize
	buf.currentSize = n
	buf.currentType = t
}

// processPreServerPackets replays everything buffered before servers were
// known: whole single-message packets first, exactly as created, then the
// packable payloads through the normal batching path with fresh sequence
// numbers. A release requested during the serverless window fires last.
func (s *EditPacketSender) processPreServerPackets() {
	for len(s.preServerSingle) > 0 {
		pending := s.preServerSingle[0]
		s.preServerSingle = s.preServerSingle[1:]
		s.QueuePacketToNodes(pending.contents())
	}

	// Popping one at a time matters: if servers vanish mid-drain, the replay
	// re-queues onto the packable queue instead of losing edits. The pass is
	// bounded by the backlog at its start so re-queued entries wait for the
	// next tick.
	for n := len(s.preServerPackable); n > 0; n-- {
		pending := s.preServerPackable[0]
		s.preServerPackable = s.preServerPackable[1:]
		s.QueueEditMessage(pending.currentType, pending.contents())
	}
	s.reportBacklog()

	if s.releasePending {
		s.releasePending = false
		s.ReleaseQueuedMessages()
	}
}

// Process is the periodic tick. It drains the pre-server queues once servers
// are known, then delegates to the outbound worker and reports its result.
func (s *EditPacketSender) Process() bool {
	if !s.shouldSend.Load() {
		return false
	}

	if (len(s.preServerSingle) > 0 || len(s.preServerPackable) > 0) && s.voxelServersExist() {
		s.processPreServerPackets()
	}
	return s.worker.Process()
}

// evictIfOverCap enforces the combined pre-server bound by dropping the
// oldest entry of the queue just pushed to. The newest edit always survives.
func (s *EditPacketSender) evictIfOverCap(queue *[]*EditPacketBuffer) {
	if len(s.preServerSingle)+len(s.preServerPackable) <= s.cfg.MaxPendingMessages {
		return
	}
	*queue = (*queue)[1:]
	metrics.IncrCounterWithGroup(metrics.NameEditPreServerEvictedTotal, metrics.GroupVoxnet, 1)
	log.Debug().Int("cap", s.cfg.MaxPendingMessages).Msg("pre-server backlog full, evicted oldest edit")
}

func (s *EditPacketSender) reportBacklog() {
	metrics.UpdateGaugeWithGroup(metrics.NameEditPreServerBacklog, metrics.GroupVoxnet,
		metrics.Value(len(s.preServerSingle)+len(s.preServerPackable)))
}
