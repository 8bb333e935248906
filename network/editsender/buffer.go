// Package editsender implements the jurisdiction-aware batching layer between
// a producer of voxel edits and the voxel-server fleet. Each edit is
// classified by octal-code prefix against every server's jurisdiction,
// appended to that server's staging buffer, and flushed as one datagram when
// the buffer fills, the packet type changes, or the producer releases.
package editsender

import (
	"encoding/binary"

	"github.com/google/uuid"

	"github.com/linchenxuan/voxnet/network/packet"
)

// EditPacketBuffer is the per-destination staging area for one packet in the
// making. State machine: EMPTY (size 0, TypeUnknown) -> OPEN(t) on initialise,
// back to EMPTY on release. The two fields move together; size 0 with a known
// type (or the reverse) never occurs.
type EditPacketBuffer struct {
	nodeUUID    uuid.UUID
	currentType packet.Type
	currentSize int
	buffer      [packet.MaxPacketSize]byte
}

// newEditPacketBuffer returns an EMPTY buffer owned by the given destination.
func newEditPacketBuffer(id uuid.UUID) *EditPacketBuffer {
	return &EditPacketBuffer{nodeUUID: id, currentType: packet.TypeUnknown}
}

// newPendingBuffer wraps bytes held back while no servers are known. For the
// packable queue data is a bare octal-code+colour payload; for the
// single-message queue it is a whole packet. Either way the bytes are copied.
func newPendingBuffer(t packet.Type, data []byte) *EditPacketBuffer {
	b := &EditPacketBuffer{currentType: t}
	b.currentSize = copy(b.buffer[:], data)
	return b
}

// contents returns the staged bytes. The slice aliases the buffer.
func (b *EditPacketBuffer) contents() []byte {
	return b.buffer[:b.currentSize]
}

// sequence reads back the sequence number stamped by initialise. Only valid on
// an OPEN buffer.
func (b *EditPacketBuffer) sequence() uint16 {
	return binary.LittleEndian.Uint16(b.buffer[packet.HeaderSize(b.buffer[:]):])
}
