package packet

import "net"

// MaxPacketSize is the largest datagram the fleet exchanges. Batching buffers
// and NetworkPacket storage are sized by it.
const MaxPacketSize = 1500

// NetworkPacket stores one not-yet-sent outbound (or not-yet-processed
// inbound) datagram together with its peer address. It is a plain value: the
// payload lives in an inline array, so assignment copies the bytes and no two
// packets ever share storage.
type NetworkPacket struct {
	addr   *net.UDPAddr
	length int
	data   [MaxPacketSize]byte
}

// NewNetworkPacket builds a packet by copying data. Payloads longer than
// MaxPacketSize are rejected with ok=false rather than truncated.
func NewNetworkPacket(addr *net.UDPAddr, data []byte) (NetworkPacket, bool) {
	var p NetworkPacket
	if len(data) > MaxPacketSize {
		return p, false
	}
	p.addr = addr
	p.length = copy(p.data[:], data)
	return p, true
}

// Address returns the peer address of the packet.
func (p *NetworkPacket) Address() *net.UDPAddr {
	return p.addr
}

// Length returns the number of payload bytes.
func (p *NetworkPacket) Length() int {
	return p.length
}

// Data returns the payload. The slice aliases the packet's inline storage and
// is only valid while the packet is.
func (p *NetworkPacket) Data() []byte {
	return p.data[:p.length]
}
