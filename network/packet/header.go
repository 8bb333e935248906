package packet

// Header layout: [type:1][version:1]. The size is derived from the buffer
// rather than assumed, so a future multi-byte type escape can be introduced
// without touching the senders that do offset arithmetic past the header.

// SequenceSize and TimestampSize are the fixed fields an edit packet carries
// directly after its header: a uint16 little-endian sequence number and a
// uint64 little-endian microsecond creation timestamp.
const (
	SequenceSize  = 2
	TimestampSize = 8
)

// HeaderSizeForType returns the header footprint for packets of type t.
func HeaderSizeForType(t Type) int {
	_ = t // all registered types currently use the single-byte form
	return 2
}

// HeaderSize returns the header footprint of an encoded packet by inspecting
// its leading bytes.
func HeaderSize(buf []byte) int {
	if len(buf) == 0 {
		return 0
	}
	return HeaderSizeForType(Type(buf[0]))
}

// WriteHeader stamps the type and version at the front of buf and returns the
// number of bytes written.
func WriteHeader(buf []byte, t Type) int {
	buf[0] = byte(t)
	buf[1] = Version(t)
	return HeaderSizeForType(t)
}

// ReadHeader parses the type and version from the front of an encoded packet.
// ok is false when the buffer is too short to hold its own header.
func ReadHeader(buf []byte) (t Type, version byte, n int, ok bool) {
	if len(buf) < HeaderSize(buf) || len(buf) == 0 {
		return TypeUnknown, 0, 0, false
	}
	t = Type(buf[0])
	return t, buf[1], HeaderSizeForType(t), true
}
