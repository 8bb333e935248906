package jurisdiction

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/linchenxuan/voxnet/octal"
)

// Wire form of a jurisdiction broadcast: the root code's raw bytes, a uint16
// little-endian end-node count, then each end-node's raw bytes. Codes carry
// their own length byte, so the stream is self-delimiting.

// Encode serialises the map into its broadcast form.
func (m *Map) Encode() []byte {
	size := codeFootprint(m.root) + 2
	for _, end := range m.endNodes {
		size += codeFootprint(end)
	}

	out := make([]byte, 0, size)
	out = append(out, m.root[:codeFootprint(m.root)]...)
	var count [2]byte
	binary.LittleEndian.PutUint16(count[:], uint16(len(m.endNodes)))
	out = append(out, count[:]...)
	for _, end := range m.endNodes {
		out = append(out, end[:codeFootprint(end)]...)
	}
	return out
}

// Decode parses a broadcast payload back into a Map. A malformed payload
// yields an error and no map; partially-valid maps never escape.
func Decode(data []byte) (*Map, error) {
	root, n, err := readCode(data)
	if err != nil {
		return nil, errors.Wrap(err, "jurisdiction root")
	}
	data = data[n:]

	if len(data) < 2 {
		return nil, errors.New("jurisdiction payload truncated before end-node count")
	}
	count := int(binary.LittleEndian.Uint16(data))
	data = data[2:]

	endNodes := make([]octal.Code, 0, count)
	for i := 0; i < count; i++ {
		end, n, err := readCode(data)
		if err != nil {
			return nil, errors.Wrapf(err, "jurisdiction end node %d", i)
		}
		endNodes = append(endNodes, end)
		data = data[n:]
	}
	return NewMap(root, endNodes), nil
}

// readCode consumes one octal code from the front of data, bounds-checked
// against the remaining bytes.
func readCode(data []byte) (octal.Code, int, error) {
	if len(data) == 0 {
		return nil, 0, errors.New("empty buffer")
	}
	sections := octal.NumSectionsSafe(octal.Code(data), len(data))
	if sections == octal.OverflowedBuffer {
		return nil, 0, errors.New("octal code length overflows buffer")
	}
	footprint := octal.BytesRequired(sections)
	if footprint > len(data) {
		return nil, 0, errors.Errorf("octal code needs %d bytes, %d remain", footprint, len(data))
	}
	code := make(octal.Code, footprint)
	copy(code, data[:footprint])
	return code, footprint, nil
}

func codeFootprint(code octal.Code) int {
	return octal.BytesRequired(octal.NumSections(code))
}
