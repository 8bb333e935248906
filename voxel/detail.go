// Package voxel defines the voxel edit payload: a position/size/colour detail
// and its wire encoding, the self-delimiting (octal code || RGB) triple that
// edit packets concatenate.
package voxel

import (
	"encoding/binary"

	"github.com/linchenxuan/voxnet/network/packet"
	"github.com/linchenxuan/voxnet/octal"
)

// Detail is one voxel mutation: the target cell in the unit cube plus its
// colour. Erase messages carry the colour bytes too; servers ignore them.
type Detail struct {
	X, Y, Z float32
	S       float32
	Red     uint8
	Green   uint8
	Blue    uint8
}

// Code returns the octal code of the cell the detail addresses, or nil when
// the detail's scale is invalid.
func (d *Detail) Code() octal.Code {
	return octal.CodeForPosition(d.X, d.Y, d.Z, d.S)
}

// EncodeEditDetails writes the payloads of details into buf as consecutive
// self-delimiting octal-code+colour triples. It returns the bytes written and
// ok=false when the triples do not fit (or a detail fails to encode), in which
// case buf contents are unspecified.
func EncodeEditDetails(t packet.Type, details []Detail, buf []byte) (int, bool) {
	_ = t // every edit type shares the triple encoding
	size := 0
	for i := range details {
		code := details[i].Code()
		if code == nil {
			return 0, false
		}
		footprint := octal.BytesRequired(octal.NumSections(code))
		if size+footprint+octal.ColorTrailerSize > len(buf) {
			return 0, false
		}
		size += copy(buf[size:], code[:footprint])
		buf[size] = details[i].Red
		buf[size+1] = details[i].Green
		buf[size+2] = details[i].Blue
		size += octal.ColorTrailerSize
	}
	return size, true
}

// DecodeEditDetail parses one octal-code+colour triple from the front of data,
// returning the detail and the bytes consumed. ok is false on a truncated or
// malformed triple.
func DecodeEditDetail(data []byte) (Detail, int, bool) {
	var d Detail
	if len(data) == 0 {
		return d, 0, false
	}
	sections := octal.NumSectionsSafe(octal.Code(data), len(data))
	if sections == octal.OverflowedBuffer {
		return d, 0, false
	}
	footprint := octal.BytesRequired(sections)
	if footprint+octal.ColorTrailerSize > len(data) {
		return d, 0, false
	}
	pos := octal.VoxelDetails(octal.Code(data[:footprint]))
	d.X, d.Y, d.Z, d.S = pos.X, pos.Y, pos.Z, pos.S
	d.Red = data[footprint]
	d.Green = data[footprint+1]
	d.Blue = data[footprint+2]
	return d, footprint + octal.ColorTrailerSize, true
}

// CreateEditMessage builds a whole single-edit packet: header, sequence,
// microsecond timestamp, then the encoded detail. It returns nil when the
// detail cannot be encoded within packet.MaxPacketSize.
func CreateEditMessage(t packet.Type, sequence uint16, createdAtUsec uint64, detail Detail) []byte {
	var scratch [packet.MaxPacketSize]byte
	n := packet.WriteHeader(scratch[:], t)
	binary.LittleEndian.PutUint16(scratch[n:], sequence)
	n += packet.SequenceSize
	binary.LittleEndian.PutUint64(scratch[n:], createdAtUsec)
	n += packet.TimestampSize

	payload, ok := EncodeEditDetails(t, []Detail{detail}, scratch[n:])
	if !ok {
		return nil
	}
	out := make([]byte, n+payload)
	copy(out, scratch[:n+payload])
	return out
}
