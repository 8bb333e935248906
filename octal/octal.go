// Package octal implements the variable-length octal-code addressing scheme
// used to name nodes of the sparse voxel octree. A code is a byte string whose
// first byte holds the number of 3-bit path sections; the sections follow,
// packed MSB-first. Every operation here is a bit-exact traversal of that
// packing — the encoding is shared across the whole fleet and must not drift.
package octal

import "bytes"

// Code is an octal code: an owned, contiguous byte string naming an octree
// node by its root-to-node path, three bits per level. A nil Code reads as the
// root in NumSections, ChildCode, VoxelDetails, ToHex and Rebase; Compare and
// IsAncestorOf reject a nil operand (Illegal and false). Root is the canonical
// stored form.
type Code []byte

// Sentinel values returned by NumSectionsSafe. OverflowedBuffer must stay -1:
// decoding an extension byte decrements the remaining byte budget, and a
// budget of zero lands exactly on the sentinel.
const (
	// OverflowedBuffer indicates the decoder ran past the caller's byte bound.
	OverflowedBuffer = -1
	// UnknownLength tells NumSectionsSafe the caller has no byte bound.
	UnknownLength = -2
)

// CheckNodeOnly disables the trailing-child extension in IsAncestorOf and
// jurisdiction probes.
const CheckNodeOnly = -1

// extensionMarker in the count byte means the true section count is 255 plus
// the count decoded from the following bytes.
const extensionMarker = 255

// bitsPerSection is the width of one octree path element.
const bitsPerSection = 3

// Root returns the canonical root code: zero sections in a single byte.
func Root() Code {
	return Code{0}
}

// NumSections returns the number of 3-bit sections in code, honouring the
// 255-extension convention. The caller asserts the buffer is complete.
func NumSections(code Code) int {
	return NumSectionsSafe(code, UnknownLength)
}

// NumSectionsSafe decodes the section count of a code read from at most
// maxBytes bytes of wire data. It returns OverflowedBuffer when the count
// extends past the bound, and propagates the sentinel unchanged so callers can
// thread it through chained reads.
func NumSectionsSafe(code Code, maxBytes int) int {
	if maxBytes == OverflowedBuffer {
		return OverflowedBuffer
	}
	if len(code) == 0 {
		// nil reads as the root
		return 0
	}
	if code[0] == extensionMarker {
		newMaxBytes := maxBytes
		if maxBytes != UnknownLength {
			newMaxBytes = maxBytes - 1
		}
		rest := NumSectionsSafe(code[1:], newMaxBytes)
		if rest == OverflowedBuffer {
			return OverflowedBuffer
		}
		return extensionMarker + rest
	}
	return int(code[0])
}

// BytesRequired returns the storage footprint of a code with sections
// three-bit sections: the count byte plus the packed section bytes.
func BytesRequired(sections int) int {
	if sections == 0 {
		return 1
	}
	return 1 + (sections*bitsPerSection+7)/8
}

// sectionAt extracts the 3-bit field starting at bit startBit of data. A field
// that straddles a byte boundary combines the low bits of the first byte with
// the high bits of the next.
func sectionAt(data []byte, startBit int) uint8 {
	rightShift := 8 - startBit - bitsPerSection
	if rightShift < 0 {
		return ((data[0] << uint(-rightShift)) & 7) | (data[1] >> uint(8+rightShift))
	}
	return (data[0] >> uint(rightShift)) & 7
}

// SectionValue returns section index of code as a value 0..7. The caller
// guarantees index < NumSections(code); there is no bounds check.
func SectionValue(code Code, index int) uint8 {
	startBit := index * bitsPerSection
	return sectionAt(code[1+startBit/8:], startBit%8)
}

// SetSectionValue writes value into section index of code in place. When the
// section starts at bit 6 or 7 of its byte, the remaining one or two bits
// spill into the following byte.
func SetSectionValue(code Code, index int, value uint8) {
	const mask = uint8(0x07)
	byteAt := 1 + (index*bitsPerSection)/8
	bitInByte := (index * bitsPerSection) % 8
	shiftBy := 8 - bitInByte - bitsPerSection
	var shiftedMask, shiftedValue uint8
	if shiftBy >= 0 {
		shiftedMask = mask << uint(shiftBy)
		shiftedValue = (value & mask) << uint(shiftBy)
	} else {
		shiftedMask = mask >> uint(-shiftBy)
		shiftedValue = (value & mask) >> uint(-shiftBy)
	}
	code[byteAt] = (code[byteAt] &^ shiftedMask) | shiftedValue

	// A section starting at bit 6 leaves one bit in the next byte, at bit 7
	// two bits.
	const firstPartialBit = 6
	if bitInByte >= firstPartialBit {
		bitsInSecondByte := bitsPerSection - (8 - bitInByte)
		shift := uint(8 - bitsInSecondByte)
		shiftedMask = mask << shift
		shiftedValue = (value & mask) << shift
		code[byteAt+1] = (code[byteAt+1] &^ shiftedMask) | shiftedValue
	}
}

// ChildCode returns a newly allocated code for child number child (0..7) of
// parent. A nil parent stands for the root.
func ChildCode(parent Code, child uint8) Code {
	parentSections := 0
	if parent != nil {
		parentSections = NumSections(parent)
	}
	parentBytes := BytesRequired(parentSections)
	childBytes := BytesRequired(parentSections + 1)

	code := make(Code, childBytes)
	if parent != nil {
		copy(code, parent[:parentBytes])
	}
	code[0] = byte(parentSections + 1)
	// any byte added beyond the parent is already zero from make
	SetSectionValue(code, parentSections, child)
	return code
}

// BranchIndex returns the section of descendant at the ancestor's depth, i.e.
// which branch of ancestor leads toward descendant. The caller guarantees the
// ancestry holds and descendant is strictly deeper.
func BranchIndex(ancestor, descendant Code) uint8 {
	return SectionValue(descendant, NumSections(ancestor))
}

// Comparison is the result of ordering two codes.
type Comparison int

// Comparison outcomes. The order is total and consistent with a depth-first
// octree traversal: ancestors sort before their descendants.
const (
	Illegal Comparison = iota
	Less
	Equal
	Greater
)

// Compare orders codes a and b. A nil operand is Illegal. Bytes are compared
// over the shorter footprint; an exact byte-prefix match is broken by section
// count, shorter first.
func Compare(a, b Code) Comparison {
	if a == nil || b == nil {
		return Illegal
	}

	numberOfBytes := BytesRequired(NumSections(a))
	if n := BytesRequired(NumSections(b)); n < numberOfBytes {
		numberOfBytes = n
	}
	// tolerate truncated buffers rather than reading past them
	if numberOfBytes > len(a) {
		numberOfBytes = len(a)
	}
	if numberOfBytes > len(b) {
		numberOfBytes = len(b)
	}
	switch c := bytes.Compare(a[:numberOfBytes], b[:numberOfBytes]); {
	case c < 0:
		return Less
	case c > 0:
		return Greater
	}

	lengthA := NumSections(a)
	lengthB := NumSections(b)
	switch {
	case lengthA == lengthB:
		return Equal
	case lengthA < lengthB:
		return Less
	default:
		return Greater
	}
}

// IsAncestorOf reports whether ancestor is an ancestor of (or equal to)
// descendant. When trailingChild is not CheckNodeOnly the descendant is
// treated as one level deeper, with trailingChild as its final section; this
// lets callers probe a prospective child without allocating its code.
func IsAncestorOf(ancestor, descendant Code, trailingChild int) bool {
	if ancestor == nil || descendant == nil {
		return false
	}

	ancestorLength := NumSections(ancestor)
	if ancestorLength == 0 {
		return true // the root is the ancestor of everything
	}

	descendantSections := NumSections(descendant)
	descendantLength := descendantSections
	if trailingChild != CheckNodeOnly {
		descendantLength++
	}
	if ancestorLength > descendantLength {
		return false
	}

	for section := 0; section < ancestorLength; section++ {
		var descendantValue uint8
		if section < descendantSections {
			descendantValue = SectionValue(descendant, section)
		} else {
			descendantValue = uint8(trailingChild)
		}
		if SectionValue(ancestor, section) != descendantValue {
			return false
		}
	}
	return true
}

// Chop returns a new code with the first levels sections removed, rebasing the
// remainder onto the root. It returns nil when levels >= NumSections(code).
func Chop(code Code, levels int) Code {
	codeLength := NumSections(code)
	if codeLength <= levels {
		return nil
	}
	newLength := codeLength - levels
	newCode := make(Code, BytesRequired(newLength))
	newCode[0] = byte(newLength)
	for section := levels; section < codeLength; section++ {
		SetSectionValue(newCode, section-levels, SectionValue(code, section))
	}
	return newCode
}

// ColorTrailerSize is the size of the RGB trailer that follows a code in an
// edit payload.
const ColorTrailerSize = 3

// Rebase returns a new code whose sections are newParent's followed by code's.
// With includeColorTrailer the returned slice reserves ColorTrailerSize bytes
// past the code for the caller to fill.
func Rebase(code, newParent Code, includeColorTrailer bool) Code {
	oldLength := NumSections(code)
	parentLength := NumSections(newParent)
	newLength := parentLength + oldLength

	bufferLength := BytesRequired(newLength)
	if includeColorTrailer {
		bufferLength += ColorTrailerSize
	}
	newCode := make(Code, bufferLength)
	newCode[0] = byte(newLength)

	for section := 0; section < parentLength; section++ {
		SetSectionValue(newCode, section, SectionValue(newParent, section))
	}
	for section := 0; section < oldLength; section++ {
		SetSectionValue(newCode, parentLength+section, SectionValue(code, section))
	}
	return newCode
}
