package octal

import (
	"encoding/hex"
	"strings"
)

// FromHex parses a code from its hex form, two characters per byte. It
// returns nil on any non-hex input or an odd-length string; a partially
// parsed code never escapes.
func FromHex(input string) Code {
	bytes, err := hex.DecodeString(input)
	if err != nil {
		return nil
	}
	return Code(bytes)
}

// ToHex renders code as uppercase hex, two characters per byte across its
// full footprint. A nil code renders as "00", the root.
func ToHex(code Code) string {
	if code == nil {
		return "00"
	}
	return strings.ToUpper(hex.EncodeToString(code[:BytesRequired(NumSections(code))]))
}
