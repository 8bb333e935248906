package log

import (
	"bytes"
	"encoding/json"
	"strconv"
	"unicode/utf8"
)

// Zero-allocation JSON assembly for log events. Events accumulate into a
// bytes.Buffer as an open JSON object; Msg closes it.

func appendBeginMarker(buf *bytes.Buffer) {
	buf.WriteByte('{')
}

func appendEndMarker(buf *bytes.Buffer) {
	buf.WriteByte('}')
}

func appendLineBreak(buf *bytes.Buffer) {
	buf.WriteByte('\n')
}

// appendKey writes the separating comma when needed, then the escaped key and
// its colon.
func appendKey(buf *bytes.Buffer, key string) {
	if buf.Len() >= 1 && buf.Bytes()[buf.Len()-1] != '{' {
		buf.WriteByte(',')
	}
	appendString(buf, key)
	buf.WriteByte(':')
}

// appendString writes s as a quoted JSON string. The fast path copies
// verbatim; anything needing escapes goes through encoding/json.
func appendString(buf *bytes.Buffer, s string) {
	if !needsEscape(s) {
		buf.WriteByte('"')
		buf.WriteString(s)
		buf.WriteByte('"')
		return
	}
	escaped, err := json.Marshal(s)
	if err != nil {
		buf.WriteString(`"?"`)
		return
	}
	buf.Write(escaped)
}

func needsEscape(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c == '"' || c == '\\' || c >= utf8.RuneSelf {
			return true
		}
	}
	return false
}

func appendInt(buf *bytes.Buffer, v int64) {
	var scratch [20]byte
	buf.Write(strconv.AppendInt(scratch[:0], v, 10))
}

func appendUint(buf *bytes.Buffer, v uint64) {
	var scratch [20]byte
	buf.Write(strconv.AppendUint(scratch[:0], v, 10))
}

func appendFloat(buf *bytes.Buffer, v float64, bits int) {
	var scratch [32]byte
	buf.Write(strconv.AppendFloat(scratch[:0], v, 'g', -1, bits))
}

func appendBool(buf *bytes.Buffer, v bool) {
	if v {
		buf.WriteString("true")
	} else {
		buf.WriteString("false")
	}
}
