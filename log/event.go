package log

import (
	"bytes"
	"encoding/hex"
	"strings"
	"time"
)

// LogEvent is one structured log entry under assembly. Its fluent methods add
// key-value pairs; Msg finishes the entry and hands it to the logger's
// appenders. Events are pooled: after Msg or End the event must not be
// touched again. A nil event (level filtered out) absorbs every call.
type LogEvent struct {
	buf    *bytes.Buffer
	logger Logger
	level  Level
}

// newEvent builds a pool-fresh event with a pre-grown buffer.
func newEvent(l Logger) *LogEvent {
	e := &LogEvent{logger: l, level: DebugLevel}
	e.buf = &bytes.Buffer{}
	e.buf.Grow(1024)
	return e
}

// reset prepares a pooled event for reuse.
func (e *LogEvent) reset() {
	e.buf.Reset()
	e.level = DebugLevel
	appendBeginMarker(e.buf)
}

// Str adds a string field.
func (e *LogEvent) Str(k, v string) *LogEvent {
	if e == nil {
		return nil
	}
	appendKey(e.buf, k)
	appendString(e.buf, v)
	return e
}

// Strs adds a string-slice field.
func (e *LogEvent) Strs(k string, v []string) *LogEvent {
	if e == nil {
		return nil
	}
	appendKey(e.buf, k)
	e.buf.WriteByte('[')
	for i, s := range v {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		appendString(e.buf, s)
	}
	e.buf.WriteByte(']')
	return e
}

// Int adds an int field.
func (e *LogEvent) Int(k string, v int) *LogEvent {
	if e == nil {
		return nil
	}
	appendKey(e.buf, k)
	appendInt(e.buf, int64(v))
	return e
}

// Int64 adds an int64 field.
func (e *LogEvent) Int64(k string, v int64) *LogEvent {
	if e == nil {
		return nil
	}
	appendKey(e.buf, k)
	appendInt(e.buf, v)
	return e
}

// Uint16 adds a uint16 field, the width of packet sequence numbers.
func (e *LogEvent) Uint16(k string, v uint16) *LogEvent {
	if e == nil {
		return nil
	}
	appendKey(e.buf, k)
	appendUint(e.buf, uint64(v))
	return e
}

// Uint64 adds a uint64 field.
func (e *LogEvent) Uint64(k string, v uint64) *LogEvent {
	if e == nil {
		return nil
	}
	appendKey(e.buf, k)
	appendUint(e.buf, v)
	return e
}

// Float32 adds a float32 field.
func (e *LogEvent) Float32(k string, v float32) *LogEvent {
	if e == nil {
		return nil
	}
	appendKey(e.buf, k)
	appendFloat(e.buf, float64(v), 32)
	return e
}

// Float64 adds a float64 field.
func (e *LogEvent) Float64(k string, v float64) *LogEvent {
	if e == nil {
		return nil
	}
	appendKey(e.buf, k)
	appendFloat(e.buf, v, 64)
	return e
}

// Bool adds a bool field.
func (e *LogEvent) Bool(k string, v bool) *LogEvent {
	if e == nil {
		return nil
	}
	appendKey(e.buf, k)
	appendBool(e.buf, v)
	return e
}

// Hex adds a byte-string field rendered as uppercase hex, the native spelling
// of octal codes in diagnostics.
func (e *LogEvent) Hex(k string, v []byte) *LogEvent {
	if e == nil {
		return nil
	}
	appendKey(e.buf, k)
	appendString(e.buf, strings.ToUpper(hex.EncodeToString(v)))
	return e
}

// Err adds the conventional "error" field; a nil error adds null.
func (e *LogEvent) Err(err error) *LogEvent {
	if e == nil {
		return nil
	}
	appendKey(e.buf, "error")
	if err == nil {
		e.buf.WriteString("null")
		return e
	}
	appendString(e.buf, err.Error())
	return e
}

// caller adds the file:line location captured by the logger.
func (e *LogEvent) caller(info string) *LogEvent {
	if e == nil {
		return nil
	}
	appendKey(e.buf, "caller")
	appendString(e.buf, info)
	return e
}

// Msg finishes the event with its message text and emits it. The event is
// recycled; do not use it afterwards.
func (e *LogEvent) Msg(msg string) {
	if e == nil {
		return
	}
	appendKey(e.buf, "time")
	appendString(e.buf, time.Now().Format("2006-01-02 15:04:05.000"))
	appendKey(e.buf, "level")
	appendString(e.buf, e.level.String())
	appendKey(e.buf, "msg")
	appendString(e.buf, msg)
	appendEndMarker(e.buf)
	appendLineBreak(e.buf)
	e.logger.OnEventEnd(e)
}

// End emits the event without a message, for callers that already added every
// field they wanted.
func (e *LogEvent) End() {
	if e == nil {
		return
	}
	e.Msg("")
}
