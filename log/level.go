package log

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Level orders log severities. Higher values are more critical; a logger drops
// every event below its configured minimum.
type Level int8

// Severity levels, least to most critical.
const (
	TraceLevel Level = iota + 1
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// String returns the uppercase level name used in log output and configs.
func (l Level) String() string {
	switch l {
	case TraceLevel:
		return "TRACE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name to its Level, case-insensitively. Unknown
// names fall back to InfoLevel so a bad config degrades instead of failing.
func ParseLevel(name string) Level {
	switch strings.ToUpper(name) {
	case "TRACE":
		return TraceLevel
	case "DEBUG":
		return DebugLevel
	case "INFO":
		return InfoLevel
	case "WARN":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	case "FATAL":
		return FatalLevel
	}
	return InfoLevel
}

// UnmarshalYAML lets configs spell levels by name ("debug", "WARN", ...).
func (l *Level) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	*l = ParseLevel(name)
	return nil
}
