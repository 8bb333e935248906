package log

import "os"

// ConsoleAppender writes events straight to stdout, unbuffered. Suitable for
// development and containerised deployments where a collector tails stdout.
type ConsoleAppender struct{}

// NewConsoleAppender returns the stateless stdout appender.
func NewConsoleAppender() *ConsoleAppender {
	return &ConsoleAppender{}
}

// Write writes the event to stdout.
func (ca *ConsoleAppender) Write(buf []byte) (int, error) {
	return os.Stdout.Write(buf)
}

// Refresh is a no-op: writes are unbuffered.
func (ca *ConsoleAppender) Refresh() error {
	return nil
}

// Close is a no-op: stdout is not ours to close.
func (ca *ConsoleAppender) Close() error {
	return nil
}
