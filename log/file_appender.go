package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileAppender writes events to a log file, rotating it once it grows past
// the configured size. Writes are synchronous; the mutex makes concurrent
// loggers safe.
type FileAppender struct {
	mu          sync.Mutex
	fileName    string
	fileSplitMB int
	fd          *os.File
	written     int64
}

// NewFileAppender opens (or creates) the configured log file. It panics on a
// path that cannot be opened so misconfiguration surfaces at startup, not at
// the first dropped log line.
func NewFileAppender(cfg *LogCfg) *FileAppender {
	a := &FileAppender{
		fileName:    cfg.LogPath,
		fileSplitMB: cfg.FileSplitMB,
	}
	if err := a.open(); err != nil {
		panic(err)
	}
	return a
}

func (a *FileAppender) open() error {
	if dir := filepath.Dir(a.fileName); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	fd, err := os.OpenFile(a.fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	a.fd = fd
	if info, err := fd.Stat(); err == nil {
		a.written = info.Size()
	}
	return nil
}

// Write appends one event, rotating first when the size threshold is crossed.
func (a *FileAppender) Write(buf []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.written+int64(len(buf)) > int64(a.fileSplitMB)<<20 {
		a.rotate()
	}
	n, err := a.fd.Write(buf)
	a.written += int64(n)
	return n, err
}

// rotate renames the current file with a timestamp suffix and starts fresh.
// A failed rename keeps writing to the old file rather than losing events.
func (a *FileAppender) rotate() {
	if err := a.fd.Close(); err != nil {
		return
	}
	rotated := fmt.Sprintf("%s.%s", a.fileName, time.Now().Format("20060102-150405"))
	if err := os.Rename(a.fileName, rotated); err == nil {
		a.written = 0
	}
	if err := a.open(); err != nil {
		// last resort: stderr, the appender is wedged
		fmt.Fprintf(os.Stderr, "log rotate reopen failed: %v\n", err)
	}
}

// Refresh forces the file contents to disk.
func (a *FileAppender) Refresh() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fd.Sync()
}

// Close flushes and closes the file.
func (a *FileAppender) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.fd.Sync(); err != nil {
		return err
	}
	return a.fd.Close()
}
