// Package audit writes the request log consumed by the exporter test
// driver. The driver greps the file for fixed phrases ("Grant type:
// password", "RESULT: 401 Unauthorized", ...), so line wording here is a
// contract, not informational output.
package audit

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

const timeLayout = "2006-01-02 15:04:05"

// Log appends timestamped lines to a file and mirrors them to stdout.
type Log struct {
	mu   sync.Mutex
	file *os.File
	out  io.Writer
	now  func() time.Time
}

// Open truncates the log file at path and writes the startup marker. The
// file exists and is readable as soon as Open returns, which the driver
// relies on when it starts polling /health.
func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open request log %s: %w", path, err)
	}

	l := &Log{
		file: f,
		out:  io.MultiWriter(f, os.Stdout),
		now:  time.Now,
	}
	fmt.Fprintf(l.out, "Mock Server Started at %s\n", l.now().Format(timeLayout))
	return l, nil
}

// Printf appends one timestamped line.
func (l *Log) Printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.out, "[%s] %s\n", l.now().Format(timeLayout), fmt.Sprintf(format, args...))
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Close()
}

// Truncate shortens s for logging so full tokens never appear in request
// lines, matching the driver's expectations.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
