// Package debug writes an optional category-tagged trace file. Every call is
// a no-op until Enable opens the file.
package debug

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// FileName is the log file created inside the directory passed to Enable
const FileName = "debug.log"

type sink struct {
	mu     sync.Mutex
	f      *os.File
	out    *log.Logger
	counts map[string]int
}

var trace sink

// Enable starts debug logging to dir/debug.log, truncating any old log.
// Enabling twice keeps the first file.
func Enable(dir string) error {
	trace.mu.Lock()
	defer trace.mu.Unlock()
	if trace.f != nil {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, FileName))
	if err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}
	trace.f = f
	trace.out = log.New(f, "", log.Ltime|log.Lmicroseconds)
	trace.counts = make(map[string]int)
	trace.emit("debug", "logging started")
	return nil
}

// Enabled reports whether logging is on
func Enabled() bool {
	trace.mu.Lock()
	defer trace.mu.Unlock()
	return trace.f != nil
}

// Disable closes the log file
func Disable() {
	trace.mu.Lock()
	defer trace.mu.Unlock()
	if trace.f == nil {
		return
	}
	trace.f.Close()
	trace.f, trace.out, trace.counts = nil, nil, nil
}

// Log writes one line under category
func Log(category, format string, args ...any) {
	trace.mu.Lock()
	defer trace.mu.Unlock()
	if trace.f != nil {
		trace.emit(category, fmt.Sprintf(format, args...))
	}
}

// LogEvery writes only every nth call with the same category and format,
// for events that fire at tick rate.
func LogEvery(n int, category, format string, args ...any) {
	trace.mu.Lock()
	defer trace.mu.Unlock()
	if trace.f == nil || n <= 0 {
		return
	}
	key := category + "\x00" + format
	trace.counts[key]++
	if c := trace.counts[key]; c%n == 0 {
		msg := fmt.Sprintf(format, args...)
		trace.emit(category, fmt.Sprintf("%s (every %d, count=%d)", msg, n, c))
	}
}

// emit needs mu held. The file is synced per line so a crash keeps the tail.
func (s *sink) emit(category, msg string) {
	s.out.Printf("%-8s %s", category, msg)
	s.f.Sync()
}
