// Package logging writes diagnostics to a file. The TUI owns stdout and
// stderr, so warnings that must not interrupt the interface land here.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

var (
	mu     sync.Mutex
	file   *os.File
	logger = log.New(io.Discard, "", log.LstdFlags)
)

// Init directs log output to the file at path, creating parent directories
// as needed. Before Init (and in tests) messages are discarded.
func Init(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
	}
	file = f
	logger.SetOutput(f)
	return nil
}

// Close flushes and closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
		file = nil
		logger.SetOutput(io.Discard)
	}
}

func Infof(format string, args ...any) {
	logger.Printf("INFO: "+format, args...)
}

func Warnf(format string, args ...any) {
	logger.Printf("WARN: "+format, args...)
}

func Errorf(format string, args ...any) {
	logger.Printf("ERROR: "+format, args...)
}
