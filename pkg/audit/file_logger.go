package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// FileLoggerConfig configures the file logger.
type FileLoggerConfig struct {
	// Dir is the directory audit logs are written to.
	Dir string

	// Rotate enables size-based rotation.
	Rotate bool

	// MaxSize is the file size in bytes that triggers rotation.
	MaxSize int64

	// MaxFiles is the number of rotated files kept.
	MaxFiles int
}

// DefaultFileLoggerConfig returns the stock configuration.
func DefaultFileLoggerConfig(dir string) FileLoggerConfig {
	return FileLoggerConfig{
		Dir:      dir,
		Rotate:   true,
		MaxSize:  100 * 1024 * 1024,
		MaxFiles: 10,
	}
}

// FileLogger appends audit events as newline-delimited JSON to a file,
// rotating by size.
type FileLogger struct {
	config FileLoggerConfig

	mu      sync.Mutex
	file    *os.File
	encoder *json.Encoder
	written int64
}

// NewFileLogger creates a file-based audit logger, creating the directory
// when needed.
func NewFileLogger(config FileLoggerConfig) (*FileLogger, error) {
	if config.Dir == "" {
		return nil, fmt.Errorf("audit log directory is required")
	}
	if err := os.MkdirAll(config.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit log directory: %w", err)
	}
	if config.MaxSize <= 0 {
		config.MaxSize = 100 * 1024 * 1024
	}
	if config.MaxFiles <= 0 {
		config.MaxFiles = 10
	}

	l := &FileLogger{config: config}
	if err := l.open(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *FileLogger) currentPath() string {
	return filepath.Join(l.config.Dir, "audit.log")
}

func (l *FileLogger) open() error {
	file, err := os.OpenFile(l.currentPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open audit log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat audit log file: %w", err)
	}

	l.file = file
	l.encoder = json.NewEncoder(file)
	l.written = info.Size()
	return nil
}

func (l *FileLogger) Log(_ context.Context, event *Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.config.Rotate && l.written >= l.config.MaxSize {
		if err := l.rotate(); err != nil {
			return err
		}
	}

	before := l.written
	if err := l.encoder.Encode(event); err != nil {
		return fmt.Errorf("failed to write audit event: %w", err)
	}
	if info, err := l.file.Stat(); err == nil {
		l.written = info.Size()
	} else {
		l.written = before + 1
	}
	return nil
}

func (l *FileLogger) rotate() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	rotated := filepath.Join(l.config.Dir,
		fmt.Sprintf("audit-%s.log", time.Now().UTC().Format("2006-01-02-15-04-05.000000000")))
	if err := os.Rename(l.currentPath(), rotated); err != nil {
		return fmt.Errorf("failed to rotate audit log: %w", err)
	}

	if err := l.cleanup(); err != nil {
		// Rotation succeeded; cleanup failure is not fatal.
		fmt.Fprintf(os.Stderr, "failed to clean up rotated audit logs: %v\n", err)
	}

	return l.open()
}

func (l *FileLogger) cleanup() error {
	pattern := filepath.Join(l.config.Dir, "audit-*.log")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}
	if len(matches) <= l.config.MaxFiles {
		return nil
	}

	// Timestamped names sort chronologically; remove the oldest.
	sort.Strings(matches)
	for _, path := range matches[:len(matches)-l.config.MaxFiles] {
		if err := os.Remove(path); err != nil {
			return err
		}
	}
	return nil
}

func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
