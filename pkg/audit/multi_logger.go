package audit

import (
	"context"
	"fmt"
)

// MultiLogger fans every event out to several loggers. Log returns the
// first error but still attempts every logger.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger creates a fan-out logger.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	return &MultiLogger{loggers: loggers}
}

func (m *MultiLogger) Log(ctx context.Context, event *Event) error {
	var firstErr error
	for _, l := range m.loggers {
		if err := l.Log(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *MultiLogger) Close() error {
	var errs []error
	for _, l := range m.loggers {
		if err := l.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to close %d audit loggers: %v", len(errs), errs)
	}
	return nil
}
