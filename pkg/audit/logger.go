package audit

import "context"

// Logger records authorization audit events. Implementations must be safe
// for concurrent use.
type Logger interface {
	// Log records one event.
	Log(ctx context.Context, event *Event) error

	// Close flushes and releases resources.
	Close() error
}

// NopLogger discards every event.
type NopLogger struct{}

func (NopLogger) Log(context.Context, *Event) error { return nil }
func (NopLogger) Close() error                      { return nil }

// OrNop returns the given logger, or a NopLogger when it is nil. Packages
// that emit audit events use it so auditing stays optional.
func OrNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}
