package log

// Logger is the interface applications implement to receive allocation events.
// Pass nil or NoopLogger to disable logging.
type Logger interface {
	// Log records an allocation event. Implementations must be thread-safe.
	// Log is called with the network lock held, so it must not call back
	// into the network.
	Log(event Event)
}

// NoopLogger discards all events. Use when logging is disabled.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}
