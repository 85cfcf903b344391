package obslog

import "context"

// NoOpLogger discards all log entries. It is the default when no logger is
// supplied, matching the engine's "MUST function with only the no-op
// observer" requirement for logging too.
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(context.Context, string, ...interface{}) {}
func (n *NoOpLogger) Info(context.Context, string, ...interface{})  {}
func (n *NoOpLogger) Warn(context.Context, string, ...interface{})  {}
func (n *NoOpLogger) Error(context.Context, string, ...interface{}) {}
func (n *NoOpLogger) With(...interface{}) Logger                    { return n }

// NewNoOpLogger returns a Logger that discards all log entries.
func NewNoOpLogger() Logger {
	return &NoOpLogger{}
}

var _ Logger = (*NoOpLogger)(nil)
