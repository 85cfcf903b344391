package observer

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/flowcore/flowcore/internal/domain/execctx"
	"github.com/flowcore/flowcore/internal/domain/flow"
)

// LoggingObserver is the "structured-logging observer" spec §4.6 calls for:
// JSON line output, level-filtered, one line per lifecycle event. It is
// built directly on zerolog (present in the teacher's go.mod but never
// wired there) rather than internal/obslog, since this is execution
// telemetry, not the ambient operational logger.
type LoggingObserver struct {
	logger zerolog.Logger
}

// NewLoggingObserver wraps logger for use as an Observer.
func NewLoggingObserver(logger zerolog.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

func (l *LoggingObserver) OnExecutionStarted(_ context.Context, f flow.Flow, ec execctx.ExecutionContext, now time.Time) {
	l.logger.Info().
		Str("event", "execution_started").
		Str("flow_id", f.ID).
		Str("execution_id", ec.ExecutionID).
		Time("timestamp", now).
		Msg("execution started")
}

func (l *LoggingObserver) OnComponentEnter(_ context.Context, component flow.Component, ec execctx.ExecutionContext, now time.Time) {
	l.logger.Debug().
		Str("event", "component_enter").
		Str("component_id", component.ID).
		Str("component_kind", string(component.Kind)).
		Str("execution_id", ec.ExecutionID).
		Time("timestamp", now).
		Msg("component entered")
}

func (l *LoggingObserver) OnComponentExit(_ context.Context, component flow.Component, result ComponentResult, ec execctx.ExecutionContext, now time.Time, durationMs int64) {
	evt := l.logger.Info()
	if !result.Success {
		evt = l.logger.Warn()
	}
	evt.Str("event", "component_exit").
		Str("component_id", component.ID).
		Str("component_kind", string(component.Kind)).
		Str("execution_id", ec.ExecutionID).
		Bool("success", result.Success).
		Int64("duration_ms", durationMs).
		Time("timestamp", now).
		Msg(result.Message)
}

func (l *LoggingObserver) OnContextChanged(_ context.Context, old, new execctx.ExecutionContext, reason string, now time.Time) {
	l.logger.Debug().
		Str("event", "context_changed").
		Str("execution_id", new.ExecutionID).
		Str("reason", reason).
		Int("audit_len_before", len(old.AuditTrail)).
		Int("audit_len_after", len(new.AuditTrail)).
		Time("timestamp", now).
		Msg("context changed")
}

func (l *LoggingObserver) OnDecisionEvaluated(_ context.Context, component flow.Component, conditionText string, chosenBranchIsTrue bool, ec execctx.ExecutionContext, now time.Time) {
	l.logger.Info().
		Str("event", "decision_evaluated").
		Str("component_id", component.ID).
		Str("condition", conditionText).
		Bool("branch_true", chosenBranchIsTrue).
		Str("execution_id", ec.ExecutionID).
		Time("timestamp", now).
		Msg("decision evaluated")
}

func (l *LoggingObserver) OnExecutionCompleted(_ context.Context, ec execctx.ExecutionContext, now time.Time) {
	l.logger.Info().
		Str("event", "execution_completed").
		Str("execution_id", ec.ExecutionID).
		Time("timestamp", now).
		Msg("execution completed")
}

func (l *LoggingObserver) OnExecutionFailed(_ context.Context, ec execctx.ExecutionContext, err error, now time.Time) {
	l.logger.Error().
		Str("event", "execution_failed").
		Str("execution_id", ec.ExecutionID).
		AnErr("error", err).
		Time("timestamp", now).
		Msg("execution failed")
}

func (l *LoggingObserver) OnExecutionAborted(_ context.Context, ec execctx.ExecutionContext, reason string, now time.Time) {
	l.logger.Warn().
		Str("event", "execution_aborted").
		Str("execution_id", ec.ExecutionID).
		Str("reason", reason).
		Time("timestamp", now).
		Msg("execution aborted")
}

var _ Observer = (*LoggingObserver)(nil)
