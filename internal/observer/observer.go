// Package observer implements spec §4.6: a single Observer interface
// receiving lifecycle notifications from the executor, a panic-safe
// Composite fan-out (grounded on streamy's LoggingPublisher "publish to
// subscriber list, swallow handler errors" discipline), and a Noop default.
// Observers are untrusted: every callback is recovered around so a
// misbehaving observer never aborts an execution.
package observer

import (
	"context"
	"time"

	"github.com/flowcore/flowcore/internal/domain/execctx"
	"github.com/flowcore/flowcore/internal/domain/flow"
)

// ComponentResult is the synthetic per-step result passed to OnComponentExit.
type ComponentResult struct {
	Success bool
	Message string
	Err     error
}

// Observer is a passive subscriber to execution lifecycle events. Every
// callback receives a timestamp in engine-wall-clock units (see
// internal/clock). Implementations MUST NOT block or mutate the execution
// path; the executor does not rely on any return value.
type Observer interface {
	OnExecutionStarted(ctx context.Context, f flow.Flow, ec execctx.ExecutionContext, now time.Time)
	OnComponentEnter(ctx context.Context, component flow.Component, ec execctx.ExecutionContext, now time.Time)
	OnComponentExit(ctx context.Context, component flow.Component, result ComponentResult, ec execctx.ExecutionContext, now time.Time, durationMs int64)
	OnContextChanged(ctx context.Context, old, new execctx.ExecutionContext, reason string, now time.Time)
	OnDecisionEvaluated(ctx context.Context, component flow.Component, conditionText string, chosenBranchIsTrue bool, ec execctx.ExecutionContext, now time.Time)
	OnExecutionCompleted(ctx context.Context, ec execctx.ExecutionContext, now time.Time)
	OnExecutionFailed(ctx context.Context, ec execctx.ExecutionContext, err error, now time.Time)
	OnExecutionAborted(ctx context.Context, ec execctx.ExecutionContext, reason string, now time.Time)
}

// Noop discards every notification. It is the default observer: the core
// must function with no other observer attached.
type Noop struct{}

func (Noop) OnExecutionStarted(context.Context, flow.Flow, execctx.ExecutionContext, time.Time) {}
func (Noop) OnComponentEnter(context.Context, flow.Component, execctx.ExecutionContext, time.Time) {}
func (Noop) OnComponentExit(context.Context, flow.Component, ComponentResult, execctx.ExecutionContext, time.Time, int64) {
}
func (Noop) OnContextChanged(context.Context, execctx.ExecutionContext, execctx.ExecutionContext, string, time.Time) {
}
func (Noop) OnDecisionEvaluated(context.Context, flow.Component, string, bool, execctx.ExecutionContext, time.Time) {
}
func (Noop) OnExecutionCompleted(context.Context, execctx.ExecutionContext, time.Time) {}
func (Noop) OnExecutionFailed(context.Context, execctx.ExecutionContext, error, time.Time)  {}
func (Noop) OnExecutionAborted(context.Context, execctx.ExecutionContext, string, time.Time) {}

var _ Observer = Noop{}
