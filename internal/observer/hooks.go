package observer

import (
	"context"
	"time"

	"github.com/zoobzio/hookz"

	"github.com/flowcore/flowcore/internal/domain/execctx"
	"github.com/flowcore/flowcore/internal/domain/flow"
)

// Hook event keys, following pipz's handle.go style (one hookz.Key per
// distinct externally-subscribable moment, separate from the metric/span
// keys in metrics.go/tracing.go).
const (
	EventExecutionStarted   = hookz.Key("flow.execution_started")
	EventComponentEntered   = hookz.Key("flow.component_entered")
	EventComponentExited    = hookz.Key("flow.component_exited")
	EventExecutionCompleted = hookz.Key("flow.execution_completed")
	EventExecutionFailed    = hookz.Key("flow.execution_failed")
	EventExecutionAborted   = hookz.Key("flow.execution_aborted")
)

// FlowEvent is the single payload shape emitted for every hook key; fields
// irrelevant to a given key are left zero.
type FlowEvent struct {
	FlowID      string
	ExecutionID string
	ComponentID string
	Success     bool
	Err         error
	Reason      string
	DurationMs  int64
	Timestamp   time.Time
}

// HookObserver lets external callers subscribe to individual lifecycle
// moments (hookz.Hooks) without implementing the full Observer interface,
// grounded on pipz's Handle connector (OnError/OnHandled/OnHandlerError
// registered against a shared hookz.Hooks[T], events emitted best-effort
// with the error discarded).
type HookObserver struct {
	hooks *hookz.Hooks[FlowEvent]
}

// NewHookObserver creates a HookObserver over a fresh hookz.Hooks bus.
func NewHookObserver() *HookObserver {
	return &HookObserver{hooks: hookz.New[FlowEvent]()}
}

// Close releases the underlying hook bus.
func (h *HookObserver) Close() error {
	h.hooks.Close()
	return nil
}

// OnStarted registers a handler invoked once an execution begins.
func (h *HookObserver) OnStarted(handler func(context.Context, FlowEvent) error) error {
	_, err := h.hooks.Hook(EventExecutionStarted, handler)
	return err
}

// OnComponentEntered registers a handler invoked as each component is entered.
func (h *HookObserver) OnComponentEntered(handler func(context.Context, FlowEvent) error) error {
	_, err := h.hooks.Hook(EventComponentEntered, handler)
	return err
}

// OnComponentExited registers a handler invoked as each component is exited.
func (h *HookObserver) OnComponentExited(handler func(context.Context, FlowEvent) error) error {
	_, err := h.hooks.Hook(EventComponentExited, handler)
	return err
}

// OnCompleted registers a handler invoked when an execution completes.
func (h *HookObserver) OnCompleted(handler func(context.Context, FlowEvent) error) error {
	_, err := h.hooks.Hook(EventExecutionCompleted, handler)
	return err
}

// OnFailed registers a handler invoked when an execution fails.
func (h *HookObserver) OnFailed(handler func(context.Context, FlowEvent) error) error {
	_, err := h.hooks.Hook(EventExecutionFailed, handler)
	return err
}

// OnAborted registers a handler invoked when an execution is aborted.
func (h *HookObserver) OnAborted(handler func(context.Context, FlowEvent) error) error {
	_, err := h.hooks.Hook(EventExecutionAborted, handler)
	return err
}

func (h *HookObserver) OnExecutionStarted(ctx context.Context, f flow.Flow, ec execctx.ExecutionContext, now time.Time) {
	_ = h.hooks.Emit(ctx, EventExecutionStarted, FlowEvent{FlowID: f.ID, ExecutionID: ec.ExecutionID, Timestamp: now})
}

func (h *HookObserver) OnComponentEnter(ctx context.Context, component flow.Component, ec execctx.ExecutionContext, now time.Time) {
	_ = h.hooks.Emit(ctx, EventComponentEntered, FlowEvent{FlowID: ec.FlowID, ExecutionID: ec.ExecutionID, ComponentID: component.ID, Timestamp: now})
}

func (h *HookObserver) OnComponentExit(ctx context.Context, component flow.Component, result ComponentResult, ec execctx.ExecutionContext, now time.Time, durationMs int64) {
	_ = h.hooks.Emit(ctx, EventComponentExited, FlowEvent{FlowID: ec.FlowID, ExecutionID: ec.ExecutionID, ComponentID: component.ID, Success: result.Success, Err: result.Err, DurationMs: durationMs, Timestamp: now})
}

func (h *HookObserver) OnContextChanged(context.Context, execctx.ExecutionContext, execctx.ExecutionContext, string, time.Time) {
}

func (h *HookObserver) OnDecisionEvaluated(context.Context, flow.Component, string, bool, execctx.ExecutionContext, time.Time) {
}

func (h *HookObserver) OnExecutionCompleted(ctx context.Context, ec execctx.ExecutionContext, now time.Time) {
	_ = h.hooks.Emit(ctx, EventExecutionCompleted, FlowEvent{FlowID: ec.FlowID, ExecutionID: ec.ExecutionID, Success: true, Timestamp: now})
}

func (h *HookObserver) OnExecutionFailed(ctx context.Context, ec execctx.ExecutionContext, err error, now time.Time) {
	_ = h.hooks.Emit(ctx, EventExecutionFailed, FlowEvent{FlowID: ec.FlowID, ExecutionID: ec.ExecutionID, Success: false, Err: err, Timestamp: now})
}

func (h *HookObserver) OnExecutionAborted(ctx context.Context, ec execctx.ExecutionContext, reason string, now time.Time) {
	_ = h.hooks.Emit(ctx, EventExecutionAborted, FlowEvent{FlowID: ec.FlowID, ExecutionID: ec.ExecutionID, Success: false, Reason: reason, Timestamp: now})
}

var _ Observer = (*HookObserver)(nil)
