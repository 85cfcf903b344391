// Package executor implements spec §4.4: the flow executor. It orchestrates
// stepping, host-service dispatch, audit-trail extension, observer
// notification, and cancellation, generalizing streamy's
// internal/engine.Execute/executeStep (context.Context cancellation and
// timeout plumbing) from per-level worker-pool fan-out to the spec's
// single-threaded-per-execution cooperative model: the executor is
// reentrant across distinct ExecutionContext instances, never within one.
package executor

import (
	"context"
	"fmt"

	"github.com/flowcore/flowcore/internal/clock"
	"github.com/flowcore/flowcore/internal/domain/execctx"
	"github.com/flowcore/flowcore/internal/domain/flow"
	"github.com/flowcore/flowcore/internal/graph"
	"github.com/flowcore/flowcore/internal/hostservice"
	"github.com/flowcore/flowcore/internal/observer"
	"github.com/flowcore/flowcore/pkg/flowerr"
)

// Mode selects how Execute drives the stepping loop.
type Mode string

const (
	ModeRunToCompletion Mode = "RUN_TO_COMPLETION"
	ModeStepByStep      Mode = "STEP_BY_STEP"
	ModeRunToBreakpoint Mode = "RUN_TO_BREAKPOINT"
)

// IterationCap is the hard last-resort infinite-loop guard from spec §4.4:
// "enforce a hard iteration cap (>= 10000)".
const IterationCap = 10_000

// breakpointMetadataKey is where RUN_TO_BREAKPOINT's step count lives, per
// the decision recorded in SPEC_FULL.md §13 (the simplest concrete scheme
// consistent with "a concrete breakpoint identification scheme is out of
// scope").
const breakpointMetadataKey = "breakpointAfterSteps"

// StepResult is returned by Step.
type StepResult struct {
	Context    execctx.ExecutionContext
	IsComplete bool
	Err        error
}

// AbortResult is returned by Abort.
type AbortResult struct {
	Context execctx.ExecutionContext
	Reason  string
}

// ExecutionResult is returned by Execute.
type ExecutionResult struct {
	Status             execctx.Status
	Code               flowerr.Code
	OutputVariables    map[string]interface{}
	ComponentsExecuted int
	Err                error
}

// Executor drives flows against a HostService registry and a set of
// observers. The zero value is not usable; build one with New.
type Executor struct {
	registry *hostservice.Registry
	observer observer.Observer
	clock    clock.Clock
}

// Option configures an Executor.
type Option func(*Executor)

// WithObserver attaches an Observer, wrapped in an observer.Composite so a
// panicking callback is recovered and the execution continues. The default
// is observer.Noop{}.
func WithObserver(o observer.Observer) Option {
	return func(e *Executor) { e.observer = observer.NewComposite(nil, o) }
}

// WithClock overrides the engine-wall-clock source. The default is
// clock.Real.
func WithClock(c clock.Clock) Option {
	return func(e *Executor) { e.clock = c }
}

// New builds an Executor over registry, applying opts in order.
func New(registry *hostservice.Registry, opts ...Option) *Executor {
	e := &Executor{
		registry: registry,
		observer: observer.Noop{},
		clock:    clock.Real,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func newExecutionID(clk clock.Clock) string {
	return fmt.Sprintf("exec-%d", clk.Now().UnixNano())
}

// Execute runs f to completion (or to a STEP_BY_STEP/RUN_TO_BREAKPOINT
// boundary) per spec §4.4. If initial is nil, a fresh context is seeded
// keyed by (f.ID, a fresh execution id).
func (e *Executor) Execute(ctx context.Context, f flow.Flow, initial *execctx.ExecutionContext, mode Mode) (ExecutionResult, execctx.ExecutionContext) {
	if err := graph.ValidateDAG(f); err != nil {
		return ExecutionResult{Status: execctx.StatusFailed, Code: flowerr.CodeInvalidGraph, Err: flowerr.Wrap(flowerr.CodeInvalidGraph, "flow graph is invalid", err)}, execctx.ExecutionContext{}
	}
	start, ok := f.Start()
	if !ok {
		return ExecutionResult{Status: execctx.StatusFailed, Code: flowerr.CodeInvalidGraph, Err: flowerr.New(flowerr.CodeInvalidGraph, "flow has no start component")}, execctx.ExecutionContext{}
	}

	ec := e.initContext(f, start, initial)
	now := e.clock.Now()

	if ec.Status == execctx.StatusNotStarted {
		ec = ec.WithStatus(execctx.StatusRunning)
		e.observer.OnExecutionStarted(ctx, f, ec, now)
	}

	breakpointAfter, hasBreakpoint := breakpointSteps(ec)

	iterations := 0
	for {
		if mode == ModeStepByStep {
			result := e.Step(ctx, f, ec)
			ec = result.Context
			if result.Err != nil {
				return e.finish(ctx, ec, result.Err)
			}
			if result.IsComplete {
				return e.finish(ctx, ec, nil)
			}
			return ExecutionResult{Status: execctx.StatusPaused, Code: ""}, ec.WithStatus(execctx.StatusPaused)
		}

		select {
		case <-ctx.Done():
			ec = e.abortForCancellation(ctx, ec)
			return ExecutionResult{Status: execctx.StatusAborted, Code: flowerr.CodeExecutionError, Err: ctx.Err()}, ec
		default:
		}

		result := e.Step(ctx, f, ec)
		ec = result.Context
		if result.Err != nil {
			return e.finish(ctx, ec, result.Err)
		}
		if result.IsComplete {
			return e.finish(ctx, ec, nil)
		}

		iterations++
		if mode == ModeRunToBreakpoint && hasBreakpoint && iterations >= breakpointAfter {
			return ExecutionResult{Status: execctx.StatusPaused, Code: ""}, ec.WithStatus(execctx.StatusPaused)
		}
		if iterations >= IterationCap {
			err := flowerr.Newf(flowerr.CodeExecutionError, "execution exceeded iteration cap of %d", IterationCap)
			return e.finish(ctx, ec, err)
		}
	}
}

func (e *Executor) initContext(f flow.Flow, start flow.Component, initial *execctx.ExecutionContext) execctx.ExecutionContext {
	if initial != nil {
		return *initial
	}
	return execctx.New(f.ID, newExecutionID(e.clock), start.ID)
}

func breakpointSteps(ec execctx.ExecutionContext) (int, bool) {
	raw, ok := ec.Metadata[breakpointMetadataKey]
	if !ok {
		return 0, false
	}
	switch n := raw.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func (e *Executor) finish(ctx context.Context, ec execctx.ExecutionContext, stepErr error) (ExecutionResult, execctx.ExecutionContext) {
	now := e.clock.Now()

	if stepErr != nil {
		ec = ec.WithStatus(execctx.StatusFailed)
		e.observer.OnExecutionFailed(ctx, ec, stepErr, now)
		return ExecutionResult{
			Status:             execctx.StatusFailed,
			Code:               flowerr.CodeOf(stepErr),
			ComponentsExecuted: ec.CountAudit(execctx.ActionComponentCompleted),
			Err:                stepErr,
		}, ec
	}

	ec = ec.WithStatus(execctx.StatusCompleted)
	e.observer.OnExecutionCompleted(ctx, ec, now)
	return ExecutionResult{
		Status:             execctx.StatusCompleted,
		OutputVariables:    variablesToInterfaceMap(ec),
		ComponentsExecuted: ec.CountAudit(execctx.ActionComponentCompleted),
	}, ec
}

func (e *Executor) abortForCancellation(ctx context.Context, ec execctx.ExecutionContext) execctx.ExecutionContext {
	return e.Abort(ctx, ec, "context canceled").Context
}

// Abort transitions ec into ABORTED with a final audit entry recording
// reason, notifying OnExecutionAborted. A no-op (returns ec unchanged) if
// ec is already in a terminal state, matching the monotone state machine
// in spec §4.4.
func (e *Executor) Abort(ctx context.Context, ec execctx.ExecutionContext, reason string) AbortResult {
	if ec.Status.IsTerminal() {
		return AbortResult{Context: ec, Reason: reason}
	}
	now := e.clock.Now()
	ec = ec.AppendAudit(now, ec.CurrentComponentID, execctx.ActionComponentFailed, reason)
	ec = ec.WithStatus(execctx.StatusAborted)
	e.observer.OnExecutionAborted(ctx, ec, reason, now)
	return AbortResult{Context: ec, Reason: reason}
}

func variablesToInterfaceMap(ec execctx.ExecutionContext) map[string]interface{} {
	out := make(map[string]interface{}, len(ec.Variables))
	for k, v := range ec.Variables {
		out[k] = v
	}
	return out
}
