package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/flowcore/flowcore/internal/domain/execctx"
	"github.com/flowcore/flowcore/internal/domain/flow"
	"github.com/flowcore/flowcore/internal/graph"
	"github.com/flowcore/flowcore/internal/observer"
	"github.com/flowcore/flowcore/pkg/flowerr"
	"github.com/flowcore/flowcore/pkg/value"
)

// Step advances ec by exactly one component, per spec §4.4: append
// COMPONENT_STARTED, dispatch by kind (each variant appends its own
// COMPONENT_COMPLETED or other terminal audit action), notify
// OnContextChanged with the pre/post contexts, then advance. IsComplete
// reports whether the End component was just reached; Err reports a fatal
// failure (unknown component, failed Action, invalid successor).
func (e *Executor) Step(ctx context.Context, f flow.Flow, ec execctx.ExecutionContext) StepResult {
	current, ok := f.Component(ec.CurrentComponentID)
	if !ok {
		return StepResult{Context: ec, Err: flowerr.Newf(flowerr.CodeUnexpectedTermination, "component %q not found in flow", ec.CurrentComponentID)}
	}

	before := ec
	enterTime := e.clock.Now()
	ec = ec.PushFrame(execctx.StackFrame{ComponentID: current.ID, ComponentType: string(current.Kind), EnteredAt: enterTime})
	ec = ec.AppendAudit(enterTime, current.ID, execctx.ActionComponentStarted, fmt.Sprintf("entering %s", current.Name))
	e.observer.OnComponentEnter(ctx, current, ec, enterTime)

	var result observer.ComponentResult
	switch current.Kind {
	case flow.KindStart:
		ec, result = e.stepStart(ec, current, enterTime)
	case flow.KindEnd:
		ec, result = e.stepEnd(ec, current, enterTime)
	case flow.KindAction:
		ec, result = e.stepAction(ctx, ec, current, enterTime)
	case flow.KindDecision:
		ec, result = e.stepDecision(ctx, ec, current, enterTime)
	case flow.KindFork, flow.KindJoin:
		ec, result = e.stepPassthrough(ec, current, enterTime)
	default:
		result = observer.ComponentResult{Success: false, Err: flowerr.Newf(flowerr.CodeUnexpectedTermination, "unsupported component kind %q", current.Kind)}
	}

	exitTime := e.clock.Now()
	durationMs := exitTime.Sub(enterTime).Milliseconds()
	e.observer.OnComponentExit(ctx, current, result, ec, exitTime, durationMs)
	ec = ec.PopFrame()
	e.observer.OnContextChanged(ctx, before, ec, "component_executed", exitTime)

	if !result.Success {
		err := result.Err
		if err == nil {
			err = flowerr.New(flowerr.CodeComponentExecutionError, result.Message)
		}
		return StepResult{Context: ec, Err: err}
	}

	if current.Kind == flow.KindEnd {
		return StepResult{Context: ec, IsComplete: true}
	}

	next, ok := graph.ResolveNext(f, ec)
	if !ok {
		return StepResult{Context: ec, Err: flowerr.Newf(flowerr.CodeUnexpectedTermination, "component %q has no successor", current.ID)}
	}
	ec = ec.WithCurrentComponent(next.ID)
	return StepResult{Context: ec}
}

// stepStart implements §4.4 step 5 for the Start component: like every
// other variant, it produces its own COMPONENT_COMPLETED entry rather than
// relying on the per-step COMPONENT_STARTED alone.
func (e *Executor) stepStart(ec execctx.ExecutionContext, c flow.Component, enterTime time.Time) (execctx.ExecutionContext, observer.ComponentResult) {
	ec = ec.AppendAudit(enterTime, c.ID, execctx.ActionComponentCompleted, fmt.Sprintf("started %s", c.Name))
	return ec, observer.ComponentResult{Success: true}
}

func (e *Executor) stepEnd(ec execctx.ExecutionContext, c flow.Component, enterTime time.Time) (execctx.ExecutionContext, observer.ComponentResult) {
	ec = ec.AppendAudit(enterTime, c.ID, execctx.ActionComponentCompleted, fmt.Sprintf("reached end %s", c.Name))
	return ec, observer.ComponentResult{Success: true, Message: "reached end"}
}

// stepAction implements spec §4.4 step 6's Action rule: gather every bound
// variable into a parameter mapping (the declared input-port-name-to-
// variable binding the spec describes degenerates to "everything currently
// in scope" since every Action, regardless of configuration, exposes the
// same single control input port; see DESIGN.md), dispatch to the host
// service, and on success bind the first output port's name to the
// returned value.
func (e *Executor) stepAction(ctx context.Context, ec execctx.ExecutionContext, c flow.Component, enterTime time.Time) (execctx.ExecutionContext, observer.ComponentResult) {
	serviceProp := c.Properties["service"]
	methodProp := c.Properties["method"]
	serviceName, _ := serviceProp.StringValue()
	method, _ := methodProp.StringValue()

	params := make(map[string]value.VariableValue, len(ec.Variables))
	for k, v := range ec.Variables {
		params[k] = v
	}

	res := e.registry.Execute(ctx, serviceName, method, params)
	now := e.clock.Now()

	if !res.Success {
		ec = ec.AppendAudit(now, c.ID, execctx.ActionComponentFailed, res.Error)
		return ec, observer.ComponentResult{Success: false, Message: res.Error, Err: flowerr.Newf(flowerr.CodeComponentExecutionError, "action %s (%s.%s) failed: %s", c.ID, serviceName, method, res.Error)}
	}

	outputs := c.OutputPorts()
	if len(outputs) > 0 {
		ec = ec.WithVariable(outputs[0].ID, res.Result)
	}
	ec = ec.AppendAudit(now, c.ID, execctx.ActionComponentCompleted, fmt.Sprintf("%s.%s succeeded", serviceName, method))
	return ec, observer.ComponentResult{Success: true, Message: "action succeeded"}
}

func (e *Executor) stepDecision(ctx context.Context, ec execctx.ExecutionContext, c flow.Component, enterTime time.Time) (execctx.ExecutionContext, observer.ComponentResult) {
	conditionProp := c.Properties["condition"]
	conditionText, _ := conditionProp.StringValue()
	chosenTrue := graph.EvaluateCondition(c, ec)
	now := e.clock.Now()

	ec = ec.AppendAudit(now, c.ID, execctx.ActionVariableUpdated, conditionText)
	e.observer.OnDecisionEvaluated(ctx, c, conditionText, chosenTrue, ec, now)
	return ec, observer.ComponentResult{Success: true, Message: conditionText}
}

// stepPassthrough implements Fork/Join sequentially: the open question on
// true-parallel branch/join semantics is decided (SPEC_FULL.md §13) as
// single-threaded pass-through along the first outgoing/declared path,
// matching the executor's single-threaded-per-execution model. Fan-out and
// synchronization are recorded for observability but not parallelized.
func (e *Executor) stepPassthrough(ec execctx.ExecutionContext, c flow.Component, enterTime time.Time) (execctx.ExecutionContext, observer.ComponentResult) {
	message := fmt.Sprintf("passed through %s", c.Kind)
	switch c.Kind {
	case flow.KindFork:
		message = fmt.Sprintf("passed through %s (%d branches)", c.Kind, c.ForkBranches)
	case flow.KindJoin:
		message = fmt.Sprintf("passed through %s (mode %s)", c.Kind, c.Mode)
	}
	ec = ec.AppendAudit(e.clock.Now(), c.ID, execctx.ActionComponentCompleted, message)
	return ec, observer.ComponentResult{Success: true}
}
