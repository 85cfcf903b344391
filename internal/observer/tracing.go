package observer

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/tracez"

	"github.com/flowcore/flowcore/internal/domain/execctx"
	"github.com/flowcore/flowcore/internal/domain/flow"
)

// Span and tag keys, following pipz's tracez.Key/tracez.Tag constant style.
const (
	SpanExecution = tracez.Key("flow.execution")
	SpanComponent = tracez.Key("flow.component")

	TagFlowID       = tracez.Tag("flow.id")
	TagExecutionID  = tracez.Tag("flow.execution_id")
	TagComponentID  = tracez.Tag("flow.component_id")
	TagComponentKind = tracez.Tag("flow.component_kind")
	TagSuccess      = tracez.Tag("flow.success")
	TagDurationMs   = tracez.Tag("flow.duration_ms")
	TagReason       = tracez.Tag("flow.reason")
)

// TracingObserver is the "tracing observer (parent/child span creation with
// attribute propagation)" spec §4.6 calls for: one root span per execution,
// one child span per component entered, backed by zoobzio/tracez.
//
// The executor is reentrant across distinct ExecutionContexts, so this
// observer tracks one active trace per execution id rather than assuming a
// single in-flight execution.
type TracingObserver struct {
	tracer *tracez.Tracer

	mu    sync.Mutex
	roots map[string]tracingState
}

type tracingState struct {
	ctx          context.Context
	rootSpan     *tracez.ActiveSpan
	componentCtx context.Context
	componentSpan *tracez.ActiveSpan
}

// NewTracingObserver creates a TracingObserver over a fresh tracez.Tracer.
func NewTracingObserver() *TracingObserver {
	return &TracingObserver{
		tracer: tracez.New(),
		roots:  make(map[string]tracingState),
	}
}

// Tracer exposes the underlying tracez.Tracer for export/collection.
func (t *TracingObserver) Tracer() *tracez.Tracer { return t.tracer }

// Close releases the tracer's resources.
func (t *TracingObserver) Close() { t.tracer.Close() }

func (t *TracingObserver) OnExecutionStarted(ctx context.Context, f flow.Flow, ec execctx.ExecutionContext, _ time.Time) {
	spanCtx, span := t.tracer.StartSpan(ctx, SpanExecution)
	span.SetTag(TagFlowID, f.ID)
	span.SetTag(TagExecutionID, ec.ExecutionID)

	t.mu.Lock()
	t.roots[ec.ExecutionID] = tracingState{ctx: spanCtx, rootSpan: span}
	t.mu.Unlock()
}

func (t *TracingObserver) OnComponentEnter(ctx context.Context, component flow.Component, ec execctx.ExecutionContext, _ time.Time) {
	t.mu.Lock()
	state, ok := t.roots[ec.ExecutionID]
	t.mu.Unlock()
	if !ok {
		return
	}

	parent := state.ctx
	if parent == nil {
		parent = ctx
	}
	childCtx, span := t.tracer.StartSpan(parent, SpanComponent)
	span.SetTag(TagComponentID, component.ID)
	span.SetTag(TagComponentKind, string(component.Kind))

	state.componentCtx = childCtx
	state.componentSpan = span

	t.mu.Lock()
	t.roots[ec.ExecutionID] = state
	t.mu.Unlock()
}

func (t *TracingObserver) OnComponentExit(_ context.Context, _ flow.Component, result ComponentResult, ec execctx.ExecutionContext, _ time.Time, durationMs int64) {
	t.mu.Lock()
	state, ok := t.roots[ec.ExecutionID]
	t.mu.Unlock()
	if !ok || state.componentSpan == nil {
		return
	}

	span := state.componentSpan
	if result.Success {
		span.SetTag(TagSuccess, "true")
	} else {
		span.SetTag(TagSuccess, "false")
	}
	span.SetTag(TagDurationMs, msToString(durationMs))
	span.Finish()

	state.componentSpan = nil
	state.componentCtx = nil
	t.mu.Lock()
	t.roots[ec.ExecutionID] = state
	t.mu.Unlock()
}

func (t *TracingObserver) OnContextChanged(context.Context, execctx.ExecutionContext, execctx.ExecutionContext, string, time.Time) {
}

func (t *TracingObserver) OnDecisionEvaluated(context.Context, flow.Component, string, bool, execctx.ExecutionContext, time.Time) {
}

func (t *TracingObserver) OnExecutionCompleted(_ context.Context, ec execctx.ExecutionContext, _ time.Time) {
	t.finishRoot(ec.ExecutionID, "true", "")
}

func (t *TracingObserver) OnExecutionFailed(_ context.Context, ec execctx.ExecutionContext, err error, _ time.Time) {
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	t.finishRoot(ec.ExecutionID, "false", reason)
}

func (t *TracingObserver) OnExecutionAborted(_ context.Context, ec execctx.ExecutionContext, reason string, _ time.Time) {
	t.finishRoot(ec.ExecutionID, "false", reason)
}

func (t *TracingObserver) finishRoot(executionID, success, reason string) {
	t.mu.Lock()
	state, ok := t.roots[executionID]
	delete(t.roots, executionID)
	t.mu.Unlock()
	if !ok || state.rootSpan == nil {
		return
	}
	state.rootSpan.SetTag(TagSuccess, success)
	if reason != "" {
		state.rootSpan.SetTag(TagReason, reason)
	}
	state.rootSpan.Finish()
}

func msToString(ms int64) string {
	const digits = "0123456789"
	if ms == 0 {
		return "0"
	}
	neg := ms < 0
	if neg {
		ms = -ms
	}
	var buf [20]byte
	i := len(buf)
	for ms > 0 {
		i--
		buf[i] = digits[ms%10]
		ms /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

var _ Observer = (*TracingObserver)(nil)
