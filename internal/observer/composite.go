package observer

import (
	"context"
	"time"

	"github.com/flowcore/flowcore/internal/domain/execctx"
	"github.com/flowcore/flowcore/internal/domain/flow"
	"github.com/flowcore/flowcore/internal/obslog"
)

// Composite multiplexes notifications to a fixed list of Observers,
// recovering from a panic in any one of them so a misbehaving observer
// never takes down the execution or the sibling observers in the list —
// the fan-out discipline spec §4.6 requires ("the executor catches
// exceptions/panics from observer callbacks and continues").
type Composite struct {
	observers []Observer
	logger    obslog.Logger
}

// NewComposite builds a Composite over observers. A nil logger is replaced
// with a no-op logger so recovered panics are simply dropped rather than
// causing a nil-pointer panic of their own.
func NewComposite(logger obslog.Logger, observers ...Observer) *Composite {
	if logger == nil {
		logger = obslog.NewNoOpLogger()
	}
	return &Composite{observers: observers, logger: logger}
}

func (c *Composite) dispatch(name string, fn func(Observer)) {
	if c == nil {
		return
	}
	for _, o := range c.observers {
		if o == nil {
			continue
		}
		c.safeCall(name, o, fn)
	}
}

func (c *Composite) safeCall(name string, o Observer, fn func(Observer)) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn(context.Background(), "observer callback panicked", "callback", name, "panic", r)
		}
	}()
	fn(o)
}

func (c *Composite) OnExecutionStarted(ctx context.Context, f flow.Flow, ec execctx.ExecutionContext, now time.Time) {
	c.dispatch("OnExecutionStarted", func(o Observer) { o.OnExecutionStarted(ctx, f, ec, now) })
}

func (c *Composite) OnComponentEnter(ctx context.Context, component flow.Component, ec execctx.ExecutionContext, now time.Time) {
	c.dispatch("OnComponentEnter", func(o Observer) { o.OnComponentEnter(ctx, component, ec, now) })
}

func (c *Composite) OnComponentExit(ctx context.Context, component flow.Component, result ComponentResult, ec execctx.ExecutionContext, now time.Time, durationMs int64) {
	c.dispatch("OnComponentExit", func(o Observer) { o.OnComponentExit(ctx, component, result, ec, now, durationMs) })
}

func (c *Composite) OnContextChanged(ctx context.Context, old, new execctx.ExecutionContext, reason string, now time.Time) {
	c.dispatch("OnContextChanged", func(o Observer) { o.OnContextChanged(ctx, old, new, reason, now) })
}

func (c *Composite) OnDecisionEvaluated(ctx context.Context, component flow.Component, conditionText string, chosenBranchIsTrue bool, ec execctx.ExecutionContext, now time.Time) {
	c.dispatch("OnDecisionEvaluated", func(o Observer) {
		o.OnDecisionEvaluated(ctx, component, conditionText, chosenBranchIsTrue, ec, now)
	})
}

func (c *Composite) OnExecutionCompleted(ctx context.Context, ec execctx.ExecutionContext, now time.Time) {
	c.dispatch("OnExecutionCompleted", func(o Observer) { o.OnExecutionCompleted(ctx, ec, now) })
}

func (c *Composite) OnExecutionFailed(ctx context.Context, ec execctx.ExecutionContext, err error, now time.Time) {
	c.dispatch("OnExecutionFailed", func(o Observer) { o.OnExecutionFailed(ctx, ec, err, now) })
}

func (c *Composite) OnExecutionAborted(ctx context.Context, ec execctx.ExecutionContext, reason string, now time.Time) {
	c.dispatch("OnExecutionAborted", func(o Observer) { o.OnExecutionAborted(ctx, ec, reason, now) })
}

var _ Observer = (*Composite)(nil)
