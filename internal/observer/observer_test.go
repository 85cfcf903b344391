package observer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flowcore/flowcore/internal/domain/execctx"
	"github.com/flowcore/flowcore/internal/domain/flow"
)

type panicObserver struct{ Noop }

func (panicObserver) OnExecutionStarted(context.Context, flow.Flow, execctx.ExecutionContext, time.Time) {
	panic("boom")
}

type recordingObserver struct {
	Noop
	started int
}

func (r *recordingObserver) OnExecutionStarted(context.Context, flow.Flow, execctx.ExecutionContext, time.Time) {
	r.started++
}

func TestCompositeRecoversFromPanickingObserver(t *testing.T) {
	rec := &recordingObserver{}
	composite := NewComposite(nil, panicObserver{}, rec)

	require.NotPanics(t, func() {
		composite.OnExecutionStarted(context.Background(), flow.Flow{}, execctx.ExecutionContext{}, time.Now())
	})
	require.Equal(t, 1, rec.started)
}

func TestMetricsObserverCountsLifecycle(t *testing.T) {
	m := NewMetricsObserver()
	ctx := context.Background()
	now := time.Now()

	m.OnExecutionStarted(ctx, flow.Flow{}, execctx.ExecutionContext{}, now)
	m.OnExecutionCompleted(ctx, execctx.ExecutionContext{}, now)

	snap := m.Registry().Counter(MetricExecutionsStarted).Value()
	require.Equal(t, int64(1), snap)
}

func TestTracingObserverFinishesRootOnCompletion(t *testing.T) {
	tr := NewTracingObserver()
	defer tr.Close()

	ctx := context.Background()
	ec := execctx.New("f1", "e1", "start")
	now := time.Now()

	tr.OnExecutionStarted(ctx, flow.Flow{ID: "f1"}, ec, now)
	tr.OnExecutionCompleted(ctx, ec, now)

	tr.mu.Lock()
	_, stillTracked := tr.roots["e1"]
	tr.mu.Unlock()
	require.False(t, stillTracked)
}

func TestHookObserverDeliversExecutionCompleted(t *testing.T) {
	h := NewHookObserver()
	defer h.Close()

	received := make(chan FlowEvent, 1)
	require.NoError(t, h.OnCompleted(func(_ context.Context, evt FlowEvent) error {
		received <- evt
		return nil
	}))

	ec := execctx.New("f1", "e1", "start")
	h.OnExecutionCompleted(context.Background(), ec, time.Now())

	select {
	case evt := <-received:
		require.Equal(t, "e1", evt.ExecutionID)
		require.True(t, evt.Success)
	case <-time.After(time.Second):
		t.Fatal("expected hook delivery")
	}
}
