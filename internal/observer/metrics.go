package observer

import (
	"context"
	"time"

	"github.com/zoobzio/metricz"

	"github.com/flowcore/flowcore/internal/domain/execctx"
	"github.com/flowcore/flowcore/internal/domain/flow"
)

// Metric keys, following pipz's convention of typed metricz.Key constants
// per connector (see pipz's timeout.go).
const (
	MetricExecutionsStarted   = metricz.Key("flow.executions.started.total")
	MetricExecutionsCompleted = metricz.Key("flow.executions.completed.total")
	MetricExecutionsFailed    = metricz.Key("flow.executions.failed.total")
	MetricExecutionsAborted   = metricz.Key("flow.executions.aborted.total")
	MetricComponentsEntered   = metricz.Key("flow.components.entered.total")
	MetricComponentsFailed    = metricz.Key("flow.components.failed.total")
	MetricComponentDurationMs = metricz.Key("flow.component.duration.ms")
)

// MetricsObserver counts execution and component lifecycle events and keeps
// the most recent component duration as a gauge, backed by zoobzio/metricz's
// Registry. It keeps no histogram and exports no percentiles.
type MetricsObserver struct {
	registry *metricz.Registry
}

// NewMetricsObserver creates a MetricsObserver with its counters and gauges
// pre-registered, matching pipz's NewTimeout eager-registration style.
func NewMetricsObserver() *MetricsObserver {
	registry := metricz.New()
	registry.Counter(MetricExecutionsStarted)
	registry.Counter(MetricExecutionsCompleted)
	registry.Counter(MetricExecutionsFailed)
	registry.Counter(MetricExecutionsAborted)
	registry.Counter(MetricComponentsEntered)
	registry.Counter(MetricComponentsFailed)
	registry.Gauge(MetricComponentDurationMs)
	return &MetricsObserver{registry: registry}
}

// Registry exposes the underlying metricz.Registry for export/scraping.
func (m *MetricsObserver) Registry() *metricz.Registry { return m.registry }

func (m *MetricsObserver) OnExecutionStarted(context.Context, flow.Flow, execctx.ExecutionContext, time.Time) {
	m.registry.Counter(MetricExecutionsStarted).Inc()
}

func (m *MetricsObserver) OnComponentEnter(context.Context, flow.Component, execctx.ExecutionContext, time.Time) {
	m.registry.Counter(MetricComponentsEntered).Inc()
}

func (m *MetricsObserver) OnComponentExit(_ context.Context, _ flow.Component, result ComponentResult, _ execctx.ExecutionContext, _ time.Time, durationMs int64) {
	m.registry.Gauge(MetricComponentDurationMs).Set(float64(durationMs))
	if !result.Success {
		m.registry.Counter(MetricComponentsFailed).Inc()
	}
}

func (m *MetricsObserver) OnContextChanged(context.Context, execctx.ExecutionContext, execctx.ExecutionContext, string, time.Time) {
}

func (m *MetricsObserver) OnDecisionEvaluated(context.Context, flow.Component, string, bool, execctx.ExecutionContext, time.Time) {
}

func (m *MetricsObserver) OnExecutionCompleted(context.Context, execctx.ExecutionContext, time.Time) {
	m.registry.Counter(MetricExecutionsCompleted).Inc()
}

func (m *MetricsObserver) OnExecutionFailed(context.Context, execctx.ExecutionContext, error, time.Time) {
	m.registry.Counter(MetricExecutionsFailed).Inc()
}

func (m *MetricsObserver) OnExecutionAborted(context.Context, execctx.ExecutionContext, string, time.Time) {
	m.registry.Counter(MetricExecutionsAborted).Inc()
}

var _ Observer = (*MetricsObserver)(nil)
