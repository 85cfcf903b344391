package execctx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flowcore/flowcore/pkg/value"
)

func TestNewSeedsNotStarted(t *testing.T) {
	ctx := New("flow-1", "exec-1", "start")
	require.Equal(t, StatusNotStarted, ctx.Status)
	require.Equal(t, "start", ctx.CurrentComponentID)
	require.Empty(t, ctx.AuditTrail)
}

func TestWithVariableDoesNotMutateOriginal(t *testing.T) {
	ctx := New("f", "e", "start")
	next := ctx.WithVariable("a", value.Number(1))

	require.Empty(t, ctx.Variables)
	v, ok := next.Variables["a"]
	require.True(t, ok)
	n, _ := v.NumberValue()
	require.Equal(t, float64(1), n)
}

func TestAppendAuditIsStrictExtension(t *testing.T) {
	ctx := New("f", "e", "start")
	now := time.Unix(0, 0)
	withVar := ctx.WithVariable("a", value.Bool(true))
	next := withVar.AppendAudit(now, "start", ActionComponentStarted, "hello")

	require.Len(t, next.AuditTrail, 1)
	require.Empty(t, ctx.AuditTrail)
	entry := next.AuditTrail[0]
	v, ok := entry.ContextSnapshot["a"]
	require.True(t, ok)
	b, _ := v.BoolValue()
	require.True(t, b)
}

func TestCountAudit(t *testing.T) {
	ctx := New("f", "e", "start")
	now := time.Unix(0, 0)
	ctx = ctx.AppendAudit(now, "a", ActionComponentStarted, "")
	ctx = ctx.AppendAudit(now, "a", ActionComponentCompleted, "")
	ctx = ctx.AppendAudit(now, "b", ActionComponentStarted, "")

	require.Equal(t, 2, ctx.CountAudit(ActionComponentStarted))
	require.Equal(t, 1, ctx.CountAudit(ActionComponentCompleted))
}

func TestStatusIsTerminal(t *testing.T) {
	require.True(t, StatusCompleted.IsTerminal())
	require.True(t, StatusFailed.IsTerminal())
	require.True(t, StatusAborted.IsTerminal())
	require.False(t, StatusRunning.IsTerminal())
	require.False(t, StatusPaused.IsTerminal())
}
