package rollback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flowcore/flowcore/internal/domain/execctx"
	"github.com/flowcore/flowcore/pkg/value"
)

// threeStepContext mirrors a real executor-produced trail: each component
// gets a COMPONENT_STARTED entry before its COMPONENT_COMPLETED, the way
// internal/executor's Step now emits them, so rollback's completed-only
// filtering is actually exercised rather than masked by an all-COMPLETED
// fixture.
func threeStepContext() execctx.ExecutionContext {
	now := time.Now()
	ec := execctx.New("f1", "e1", "a")
	ec = ec.AppendAudit(now, "a", execctx.ActionComponentStarted, "entering a")
	ec = ec.WithVariable("x", value.Number(1))
	ec = ec.AppendAudit(now, "a", execctx.ActionComponentCompleted, "a done")
	ec = ec.AppendAudit(now, "b", execctx.ActionComponentStarted, "entering b")
	ec = ec.WithVariable("x", value.Number(2))
	ec = ec.AppendAudit(now, "b", execctx.ActionComponentCompleted, "b done")
	ec = ec.AppendAudit(now, "c", execctx.ActionComponentStarted, "entering c")
	ec = ec.WithVariable("x", value.Number(3))
	ec = ec.AppendAudit(now, "c", execctx.ActionComponentCompleted, "c done")
	return ec
}

func TestAvailableRollbackPointsListsCompletedEntries(t *testing.T) {
	ec := threeStepContext()
	points := AvailableRollbackPoints(ec)
	require.Len(t, points, 3)
	require.Equal(t, "c", points[2].ComponentID)
}

func TestCanRollback(t *testing.T) {
	ec := threeStepContext()
	require.True(t, CanRollback(ec, 1))
	require.True(t, CanRollback(ec, 3))
	require.False(t, CanRollback(ec, 4))
	require.False(t, CanRollback(ec, 0))
}

func TestRollbackRestoresSnapshotAndTruncatesTrail(t *testing.T) {
	ec := threeStepContext()

	rolled, err := Rollback(ec, 1)
	require.NoError(t, err)

	require.Equal(t, execctx.StatusRunning, rolled.Status)
	require.Equal(t, "b", rolled.CurrentComponentID)
	n, ok := rolled.Variables["x"].NumberValue()
	require.True(t, ok)
	require.Equal(t, 2.0, n)

	require.Len(t, rolled.AuditTrail, 5)
	last := rolled.AuditTrail[len(rolled.AuditTrail)-1]
	require.Equal(t, execctx.ActionComponentStarted, last.Action)
}

func TestRollbackToComponent(t *testing.T) {
	ec := threeStepContext()

	rolled, err := RollbackTo(ec, "a")
	require.NoError(t, err)
	require.Equal(t, "a", rolled.CurrentComponentID)
	n, ok := rolled.Variables["x"].NumberValue()
	require.True(t, ok)
	require.Equal(t, 1.0, n)
}

func TestRollbackToUnknownComponentFails(t *testing.T) {
	ec := threeStepContext()
	_, err := RollbackTo(ec, "ghost")
	require.Error(t, err)
}

func TestRollbackBeyondTrailFails(t *testing.T) {
	ec := threeStepContext()
	_, err := Rollback(ec, 10)
	require.Error(t, err)
}
