// Package rollback implements spec §4.5: rewinding an ExecutionContext to
// an earlier point in its audit trail. There is no teacher analogue (streamy
// reconciles idempotent system state rather than rewinding a run), so this
// is built fresh in the surrounding packages' idiom — same immutable-
// snapshot style as internal/domain/execctx, same flowerr.Error taxonomy
// as the rest of the engine.
package rollback

import (
	"fmt"

	"github.com/flowcore/flowcore/internal/domain/execctx"
	"github.com/flowcore/flowcore/pkg/flowerr"
	"github.com/flowcore/flowcore/pkg/value"
)

// Point is one rewindable location in the audit trail: a COMPONENT_COMPLETED
// entry, identified by its index — the only points at which a
// ContextSnapshot represents a coherent, fully-settled variable state for a
// component's boundary (COMPONENT_STARTED and other entries may precede a
// component's side effects being applied).
type Point struct {
	Index       int
	ComponentID string
	Action      execctx.AuditAction
}

// AvailableRollbackPoints lists every COMPONENT_COMPLETED entry in
// ec.AuditTrail that rollback can target, per spec §4.5: "one entry per
// COMPONENT_COMPLETED".
func AvailableRollbackPoints(ec execctx.ExecutionContext) []Point {
	var points []Point
	for i, entry := range ec.AuditTrail {
		if entry.Action == execctx.ActionComponentCompleted {
			points = append(points, Point{Index: i, ComponentID: entry.ComponentID, Action: entry.Action})
		}
	}
	return points
}

// completedIndices returns the AuditTrail indices of every COMPONENT_COMPLETED
// entry, in trail order.
func completedIndices(ec execctx.ExecutionContext) []int {
	var idxs []int
	for i, entry := range ec.AuditTrail {
		if entry.Action == execctx.ActionComponentCompleted {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// CanRollback reports whether ec has at least steps COMPONENT_COMPLETED
// entries to rewind across, per spec §4.5.
func CanRollback(ec execctx.ExecutionContext, steps int) bool {
	if steps <= 0 {
		return false
	}
	return ec.CountAudit(execctx.ActionComponentCompleted) >= steps
}

// Rollback rewinds ec by steps COMPONENT_COMPLETED entries, per spec §4.5:
// it lands on the (completedCount-steps)-th such entry, truncating the trail
// inclusively to it, restoring the current component and variables from its
// ContextSnapshot, resetting the execution stack to empty, returning status
// to RUNNING, and appending a fresh COMPONENT_STARTED entry recording the
// rewind.
func Rollback(ec execctx.ExecutionContext, steps int) (execctx.ExecutionContext, error) {
	completed := completedIndices(ec)
	if !CanRollback(ec, steps) {
		return ec, flowerr.Newf(flowerr.CodeExecutionError, "cannot roll back %d steps: only %d COMPONENT_COMPLETED entries present", steps, len(completed))
	}
	targetPos := len(completed) - steps - 1
	if targetPos < 0 {
		return rewindToStart(ec), nil
	}
	return rewindTo(ec, completed[targetPos]), nil
}

// RollbackTo rewinds ec to the most recent COMPONENT_COMPLETED entry for
// componentID, inclusive: the trail is truncated up to and including that entry.
func RollbackTo(ec execctx.ExecutionContext, componentID string) (execctx.ExecutionContext, error) {
	targetIdx := -1
	for i, entry := range ec.AuditTrail {
		if entry.ComponentID == componentID && entry.Action == execctx.ActionComponentCompleted {
			targetIdx = i
		}
	}
	if targetIdx == -1 {
		return ec, flowerr.Newf(flowerr.CodeExecutionError, "no COMPONENT_COMPLETED entry for component %q", componentID)
	}
	return rewindTo(ec, targetIdx), nil
}

func rewindTo(ec execctx.ExecutionContext, targetIdx int) execctx.ExecutionContext {
	target := ec.AuditTrail[targetIdx]
	trail := make([]execctx.AuditEntry, targetIdx+1)
	copy(trail, ec.AuditTrail[:targetIdx+1])

	next := ec
	next.AuditTrail = trail
	next.Variables = copyVariables(target.ContextSnapshot)
	next.ExecutionStack = nil
	next = next.WithCurrentComponent(target.ComponentID)
	next = next.WithStatus(execctx.StatusRunning)
	next = next.AppendAudit(target.Timestamp, target.ComponentID, execctx.ActionComponentStarted, fmt.Sprintf("rolled back to %s", target.ComponentID))
	return next
}

// rewindToStart handles the degenerate case of rolling back across every
// COMPONENT_COMPLETED entry: the context returns to its pre-execution
// position (the first audited component, i.e. Start in an executor-produced
// trail) with no variables, an empty trail, and status RUNNING.
func rewindToStart(ec execctx.ExecutionContext) execctx.ExecutionContext {
	next := ec
	next.AuditTrail = nil
	next.Variables = map[string]value.VariableValue{}
	next.ExecutionStack = nil
	if len(ec.AuditTrail) > 0 {
		next = next.WithCurrentComponent(ec.AuditTrail[0].ComponentID)
	}
	next = next.WithStatus(execctx.StatusRunning)
	return next
}

func copyVariables(src map[string]value.VariableValue) map[string]value.VariableValue {
	out := make(map[string]value.VariableValue, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
