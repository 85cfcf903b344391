// Package execctx is the executor's immutable-snapshot state: the
// ExecutionContext, its append-only AuditEntry trail, and the Status state
// machine. Every operation returns a new ExecutionContext rather than
// mutating the receiver, mirroring streamy's result/status value objects in
// internal/domain/pipeline/result.go but extended with the audit trail
// that makes rollback possible.
package execctx

import (
	"time"

	"github.com/flowcore/flowcore/pkg/value"
)

// Status is the closed set of execution states.
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusRunning    Status = "RUNNING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
	StatusAborted    Status = "ABORTED"
	StatusPaused     Status = "PAUSED"
)

// IsTerminal reports whether s is one from which no further transition is
// permitted (the state machine in spec §4.4 is monotone).
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusAborted:
		return true
	default:
		return false
	}
}

// IsSuccess reports whether s represents a successful terminal state.
func (s Status) IsSuccess() bool { return s == StatusCompleted }

// IsFailure reports whether s represents a failed or aborted terminal state.
func (s Status) IsFailure() bool { return s == StatusFailed || s == StatusAborted }

// AuditAction is the closed set of audit-entry kinds.
type AuditAction string

const (
	ActionComponentStarted   AuditAction = "COMPONENT_STARTED"
	ActionComponentCompleted AuditAction = "COMPONENT_COMPLETED"
	ActionComponentFailed    AuditAction = "COMPONENT_FAILED"
	ActionVariableUpdated    AuditAction = "VARIABLE_UPDATED"
	ActionContextChanged     AuditAction = "CONTEXT_CHANGED"
)

// AuditEntry records a single lifecycle event. ContextSnapshot is the
// variable mapping *at entry time* — the substrate rollback rewinds to.
type AuditEntry struct {
	Timestamp       time.Time
	ComponentID     string
	Action          AuditAction
	Message         string
	ContextSnapshot map[string]value.VariableValue
}

// StackFrame records a component entered during execution.
type StackFrame struct {
	ComponentID   string
	ComponentType string
	EnteredAt     time.Time
}

// ExecutionContext is an immutable snapshot of everything needed to resume
// execution. Every With* method returns a modified copy; the receiver is
// never changed.
type ExecutionContext struct {
	FlowID              string
	ExecutionID         string
	CurrentComponentID  string
	HasCurrentComponent bool
	Variables           map[string]value.VariableValue
	ExecutionStack      []StackFrame
	AuditTrail          []AuditEntry
	Status              Status
	Metadata            map[string]interface{}
}

// New seeds a fresh context keyed by (flowID, executionID) with the given
// start component, empty variables/stack/audit, and NOT_STARTED status.
func New(flowID, executionID, startComponentID string) ExecutionContext {
	return ExecutionContext{
		FlowID:              flowID,
		ExecutionID:         executionID,
		CurrentComponentID:  startComponentID,
		HasCurrentComponent: startComponentID != "",
		Variables:           map[string]value.VariableValue{},
		Metadata:            map[string]interface{}{},
		Status:              StatusNotStarted,
	}
}

// snapshotVariables returns a shallow copy of c.Variables suitable for
// embedding in an AuditEntry; Value is itself immutable so a shallow copy
// of the map is a full defensive copy.
func (c ExecutionContext) snapshotVariables() map[string]value.VariableValue {
	out := make(map[string]value.VariableValue, len(c.Variables))
	for k, v := range c.Variables {
		out[k] = v
	}
	return out
}

// WithVariable returns a copy with name bound to val.
func (c ExecutionContext) WithVariable(name string, val value.VariableValue) ExecutionContext {
	next := c
	vars := make(map[string]value.VariableValue, len(c.Variables)+1)
	for k, v := range c.Variables {
		vars[k] = v
	}
	vars[name] = val
	next.Variables = vars
	return next
}

// WithCurrentComponent returns a copy pointed at componentID.
func (c ExecutionContext) WithCurrentComponent(componentID string) ExecutionContext {
	next := c
	next.CurrentComponentID = componentID
	next.HasCurrentComponent = componentID != ""
	return next
}

// WithStatus returns a copy in the given status.
func (c ExecutionContext) WithStatus(s Status) ExecutionContext {
	next := c
	next.Status = s
	return next
}

// PushFrame returns a copy with frame appended to the execution stack.
func (c ExecutionContext) PushFrame(frame StackFrame) ExecutionContext {
	next := c
	stack := make([]StackFrame, len(c.ExecutionStack), len(c.ExecutionStack)+1)
	copy(stack, c.ExecutionStack)
	next.ExecutionStack = append(stack, frame)
	return next
}

// PopFrame returns a copy with the top frame removed, if any.
func (c ExecutionContext) PopFrame() ExecutionContext {
	if len(c.ExecutionStack) == 0 {
		return c
	}
	next := c
	next.ExecutionStack = c.ExecutionStack[:len(c.ExecutionStack)-1]
	return next
}

// AppendAudit returns a copy with a new audit entry appended, its
// ContextSnapshot taken from c's variables *before* this append — callers
// pass the message/action; the snapshot is always "as of now".
func (c ExecutionContext) AppendAudit(now time.Time, componentID string, action AuditAction, message string) ExecutionContext {
	entry := AuditEntry{
		Timestamp:       now,
		ComponentID:     componentID,
		Action:          action,
		Message:         message,
		ContextSnapshot: c.snapshotVariables(),
	}
	next := c
	trail := make([]AuditEntry, len(c.AuditTrail), len(c.AuditTrail)+1)
	copy(trail, c.AuditTrail)
	next.AuditTrail = append(trail, entry)
	return next
}

// CountAudit returns the number of audit entries with the given action.
func (c ExecutionContext) CountAudit(action AuditAction) int {
	n := 0
	for _, e := range c.AuditTrail {
		if e.Action == action {
			n++
		}
	}
	return n
}
