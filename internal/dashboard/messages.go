// Package dashboard is a live bubbletea TUI that renders an in-progress
// flow execution, grounded on streamy's internal/tui/dashboard (Model/
// Update/View split, spinner + lipgloss styling) but re-pointed at a
// single running execution's lifecycle events instead of a multi-pipeline
// on-disk registry.
package dashboard

import (
	"time"

	"github.com/flowcore/flowcore/internal/domain/execctx"
)

// StepStartedMsg reports a component entering execution.
type StepStartedMsg struct {
	ComponentID string
	Kind        string
	At          time.Time
}

// StepFinishedMsg reports a component leaving execution.
type StepFinishedMsg struct {
	ComponentID string
	Success     bool
	Message     string
	DurationMs  int64
	At          time.Time
}

// AuditMsg mirrors one AuditEntry appended to the execution context.
type AuditMsg struct {
	Entry execctx.AuditEntry
}

// ExecutionDoneMsg reports the run reaching a terminal state.
type ExecutionDoneMsg struct {
	Status execctx.Status
	Err    error
}
