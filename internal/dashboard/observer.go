package dashboard

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/flowcore/flowcore/internal/domain/execctx"
	"github.com/flowcore/flowcore/internal/domain/flow"
	"github.com/flowcore/flowcore/internal/observer"
)

// ProgramObserver forwards executor lifecycle callbacks to a running
// bubbletea program as dashboard messages, grounded on the interactive
// (send-to-program) branch of the teacher's cmd/streamy/apply.go
// dispatchTuiMessage. Every callback it handles is sent to the program;
// there is no path that folds messages into a model directly.
type ProgramObserver struct {
	program *tea.Program
}

// NewProgramObserver returns an Observer that sends UI messages to program.
func NewProgramObserver(program *tea.Program) *ProgramObserver {
	return &ProgramObserver{program: program}
}

var _ observer.Observer = (*ProgramObserver)(nil)

func (p *ProgramObserver) OnExecutionStarted(_ context.Context, _ flow.Flow, _ execctx.ExecutionContext, _ time.Time) {
}

func (p *ProgramObserver) OnComponentEnter(_ context.Context, component flow.Component, _ execctx.ExecutionContext, now time.Time) {
	p.program.Send(StepStartedMsg{ComponentID: component.ID, Kind: string(component.Kind), At: now})
}

func (p *ProgramObserver) OnComponentExit(_ context.Context, component flow.Component, result observer.ComponentResult, ec execctx.ExecutionContext, now time.Time, durationMs int64) {
	p.program.Send(StepFinishedMsg{
		ComponentID: component.ID,
		Success:     result.Success,
		Message:     result.Message,
		DurationMs:  durationMs,
		At:          now,
	})
	if len(ec.AuditTrail) > 0 {
		p.program.Send(AuditMsg{Entry: ec.AuditTrail[len(ec.AuditTrail)-1]})
	}
}

func (p *ProgramObserver) OnContextChanged(context.Context, execctx.ExecutionContext, execctx.ExecutionContext, string, time.Time) {
}

func (p *ProgramObserver) OnDecisionEvaluated(_ context.Context, component flow.Component, conditionText string, chosenBranchIsTrue bool, ec execctx.ExecutionContext, now time.Time) {
	if len(ec.AuditTrail) > 0 {
		p.program.Send(AuditMsg{Entry: ec.AuditTrail[len(ec.AuditTrail)-1]})
	}
}

func (p *ProgramObserver) OnExecutionCompleted(_ context.Context, ec execctx.ExecutionContext, _ time.Time) {
	p.program.Send(ExecutionDoneMsg{Status: ec.Status})
}

func (p *ProgramObserver) OnExecutionFailed(_ context.Context, ec execctx.ExecutionContext, err error, _ time.Time) {
	p.program.Send(ExecutionDoneMsg{Status: ec.Status, Err: err})
}

func (p *ProgramObserver) OnExecutionAborted(_ context.Context, ec execctx.ExecutionContext, reason string, _ time.Time) {
	p.program.Send(ExecutionDoneMsg{Status: ec.Status, Err: nil})
}
