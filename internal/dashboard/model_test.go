package dashboard

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/flowcore/flowcore/internal/domain/execctx"
)

func TestUpdateTracksStepLifecycle(t *testing.T) {
	m := NewModel("demo")

	updated, _ := m.Update(StepStartedMsg{ComponentID: "a", Kind: "ACTION", At: time.Now()})
	m = updated.(Model)
	require.Len(t, m.order, 1)
	require.True(t, m.steps["a"].running)

	updated, _ = m.Update(StepFinishedMsg{ComponentID: "a", Success: true, DurationMs: 5, At: time.Now()})
	m = updated.(Model)
	require.False(t, m.steps["a"].running)
	require.True(t, m.steps["a"].success)
}

func TestUpdateAppendsAuditLine(t *testing.T) {
	m := NewModel("demo")
	entry := execctx.AuditEntry{
		Timestamp:   time.Now(),
		ComponentID: "a",
		Action:      execctx.ActionComponentCompleted,
		Message:     "reached end a",
	}

	updated, _ := m.Update(AuditMsg{Entry: entry})
	m = updated.(Model)
	require.Len(t, m.auditLines, 1)
	require.Contains(t, m.auditLines[0], "reached end a")
}

func TestUpdateMarksExecutionDone(t *testing.T) {
	m := NewModel("demo")
	updated, _ := m.Update(ExecutionDoneMsg{Status: execctx.StatusCompleted})
	m = updated.(Model)
	require.True(t, m.done)
	require.Equal(t, execctx.StatusCompleted, m.status)
}

func TestUpdateHandlesWindowResize(t *testing.T) {
	m := NewModel("demo")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(Model)
	require.Equal(t, 120, m.width)
	require.Equal(t, 120, m.log.Width)
}

func TestUpdateQuitsOnQ(t *testing.T) {
	m := NewModel("demo")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
}
