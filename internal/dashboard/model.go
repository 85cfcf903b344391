package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/flowcore/flowcore/internal/domain/execctx"
)

// stepState tracks one component's progress for the step list.
type stepState struct {
	componentID string
	kind        string
	running     bool
	done        bool
	success     bool
	message     string
	durationMs  int64
}

// Model is the dashboard's bubbletea model: a step list plus a scrolling
// audit log, updated by the messages an Observer implementation sends it.
type Model struct {
	flowName string

	order []string
	steps map[string]*stepState

	auditLines []string
	log        viewport.Model

	spinner spinner.Model

	status execctx.Status
	err    error
	done   bool

	width  int
	height int
}

// NewModel constructs a dashboard for a flow named flowName.
func NewModel(flowName string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	vp := viewport.New(80, 10)

	return Model{
		flowName: flowName,
		steps:    make(map[string]*stepState),
		log:      vp,
		spinner:  s,
		status:   execctx.StatusNotStarted,
		width:    80,
		height:   24,
	}
}

// Init starts the spinner ticking.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles bubbletea messages plus the lifecycle messages sent by
// Observer, returning an updated copy per bubbletea's value-model
// convention.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.log.Width = msg.Width
		m.log.Height = msg.Height / 2
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.log, cmd = m.log.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StepStartedMsg:
		if _, ok := m.steps[msg.ComponentID]; !ok {
			m.order = append(m.order, msg.ComponentID)
			m.steps[msg.ComponentID] = &stepState{componentID: msg.ComponentID, kind: msg.Kind}
		}
		m.steps[msg.ComponentID].running = true
		return m, nil

	case StepFinishedMsg:
		st, ok := m.steps[msg.ComponentID]
		if !ok {
			st = &stepState{componentID: msg.ComponentID}
			m.order = append(m.order, msg.ComponentID)
			m.steps[msg.ComponentID] = st
		}
		st.running = false
		st.done = true
		st.success = msg.Success
		st.message = msg.Message
		st.durationMs = msg.DurationMs
		return m, nil

	case AuditMsg:
		m.auditLines = append(m.auditLines, formatAuditLine(msg.Entry))
		m.log.SetContent(strings.Join(m.auditLines, "\n"))
		m.log.GotoBottom()
		return m, nil

	case ExecutionDoneMsg:
		m.done = true
		m.status = msg.Status
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

func formatAuditLine(entry execctx.AuditEntry) string {
	return fmt.Sprintf("[%s] %s %s: %s", entry.Timestamp.Format("15:04:05"), entry.Action, entry.ComponentID, entry.Message)
}
