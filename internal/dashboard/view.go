package dashboard

import (
	"fmt"
	"strings"
)

// View renders the step list header over the scrolling audit log.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("flowcore — %s", m.flowName)))
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(m.statusLine()))
	b.WriteString("\n\n")

	for _, id := range m.order {
		b.WriteString(m.renderStep(m.steps[id]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.log.View())
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("q: quit  arrows: scroll log"))

	return b.String()
}

func (m Model) statusLine() string {
	if m.done {
		if m.err != nil {
			return failedStepStyle.Render(fmt.Sprintf("%s — %v", m.status, m.err))
		}
		return successStepStyle.Render(string(m.status))
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.status)
}

func (m Model) renderStep(st *stepState) string {
	switch {
	case st.running:
		return activeStepStyle.Render(fmt.Sprintf("%s %s (%s)", m.spinner.View(), st.componentID, st.kind))
	case st.done && st.success:
		return successStepStyle.Render(fmt.Sprintf("✓ %s (%dms)", st.componentID, st.durationMs))
	case st.done && !st.success:
		return failedStepStyle.Render(fmt.Sprintf("✗ %s — %s", st.componentID, st.message))
	default:
		return mutedStyle.Render(fmt.Sprintf("  %s", st.componentID))
	}
}
