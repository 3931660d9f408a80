package tui

import (
	"fmt"
	"strings"

	"devfeed/lifecycle"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	// Title and tabs
	b.WriteString(TitleStyle.Render("📰 " + TextTitle))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	// Current state
	b.WriteString(m.renderBody())
	b.WriteString("\n\n")

	if m.notice != "" {
		b.WriteString(ErrorStyle.Render(m.notice))
		b.WriteString("\n")
	}

	// Help text
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(m.sections))
	ready := m.snapshot.Phase == lifecycle.PhaseReady
	for i, s := range m.sections {
		label := fmt.Sprintf("%d %s", i+1, s.DisplayName)
		if ready && i == m.snapshot.Index {
			tabs = append(tabs, ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, TabStyle.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (m Model) renderBody() string {
	switch m.snapshot.Phase {
	case lifecycle.PhaseLoading:
		return m.spinner.View() + " " + StatusStyle.Render(fmt.Sprintf(TextLoading, m.opts.Endpoint))
	case lifecycle.PhaseFailed:
		return ErrorStyle.Render(fmt.Sprintf(TextFailed, m.snapshot.Err)) + "\n" + InfoStyle.Render(TextRetry)
	case lifecycle.PhaseReady:
		section, ok := m.activeSection()
		if !ok {
			return InfoStyle.Render(TextEmptySection)
		}
		body := BoxStyle.Render(renderSection(section, m.snapshot.Bundle, m.opts.MaxItems))
		if m.opts.Interval > 0 {
			body += "\n" + InfoStyle.Render(fmt.Sprintf(TextRotation, m.opts.Interval))
		}
		return body
	default:
		return InfoStyle.Render(TextIdle)
	}
}
