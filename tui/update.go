package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case SnapshotMsg:
		return m.handleSnapshot(msg)
	case ActionErrMsg:
		m.notice = msg.Err.Error()
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Reload):
		return m, reload(m.ctx, m.controller)
	case key.Matches(msg, m.keys.Next):
		return m, step(m.controller, true)
	case key.Matches(msg, m.keys.Prev):
		return m, step(m.controller, false)
	}
	for i, b := range m.keys.jumpTos {
		if i < len(m.sections) && key.Matches(msg, b) {
			return m, selectSection(m.controller, i)
		}
	}
	return m, nil
}

// handleSnapshot applies a controller change; deliveries older than what
// is already shown are dropped
func (m Model) handleSnapshot(msg SnapshotMsg) (tea.Model, tea.Cmd) {
	if msg.Snapshot.Seq < m.snapshot.Seq {
		return m, nil
	}
	m.snapshot = msg.Snapshot
	return m, nil
}
