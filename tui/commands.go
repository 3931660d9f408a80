package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Controller calls run as commands so that observers which send back into
// the program never block the event loop.

// startController triggers the initial fetch
func startController(ctx context.Context, c Controller) tea.Cmd {
	return func() tea.Msg {
		c.Start(ctx)
		return nil
	}
}

// reload tears down and fetches again
func reload(ctx context.Context, c Controller) tea.Cmd {
	return func() tea.Msg {
		c.Reload(ctx)
		return nil
	}
}

// selectSection jumps to section k
func selectSection(c Controller, k int) tea.Cmd {
	return func() tea.Msg {
		if err := c.Select(k); err != nil {
			return ActionErrMsg{Err: err}
		}
		return nil
	}
}

// step moves one section forward or back
func step(c Controller, forward bool) tea.Cmd {
	return func() tea.Msg {
		move := c.Prev
		if forward {
			move = c.Next
		}
		if err := move(); err != nil {
			return ActionErrMsg{Err: err}
		}
		return nil
	}
}
