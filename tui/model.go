package tui

import (
	"context"
	"time"

	"devfeed/feeds"
	"devfeed/lifecycle"
	"devfeed/types"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Controller is the part of lifecycle.Controller the dashboard drives
type Controller interface {
	Start(ctx context.Context) bool
	Reload(ctx context.Context)
	Select(k int) error
	Next() error
	Prev() error
	Snapshot() lifecycle.Snapshot
}

// DefaultMaxItems caps how many entries a section shows
const DefaultMaxItems = 10

// Options are the dashboard display settings
type Options struct {
	Endpoint string
	Interval time.Duration
	MaxItems int
}

// Model is the dashboard state. Everything shown comes from the latest
// controller snapshot; the model itself never mutates the bundle.
type Model struct {
	ctx        context.Context
	controller Controller
	opts       Options
	sections   []types.SectionDescriptor

	snapshot lifecycle.Snapshot
	notice   string

	spinner spinner.Model
	help    help.Model
	keys    keyMap

	width int
}

// NewModel creates the dashboard model
func NewModel(ctx context.Context, controller Controller, opts Options) Model {
	if opts.MaxItems <= 0 {
		opts.MaxItems = DefaultMaxItems
	}
	return Model{
		ctx:        ctx,
		controller: controller,
		opts:       opts,
		sections:   feeds.Sections(),
		snapshot:   controller.Snapshot(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(colorPrimary))),
		),
		help: help.New(),
		keys: defaultKeyMap(),
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	// Fetch once on mount
	return tea.Batch(
		startController(m.ctx, m.controller),
		m.spinner.Tick,
	)
}

// Snapshot returns the state the model last rendered from
func (m Model) Snapshot() lifecycle.Snapshot {
	return m.snapshot
}

func (m Model) activeSection() (types.SectionDescriptor, bool) {
	if len(m.sections) == 0 {
		return types.SectionDescriptor{}, false
	}
	i := m.snapshot.Index
	if i < 0 || i >= len(m.sections) {
		i = 0
	}
	return m.sections[i], true
}
