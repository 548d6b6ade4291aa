package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rusenback/docker-stats-exporter/internal/model"
)

// Snapshotter lists the latest metrics per container
type Snapshotter interface {
	Snapshot() []model.ContainerMetrics
}

// Model represents the TUI application state
type Model struct {
	store      Snapshotter
	containers []model.ContainerMetrics
	cursor     int
	selected   string // Keep the selection when the list reorders
	updated    time.Time
	refresh    time.Duration
	width      int
	height     int
}

// Message types for Bubbletea update loop
type tickMsg time.Time

type snapshotMsg struct {
	containers []model.ContainerMetrics
	at         time.Time
}

// NewModel creates a new TUI model over store
func NewModel(store Snapshotter) Model {
	return Model{
		store:   store,
		refresh: 2 * time.Second,
		width:   120,
		height:  30,
	}
}

// Init initializes the model and returns initial commands
func (m Model) Init() tea.Cmd {
	return tea.Batch(fetchSnapshot(m.store), tickCmd(m.refresh))
}

// Selected returns the container under the cursor
func (m Model) Selected() (model.ContainerMetrics, bool) {
	if m.cursor < 0 || m.cursor >= len(m.containers) {
		return model.ContainerMetrics{}, false
	}
	return m.containers[m.cursor], true
}
