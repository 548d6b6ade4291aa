package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rusenback/docker-stats-exporter/internal/model"
)

type staticStore []model.ContainerMetrics

func (s staticStore) Snapshot() []model.ContainerMetrics { return s }

var containers = staticStore{
	{Name: "cache", Metrics: model.Metrics{CPUPercent: 1.5, MemoryUsage: 2048}},
	{Name: "db", Metrics: model.Metrics{CPUPercent: 12.25, MemoryUsage: 64 << 20, MemoryLimit: 1 << 30}},
	{Name: "web", Metrics: model.Metrics{CPUPercent: 99, NetworkRx: 1024, NetworkTx: 2048}},
}

func press(t *testing.T, m Model, key string) Model {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func loaded(t *testing.T, store staticStore) Model {
	t.Helper()
	m := NewModel(store)
	msg := fetchSnapshot(store)()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModel_Navigation(t *testing.T) {
	m := loaded(t, containers)

	c, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "cache", c.Name)

	m = press(t, m, "down")
	m = press(t, m, "j")
	m = press(t, m, "down")
	c, _ = m.Selected()
	assert.Equal(t, "web", c.Name)

	m = press(t, m, "up")
	c, _ = m.Selected()
	assert.Equal(t, "db", c.Name)

	m = press(t, m, "g")
	c, _ = m.Selected()
	assert.Equal(t, "cache", c.Name)
}

func TestModel_SelectionFollowsName(t *testing.T) {
	m := loaded(t, containers)
	m = press(t, m, "G")

	// "web" stays selected after a new container sorts before it
	grown := staticStore{{Name: "api"}, containers[0], containers[1], containers[2]}
	next, _ := m.Update(snapshotMsg{containers: grown, at: time.Now()})
	m = next.(Model)

	c, _ := m.Selected()
	assert.Equal(t, "web", c.Name)

	// the selected container disappears, cursor is clamped
	next, _ = m.Update(snapshotMsg{containers: grown[:2], at: time.Now()})
	m = next.(Model)
	c, _ = m.Selected()
	assert.Equal(t, "cache", c.Name)
}

func TestModel_Quit(t *testing.T) {
	_, cmd := loaded(t, containers).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestView(t *testing.T) {
	m := loaded(t, containers)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	out := next.(Model).View()

	for _, name := range []string{"cache", "db", "web"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "Container: cache")
	assert.Contains(t, out, "12.25")
}

func TestView_Empty(t *testing.T) {
	out := NewModel(staticStore{}).View()
	assert.Contains(t, out, "Loading...")
	assert.Contains(t, out, "No container selected")
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "512B", formatBytes(512))
	assert.Equal(t, "1.00kB", formatBytes(1024))
	assert.Equal(t, "64.00MiB", formatBytes(64<<20))
	assert.Equal(t, "2.00GiB", formatBytes(2<<30))

	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdefgh", 5))

	assert.Equal(t, 10, strings.Count(renderBar(250, 10), "█"))
	assert.Equal(t, 0, strings.Count(renderBar(-5, 10), "█"))
	assert.Equal(t, 5, strings.Count(renderBar(50, 10), "█"))
}
