// Package logoverlay shows recent log entries over the current screen.
package logoverlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/kduhealth/medportal/internal/log"
	"github.com/kduhealth/medportal/internal/ui/overlay"
	"github.com/kduhealth/medportal/internal/ui/styles"
)

const (
	maxEntries  = 500
	boxMaxWidth = 140
	boxMinWidth = 40
	maxHeight   = 20
)

// Model is the log overlay state. Entries arrive through Append.
type Model struct {
	visible  bool
	entries  []string
	minLevel log.Level
	width    int
	height   int
	viewport viewport.Model
}

// New creates a hidden overlay.
func New() Model {
	return Model{minLevel: log.LevelDebug}
}

// Append records a formatted log line, dropping the oldest past the cap.
func (m Model) Append(entry string) Model {
	m.entries = append(m.entries, strings.TrimSuffix(entry, "\n"))
	if over := len(m.entries) - maxEntries; over > 0 {
		m.entries = m.entries[over:]
	}
	m.refresh()
	return m
}

// Entries returns the buffered lines that pass the level filter.
func (m Model) Entries() []string {
	var out []string
	for _, e := range m.entries {
		if levelOf(e) >= m.minLevel {
			out = append(out, e)
		}
	}
	return out
}

// Toggle shows or hides the overlay.
func (m Model) Toggle() Model {
	m.visible = !m.visible
	m.refresh()
	return m
}

// Visible reports whether the overlay is showing.
func (m Model) Visible() bool {
	return m.visible
}

// SetSize updates the viewport dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.refresh()
	return m
}

// Update handles keys while visible: d/i/w/e filter by level, c clears,
// j/k scroll, esc closes.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !m.visible {
		return m, nil
	}
	switch key.String() {
	case "d":
		m.minLevel = log.LevelDebug
	case "i":
		m.minLevel = log.LevelInfo
	case "w":
		m.minLevel = log.LevelWarn
	case "e":
		m.minLevel = log.LevelError
	case "c":
		m.entries = nil
	case "j", "down":
		m.viewport.ScrollDown(1)
		return m, nil
	case "k", "up":
		m.viewport.ScrollUp(1)
		return m, nil
	case "esc", "ctrl+x":
		m.visible = false
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	default:
		return m, nil
	}
	m.refresh()
	return m, nil
}

func (m Model) boxWidth() int {
	return min(max(m.width*3/4, boxMinWidth), boxMaxWidth)
}

func (m *Model) refresh() {
	inner := m.boxWidth() - 2
	h := min(maxHeight, max(m.height-6, 3))
	m.viewport.Width = inner
	m.viewport.Height = h

	lines := m.Entries()
	if len(lines) == 0 {
		m.viewport.SetContent(styles.HintStyle.Render("No log entries"))
		return
	}
	rendered := make([]string, len(lines))
	for i, l := range lines {
		rendered[i] = colorize(ansi.Truncate(l, inner, "..."))
	}
	m.viewport.SetContent(strings.Join(rendered, "\n"))
	m.viewport.GotoBottom()
}

// View renders the log box.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	footer := styles.HintStyle.Render("[d]ebug [i]nfo [w]arn [e]rror  [c]lear  esc close  filter: " + strings.ToLower(m.minLevel.String()))
	return styles.Panel(m.viewport.View()+"\n"+footer, "Logs", m.boxWidth(), true)
}

// Overlay renders the log box centred over bg.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{Width: m.width, Height: m.height, Position: overlay.Center}, m.View(), bg)
}

func levelOf(entry string) log.Level {
	switch {
	case strings.Contains(entry, "[ERROR]"):
		return log.LevelError
	case strings.Contains(entry, "[WARN]"):
		return log.LevelWarn
	case strings.Contains(entry, "[INFO]"):
		return log.LevelInfo
	default:
		return log.LevelDebug
	}
}

func colorize(entry string) string {
	var c lipgloss.TerminalColor
	switch levelOf(entry) {
	case log.LevelError:
		c = styles.StatusErrorColor
	case log.LevelWarn:
		c = styles.StatusWarningColor
	case log.LevelInfo:
		c = styles.StatusInfoColor
	default:
		c = styles.TextMutedColor
	}
	return lipgloss.NewStyle().Foreground(c).Render(entry)
}
