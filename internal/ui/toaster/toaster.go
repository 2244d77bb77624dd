// Package toaster shows short-lived notifications at the bottom of the screen.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kduhealth/medportal/internal/ui/overlay"
	"github.com/kduhealth/medportal/internal/ui/styles"
)

// DefaultDuration is how long a toast stays up.
const DefaultDuration = 4 * time.Second

// Style determines the visual appearance of the toast.
type Style int

const (
	StyleSuccess Style = iota
	StyleError
	StyleInfo
	StyleWarn
)

func (s Style) icon() string {
	switch s {
	case StyleError:
		return "✗"
	case StyleInfo:
		return "i"
	case StyleWarn:
		return "!"
	default:
		return "✓"
	}
}

func (s Style) color() lipgloss.AdaptiveColor {
	switch s {
	case StyleError:
		return styles.StatusErrorColor
	case StyleInfo:
		return styles.StatusInfoColor
	case StyleWarn:
		return styles.StatusWarningColor
	default:
		return styles.StatusSuccessColor
	}
}

// Model holds the toaster state. Each Show bumps a sequence number so a
// dismissal scheduled for an older toast leaves a newer one alone.
type Model struct {
	message string
	style   Style
	seq     int
}

// New creates a new toaster model.
func New() Model {
	return Model{}
}

// DismissMsg hides the toast it was scheduled for.
type DismissMsg struct {
	seq int
}

// Show displays message and returns the command that dismisses it after d.
func (m Model) Show(message string, style Style, d time.Duration) (Model, tea.Cmd) {
	m.seq++
	m.message = message
	m.style = style
	seq := m.seq
	return m, tea.Tick(d, func(time.Time) tea.Msg { return DismissMsg{seq: seq} })
}

// Update handles DismissMsg.
func (m Model) Update(msg tea.Msg) Model {
	if d, ok := msg.(DismissMsg); ok && d.seq == m.seq {
		m.message = ""
	}
	return m
}

// Visible reports whether a toast is showing.
func (m Model) Visible() bool {
	return m.message != ""
}

// Message returns the text of the current toast.
func (m Model) Message() string {
	return m.message
}

// View renders the toast box.
func (m Model) View() string {
	if !m.Visible() {
		return ""
	}
	return lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.style.color()).
		Render(m.style.icon() + " " + m.message)
}

// Overlay renders the toast over bg, bottom-centred.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.Visible() {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.Bottom,
		Margin:   1,
	}, m.View(), bg)
}
