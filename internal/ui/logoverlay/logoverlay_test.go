package logoverlay

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

const (
	debugLine = "2026-10-17T10:45:00 [DEBUG] [nav] navigate route=/student\n"
	warnLine  = "2026-10-17T10:45:01 [WARN] [store] profile write failed uid=u1\n"
	errorLine = "2026-10-17T10:45:02 [ERROR] [auth] create user failed\n"
)

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func filled() Model {
	return New().SetSize(100, 30).Append(debugLine).Append(warnLine).Append(errorLine)
}

func TestAppend_TrimsNewline(t *testing.T) {
	m := filled()
	require.Len(t, m.Entries(), 3)
	require.Equal(t, "2026-10-17T10:45:00 [DEBUG] [nav] navigate route=/student", m.Entries()[0])
}

func TestAppend_CapsBuffer(t *testing.T) {
	m := New()
	for i := range maxEntries + 10 {
		m = m.Append(fmt.Sprintf("[INFO] entry %d", i))
	}
	entries := m.Entries()
	require.Len(t, entries, maxEntries)
	require.Equal(t, "[INFO] entry 10", entries[0])
}

func TestLevelFilter(t *testing.T) {
	m := filled().Toggle()

	m, _ = m.Update(keyMsg("w"))
	require.Len(t, m.Entries(), 2)

	m, _ = m.Update(keyMsg("e"))
	require.Len(t, m.Entries(), 1)

	m, _ = m.Update(keyMsg("d"))
	require.Len(t, m.Entries(), 3)
}

func TestKeysIgnoredWhileHidden(t *testing.T) {
	m, _ := filled().Update(keyMsg("c"))
	require.Len(t, m.Entries(), 3)
}

func TestClear(t *testing.T) {
	m, _ := filled().Toggle().Update(keyMsg("c"))
	require.Empty(t, m.Entries())
	require.Contains(t, ansi.Strip(m.View()), "No log entries")
}

func TestToggleAndEscape(t *testing.T) {
	m := filled()
	require.Empty(t, m.View())
	require.Equal(t, "bg", m.Overlay("bg"))

	m = m.Toggle()
	require.True(t, m.Visible())
	view := ansi.Strip(m.View())
	require.Contains(t, view, "Logs")
	require.Contains(t, view, "profile write failed")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, m.Visible())
}
