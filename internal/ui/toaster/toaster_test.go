package toaster

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShow(t *testing.T) {
	m, cmd := New().Show("Account created", StyleSuccess, time.Millisecond)

	require.True(t, m.Visible())
	require.NotNil(t, cmd)
	require.Contains(t, m.View(), "✓ Account created")
}

func TestDismiss(t *testing.T) {
	m, cmd := New().Show("Account created", StyleSuccess, time.Millisecond)

	m = m.Update(cmd())
	require.False(t, m.Visible())
	require.Empty(t, m.View())
}

func TestStaleDismissKeepsNewerToast(t *testing.T) {
	m, first := New().Show("first", StyleInfo, time.Millisecond)
	m, _ = m.Show("second", StyleWarn, time.Millisecond)

	m = m.Update(first())
	require.True(t, m.Visible())
	require.Equal(t, "second", m.Message())
}

func TestView_Icons(t *testing.T) {
	tests := []struct {
		style Style
		icon  string
	}{
		{StyleSuccess, "✓"},
		{StyleError, "✗"},
		{StyleInfo, "i"},
		{StyleWarn, "!"},
	}
	for _, tt := range tests {
		m, _ := New().Show("msg", tt.style, time.Second)
		require.Contains(t, m.View(), tt.icon+" msg")
	}
}

func TestOverlay(t *testing.T) {
	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 30)+"\n", 8), "\n")

	require.Equal(t, bg, New().Overlay(bg, 30, 8))

	m, _ := New().Show("hello", StyleInfo, time.Second)
	out := m.Overlay(bg, 30, 8)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 8)
	require.Contains(t, lines[5], "hello")
	require.Equal(t, strings.Repeat(".", 30), lines[7])
}
