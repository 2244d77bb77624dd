package overlay

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

func grid(w, h int) string {
	rows := make([]string, h)
	for i := range rows {
		rows[i] = strings.Repeat(".", w)
	}
	return strings.Join(rows, "\n")
}

func TestPlace_Center(t *testing.T) {
	out := Place(Config{Width: 6, Height: 3, Position: Center}, "XX", grid(6, 3))
	require.Equal(t, "......\n..XX..\n......", out)
}

func TestPlace_BottomWithMargin(t *testing.T) {
	out := Place(Config{Width: 6, Height: 4, Position: Bottom, Margin: 1}, "XX", grid(6, 4))
	lines := strings.Split(out, "\n")
	require.Equal(t, "..XX..", lines[2])
	require.Equal(t, "......", lines[3])
}

func TestPlace_TopRight(t *testing.T) {
	out := Place(Config{Width: 6, Height: 3, Position: TopRight}, "AB\nCD", grid(6, 3))
	require.Equal(t, "....AB\n....CD\n......", out)
}

func TestPlace_PadsShortBackground(t *testing.T) {
	out := Place(Config{Width: 4, Height: 3, Position: Bottom}, "X", "....")
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	require.Equal(t, " X  ", lines[2])
}

func TestPlace_ForegroundWiderThanViewport(t *testing.T) {
	out := Place(Config{Width: 3, Height: 1, Position: Center}, "XXXXX", "...")
	require.Equal(t, "XXXXX", out)
}

func TestPlace_KeepsStyledBackground(t *testing.T) {
	bg := lipgloss.NewStyle().Bold(true).Render("......")
	out := Place(Config{Width: 6, Height: 1, Position: Center}, "XX", bg)
	require.Equal(t, 6, lipgloss.Width(out))
	require.Contains(t, out, "XX")
}
