package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Rounded border pieces.
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// Panel draws content inside a rounded border with title set into the top
// edge: ╭─ Title ─────╮. Lines wider than the panel are wrapped by lipgloss.
func Panel(content, title string, width int, focused bool) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	if focused {
		borderColor = BorderFocusColor
	}
	border := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(TextPrimaryColor).Bold(true)

	inner := max(width-2, 1)
	body := lipgloss.NewStyle().Width(inner).Render(content)

	var b strings.Builder
	b.WriteString(topBorder(title, inner, border, titleStyle))
	for _, line := range strings.Split(body, "\n") {
		if w := lipgloss.Width(line); w < inner {
			line += strings.Repeat(" ", inner-w)
		}
		b.WriteString("\n" + border.Render(borderVertical) + line + border.Render(borderVertical))
	}
	b.WriteString("\n" + border.Render(borderBottomLeft+strings.Repeat(borderHorizontal, inner)+borderBottomRight))
	return b.String()
}

func topBorder(title string, inner int, border, titleStyle lipgloss.Style) string {
	// "─ " + title + " " needs at least four cells.
	if title == "" || inner < 4 {
		return border.Render(borderTopLeft + strings.Repeat(borderHorizontal, inner) + borderTopRight)
	}
	title = Truncate(title, inner-4)
	rest := max(inner-3-lipgloss.Width(title), 0)
	return border.Render(borderTopLeft+borderHorizontal+" ") +
		titleStyle.Render(title) +
		border.Render(" "+strings.Repeat(borderHorizontal, rest)+borderTopRight)
}

// Truncate shortens s to maxWidth cells, ending in "..." when cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}
	var b strings.Builder
	for _, r := range s {
		if lipgloss.Width(b.String()+string(r)) > maxWidth-3 {
			break
		}
		b.WriteRune(r)
	}
	return b.String() + "..."
}
