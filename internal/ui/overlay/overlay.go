// Package overlay draws one block of terminal output on top of another
// without disturbing the ANSI styling of either.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position is where the foreground lands within the viewport.
type Position int

const (
	Center Position = iota
	Bottom
	TopRight
)

// Config describes the viewport and placement.
type Config struct {
	Width    int
	Height   int
	Position Position
	// Margin keeps the foreground away from the edge it is anchored to.
	Margin int
}

// Place composites fg over bg. Background lines are padded to Height so a
// short screen still has room for the foreground.
func Place(cfg Config, fg, bg string) string {
	rows := strings.Split(bg, "\n")
	for len(rows) < cfg.Height {
		rows = append(rows, strings.Repeat(" ", cfg.Width))
	}

	fgRows := strings.Split(fg, "\n")
	x, y := origin(cfg, lipgloss.Width(fg), len(fgRows))

	for i, fgRow := range fgRows {
		if y+i >= len(rows) {
			break
		}
		rows[y+i] = splice(rows[y+i], fgRow, x)
	}
	return strings.Join(rows, "\n")
}

// splice writes fgRow into row starting at column x.
func splice(row, fgRow string, x int) string {
	left := ansi.Truncate(row, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}
	end := x + ansi.StringWidth(fgRow)
	var right string
	if end < ansi.StringWidth(row) {
		right = ansi.TruncateLeft(row, end, "")
	}
	return left + fgRow + right
}

func origin(cfg Config, w, h int) (x, y int) {
	switch cfg.Position {
	case Bottom:
		x = (cfg.Width - w) / 2
		y = cfg.Height - h - cfg.Margin
	case TopRight:
		x = cfg.Width - w - cfg.Margin
		y = cfg.Margin
	default:
		x = (cfg.Width - w) / 2
		y = (cfg.Height - h) / 2
	}
	return max(x, 0), max(y, 0)
}
