package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vovakirdan/tui-2048/internal/core"
)

// ansiCodes is the 256-color code of each core.Color.
var ansiCodes = [...]string{
	core.ColorDefault:       "",
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
}

// palette holds one style per color. Bright tiers are drawn bold so the
// high tiles stand out on terminals with a reduced palette.
var palette = buildPalette()

func buildPalette() []lipgloss.Style {
	styles := make([]lipgloss.Style, len(ansiCodes))
	for c, code := range ansiCodes {
		st := lipgloss.NewStyle()
		if code != "" {
			st = st.Foreground(lipgloss.Color(code))
		}
		if core.Color(c) >= core.ColorBrightRed && core.Color(c) <= core.ColorBrightWhite {
			st = st.Bold(true)
		}
		styles[c] = st
	}
	return styles
}

func styleFor(c core.Color) lipgloss.Style {
	if int(c) < len(palette) {
		return palette[c]
	}
	return palette[core.ColorDefault]
}

// RenderScreen turns the cell buffer into terminal output, one styled span
// per run of equally colored cells.
func RenderScreen(s *core.Screen) string {
	var out strings.Builder
	out.Grow(s.Width()*s.Height()*2 + s.Height())

	var span strings.Builder
	for y := range s.Height() {
		if y > 0 {
			out.WriteByte('\n')
		}
		cur := s.GetCell(0, y).Color
		for x := range s.Width() {
			cell := s.GetCell(x, y)
			if cell.Color != cur {
				out.WriteString(styleFor(cur).Render(span.String()))
				span.Reset()
				cur = cell.Color
			}
			span.WriteRune(cell.Rune)
		}
		out.WriteString(styleFor(cur).Render(span.String()))
		span.Reset()
	}
	return out.String()
}
