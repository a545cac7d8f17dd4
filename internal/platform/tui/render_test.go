package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/tui-2048/internal/core"
)

func TestRenderScreenKeepsText(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	s := core.NewScreen(6, 2)
	s.DrawText(0, 0, "ab")
	s.DrawTextColor(2, 0, "2048", core.ColorBrightYellow)
	s.DrawTextColor(1, 1, "x", core.Color(200))

	assert.Equal(t, s.String(), RenderScreen(s))
}

func TestStyleForUnknownColor(t *testing.T) {
	assert.Equal(t, palette[core.ColorDefault].String(), styleFor(core.Color(200)).String())
	assert.Len(t, palette, int(core.ColorGray)+1)
}
