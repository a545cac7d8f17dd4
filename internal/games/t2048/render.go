package t2048

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/vovakirdan/tui-2048/internal/core"
)

const (
	hudHeight    = 3
	footerHeight = 1
)

// cellLayout is the on-screen size of one board cell, borders included.
type cellLayout struct {
	w, h int
}

var (
	wideCells    = cellLayout{w: 7, h: 3}
	compactCells = cellLayout{w: 5, h: 2}
)

// layout picks the largest cell size that fits the screen.
func (g *Game) layout() (cellLayout, bool) {
	for _, l := range []cellLayout{wideCells, compactCells} {
		bw, bh := g.boardSize(l)
		if bw <= g.screenW && bh+hudHeight+footerHeight+1 <= g.screenH {
			return l, true
		}
	}
	return cellLayout{}, false
}

func (g *Game) boardSize(l cellLayout) (int, int) {
	return g.preset.Width*l.w + 1, g.preset.Height*l.h + 1
}

// Render draws the HUD, board and any overlay.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.session == nil {
		return
	}

	l, ok := g.layout()
	if !ok {
		g.renderTooSmall(dst)
		return
	}

	boardW, boardH := g.boardSize(l)
	area := core.NewRect((g.screenW-boardW)/2, hudHeight+1, boardW, boardH)

	g.renderHUD(dst, area)
	g.renderBoard(dst, area, l)
	g.renderOverlays(dst, area)
	dst.DrawTextCenteredColor(g.screenH-1, g.Controls(), core.ColorGray)
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	bw, bh := g.boardSize(compactCells)
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need at least %dx%d", bw, bh+hudHeight+footerHeight+1))
}

func (g *Game) renderHUD(dst *core.Screen, area core.Rect) {
	s := g.session
	title := fmt.Sprintf("%s  %dx%d", g.Title(), g.preset.Width, g.preset.Height)
	dst.DrawTextCenteredColor(0, title, core.ColorBrightYellow)

	score := fmt.Sprintf("Score: %d", s.Score())
	best := fmt.Sprintf("Best: %d", s.Best())
	dst.DrawText(area.X, 1, score)
	dst.DrawText(core.Max(area.X, area.Right()-utf8.RuneCountInString(best)), 1, best)

	dst.DrawTextCenteredColor(2, fmt.Sprintf("Moves: %d  Max: %d", s.Moves(), s.Board().MaxValue()), core.ColorGray)
}

func (g *Game) renderBoard(dst *core.Screen, area core.Rect, l cellLayout) {
	cols, rows := g.preset.Width, g.preset.Height

	for y := 0; y <= rows; y++ {
		for x := 0; x <= cols; x++ {
			px := area.X + x*l.w
			py := area.Y + y*l.h
			dst.SetColor(px, py, junction(x, y, cols, rows), core.ColorGray)

			if x < cols {
				for i := 1; i < l.w; i++ {
					dst.SetColor(px+i, py, '─', core.ColorGray)
				}
			}
			if y < rows {
				for i := 1; i < l.h; i++ {
					dst.SetColor(px, py+i, '│', core.ColorGray)
				}
			}
		}
	}

	for _, t := range g.session.Board().Tiles() {
		c, ok := t.Cell()
		if !ok {
			continue
		}
		color := g.tileColor(t.Value)
		inner := core.NewRect(area.X+c.X*l.w+1, area.Y+c.Y*l.h+1, l.w-1, l.h-1)
		if l.h > 2 {
			dst.DrawRectColor(inner, '·', color)
		}

		label := strconv.Itoa(t.Value)
		if utf8.RuneCountInString(label) > inner.W {
			label = compactValue(t.Value)
		}
		lx := inner.X + (inner.W-utf8.RuneCountInString(label))/2
		ly := inner.Y + (inner.H-1)/2
		dst.DrawTextColor(lx, ly, label, color)
	}
}

// junction returns the box-drawing rune where grid lines meet.
func junction(x, y, cols, rows int) rune {
	switch {
	case y == 0 && x == 0:
		return '┌'
	case y == 0 && x == cols:
		return '┐'
	case y == rows && x == 0:
		return '└'
	case y == rows && x == cols:
		return '┘'
	case y == 0:
		return '┬'
	case y == rows:
		return '┴'
	case x == 0:
		return '├'
	case x == cols:
		return '┤'
	default:
		return '┼'
	}
}

// compactValue shortens values that do not fit a cell, e.g. 16384 -> 16k.
func compactValue(v int) string {
	switch {
	case v >= 1<<20:
		return strconv.Itoa(v>>20) + "M"
	case v >= 1<<10:
		return strconv.Itoa(v>>10) + "k"
	default:
		return strconv.Itoa(v)
	}
}

// tileColor maps a tile value to its tier color.
func (g *Game) tileColor(value int) core.Color {
	name := g.cfg.ColorFor(g.session.TierIndex(value))
	if c, ok := core.ParseColor(name); ok {
		return c
	}
	return core.ColorDefault
}

func (g *Game) renderOverlays(dst *core.Screen, area core.Rect) {
	s := g.session
	cx, cy := area.Center()

	switch {
	case s.State() == StateGameOver:
		lines := []string{
			"GAME OVER",
			fmt.Sprintf("Score: %d  Max tile: %d", s.Score(), s.Board().MaxValue()),
		}
		if s.Score() > 0 && s.Score() == s.Best() {
			lines = append(lines, "New best!")
		}
		lines = append(lines, "Press R to restart")
		drawOverlay(dst, cx, cy, core.ColorBrightRed, lines...)
	case g.paused:
		drawOverlay(dst, cx, cy, core.ColorBrightCyan, "PAUSED", "Press P to resume")
	}
}

// drawOverlay draws a bordered message box centered on (cx, cy).
func drawOverlay(dst *core.Screen, cx, cy int, color core.Color, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = core.Max(maxLen, utf8.RuneCountInString(line))
	}

	box := core.NewRect(cx-(maxLen+4)/2, cy-(len(lines)+2)/2, maxLen+4, len(lines)+2)
	dst.DrawRect(box, ' ')
	dst.DrawBoxColor(box, color)

	for i, line := range lines {
		x := cx - utf8.RuneCountInString(line)/2
		c := core.ColorDefault
		if i == 0 {
			c = color
		}
		dst.DrawTextColor(x, box.Y+1+i, line, c)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/WASD/hjkl: Move | P: Pause | R: Restart | Q: Quit"
}
