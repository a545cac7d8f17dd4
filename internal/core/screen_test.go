package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 || s.Height() != 24 {
		t.Fatalf("size = %dx%d, expected 80x24", s.Width(), s.Height())
	}
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c != blankCell {
				t.Fatalf("new screen cell (%d, %d) = %+v, expected blank", x, y, c)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.Set(5, 5, 'X')
	if s.Get(5, 5) != 'X' {
		t.Errorf("Get(5, 5) = %q, expected 'X'", s.Get(5, 5))
	}

	// Out of bounds writes are ignored
	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.Set(0, -1, 'A')
	s.Set(0, 100, 'A')

	if s.Get(-1, 0) != ' ' || s.Get(100, 0) != ' ' {
		t.Error("out of bounds Get should return space")
	}
}

func TestScreenColor(t *testing.T) {
	s := NewScreen(10, 3)

	s.SetColor(1, 1, '#', ColorOrange)
	if c := s.GetCell(1, 1); c.Rune != '#' || c.Color != ColorOrange {
		t.Errorf("GetCell(1, 1) = %+v, expected orange '#'", c)
	}

	s.DrawTextColor(2, 0, "ab", ColorCyan)
	if s.GetCell(3, 0).Color != ColorCyan {
		t.Error("DrawTextColor should color every rune")
	}

	// Plain Set resets color
	s.Set(1, 1, '.')
	if s.GetCell(1, 1).Color != ColorDefault {
		t.Error("Set should write the default color")
	}
}

func TestScreenClearAndFill(t *testing.T) {
	s := NewScreen(5, 5)
	s.DrawRectColor(NewRect(0, 0, 5, 5), 'X', ColorRed)

	s.Clear()
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if c := s.GetCell(x, y); c != blankCell {
				t.Fatalf("after Clear, cell (%d, %d) = %+v", x, y, c)
			}
		}
	}

	s.Fill('#')
	if s.String() != strings.Repeat("#####\n", 4)+"#####" {
		t.Errorf("after Fill, String() = %q", s.String())
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawText(2, 1, "Hello")

	if got := s.Row(1)[2:7]; got != "Hello" {
		t.Errorf("row 1 = %q, expected Hello at x=2", s.Row(1))
	}

	// Clipped at the right boundary
	s.DrawText(18, 0, "Hello")
	if s.Get(18, 0) != 'H' || s.Get(19, 0) != 'e' {
		t.Error("text should be clipped at right boundary")
	}
}

func TestScreenDrawTextCenteredCountsRunes(t *testing.T) {
	s := NewScreen(10, 1)
	s.DrawTextCentered(0, "★★")

	// 2 runes centered in 10 columns start at 4
	if s.Get(4, 0) != '★' || s.Get(5, 0) != '★' {
		t.Errorf("centered text misplaced: %q", s.Row(0))
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawBox(NewRect(1, 1, 5, 4))

	corners := map[[2]int]rune{
		{1, 1}: '┌',
		{5, 1}: '┐',
		{1, 4}: '└',
		{5, 4}: '┘',
	}
	for pos, want := range corners {
		if got := s.Get(pos[0], pos[1]); got != want {
			t.Errorf("corner %v = %q, expected %q", pos, got, want)
		}
	}
	for x := 2; x < 5; x++ {
		if s.Get(x, 1) != '─' || s.Get(x, 4) != '─' {
			t.Errorf("horizontal edge missing at x=%d", x)
		}
	}
	for y := 2; y < 4; y++ {
		if s.Get(1, y) != '│' || s.Get(5, y) != '│' {
			t.Errorf("vertical edge missing at y=%d", y)
		}
	}
	if s.Get(3, 2) != ' ' {
		t.Error("box interior should stay empty")
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawText(0, 0, "Hello")
	s.DrawText(0, 5, "World")

	s.Resize(8, 4)
	if s.Width() != 8 || s.Height() != 4 {
		t.Fatalf("after resize, size = %dx%d, expected 8x4", s.Width(), s.Height())
	}
	if !strings.HasPrefix(s.Row(0), "Hello") {
		t.Errorf("content should be preserved, row 0 = %q", s.Row(0))
	}

	s.Resize(15, 8)
	if !strings.HasPrefix(s.Row(0), "Hello") {
		t.Errorf("content should be preserved after enlarging, row 0 = %q", s.Row(0))
	}
	if strings.TrimSpace(s.Row(5)) != "" {
		t.Errorf("row 5 was cut by the shrink and should be blank, got %q", s.Row(5))
	}
}

func TestScreenRowOutOfBounds(t *testing.T) {
	s := NewScreen(4, 2)
	if got := s.Row(-1); got != "    " {
		t.Errorf("Row(-1) = %q, expected spaces", got)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		name string
		want Color
		ok   bool
	}{
		{"orange", ColorOrange, true},
		{"Bright_Red", ColorBrightRed, true},
		{"bright-cyan", ColorBrightCyan, true},
		{" gray ", ColorGray, true},
		{"chartreuse", ColorDefault, false},
	}

	for _, tc := range tests {
		got, ok := ParseColor(tc.name)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseColor(%q) = (%v, %v), expected (%v, %v)", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}
