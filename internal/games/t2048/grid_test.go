package t2048

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGridRejectsNonPositive(t *testing.T) {
	for _, size := range [][2]int{{0, 4}, {4, 0}, {-1, 3}} {
		_, err := NewGrid(size[0], size[1])
		assert.ErrorIs(t, err, ErrInvalidGridSize, "size %v", size)
	}
}

func TestGridCellBounds(t *testing.T) {
	g, err := NewGrid(3, 2)
	require.NoError(t, err)

	c, ok := g.Cell(2, 1)
	assert.True(t, ok)
	assert.Equal(t, Cell{X: 2, Y: 1}, c)

	for _, xy := range [][2]int{{-1, 0}, {3, 0}, {0, 2}, {0, -1}} {
		_, ok := g.Cell(xy[0], xy[1])
		assert.False(t, ok, "Cell(%d, %d) should be out of range", xy[0], xy[1])
	}
}

func TestGridAdjacent(t *testing.T) {
	g, err := NewGrid(3, 3)
	require.NoError(t, err)
	center := Cell{X: 1, Y: 1}

	tests := []struct {
		dir  Direction
		want Cell
	}{
		{DirUp, Cell{X: 1, Y: 0}},
		{DirDown, Cell{X: 1, Y: 2}},
		{DirLeft, Cell{X: 0, Y: 1}},
		{DirRight, Cell{X: 2, Y: 1}},
	}
	for _, tt := range tests {
		got, ok := g.Adjacent(center, tt.dir)
		require.True(t, ok, tt.dir.String())
		assert.Equal(t, tt.want, got, tt.dir.String())
	}

	_, ok := g.Adjacent(Cell{X: 0, Y: 0}, DirUp)
	assert.False(t, ok, "no cell above the top edge")
	_, ok = g.Adjacent(Cell{X: 2, Y: 2}, DirRight)
	assert.False(t, ok, "no cell right of the right edge")
}

func TestRandomEmptyCellFullGrid(t *testing.T) {
	b, err := BoardFromValues([][]int{{2, 4}, {8, 16}})
	require.NoError(t, err)

	_, ok := b.Grid().RandomEmptyCell(rand.New(rand.NewSource(1)))
	assert.False(t, ok)
}

func TestRandomEmptyCellOnlyReturnsEmpty(t *testing.T) {
	b, err := BoardFromValues([][]int{
		{2, 0, 2},
		{0, 2, 0},
		{2, 2, 0},
	})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		c, ok := b.Grid().RandomEmptyCell(rng)
		require.True(t, ok)
		assert.False(t, b.Grid().Occupied(c), "picked occupied cell %s", c)
	}
}

func TestRandomEmptyCellIsUniform(t *testing.T) {
	b, err := BoardFromValues([][]int{
		{2, 2, 0, 0},
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	require.NoError(t, err)

	const draws = 24000
	counts := make(map[Cell]int)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < draws; i++ {
		c, ok := b.Grid().RandomEmptyCell(rng)
		require.True(t, ok)
		counts[c]++
	}

	// 12 empty cells, so each should get about 2000 draws. A start-and-scan
	// pick would give the cell after the occupied block several times that.
	require.Len(t, counts, 12)
	for c, n := range counts {
		assert.InDelta(t, draws/12, n, 300, "cell %s drawn %d times", c, n)
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
	}{
		{"up", DirUp},
		{"W", DirUp},
		{"down", DirDown},
		{"s", DirDown},
		{"Left", DirLeft},
		{"a", DirLeft},
		{"right", DirRight},
		{"d", DirRight},
	}
	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseDirection("sideways")
	assert.True(t, errors.Is(err, ErrInvalidDirection))
	assert.False(t, Direction(0).Valid())
}
