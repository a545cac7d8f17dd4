package t2048

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrInvalidGridSize is returned for grids with a non-positive dimension.
var ErrInvalidGridSize = errors.New("t2048: invalid grid size")

// Cell is an addressable grid position. Cells are identified by their
// coordinates and never move once the grid is built.
type Cell struct {
	X, Y int
}

// String returns the cell coordinates as "(x,y)".
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Grid is a fixed 2D array of cells. Each cell holds the ID of the tile
// occupying it, or NoTile.
type Grid struct {
	width  int
	height int
	cells  []TileID // row-major
}

// NewGrid creates an empty grid with the given dimensions.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGridSize, width, height)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]TileID, width*height),
	}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Size returns the total number of cells.
func (g *Grid) Size() int { return len(g.cells) }

// Cell returns the cell at (x, y), or false if it lies outside the grid.
func (g *Grid) Cell(x, y int) (Cell, bool) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return Cell{}, false
	}
	return Cell{X: x, Y: y}, true
}

// Adjacent returns the neighbor of c in the given direction, or false at
// the grid edge.
func (g *Grid) Adjacent(c Cell, dir Direction) (Cell, bool) {
	if !dir.Valid() {
		return Cell{}, false
	}
	dx, dy := dir.Vector()
	return g.Cell(c.X+dx, c.Y+dy)
}

// TileAt returns the ID of the tile in c, or NoTile.
func (g *Grid) TileAt(c Cell) TileID {
	i, ok := g.index(c)
	if !ok {
		return NoTile
	}
	return g.cells[i]
}

// Occupied reports whether c holds a tile.
func (g *Grid) Occupied(c Cell) bool {
	return g.TileAt(c) != NoTile
}

// EmptyCount returns the number of unoccupied cells.
func (g *Grid) EmptyCount() int {
	n := 0
	for _, id := range g.cells {
		if id == NoTile {
			n++
		}
	}
	return n
}

// Full reports whether every cell is occupied.
func (g *Grid) Full() bool {
	return g.EmptyCount() == 0
}

// Cells returns all cells in row-major order.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, 0, len(g.cells))
	for i := range g.cells {
		out = append(out, g.cellAt(i))
	}
	return out
}

// RandomEmptyCell picks an empty cell uniformly at random.
// It draws a rank among the empty cells and walks the cells once to find
// it, so it never inspects more than Size cells. This replaces the usual
// random-start scan with wraparound, which favors an empty cell that
// follows a run of occupied ones. Returns false when the grid is full.
func (g *Grid) RandomEmptyCell(rng *rand.Rand) (Cell, bool) {
	empty := g.EmptyCount()
	if empty == 0 {
		return Cell{}, false
	}
	rank := rng.Intn(empty)
	for i, id := range g.cells {
		if id != NoTile {
			continue
		}
		if rank == 0 {
			return g.cellAt(i), true
		}
		rank--
	}
	return Cell{}, false
}

// set stores id in c. Callers keep the tile side of the pair in sync.
func (g *Grid) set(c Cell, id TileID) {
	if i, ok := g.index(c); ok {
		g.cells[i] = id
	}
}

// reset empties every cell.
func (g *Grid) reset() {
	for i := range g.cells {
		g.cells[i] = NoTile
	}
}

func (g *Grid) index(c Cell) (int, bool) {
	if c.X < 0 || c.X >= g.width || c.Y < 0 || c.Y >= g.height {
		return 0, false
	}
	return c.Y*g.width + c.X, true
}

func (g *Grid) cellAt(i int) Cell {
	return Cell{X: i % g.width, Y: i / g.width}
}
