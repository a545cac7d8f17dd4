package t2048

import (
	"errors"
	"fmt"
)

// Board owns a grid and the arena of tiles placed on it.
// Cells store tile IDs and tiles store their cell; every mutation goes
// through Board so the two sides of the pair always agree.
type Board struct {
	grid  *Grid
	tiles []Tile // indexed by ID-1, append-only within a game
	live  int
}

// NewBoard creates an empty board of the given size.
func NewBoard(width, height int) (*Board, error) {
	g, err := NewGrid(width, height)
	if err != nil {
		return nil, err
	}
	return &Board{grid: g}, nil
}

// BoardFromValues builds a board from row-major values, 0 meaning empty.
// Tiles receive IDs in row-major order.
func BoardFromValues(rows [][]int) (*Board, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty layout", ErrInvalidGridSize)
	}
	b, err := NewBoard(len(rows[0]), len(rows))
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		if len(row) != b.grid.Width() {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidGridSize, y, len(row), b.grid.Width())
		}
		for x, v := range row {
			if v == 0 {
				continue
			}
			if _, err := b.Spawn(Cell{X: x, Y: y}, v); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

// Grid returns the board's cell grid.
func (b *Board) Grid() *Grid { return b.grid }

// LiveCount returns the number of tiles on the board.
func (b *Board) LiveCount() int { return b.live }

// Tile returns a copy of the tile with the given ID.
func (b *Board) Tile(id TileID) (Tile, bool) {
	t := b.tile(id)
	if t == nil {
		return Tile{}, false
	}
	return *t, true
}

// TileAt returns a copy of the tile occupying c.
func (b *Board) TileAt(c Cell) (Tile, bool) {
	return b.Tile(b.grid.TileAt(c))
}

// Tiles returns copies of all live tiles in creation order.
func (b *Board) Tiles() []Tile {
	out := make([]Tile, 0, b.live)
	for _, t := range b.tiles {
		if t.alive {
			out = append(out, t)
		}
	}
	return out
}

// Views returns the render-facing view of every live tile.
func (b *Board) Views() []TileView {
	tiles := b.Tiles()
	out := make([]TileView, len(tiles))
	for i, t := range tiles {
		out[i] = t.View()
	}
	return out
}

// Spawn places a new tile with the given value in an empty cell.
func (b *Board) Spawn(c Cell, value int) (TileID, error) {
	if _, ok := b.grid.Cell(c.X, c.Y); !ok {
		return NoTile, fmt.Errorf("t2048: spawn outside grid at %s", c)
	}
	if b.grid.Occupied(c) {
		return NoTile, fmt.Errorf("t2048: spawn into occupied cell %s", c)
	}
	if value <= 0 {
		return NoTile, fmt.Errorf("t2048: spawn with non-positive value %d", value)
	}
	id := TileID(len(b.tiles) + 1)
	b.tiles = append(b.tiles, Tile{
		ID:     id,
		Value:  value,
		cell:   c,
		placed: true,
		alive:  true,
	})
	b.grid.set(c, id)
	b.live++
	return id, nil
}

// Clear removes every tile and empties every cell.
func (b *Board) Clear() {
	b.grid.reset()
	b.tiles = b.tiles[:0]
	b.live = 0
}

// UnlockAll clears the merge lock on every live tile.
func (b *Board) UnlockAll() {
	for i := range b.tiles {
		b.tiles[i].Locked = false
	}
}

// MaxValue returns the highest tile value, or 0 for an empty board.
func (b *Board) MaxValue() int {
	maxVal := 0
	for _, t := range b.tiles {
		if t.alive && t.Value > maxVal {
			maxVal = t.Value
		}
	}
	return maxVal
}

// Sum returns the total of all tile values.
func (b *Board) Sum() int {
	sum := 0
	for _, t := range b.tiles {
		if t.alive {
			sum += t.Value
		}
	}
	return sum
}

// Values returns the tile values in row-major layout, 0 for empty cells.
func (b *Board) Values() [][]int {
	rows := make([][]int, b.grid.Height())
	for y := range rows {
		rows[y] = make([]int, b.grid.Width())
		for x := range rows[y] {
			if t := b.tile(b.grid.TileAt(Cell{X: x, Y: y})); t != nil {
				rows[y][x] = t.Value
			}
		}
	}
	return rows
}

// Verify checks the cell/tile back-reference invariants.
func (b *Board) Verify() error {
	var errs []error
	live := 0
	for i := range b.tiles {
		t := &b.tiles[i]
		if t.ID != TileID(i+1) {
			errs = append(errs, fmt.Errorf("tile at slot %d has id %d", i, t.ID))
		}
		if !t.alive {
			if t.placed {
				errs = append(errs, fmt.Errorf("dead tile %d still placed at %s", t.ID, t.cell))
			}
			continue
		}
		live++
		if !t.placed {
			errs = append(errs, fmt.Errorf("live tile %d has no cell", t.ID))
			continue
		}
		if got := b.grid.TileAt(t.cell); got != t.ID {
			errs = append(errs, fmt.Errorf("tile %d points at %s which holds %d", t.ID, t.cell, got))
		}
		if t.Value <= 0 || t.Value&(t.Value-1) != 0 {
			errs = append(errs, fmt.Errorf("tile %d has value %d", t.ID, t.Value))
		}
	}
	for _, c := range b.grid.Cells() {
		id := b.grid.TileAt(c)
		if id == NoTile {
			continue
		}
		t := b.tile(id)
		if t == nil {
			errs = append(errs, fmt.Errorf("cell %s holds unknown tile %d", c, id))
			continue
		}
		if t.cell != c {
			errs = append(errs, fmt.Errorf("cell %s holds tile %d which points at %s", c, id, t.cell))
		}
	}
	if live != b.live {
		errs = append(errs, fmt.Errorf("live count %d, counted %d", b.live, live))
	}
	if b.live > b.grid.Size() {
		errs = append(errs, fmt.Errorf("%d tiles on %d cells", b.live, b.grid.Size()))
	}
	return errors.Join(errs...)
}

// tile returns the live tile with the given ID, or nil.
func (b *Board) tile(id TileID) *Tile {
	i := int(id) - 1
	if i < 0 || i >= len(b.tiles) || !b.tiles[i].alive {
		return nil
	}
	return &b.tiles[i]
}

// move slides a tile into an empty cell.
func (b *Board) move(id TileID, dst Cell) {
	t := b.tile(id)
	b.grid.set(t.cell, NoTile)
	t.cell = dst
	b.grid.set(dst, id)
}

// merge folds src into dst and returns the value src contributed.
// dst doubles and is locked for the rest of the pass; src leaves the
// live set and detaches from its cell.
func (b *Board) merge(src, dst TileID) int {
	s, d := b.tile(src), b.tile(dst)
	absorbed := s.Value

	b.grid.set(s.cell, NoTile)
	s.placed = false
	s.alive = false
	b.live--

	d.Value *= 2
	d.Locked = true
	return absorbed
}
