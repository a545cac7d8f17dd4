package t2048

import "fmt"

// TileMove records a tile sliding to a new cell.
type TileMove struct {
	Tile TileID `json:"tile"`
	From Cell   `json:"from"`
	To   Cell   `json:"to"`
}

// TileMerge records a tile being absorbed by a stationary tile.
type TileMerge struct {
	Source TileID `json:"source"`
	Target TileID `json:"target"`
	From   Cell   `json:"from"`
	Into   Cell   `json:"into"`
	Value  int    `json:"value"` // target value after the merge
}

// Step is one slide or merge. Exactly one of Move and Merge is set.
type Step struct {
	Move  *TileMove  `json:"move,omitempty"`
	Merge *TileMerge `json:"merge,omitempty"`
}

// MoveResult describes one resolved move pass. Steps lists every slide
// and merge in the order they were resolved; Moves and Merges hold the
// same records grouped by type.
type MoveResult struct {
	Direction  Direction
	Changed    bool
	ScoreDelta int
	Steps      []Step
	Moves      []TileMove
	Merges     []TileMerge
}

// Resolve slides and merges every tile on b in the given direction.
// Tiles closest to the destination edge are processed first, so a tile
// never passes one that has not settled yet. Each tile merges at most
// once per pass; the caller unlocks tiles when the move settles.
func Resolve(b *Board, dir Direction) (MoveResult, error) {
	if !dir.Valid() {
		return MoveResult{}, fmt.Errorf("%w: %d", ErrInvalidDirection, int(dir))
	}

	res := MoveResult{Direction: dir}
	for _, c := range scanOrder(b.grid, dir) {
		id := b.grid.TileAt(c)
		if id == NoTile {
			continue
		}
		resolveTile(b, id, dir, &res)
	}
	return res, nil
}

// resolveTile walks the chain of cells ahead of one tile.
func resolveTile(b *Board, id TileID, dir Direction, res *MoveResult) {
	t := b.tile(id)
	from := t.cell

	var dest Cell
	found := false

	next, ok := b.grid.Adjacent(from, dir)
	for ok {
		if otherID := b.grid.TileAt(next); otherID != NoTile {
			other := b.tile(otherID)
			if canMerge(t, other) {
				absorbed := b.merge(id, otherID)
				res.ScoreDelta += absorbed
				mg := TileMerge{
					Source: id,
					Target: otherID,
					From:   from,
					Into:   next,
					Value:  other.Value,
				}
				res.Merges = append(res.Merges, mg)
				res.Steps = append(res.Steps, Step{Merge: &mg})
				res.Changed = true
				return
			}
			break
		}
		dest, found = next, true
		next, ok = b.grid.Adjacent(next, dir)
	}

	if found {
		b.move(id, dest)
		mv := TileMove{Tile: id, From: from, To: dest}
		res.Moves = append(res.Moves, mv)
		res.Steps = append(res.Steps, Step{Move: &mv})
		res.Changed = true
	}
}

// scanOrder lists cells so that those nearest the destination edge come
// first. Order across the perpendicular axis is fixed (left-to-right or
// top-to-bottom) to keep fixtures reproducible.
func scanOrder(g *Grid, dir Direction) []Cell {
	w, h := g.Width(), g.Height()
	cells := make([]Cell, 0, g.Size())

	switch dir {
	case DirUp:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				cells = append(cells, Cell{X: x, Y: y})
			}
		}
	case DirDown:
		for y := h - 1; y >= 0; y-- {
			for x := 0; x < w; x++ {
				cells = append(cells, Cell{X: x, Y: y})
			}
		}
	case DirLeft:
		for x := 0; x < w; x++ {
			for y := 0; y < h; y++ {
				cells = append(cells, Cell{X: x, Y: y})
			}
		}
	case DirRight:
		for x := w - 1; x >= 0; x-- {
			for y := 0; y < h; y++ {
				cells = append(cells, Cell{X: x, Y: y})
			}
		}
	}
	return cells
}

// IsGameOver reports whether the board is full and no two orthogonal
// neighbors share a value. Locks are ignored: the check runs after a
// move has settled.
func IsGameOver(b *Board) bool {
	if !b.grid.Full() {
		return false
	}
	for _, t := range b.tiles {
		if !t.alive {
			continue
		}
		for _, dir := range Directions {
			c, ok := b.grid.Adjacent(t.cell, dir)
			if !ok {
				continue
			}
			if n := b.tile(b.grid.TileAt(c)); n != nil && n.Value == t.Value {
				return false
			}
		}
	}
	return true
}
