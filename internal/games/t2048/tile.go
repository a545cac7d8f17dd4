package t2048

// TileID identifies a tile for the lifetime of a game.
// IDs start at 1; NoTile marks an empty cell.
type TileID int

// NoTile is the TileID stored in empty cells.
const NoTile TileID = 0

// Tile is a single numbered game piece.
type Tile struct {
	ID    TileID
	Value int
	// Locked is set once the tile has absorbed another tile during the
	// current move pass and cleared when the move settles.
	Locked bool

	cell   Cell
	placed bool
	alive  bool
}

// Cell returns the cell the tile occupies. The second result is false for
// a tile that has been merged away.
func (t Tile) Cell() (Cell, bool) {
	return t.cell, t.placed
}

// View returns the render-facing description of the tile.
func (t Tile) View() TileView {
	return TileView{
		ID:     t.ID,
		X:      t.cell.X,
		Y:      t.cell.Y,
		Value:  t.Value,
		Locked: t.Locked,
	}
}

// TileView is the (tile id, cell, value) triple handed to view layers.
type TileView struct {
	ID     TileID `json:"id"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Value  int    `json:"value"`
	Locked bool   `json:"locked,omitempty"`
}

// canMerge reports whether two tiles may combine during a move pass.
func canMerge(a, b *Tile) bool {
	return a.Value == b.Value && !a.Locked && !b.Locked
}
