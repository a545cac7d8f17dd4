package t2048

// Event is a state-change notification emitted by a Session.
// View layers create, move and destroy their own presentation objects in
// response; the session never touches them.
type Event interface {
	Kind() string
}

// NewGameEvent is emitted when the board has been cleared for a new game.
type NewGameEvent struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Best   int `json:"best"`
}

// TileSpawnedEvent is emitted when a tile is placed on the board.
type TileSpawnedEvent struct {
	Tile TileView `json:"tile"`
}

// TileMovedEvent is emitted when a tile slides to another cell.
type TileMovedEvent struct {
	Move TileMove `json:"move"`
}

// TileMergedEvent is emitted when a tile is absorbed. The source tile no
// longer exists after this event.
type TileMergedEvent struct {
	Merge TileMerge `json:"merge"`
}

// BoardEvent carries the full board after every settled move and after a
// new game has spawned its opening tiles.
type BoardEvent struct {
	Tiles []TileView `json:"tiles"`
	Score int        `json:"score"`
	Best  int        `json:"best"`
	Moves int        `json:"moves"`
}

// GameOverEvent is the single terminal notification of a game.
type GameOverEvent struct {
	Score   int `json:"score"`
	Best    int `json:"best"`
	MaxTile int `json:"max_tile"`
	Moves   int `json:"moves"`
}

func (NewGameEvent) Kind() string     { return "new_game" }
func (TileSpawnedEvent) Kind() string { return "tile_spawned" }
func (TileMovedEvent) Kind() string   { return "tile_moved" }
func (TileMergedEvent) Kind() string  { return "tile_merged" }
func (BoardEvent) Kind() string       { return "board" }
func (GameOverEvent) Kind() string    { return "game_over" }

// Listener receives session events synchronously, in emission order.
type Listener interface {
	HandleEvent(evt Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(evt Event)

// HandleEvent calls f(evt).
func (f ListenerFunc) HandleEvent(evt Event) { f(evt) }
