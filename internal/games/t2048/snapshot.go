package t2048

// Snapshot captures the complete session state for determinism tests,
// replays and the spectator API.
type Snapshot struct {
	State   string  `json:"state"`
	Score   int     `json:"score"`
	Best    int     `json:"best"`
	Moves   int     `json:"moves"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Cells   [][]int `json:"cells"`
	MaxTile int     `json:"max_tile"`
}

// Snapshot returns the current session snapshot.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		State:   s.state.String(),
		Score:   s.score,
		Best:    s.best,
		Moves:   s.moves,
		Width:   s.cfg.Width,
		Height:  s.cfg.Height,
		Cells:   s.board.Values(),
		MaxTile: s.board.MaxValue(),
	}
}
