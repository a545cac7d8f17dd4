package t2048

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// ErrInvalidTiers is returned when the tile value progression is malformed.
var ErrInvalidTiers = errors.New("t2048: invalid tile tiers")

// DefaultSettleInterval is the pause after a move before the next tile spawns.
const DefaultSettleInterval = 100 * time.Millisecond

// DefaultBestKey is the preference key used when none is configured.
const DefaultBestKey = "highScore"

// State is the session's position in its move cycle.
type State int

const (
	StateIdle State = iota
	StateAnimating
	StateGameOver
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAnimating:
		return "animating"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// DefaultTiers returns the classic progression 2, 4, ..., 2048.
func DefaultTiers() []int {
	tiers := make([]int, 0, 11)
	for v := 2; v <= 2048; v *= 2 {
		tiers = append(tiers, v)
	}
	return tiers
}

// Config defines the board a Session plays on.
type Config struct {
	Width  int
	Height int
	// Tiers is the ordered value progression. The first tier is the value
	// of every spawned tile.
	Tiers []int
	// SettleInterval is the delay between a move and the spawn that follows
	// it. Zero settles synchronously inside SubmitMove.
	SettleInterval time.Duration
}

// Validate checks grid dimensions and the tier progression.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidGridSize, c.Width, c.Height)
	}
	if len(c.Tiers) == 0 {
		return fmt.Errorf("%w: no tiers", ErrInvalidTiers)
	}
	first := c.Tiers[0]
	if first < 2 || first&(first-1) != 0 {
		return fmt.Errorf("%w: first tier %d is not a power of two >= 2", ErrInvalidTiers, first)
	}
	for i := 1; i < len(c.Tiers); i++ {
		if c.Tiers[i] != c.Tiers[i-1]*2 {
			return fmt.Errorf("%w: tier %d is %d, want %d", ErrInvalidTiers, i, c.Tiers[i], c.Tiers[i-1]*2)
		}
	}
	if c.SettleInterval < 0 {
		return fmt.Errorf("t2048: negative settle interval %s", c.SettleInterval)
	}
	return nil
}

// Option configures a Session.
type Option func(*Session)

// WithRand sets the random source used for spawn placement.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithSeed seeds a private random source.
func WithSeed(seed int64) Option {
	return func(s *Session) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithBestScoreStore persists the best score under key.
func WithBestScoreStore(store core.BestScoreStore, key string) Option {
	return func(s *Session) {
		s.store = store
		if key != "" {
			s.bestKey = key
		}
	}
}

// WithListener registers a listener for session events.
func WithListener(l Listener) Option {
	return func(s *Session) { s.AddListener(l) }
}

// Session runs one board: new-game setup, move submission, settle,
// scoring and game-over detection. It is not safe for concurrent use.
type Session struct {
	cfg   Config
	board *Board
	rng   *rand.Rand

	state   State
	score   int
	best    int
	moves   int
	elapsed time.Duration

	store     core.BestScoreStore
	bestKey   string
	listeners []Listener
}

// NewSession creates a session with an empty board. Call NewGame to start.
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	board, err := NewBoard(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:     cfg,
		board:   board,
		bestKey: DefaultBestKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s, nil
}

// AddListener registers l for all subsequent events.
func (s *Session) AddListener(l Listener) {
	if l != nil {
		s.listeners = append(s.listeners, l)
	}
}

// NewGame resets the score, clears the board and spawns two tiles.
// A failure to read the stored best score is returned, but the game is
// started regardless with the best score known in memory.
func (s *Session) NewGame() error {
	s.score = 0
	s.moves = 0
	s.elapsed = 0
	s.board.Clear()

	var loadErr error
	if s.store != nil {
		best, err := s.store.BestScore(s.bestKey)
		if err != nil {
			loadErr = fmt.Errorf("t2048: load best score: %w", err)
		} else {
			s.best = best
		}
	}

	s.state = StateIdle
	s.emit(NewGameEvent{Width: s.cfg.Width, Height: s.cfg.Height, Best: s.best})
	s.spawn()
	s.spawn()
	s.emit(s.boardEvent())

	return loadErr
}

// SubmitMove resolves a move. It returns true when any tile moved or
// merged. Input is ignored while a previous move is settling or after the
// game is over. An error is returned for an invalid direction or when
// the best score could not be persisted.
func (s *Session) SubmitMove(dir Direction) (bool, error) {
	if !dir.Valid() {
		return false, fmt.Errorf("%w: %d", ErrInvalidDirection, int(dir))
	}
	if s.state != StateIdle {
		return false, nil
	}

	res, err := Resolve(s.board, dir)
	if err != nil {
		return false, err
	}
	if !res.Changed {
		return false, nil
	}

	s.moves++
	for _, st := range res.Steps {
		if st.Merge != nil {
			s.emit(TileMergedEvent{Merge: *st.Merge})
			continue
		}
		s.emit(TileMovedEvent{Move: *st.Move})
	}
	scoreErr := s.IncreaseScore(res.ScoreDelta)

	s.state = StateAnimating
	s.elapsed = 0
	if s.cfg.SettleInterval <= 0 {
		s.Settle()
	}
	return true, scoreErr
}

// Advance moves the settle timer forward by dt and settles the pending
// move once the interval has elapsed. Returns true if it settled.
func (s *Session) Advance(dt time.Duration) bool {
	if s.state != StateAnimating {
		return false
	}
	s.elapsed += dt
	if s.elapsed < s.cfg.SettleInterval {
		return false
	}
	s.Settle()
	return true
}

// Settle finishes a pending move: unlocks every tile, spawns one tile if
// there is room and checks for game over. It does nothing unless a move
// is pending.
func (s *Session) Settle() {
	if s.state != StateAnimating {
		return
	}
	s.elapsed = 0
	s.board.UnlockAll()
	if !s.board.grid.Full() {
		s.spawn()
	}

	if s.GameOverCheck() {
		s.state = StateGameOver
		s.emit(s.boardEvent())
		s.emit(GameOverEvent{
			Score:   s.score,
			Best:    s.best,
			MaxTile: s.board.MaxValue(),
			Moves:   s.moves,
		})
		return
	}
	s.state = StateIdle
	s.emit(s.boardEvent())
}

// GameOverCheck reports whether no move can change the board.
func (s *Session) GameOverCheck() bool {
	return IsGameOver(s.board)
}

// IncreaseScore adds delta to the score and records a new best score.
// Non-positive deltas are ignored.
func (s *Session) IncreaseScore(delta int) error {
	if delta <= 0 {
		return nil
	}
	s.score += delta
	if s.score <= s.best {
		return nil
	}
	s.best = s.score
	if s.store == nil {
		return nil
	}
	if err := s.store.SetBestScore(s.bestKey, s.best); err != nil {
		return fmt.Errorf("t2048: save best score: %w", err)
	}
	return nil
}

// State returns the current session state.
func (s *Session) State() State { return s.state }

// Score returns the running score.
func (s *Session) Score() int { return s.score }

// Best returns the best score known to the session.
func (s *Session) Best() int { return s.best }

// Moves returns the number of accepted moves this game.
func (s *Session) Moves() int { return s.moves }

// Board returns the session's board. Callers must treat it as read-only.
func (s *Session) Board() *Board { return s.board }

// Config returns the session configuration.
func (s *Session) Config() Config { return s.cfg }

// TierIndex returns the tier a value belongs to. Values past the last
// tier stay on the last one.
func (s *Session) TierIndex(value int) int {
	for i, v := range s.cfg.Tiers {
		if v == value {
			return i
		}
	}
	if len(s.cfg.Tiers) > 0 && value > s.cfg.Tiers[len(s.cfg.Tiers)-1] {
		return len(s.cfg.Tiers) - 1
	}
	return 0
}

// spawn places a first-tier tile in a random empty cell.
func (s *Session) spawn() bool {
	c, ok := s.board.grid.RandomEmptyCell(s.rng)
	if !ok {
		return false
	}
	id, err := s.board.Spawn(c, s.cfg.Tiers[0])
	if err != nil {
		return false
	}
	t, _ := s.board.Tile(id)
	s.emit(TileSpawnedEvent{Tile: t.View()})
	return true
}

func (s *Session) boardEvent() BoardEvent {
	return BoardEvent{
		Tiles: s.board.Views(),
		Score: s.score,
		Best:  s.best,
		Moves: s.moves,
	}
}

func (s *Session) emit(evt Event) {
	for _, l := range s.listeners {
		l.HandleEvent(evt)
	}
}
