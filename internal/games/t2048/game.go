package t2048

import (
	"fmt"
	"sync"
	"time"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

// DefaultPresetID is the classic 4x4 board.
const DefaultPresetID = "2048"

var (
	activeMu     sync.RWMutex
	activeConfig = config.DefaultT2048Config()
)

func init() {
	for _, p := range activeConfig.Presets {
		registry.Register(p.ID, newFactory(p.ID))
	}
}

// RegisterPresets makes cfg the configuration used by new games and
// registers any of its presets that are not registered yet.
func RegisterPresets(cfg config.T2048Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	activeMu.Lock()
	activeConfig = cfg
	activeMu.Unlock()

	for _, p := range cfg.Presets {
		if registry.Exists(p.ID) {
			continue
		}
		if err := registry.TryRegister(p.ID, newFactory(p.ID)); err != nil {
			return err
		}
	}
	return nil
}

func currentConfig() config.T2048Config {
	activeMu.RLock()
	defer activeMu.RUnlock()
	return activeConfig
}

func newFactory(id string) registry.Factory {
	return func() registry.Game {
		cfg := currentConfig()
		p, ok := cfg.Preset(id)
		if !ok {
			// Preset dropped from the active config; fall back to the default.
			p, _ = config.DefaultT2048Config().Preset(id)
		}
		return New(p, cfg)
	}
}

// Game adapts a Session to the platform's registry.Game interface.
type Game struct {
	preset config.BoardPreset
	cfg    config.T2048Config

	session   *Session
	scores    core.BestScoreStore
	listeners []Listener
	lastErr   error

	screenW  int
	screenH  int
	tickStep time.Duration
	seed     int64
	paused   bool
}

// New creates a game for a board preset.
func New(preset config.BoardPreset, cfg config.T2048Config) *Game {
	return &Game{preset: preset, cfg: cfg}
}

// ID returns the preset identifier.
func (g *Game) ID() string { return g.preset.ID }

// Title returns the preset title.
func (g *Game) Title() string {
	if g.preset.Title != "" {
		return g.preset.Title
	}
	return g.preset.ID
}

// AttachScores sets the store the best score is read from and saved to.
func (g *Game) AttachScores(store core.BestScoreStore) {
	g.scores = store
	g.session = nil
}

// AddListener registers l for events of this and every later game.
func (g *Game) AddListener(l Listener) {
	g.listeners = append(g.listeners, l)
	if g.session != nil {
		g.session.AddListener(l)
	}
}

// OnEvent forwards every event to fn as (kind, event).
func (g *Game) OnEvent(fn func(kind string, payload any)) {
	g.AddListener(ListenerFunc(func(evt Event) {
		fn(evt.Kind(), evt)
	}))
}

// SetConfig replaces tiers, colors and settle timing. If cfg has a preset
// with this game's ID its size is used too. Takes effect on the next Reset.
func (g *Game) SetConfig(cfg config.T2048Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if p, ok := cfg.Preset(g.preset.ID); ok {
		g.preset = p
	}
	g.cfg = cfg
	g.session = nil
	return nil
}

// BestKeyFor returns the preference key the best score of a preset is
// stored under. The default preset keeps the plain key.
func BestKeyFor(presetID string) string {
	if presetID == DefaultPresetID {
		return DefaultBestKey
	}
	return DefaultBestKey + ":" + presetID
}

// BestKey returns the preference key this game's best score is stored under.
func (g *Game) BestKey() string {
	return BestKeyFor(g.preset.ID)
}

// Reset starts a new game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.tickStep = cfg.TickInterval()
	g.paused = false

	if g.session == nil || cfg.Seed != g.seed {
		g.seed = cfg.Seed
		if err := g.newSession(); err != nil {
			g.lastErr = err
			return
		}
	}
	if err := g.session.NewGame(); err != nil {
		g.lastErr = err
	}
}

func (g *Game) newSession() error {
	opts := []Option{WithBestScoreStore(g.scores, g.BestKey())}
	if g.seed != 0 {
		opts = append(opts, WithSeed(g.seed))
	}
	for _, l := range g.listeners {
		opts = append(opts, WithListener(l))
	}

	s, err := NewSession(Config{
		Width:          g.preset.Width,
		Height:         g.preset.Height,
		Tiers:          g.cfg.Tiers,
		SettleInterval: g.cfg.SettleInterval(),
	}, opts...)
	if err != nil {
		return fmt.Errorf("t2048: preset %q: %w", g.preset.ID, err)
	}
	g.session = s
	return nil
}

// Resize updates the screen size used for rendering without restarting.
func (g *Game) Resize(width, height int) {
	g.screenW = width
	g.screenH = height
}

// MaxTile returns the highest tile value on the board.
func (g *Game) MaxTile() int {
	if g.session == nil {
		return 0
	}
	return g.session.Board().MaxValue()
}

// Moves returns the number of accepted moves in the current game.
func (g *Game) Moves() int {
	if g.session == nil {
		return 0
	}
	return g.session.Moves()
}

// Session returns the running session, or nil before the first Reset.
func (g *Game) Session() *Session { return g.session }

// Err returns and clears the last store or setup error.
func (g *Game) Err() error {
	err := g.lastErr
	g.lastErr = nil
	return err
}

// Step applies the input of one tick and advances the settle timer.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.session == nil {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionRestart) {
		g.paused = false
		if err := g.session.NewGame(); err != nil {
			g.lastErr = err
		}
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && g.session.State() != StateGameOver {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if dir, ok := directionFor(in); ok {
		if _, err := g.session.SubmitMove(dir); err != nil {
			g.lastErr = err
		}
	}
	g.session.Advance(g.tickStep)

	return core.StepResult{State: g.State()}
}

// directionFor picks the move for a frame. Only one move is taken per tick.
func directionFor(in core.InputFrame) (Direction, bool) {
	switch {
	case in.Has(core.ActionUp):
		return DirUp, true
	case in.Has(core.ActionDown):
		return DirDown, true
	case in.Has(core.ActionLeft):
		return DirLeft, true
	case in.Has(core.ActionRight):
		return DirRight, true
	}
	return 0, false
}

// State returns score, best and the game-over flag.
func (g *Game) State() core.GameState {
	if g.session == nil {
		return core.GameState{Paused: g.paused}
	}
	return core.GameState{
		Score:    g.session.Score(),
		Best:     g.session.Best(),
		GameOver: g.session.State() == StateGameOver,
		Paused:   g.paused,
	}
}
