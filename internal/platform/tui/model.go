package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// errReporter is implemented by games that collect store or setup errors
// instead of failing the step.
type errReporter interface {
	Err() error
}

// summarizer is implemented by games that can describe a finished game
// beyond its score.
type summarizer interface {
	MaxTile() int
	Moves() int
}

// GameResult describes how a game session ended.
type GameResult struct {
	Score      int
	MaxTile    int
	Moves      int
	BackToMenu bool
}

// GameModel is the Bubble Tea model that runs one game.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	keys       *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState
	quitting   bool
	backToMenu bool
	scoreSaved bool
	loop       uint64
}

// NewGameModel creates a model for game. store and logger may be nil.
func NewGameModel(game registry.Game, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if sa, ok := game.(registry.ScoreAware); ok && store != nil {
		sa.AttachScores(store)
	}

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		logger:     logger,
		config:     cfg,
		keys:       NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
		loop:       nextLoop(),
	}
}

// Init starts the game and the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.reportErr()
	m.logger.Debug("game started", "game", m.game.ID(), "seed", m.config.Seed)
	return tickCmd(m.config.TickInterval(), m.loop)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		return m.handleTick()
	}
	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	// Leaving is only offered once nothing is in progress.
	if action == core.ActionBack && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		return m, tea.Quit
	}
	if action == core.ActionRestart && !m.gameState.GameOver && !m.gameState.Paused {
		// Restart mid-game only from the pause screen.
		return m, nil
	}

	if action != core.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(registry.Resizable); ok {
		r.Resize(msg.Width, msg.Height)
	} else if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}
	return m, nil
}

func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()
	m.reportErr()

	switch {
	case m.gameState.GameOver && !m.scoreSaved:
		m.saveScore()
		m.scoreSaved = true
	case !m.gameState.GameOver:
		m.scoreSaved = false
	}

	return m, tickCmd(m.config.TickInterval(), m.loop)
}

func (m GameModel) summary() GameResult {
	res := GameResult{Score: m.gameState.Score, BackToMenu: m.backToMenu}
	if s, ok := m.game.(summarizer); ok {
		res.MaxTile = s.MaxTile()
		res.Moves = s.Moves()
	}
	return res
}

func (m GameModel) saveScore() {
	res := m.summary()
	m.logger.Info("game over", "game", m.game.ID(), "score", res.Score, "max_tile", res.MaxTile, "moves", res.Moves)
	if m.store == nil || res.Score == 0 {
		return
	}
	_, err := m.store.SaveScore(storage.ScoreEntry{
		GameID:  m.game.ID(),
		Score:   res.Score,
		MaxTile: res.MaxTile,
		Moves:   res.Moves,
	})
	if err != nil {
		m.logger.Warn("could not save score", "game", m.game.ID(), "err", err)
	}
}

func (m GameModel) reportErr() {
	r, ok := m.game.(errReporter)
	if !ok {
		return
	}
	if err := r.Err(); err != nil {
		m.logger.Warn("game error", "game", m.game.ID(), "err", err)
	}
}

// saveScreenshot writes the current frame as plain text to ~/.t2048/screenshots.
func (m GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("screenshot", "err", err)
		return
	}
	dir := filepath.Join(home, ".t2048", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("screenshot", "err", err)
		return
	}

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current frame.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// Result reports the final state of the game.
func (m GameModel) Result() GameResult { return m.summary() }

// Quitting reports whether the user asked to leave the program.
func (m GameModel) Quitting() bool { return m.quitting }

// BackToMenu reports whether the user asked to return to the menu.
func (m GameModel) BackToMenu() bool { return m.backToMenu }

// Run plays game in the terminal until the user quits or goes back.
func Run(game registry.Game, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig) (GameResult, error) {
	p := tea.NewProgram(NewGameModel(game, store, logger, cfg), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return GameResult{}, err
	}
	if gm, ok := final.(GameModel); ok {
		return gm.Result(), nil
	}
	return GameResult{}, nil
}
