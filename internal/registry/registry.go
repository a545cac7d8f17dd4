// Package registry holds the factories for every playable board.
// Games register themselves in init() functions, so the platform can list
// and create them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// Game is the interface the platform drives. Implementations hold pure
// logic: the platform maps input, keeps time and draws the screen.
type Game interface {
	// ID returns a unique identifier, used by CLI commands and score storage.
	ID() string

	// Title returns a human-readable name for menus.
	Title() string

	// Reset starts a new game. Called once at start and again on restart.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into a pre-cleared screen buffer.
	Render(dst *core.Screen)

	// State returns the current game state.
	State() core.GameState
}

// ScoreAware is implemented by games that keep a best score in a store.
// The platform attaches the store before the first Reset.
type ScoreAware interface {
	AttachScores(store core.BestScoreStore)
}

// EventSource is implemented by games that publish events while running.
// fn receives the event kind and its payload, which must be JSON-encodable.
type EventSource interface {
	OnEvent(fn func(kind string, payload any))
}

// Resizable is implemented by games that follow terminal resizes in place
// instead of being reset.
type Resizable interface {
	Resize(width, height int)
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a game.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a game factory. Panics if the ID is already taken.
func Register(id string, f Factory) {
	if err := TryRegister(id, f); err != nil {
		panic(err.Error())
	}
}

// TryRegister adds a game factory, returning an error if the ID is taken.
func TryRegister(id string, f Factory) error {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		return fmt.Errorf("registry: game %q already registered", id)
	}

	factories[id] = f
	titles[id] = f().Title()
	return nil
}

// List returns all registered games sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{ID: id, Title: titles[id]})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates a new game by its ID.
func Create(id string) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(), nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
