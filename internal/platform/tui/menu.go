package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	menuTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	menuCursor     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	menuDim        = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// bestKeyer is implemented by games that keep their best score under a
// preference key.
type bestKeyer interface {
	BestKey() string
}

// MenuItem is a selectable board in the menu.
type MenuItem struct {
	GameID string
	Title  string
	Best   int
}

// MenuModel is the Bubble Tea model for the board picker.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	width          int
	height         int
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	quitting       bool
	selected       *MenuItem
	openScoreboard bool
}

// NewMenuModel lists every registered board with its best score.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games))
	for _, g := range games {
		items = append(items, MenuItem{
			GameID: g.ID,
			Title:  g.Title,
			Best:   bestScore(store, g.ID),
		})
	}

	return MenuModel{
		items:     items,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// bestScore reads the stored best for a board, or 0 when unknown.
func bestScore(store *storage.Store, gameID string) int {
	if store == nil {
		return 0
	}
	g, err := registry.Create(gameID)
	if err != nil {
		return 0
	}
	bk, ok := g.(bestKeyer)
	if !ok {
		return 0
	}
	best, err := store.BestScore(bk.BestKey())
	if err != nil {
		return 0
	}
	return best
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}
	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("  2 0 4 8  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Pick a board", m.width))
	b.WriteString("\n\n")

	titleW := 0
	for _, item := range m.items {
		titleW = max(titleW, lipgloss.Width(item.Title))
	}

	for i, item := range m.items {
		best := menuDim.Render("no best yet")
		if item.Best > 0 {
			best = "Best: " + humanize.Comma(int64(item.Best))
		}
		line := fmt.Sprintf("  %-*s  %s", titleW, item.Title, best)
		if i == m.cursor {
			line = menuCursor.Render(fmt.Sprintf("> %-*s", titleW, item.Title)) + "  " + best
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(menuDim.Render("Up/Down: Navigate  |  Enter: Play  |  Tab: Scores  |  Q: Quit"), m.width))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the selected item, or nil if none was selected.
func (m MenuModel) Selected() *MenuItem { return m.selected }

// IsQuitting reports whether the user asked to quit.
func (m MenuModel) IsQuitting() bool { return m.quitting }

// WantsScoreboard reports whether the user asked for the scoreboard.
func (m MenuModel) WantsScoreboard() bool { return m.openScoreboard }

// Config returns the runtime config, updated by resizes.
func (m MenuModel) Config() core.RuntimeConfig { return m.config }

// centerText centers text within width, measuring printable cells.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the outcome of a menu run.
type MenuResult struct {
	GameID          string
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// Result converts the final model state into a MenuResult.
func (m MenuModel) Result() MenuResult {
	res := MenuResult{Config: m.config}
	switch {
	case m.openScoreboard:
		res.WantsScoreboard = true
	case m.quitting || m.selected == nil:
		res.Quit = true
	default:
		res.GameID = m.selected.GameID
	}
	return res
}

// RunMenu shows the menu and returns the selection.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(NewMenuModel(store, cfg), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}
	m, ok := final.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}
	return m.Result(), nil
}
