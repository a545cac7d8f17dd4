package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

const (
	boardListMinWidth = 90 // narrower terminals get a single-line board switcher
	boardListWidth    = 22
	scoreRows         = 100
)

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	statsStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	panelStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(1, 3)
	activeBoardStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
)

type scoreKeys struct {
	Scroll key.Binding
	Next   key.Binding
	Prev   key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func (k scoreKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Scroll, k.Prev, k.Next, k.Back, k.Quit}
}

func (k scoreKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newScoreKeys() scoreKeys {
	return scoreKeys{
		Scroll: key.NewBinding(key.WithKeys("up", "down", "k", "j"), key.WithHelp("↑/↓", "scroll")),
		Next:   key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/tab", "next board")),
		Prev:   key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←", "prev board")),
		Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "menu")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel lists the recorded games of each board, best first.
type ScoreboardModel struct {
	boards    []registry.GameInfo
	current   int
	store     *storage.Store
	entries   []storage.ScoreEntry
	stats     *storage.GameStats
	played    map[string]int
	table     table.Model
	help      help.Model
	keys      scoreKeys
	width     int
	height    int
	quitting  bool
	goingBack bool
	now       func() time.Time
}

// NewScoreboardModel opens on the first registered board. store may be nil.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		boards: registry.List(),
		store:  store,
		keys:   newScoreKeys(),
		help:   help.New(),
		width:  width,
		height: height,
		now:    time.Now,
	}
	m.help.Width = width
	m.played = playedCounts(store)
	m.table = m.newTable()
	m.load()
	return m
}

func (m ScoreboardModel) wide() bool { return m.width >= boardListMinWidth }

func (m ScoreboardModel) newTable() table.Model {
	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Score", Width: 9},
		{Title: "Max tile", Width: 8},
		{Title: "Moves", Width: 6},
		{Title: "Played", Width: 14},
	}
	avail := m.width - 6
	if m.wide() {
		avail -= boardListWidth + 4
	}
	if extra := avail - 50; extra > 0 {
		cols[4].Width += min(extra, 8)
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("130"))

	return table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
		table.WithStyles(styles),
	)
}

// playedCounts returns the number of recorded games per board.
func playedCounts(store *storage.Store) map[string]int {
	counts := make(map[string]int)
	if store == nil {
		return counts
	}
	all, err := store.GetAllGamesStats()
	if err != nil {
		return counts
	}
	for id, st := range all {
		counts[id] = st.GamesCount
	}
	return counts
}

// load reads the history of the current board. Store errors leave the
// board empty.
func (m *ScoreboardModel) load() {
	m.entries, m.stats = nil, nil
	if m.store != nil && len(m.boards) > 0 {
		id := m.boards[m.current].ID
		if entries, err := m.store.TopScores(id, scoreRows); err == nil {
			m.entries = entries
		}
		if stats, err := m.store.GetGameStats(id); err == nil {
			m.stats = stats
		}
	}
	m.fillRows()
}

func (m *ScoreboardModel) fillRows() {
	now := m.now()
	rows := make([]table.Row, 0, len(m.entries))
	for i, e := range m.entries {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			humanize.Comma(int64(e.Score)),
			strconv.Itoa(e.MaxTile),
			strconv.Itoa(e.Moves),
			humanize.RelTime(e.CreatedAt, now, "ago", "from now"),
		})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *ScoreboardModel) step(delta int) {
	n := len(m.boards)
	if n == 0 {
		return
	}
	m.current = ((m.current+delta)%n + n) % n
	m.load()
}

// Init implements tea.Model.
func (m ScoreboardModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.step(1)
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.step(-1)
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = m.newTable()
		m.fillRows()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	title := "SCORES"
	if len(m.boards) > 0 {
		title = "SCORES  " + m.boards[m.current].Title
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(boardTitleStyle.Render(title), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(statsStyle.Render(m.statsLine()), m.width))
	b.WriteString("\n\n")

	body := panelStyle.Render(m.tableView())
	if m.wide() {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(m.boardList()), "  ", body))
	} else {
		b.WriteString(centerText(m.switcher(), m.width))
		b.WriteString("\n")
		b.WriteString(body)
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// statsLine summarizes every recorded game of the current board.
func (m ScoreboardModel) statsLine() string {
	if m.stats == nil || m.stats.GamesCount == 0 {
		return ""
	}
	return fmt.Sprintf("%s games  ·  average %s  ·  best tile %d",
		humanize.Comma(int64(m.stats.GamesCount)),
		humanize.Comma(int64(m.stats.AvgScore)),
		m.stats.MaxTile,
	)
}

func (m ScoreboardModel) boardList() string {
	lines := make([]string, 0, len(m.boards)+1)
	lines = append(lines, lipgloss.NewStyle().Width(boardListWidth-4).Render("Boards"))
	nameW := boardListWidth - 10
	for i, g := range m.boards {
		line := fmt.Sprintf("  %-*s", nameW, truncate(g.Title, nameW))
		if i == m.current {
			line = activeBoardStyle.Render(fmt.Sprintf("> %-*s", nameW, truncate(g.Title, nameW)))
		}
		if n := m.played[g.ID]; n > 0 {
			line += statsStyle.Render(fmt.Sprintf(" %3d", n))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m ScoreboardModel) switcher() string {
	if len(m.boards) == 0 {
		return ""
	}
	return fmt.Sprintf("← %s (%d/%d) →",
		activeBoardStyle.Render(m.boards[m.current].Title), m.current+1, len(m.boards))
}

func (m ScoreboardModel) tableView() string {
	if len(m.entries) == 0 {
		return emptyStyle.Render("No games recorded yet.\nFinish one to get on the board.")
	}
	return m.table.View()
}

// truncate shortens s to at most n runes, marking the cut with a dot.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n < 2 {
		return s
	}
	return string(r[:n-1]) + "."
}

// IsGoingBack reports whether the user asked for the menu.
func (m ScoreboardModel) IsGoingBack() bool { return m.goingBack }

// IsQuitting reports whether the user asked to quit.
func (m ScoreboardModel) IsQuitting() bool { return m.quitting }

// RunScoreboard shows the scoreboard and reports whether the user went back
// to the menu rather than quitting.
func RunScoreboard(store *storage.Store, width, height int) (bool, error) {
	final, err := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ScoreboardModel)
	return ok && m.IsGoingBack(), nil
}
