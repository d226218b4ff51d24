// Package statsui provides the Bubble Tea leaderboard and history interface.
package statsui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/verte-zerg/typetastic/internal/leaderboard"
	"github.com/verte-zerg/typetastic/internal/model"
	"github.com/verte-zerg/typetastic/internal/stats"
)

const (
	tabLeaderboard = iota
	tabHistory
)

const playerColumnWidth = 16

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Source lists the profiles to rank.
type Source interface {
	Profiles() []model.Profile
	Current() (model.Profile, bool)
}

// Model implements the Bubble Tea leaderboard UI.
type Model struct {
	source Source

	profiles []model.Profile
	rows     []leaderboard.Row
	selected string

	tabs      []string
	activeTab int
	board     table.Model
	history   viewport.Model

	width  int
	height int
}

// NewModel constructs a leaderboard UI model. The active profile's history is
// shown until another player is picked.
func NewModel(source Source) *Model {
	m := &Model{
		source:  source,
		tabs:    []string{"Leaderboard", "History"},
		board:   buildBoardTable(nil, 80, 10),
		history: viewport.New(0, 0),
	}
	if p, ok := source.Current(); ok {
		m.selected = p.Username
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderHistory()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.refresh()
			return m, nil
		case "enter":
			if m.activeTab == tabLeaderboard {
				m.openSelected()
				return m, tea.ClearScreen
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabLeaderboard {
				m.board.GotoTop()
			} else {
				m.history.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabLeaderboard {
				m.board.GotoBottom()
			} else {
				m.history.GotoBottom()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabLeaderboard {
			m.board, cmd = m.board.Update(msg)
		} else {
			m.history, cmd = m.history.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderTabs(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderHelp(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// refresh reloads profiles and rebuilds the table, keeping the selection.
func (m *Model) refresh() {
	m.profiles = m.source.Profiles()
	m.rows = leaderboard.Rank(m.profiles)
	m.board.SetRows(boardRows(m.rows))
	m.renderHistory()
}

func (m *Model) openSelected() {
	idx := m.board.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return
	}
	m.selected = m.rows[idx].Username
	m.renderHistory()
	m.activeTab = tabHistory
	m.board.Blur()
}

func (m *Model) selectedProfile() (model.Profile, bool) {
	for _, p := range m.profiles {
		if p.Username == m.selected {
			return p, true
		}
	}
	return model.Profile{}, false
}

func (m *Model) renderHistory() {
	p, ok := m.selectedProfile()
	if !ok {
		m.history.SetContent("Pick a player on the leaderboard and press enter.")
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.history.SetContent(renderProfile(p, width))
}

func renderProfile(p model.Profile, width int) string {
	h := stats.BuildHistory(p, stats.DefaultHistoryWindow)
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", h.Sessions)),
		metricCard("Best Score", fmt.Sprintf("%d", h.BestScore)),
		metricCard("Best WPM", fmt.Sprintf("%d", h.BestWPM)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", h.AvgAccuracy)),
		metricCard("Streak", fmt.Sprintf("%d", h.Streak)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		summary = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}
	var buf bytes.Buffer
	if err := stats.RenderHistory(&buf, h); err != nil {
		return fmt.Sprintf("Failed to render history: %v", err)
	}
	return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = lipgloss.Height(activeNavStyle.Render("X"))
	if headerHeight < 1 {
		headerHeight = 1
	}
	footerHeight = 1
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.history.Width = m.width
	m.history.Height = bodyHeight
	m.board.SetWidth(m.width)
	m.board.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabLeaderboard {
		m.board.Focus()
	} else {
		m.board.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == tabHistory && m.selected != "" {
			tab = fmt.Sprintf("%s: %s", tab, m.selected)
		}
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderBody() string {
	if m.activeTab == tabHistory {
		return m.history.View()
	}
	if len(m.rows) == 0 {
		return "No profiles yet. Create one with: typetastic profile create <name>"
	}
	return tableMutedStyle.Render(m.board.View())
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Move: up/down  History: enter  Refresh: r  Quit: q"
	if m.activeTab == tabHistory {
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Refresh: r  Quit: q"
	}
	return headerStyle.Render(truncateLine(help, m.width))
}

func buildBoardTable(rows []leaderboard.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(boardColumns()),
		table.WithRows(boardRows(rows)),
		table.WithHeight(maxInt(1, height-1)),
		table.WithFocused(true),
	)
	t.SetWidth(width)
	t.SetStyles(boardTableStyles())
	return t
}

func boardColumns() []table.Column {
	return lo.Map(stats.LeaderboardColumns(), func(c stats.Column, _ int) table.Column {
		width := lipgloss.Width(c.Title)
		if c.Title == "Player" {
			width = playerColumnWidth
		}
		return table.Column{Title: c.Title, Width: width}
	})
}

func boardRows(rows []leaderboard.Row) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, table.Row(stats.LeaderboardCells(r)))
	}
	return out
}

func boardTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
