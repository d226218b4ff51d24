// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typetastic/internal/events"
	"github.com/verte-zerg/typetastic/internal/model"
	"github.com/verte-zerg/typetastic/internal/profile"
	"github.com/verte-zerg/typetastic/internal/session"
	"github.com/verte-zerg/typetastic/internal/stats"
)

type screen int

const (
	screenPractice screen = iota
	screenSummary
	screenPrompt
)

const toastTTL = 3 * time.Second

type tickMsg struct {
	epoch uint64
	at    time.Time
}

type recordedMsg struct {
	result  model.Result
	profile model.Profile
	err     error
}

type profileCreatedMsg struct {
	name string
	err  error
}

type profileSwitchedMsg struct {
	name string
	err  error
}

type toastExpiredMsg struct {
	id int
}

// Options configures the practice UI.
type Options struct {
	// Overrides adjusts the stored settings of the active profile for this run.
	Overrides func(model.Settings) model.Settings
	Logger    *log.Logger
	Bus       *events.Bus
	Clock     func() time.Time
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	profiles  *profile.Store
	engine    *session.Engine
	overrides func(model.Settings) model.Settings
	logger    *log.Logger
	notices   *notifier

	keys   keyMap
	help   help.Model
	prompt textinput.Model

	screen     screen
	width      int
	height     int
	lastResult model.Result
	saved      bool
	recorded   model.Profile
	promptErr  string
	toasts     []toast
	nextToast  int
}

// NewModel constructs a typing TUI model for the active profile of profiles.
func NewModel(profiles *profile.Store, src session.TextSource, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Overrides == nil {
		opts.Overrides = func(s model.Settings) model.Settings { return s }
	}
	m := &Model{
		profiles:  profiles,
		overrides: opts.Overrides,
		logger:    opts.Logger,
		notices:   newNotifier(opts.Bus),
		keys:      defaultKeyMap(),
		help:      help.New(),
		prompt:    newNameInput(),
	}
	var engineOpts []session.Option
	if opts.Clock != nil {
		engineOpts = append(engineOpts, session.WithClock(opts.Clock))
	}
	m.engine = session.New(src, m.activeSettings(), engineOpts...)
	if _, ok := profiles.Current(); !ok {
		m.screen = screenPrompt
		m.prompt.Focus()
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.notices.listen()}
	if m.screen == screenPrompt {
		cmds = append(cmds, textinput.Blink)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		if m.engine.Tick(msg.epoch, msg.at) {
			return m, tickCmd(msg.epoch)
		}
		return m, nil
	case recordedMsg:
		return m, m.handleRecorded(msg)
	case profileCreatedMsg:
		return m, m.handleProfileCreated(msg)
	case profileSwitchedMsg:
		if msg.err != nil {
			return m, m.pushToast(errorStyle.Render(msg.err.Error()))
		}
		m.applyProfileSettings()
		return m, nil
	case noticeMsg:
		return m, tea.Batch(m.pushToast(toastStyle.Render(string(msg))), m.notices.listen())
	case toastExpiredMsg:
		m.dropToast(msg.id)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.screen {
		case screenPrompt:
			return m.updatePrompt(msg)
		case screenSummary:
			return m.updateSummary(msg)
		default:
			return m.updatePractice(msg)
		}
	}
	return m, nil
}

func (m *Model) updatePractice(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Restart):
		m.restart()
		return m, nil
	case key.Matches(msg, m.keys.NewProfile):
		return m, m.openPrompt()
	case key.Matches(msg, m.keys.Switch):
		return m, m.switchCmd()
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		if err := m.engine.Backspace(); err != nil {
			// Nothing to erase without practice text.
			_ = err
		}
		return m, nil
	case tea.KeySpace:
		return m, m.typeRunes([]rune{' '})
	case tea.KeyRunes:
		return m, m.typeRunes(msg.Runes)
	}
	return m, nil
}

func (m *Model) updateSummary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.PlayAgain):
		m.restart()
	case key.Matches(msg, m.keys.NewProfile):
		return m, m.openPrompt()
	case key.Matches(msg, m.keys.Switch):
		return m, m.switchCmd()
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m, createProfileCmd(m.profiles, m.prompt.Value())
	case tea.KeyEsc:
		m.closePrompt()
		return m, nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// typeRunes feeds runes to the engine. The first rune of a session schedules
// the WPM tick; the last one schedules the save.
func (m *Model) typeRunes(runes []rune) tea.Cmd {
	var cmds []tea.Cmd
	for _, r := range runes {
		before := m.engine.State()
		if err := m.engine.Type(r); err != nil {
			break
		}
		if before == session.Idle && m.engine.State() != session.Idle {
			cmds = append(cmds, tickCmd(m.engine.Epoch()))
		}
		if m.engine.State() == session.Finished {
			cmds = append(cmds, m.finish())
			break
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) finish() tea.Cmd {
	result, ok := m.engine.Result()
	if !ok {
		return nil
	}
	m.lastResult = result
	m.saved = false
	m.screen = screenSummary
	m.logger.Printf("session %s finished: wpm=%d accuracy=%.1f errors=%d score=%d",
		result.SessionID, result.WPM, result.Accuracy, result.Errors, result.Score)
	return recordCmd(m.profiles, result)
}

func (m *Model) handleRecorded(msg recordedMsg) tea.Cmd {
	if msg.err != nil {
		if errors.Is(msg.err, profile.ErrNoActiveProfile) {
			return m.pushToast(errorStyle.Render("Create a profile to keep your results (ctrl+n)"))
		}
		m.logger.Printf("failed to record session %s: %v", msg.result.SessionID, msg.err)
		return m.pushToast(errorStyle.Render("Could not save your result"))
	}
	if msg.result.SessionID == m.lastResult.SessionID {
		m.saved = true
		m.recorded = msg.profile
	}
	return nil
}

func (m *Model) handleProfileCreated(msg profileCreatedMsg) tea.Cmd {
	if msg.err != nil {
		switch {
		case errors.Is(msg.err, profile.ErrDuplicateName):
			m.promptErr = "That name is already taken."
		case errors.Is(msg.err, profile.ErrInvalidName):
			m.promptErr = "Please enter a name."
		default:
			m.logger.Printf("failed to create profile: %v", msg.err)
			m.promptErr = "Could not create the profile."
		}
		return nil
	}
	m.closePrompt()
	m.applyProfileSettings()
	return nil
}

func (m *Model) openPrompt() tea.Cmd {
	m.screen = screenPrompt
	m.promptErr = ""
	m.prompt.SetValue("")
	return m.prompt.Focus()
}

func (m *Model) closePrompt() {
	m.prompt.Blur()
	m.promptErr = ""
	m.screen = screenPractice
	if m.engine.State() == session.Finished {
		m.screen = screenSummary
	}
}

// applyProfileSettings loads the active profile's settings and starts over.
func (m *Model) applyProfileSettings() {
	if err := m.engine.SetSettings(m.activeSettings()); err != nil {
		m.logger.Printf("no practice text: %v", err)
	}
	m.screen = screenPractice
}

func (m *Model) activeSettings() model.Settings {
	settings := model.DefaultSettings()
	if p, ok := m.profiles.Current(); ok {
		settings = m.profiles.Settings(context.Background(), p.Username)
	}
	return m.overrides(settings)
}

func (m *Model) restart() {
	if err := m.engine.Reset(); err != nil {
		m.logger.Printf("no practice text: %v", err)
	}
	m.screen = screenPractice
}

func (m *Model) switchCmd() tea.Cmd {
	names := make([]string, 0, m.profiles.Len())
	for _, p := range m.profiles.Profiles() {
		names = append(names, p.Username)
	}
	if len(names) < 2 {
		return nil
	}
	next := names[0]
	if cur, ok := m.profiles.Current(); ok {
		for i, name := range names {
			if name == cur.Username {
				next = names[(i+1)%len(names)]
				break
			}
		}
	}
	return selectProfileCmd(m.profiles, next)
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.screen {
	case screenPrompt:
		content = m.renderPrompt()
	case screenSummary:
		content = m.renderSummary()
	default:
		content = m.renderPractice()
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 2
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	toastLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, m.renderToasts())
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + toastLine + "\n" + footerLine
}

func (m *Model) renderPractice() string {
	if err := m.engine.Err(); err != nil {
		return emptyTextGuidance(m.engine.Settings())
	}
	width := 0
	if m.width > 0 {
		width = max(1, int(float64(m.width)*0.70))
	}
	wrapped := renderText(m.engine.Target(), m.engine.Input(), width)
	if width == 0 {
		return wrapped
	}
	return lipgloss.NewStyle().Width(width).Render(wrapped)
}

func emptyTextGuidance(settings model.Settings) string {
	lines := []string{titleStyle.Render("Nothing to type yet")}
	if settings.TextSource == model.SourceCustom {
		lines = append(lines,
			"Your custom text is empty.",
			"Set it with: typetastic settings --text \"...\"",
			"or pick another source: typetastic settings --source quotes",
		)
	} else {
		lines = append(lines, "The selected text source produced no text. Press ctrl+r to try again.")
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderSummary() string {
	r := m.lastResult
	lines := []string{
		titleStyle.Render("Good job!"),
		"",
		fmt.Sprintf("WPM       %d", r.WPM),
		fmt.Sprintf("Accuracy  %.1f%%", r.Accuracy),
		fmt.Sprintf("Errors    %d", r.Errors),
		fmt.Sprintf("Score     %d", r.Score),
	}
	if m.saved {
		p := m.recorded
		h := stats.BuildHistory(p, stats.DefaultHistoryWindow)
		lines = append(lines,
			"",
			fmt.Sprintf("Best score %d · Streak %d", p.BestScore, p.Streak),
			fmt.Sprintf("Recent [%s]", stats.Sparkline(h.Scores())),
		)
	}
	lines = append(lines, "", footerStyle.Render("enter: play again"))
	return summaryStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderPrompt() string {
	lines := []string{titleStyle.Render("Create a profile"), "", m.prompt.View()}
	if m.promptErr != "" {
		lines = append(lines, errorStyle.Render(m.promptErr))
	}
	lines = append(lines, "", footerStyle.Render("enter: create  esc: cancel"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	metrics := m.engine.Metrics()
	segments := []string{}
	if p, ok := m.profiles.Current(); ok {
		segments = append(segments, p.Username)
	} else {
		segments = append(segments, "guest")
	}
	segments = append(segments,
		fmt.Sprintf("Score %d", m.engine.Score()),
		fmt.Sprintf("WPM %d", metrics.WPM),
		fmt.Sprintf("Accuracy %.1f%%", metrics.Accuracy),
		fmt.Sprintf("Errors %d", metrics.Errors),
		fmt.Sprintf("Progress %d%%", m.engine.Progress()),
	)
	footer := strings.Join(segments, " · ")
	if m.screen == screenPractice {
		footer += "  " + m.help.View(m.keys)
	}
	return footerStyle.Render(footer)
}

func tickCmd(epoch uint64) tea.Cmd {
	return tea.Tick(session.TickInterval, func(t time.Time) tea.Msg {
		return tickMsg{epoch: epoch, at: t}
	})
}

func recordCmd(profiles *profile.Store, result model.Result) tea.Cmd {
	return func() tea.Msg {
		p, err := profiles.RecordSession(context.Background(), result.Entry())
		return recordedMsg{result: result, profile: p, err: err}
	}
}

func createProfileCmd(profiles *profile.Store, name string) tea.Cmd {
	return func() tea.Msg {
		p, err := profiles.Create(context.Background(), name)
		return profileCreatedMsg{name: p.Username, err: err}
	}
}

func selectProfileCmd(profiles *profile.Store, name string) tea.Cmd {
	return func() tea.Msg {
		return profileSwitchedMsg{name: name, err: profiles.Select(context.Background(), name)}
	}
}

func newNameInput() textinput.Model {
	input := textinput.New()
	input.Prompt = "Name: "
	input.Placeholder = "your name"
	input.CharLimit = 32
	return input
}
