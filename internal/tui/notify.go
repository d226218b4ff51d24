package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"github.com/verte-zerg/typetastic/internal/events"
	"github.com/verte-zerg/typetastic/internal/model"
)

const (
	noticeBuffer = 16
	maxToasts    = 3
)

var errNoticeQueueFull = errors.New("notification queue is full")

type noticeMsg string

type toast struct {
	id   int
	text string
}

// notifier turns bus events into Bubble Tea messages. Bus handlers run on
// whichever goroutine publishes, so they only enqueue.
type notifier struct {
	ch chan string
}

func newNotifier(bus *events.Bus) *notifier {
	n := &notifier{ch: make(chan string, noticeBuffer)}
	if bus != nil {
		bus.Subscribe(n.handle,
			events.ProfileCreated,
			events.ProfileSwitched,
			events.ProfileDeleted,
			events.SessionCompleted,
			events.StreakExtended,
			events.SettingsSaved,
		)
	}
	return n
}

func (n *notifier) handle(_ context.Context, e events.Event) error {
	text := describeEvent(e)
	if text == "" {
		return nil
	}
	select {
	case n.ch <- text:
		return nil
	default:
		return errNoticeQueueFull
	}
}

func (n *notifier) listen() tea.Cmd {
	return func() tea.Msg {
		return noticeMsg(<-n.ch)
	}
}

func describeEvent(e events.Event) string {
	switch e.Name {
	case events.ProfileCreated:
		return fmt.Sprintf("Profile %s created", e.Username)
	case events.ProfileSwitched:
		return fmt.Sprintf("Switched to %s", e.Username)
	case events.ProfileDeleted:
		return fmt.Sprintf("Profile %s deleted", e.Username)
	case events.SessionCompleted:
		if entry, ok := e.Payload.(model.PerformanceEntry); ok {
			return fmt.Sprintf("Saved: %d WPM, %.1f%% accuracy", entry.WPM, entry.Accuracy)
		}
		return "Session saved"
	case events.StreakExtended:
		if days, ok := e.Payload.(int); ok {
			return fmt.Sprintf("Streak extended: %d days in a row!", days)
		}
		return "Streak extended!"
	case events.SettingsSaved:
		return "Settings saved"
	}
	return ""
}

func (m *Model) pushToast(text string) tea.Cmd {
	m.nextToast++
	id := m.nextToast
	m.toasts = append(m.toasts, toast{id: id, text: text})
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
	return tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (m *Model) dropToast(id int) {
	m.toasts = lo.Filter(m.toasts, func(t toast, _ int) bool { return t.id != id })
}

func (m *Model) renderToasts() string {
	return strings.Join(lo.Map(m.toasts, func(t toast, _ int) string { return t.text }), "  ")
}
