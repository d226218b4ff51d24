// Package session implements the typing session engine: live comparison of
// typed input against a target text, metrics derivation and completion.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typetastic/internal/model"
	"github.com/verte-zerg/typetastic/internal/scoring"
)

var (
	// ErrEmptyPracticeText is returned when the text source produced no text.
	ErrEmptyPracticeText = errors.New("practice text is empty")
	// ErrFinished is returned when input arrives after the session completed.
	ErrFinished = errors.New("session is finished")
)

// State is the engine's lifecycle state.
type State int

// Engine states.
const (
	Idle State = iota
	Active
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// TickInterval is how often live WPM is recomputed while a session is active.
const TickInterval = time.Second

// TextSource supplies practice text for a configuration.
type TextSource interface {
	Text(settings model.Settings) string
}

// Engine tracks one typing session at a time. It is not safe for concurrent
// use; callers drive it from a single event loop.
type Engine struct {
	src      TextSource
	settings model.Settings
	now      func() time.Time
	newID    func() string

	id        string
	epoch     uint64
	state     State
	target    []rune
	input     []rune
	startedAt time.Time
	endedAt   time.Time
	metrics   model.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDFunc replaces the session id generator.
func WithIDFunc(newID func() string) Option {
	return func(e *Engine) {
		e.newID = newID
	}
}

// New creates an engine and loads its first target text. Check Err to see
// whether the text source produced usable text.
func New(src TextSource, settings model.Settings, opts ...Option) *Engine {
	e := &Engine{
		src:      src,
		settings: settings,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	_ = e.Reset()
	return e
}

// Reset discards the current session, cancels pending ticks and requests new
// text from the source.
func (e *Engine) Reset() error {
	e.epoch++
	e.id = e.newID()
	e.state = Idle
	e.input = nil
	e.startedAt = time.Time{}
	e.endedAt = time.Time{}
	e.metrics = model.Metrics{}
	e.target = []rune(e.src.Text(e.settings))
	return e.Err()
}

// SetSettings replaces the text configuration and resets the session.
func (e *Engine) SetSettings(settings model.Settings) error {
	e.settings = settings
	return e.Reset()
}

// Settings returns the active text configuration.
func (e *Engine) Settings() model.Settings {
	return e.settings
}

// Err reports ErrEmptyPracticeText when there is nothing to type.
func (e *Engine) Err() error {
	if len(e.target) == 0 {
		return ErrEmptyPracticeText
	}
	return nil
}

// SetInput replaces the whole input buffer, the way a text field reports changes.
func (e *Engine) SetInput(value string) error {
	if err := e.Err(); err != nil {
		return err
	}
	if e.state == Finished {
		return ErrFinished
	}
	runes := []rune(value)
	if e.state == Idle && len(runes) > 0 {
		e.state = Active
		e.startedAt = e.now()
	}
	e.input = runes
	e.metrics.Errors = CountErrors(e.target, e.input)
	e.metrics.Accuracy = Accuracy(len(e.input), e.metrics.Errors)

	if e.state == Active && len(e.input) >= len(e.target) {
		e.state = Finished
		e.endedAt = e.now()
	}
	return nil
}

// Type appends one rune to the input.
func (e *Engine) Type(r rune) error {
	next := make([]rune, 0, len(e.input)+1)
	next = append(next, e.input...)
	next = append(next, r)
	return e.SetInput(string(next))
}

// Backspace removes the last typed rune.
func (e *Engine) Backspace() error {
	if len(e.input) == 0 {
		return nil
	}
	return e.SetInput(string(e.input[:len(e.input)-1]))
}

// Tick recomputes live WPM. Ticks scheduled for an earlier epoch, or arriving
// outside the Active state, are ignored. The return value tells the caller
// whether another tick should be scheduled.
func (e *Engine) Tick(epoch uint64, now time.Time) bool {
	if epoch != e.epoch || e.state != Active {
		return false
	}
	e.metrics.WPM = WPM(WordCount(string(e.input)), now.Sub(e.startedAt))
	return true
}

// Epoch identifies the current session for tick scheduling.
func (e *Engine) Epoch() uint64 {
	return e.epoch
}

// ID is the unique id of the current session.
func (e *Engine) ID() string {
	return e.id
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Metrics returns the live metrics snapshot.
func (e *Engine) Metrics() model.Metrics {
	return e.metrics
}

// Score is the score the live metrics would earn.
func (e *Engine) Score() int {
	return scoring.Score(e.metrics.WPM, e.metrics.Accuracy, e.metrics.Errors)
}

// Result returns the final snapshot once the session has finished.
func (e *Engine) Result() (model.Result, bool) {
	if e.state != Finished {
		return model.Result{}, false
	}
	return model.Result{
		SessionID: e.id,
		StartedAt: e.startedAt,
		EndedAt:   e.endedAt,
		Metrics:   e.metrics,
		Score:     e.Score(),
	}, true
}

// Target returns a copy of the target text.
func (e *Engine) Target() []rune {
	return append([]rune(nil), e.target...)
}

// Input returns a copy of the typed text.
func (e *Engine) Input() []rune {
	return append([]rune(nil), e.input...)
}

// Progress is the typed share of the target, in percent.
func (e *Engine) Progress() int {
	if len(e.target) == 0 {
		return 0
	}
	p := int(float64(len(e.input)) / float64(len(e.target)) * 100)
	if p > 100 {
		return 100
	}
	return p
}
