package session

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/verte-zerg/typetastic/internal/model"
)

type fixedSource struct {
	texts []string
	calls int
}

func (s *fixedSource) Text(model.Settings) string {
	text := s.texts[s.calls%len(s.texts)]
	s.calls++
	return text
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

func newTestEngine(t *testing.T, texts ...string) (*Engine, *fakeClock, *fixedSource) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	src := &fixedSource{texts: texts}
	ids := 0
	e := New(src, model.DefaultSettings(),
		WithClock(clock.Now),
		WithIDFunc(func() string {
			ids++
			return fmt.Sprintf("session-%d", ids)
		}),
	)
	return e, clock, src
}

func TestCountErrorsIgnoresUntypedTarget(t *testing.T) {
	cases := []struct {
		target string
		input  string
		want   int
	}{
		{target: "cat", input: "", want: 0},
		{target: "cat", input: "c", want: 0},
		{target: "cat", input: "cx", want: 1},
		{target: "cat", input: "xyz", want: 3},
		{target: "cat", input: "cats", want: 1},
		{target: "héllo", input: "hé", want: 0},
	}
	for _, tc := range cases {
		if got := CountErrors([]rune(tc.target), []rune(tc.input)); got != tc.want {
			t.Fatalf("CountErrors(%q, %q) = %d, want %d", tc.target, tc.input, got, tc.want)
		}
	}
}

func TestAccuracyBounds(t *testing.T) {
	if got := Accuracy(0, 0); got != 0 {
		t.Fatalf("expected 0 accuracy for empty input, got %f", got)
	}
	for typed := 1; typed <= 20; typed++ {
		for errs := 0; errs <= typed; errs++ {
			got := Accuracy(typed, errs)
			if got < 0 || got > 100 {
				t.Fatalf("Accuracy(%d, %d) = %f out of range", typed, errs, got)
			}
			if errs < typed && got == 0 {
				t.Fatalf("Accuracy(%d, %d) = 0 for non-empty input with matches", typed, errs)
			}
		}
	}
}

func TestWordCountAndWPM(t *testing.T) {
	if got := WordCount("  the quick\tbrown  "); got != 3 {
		t.Fatalf("expected 3 words, got %d", got)
	}
	if got := WPM(10, 30*time.Second); got != 20 {
		t.Fatalf("expected 20 wpm, got %d", got)
	}
	if got := WPM(5, 0); got != 0 {
		t.Fatalf("expected 0 wpm for zero elapsed, got %d", got)
	}
}

func TestCatScenario(t *testing.T) {
	e, _, _ := newTestEngine(t, "cat")
	steps := []struct {
		input  string
		errors int
	}{
		{input: "c", errors: 0},
		{input: "ca", errors: 0},
		{input: "cax", errors: 1},
	}
	for _, step := range steps {
		if err := e.SetInput(step.input); err != nil {
			t.Fatalf("SetInput(%q): %v", step.input, err)
		}
		if got := e.Metrics().Errors; got != step.errors {
			t.Fatalf("after %q expected %d errors, got %d", step.input, step.errors, got)
		}
	}
	acc := e.Metrics().Accuracy
	if math.Abs(acc-200.0/3.0) > 1e-9 {
		t.Fatalf("expected accuracy 66.67, got %f", acc)
	}
	if got := fmt.Sprintf("%.1f", acc); got != "66.7" {
		t.Fatalf("expected displayed accuracy 66.7, got %s", got)
	}
	if e.State() != Finished {
		t.Fatalf("expected finished state, got %s", e.State())
	}
}

func TestIdleUntilFirstInput(t *testing.T) {
	e, clock, _ := newTestEngine(t, "hello world")
	if e.State() != Idle {
		t.Fatalf("expected idle, got %s", e.State())
	}
	if err := e.SetInput(""); err != nil {
		t.Fatalf("SetInput: %v", err)
	}
	if e.State() != Idle {
		t.Fatalf("empty input must not start the session")
	}
	if e.Tick(e.Epoch(), clock.Advance(time.Second)) {
		t.Fatalf("tick must not run while idle")
	}
	if err := e.Type('h'); err != nil {
		t.Fatalf("Type: %v", err)
	}
	if e.State() != Active {
		t.Fatalf("expected active, got %s", e.State())
	}
}

func TestTickRecomputesWPM(t *testing.T) {
	e, clock, _ := newTestEngine(t, "one two three four five six")
	if err := e.SetInput("one two "); err != nil {
		t.Fatalf("SetInput: %v", err)
	}
	if e.Metrics().WPM != 0 {
		t.Fatalf("wpm must only change on ticks")
	}
	if !e.Tick(e.Epoch(), clock.Advance(6*time.Second)) {
		t.Fatalf("expected tick to request rescheduling")
	}
	if got := e.Metrics().WPM; got != 20 {
		t.Fatalf("expected 20 wpm, got %d", got)
	}
}

func TestFinishFreezesMetrics(t *testing.T) {
	e, clock, _ := newTestEngine(t, "ab cd")
	if err := e.SetInput("ab c"); err != nil {
		t.Fatalf("SetInput: %v", err)
	}
	e.Tick(e.Epoch(), clock.Advance(3*time.Second))
	if err := e.SetInput("ab cd"); err != nil {
		t.Fatalf("SetInput: %v", err)
	}
	if e.State() != Finished {
		t.Fatalf("expected finished, got %s", e.State())
	}
	frozen := e.Metrics()
	if e.Tick(e.Epoch(), clock.Advance(time.Minute)) {
		t.Fatalf("tick after finish must not reschedule")
	}
	if err := e.SetInput("zz zz"); !errors.Is(err, ErrFinished) {
		t.Fatalf("expected ErrFinished, got %v", err)
	}
	if err := e.Backspace(); !errors.Is(err, ErrFinished) {
		t.Fatalf("expected ErrFinished on backspace, got %v", err)
	}
	if e.Metrics() != frozen {
		t.Fatalf("metrics changed after finish: %+v -> %+v", frozen, e.Metrics())
	}
	res, ok := e.Result()
	if !ok {
		t.Fatalf("expected result after finish")
	}
	if res.WPM != frozen.WPM || res.Errors != 0 || res.Accuracy != 100 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Score != frozen.WPM {
		t.Fatalf("expected score %d, got %d", frozen.WPM, res.Score)
	}
	if res.SessionID != "session-1" {
		t.Fatalf("unexpected session id %q", res.SessionID)
	}
	if res.EndedAt.Sub(res.StartedAt) != 3*time.Second {
		t.Fatalf("unexpected duration %v", res.EndedAt.Sub(res.StartedAt))
	}
}

func TestFastFinishKeepsZeroWPM(t *testing.T) {
	e, _, _ := newTestEngine(t, "hi")
	if err := e.SetInput("hi"); err != nil {
		t.Fatalf("SetInput: %v", err)
	}
	res, ok := e.Result()
	if !ok {
		t.Fatalf("expected result")
	}
	if res.WPM != 0 || res.Score != 0 {
		t.Fatalf("expected zero wpm and score, got %+v", res)
	}
}

func TestResetCancelsPendingTicks(t *testing.T) {
	e, clock, src := newTestEngine(t, "first text", "second text")
	if err := e.SetInput("first"); err != nil {
		t.Fatalf("SetInput: %v", err)
	}
	staleEpoch := e.Epoch()
	if err := e.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if src.calls != 2 {
		t.Fatalf("expected text to be requested again, calls=%d", src.calls)
	}
	if string(e.Target()) != "second text" {
		t.Fatalf("unexpected target %q", string(e.Target()))
	}
	if err := e.SetInput("second"); err != nil {
		t.Fatalf("SetInput: %v", err)
	}
	if e.Tick(staleEpoch, clock.Advance(2*time.Second)) {
		t.Fatalf("stale tick must be ignored")
	}
	if e.Metrics().WPM != 0 {
		t.Fatalf("stale tick mutated wpm")
	}
	if e.ID() != "session-2" {
		t.Fatalf("expected new session id, got %q", e.ID())
	}
	if len(e.Input()) != 6 {
		t.Fatalf("unexpected input %q", string(e.Input()))
	}
}

func TestEmptyTextNeverStarts(t *testing.T) {
	e, _, _ := newTestEngine(t, "")
	if !errors.Is(e.Err(), ErrEmptyPracticeText) {
		t.Fatalf("expected ErrEmptyPracticeText, got %v", e.Err())
	}
	if err := e.Type('a'); !errors.Is(err, ErrEmptyPracticeText) {
		t.Fatalf("expected ErrEmptyPracticeText on input, got %v", err)
	}
	if e.State() != Idle {
		t.Fatalf("expected idle, got %s", e.State())
	}
	if _, ok := e.Result(); ok {
		t.Fatalf("empty text must not complete")
	}
}

func TestBackspaceKeepsSessionActive(t *testing.T) {
	e, _, _ := newTestEngine(t, "abc")
	if err := e.SetInput("ax"); err != nil {
		t.Fatalf("SetInput: %v", err)
	}
	if err := e.Backspace(); err != nil {
		t.Fatalf("Backspace: %v", err)
	}
	if got := e.Metrics(); got.Errors != 0 || got.Accuracy != 100 {
		t.Fatalf("unexpected metrics after backspace: %+v", got)
	}
	if e.Progress() != 33 {
		t.Fatalf("expected 33%% progress, got %d", e.Progress())
	}
}
