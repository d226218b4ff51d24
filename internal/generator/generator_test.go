package generator

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/verte-zerg/typetastic/internal/model"
)

func newTestGenerator(opts ...Option) *Generator {
	return New(append([]Option{WithRand(rand.New(rand.NewSource(42)))}, opts...)...)
}

func TestTextCustomIsTrimmed(t *testing.T) {
	g := newTestGenerator()
	got := g.Text(model.Settings{Difficulty: model.DifficultyEasy, TextSource: model.SourceCustom, CustomText: "  hello there \n"})
	if got != "hello there" {
		t.Fatalf("unexpected custom text: %q", got)
	}
}

func TestTextBlankCustomIsEmpty(t *testing.T) {
	g := newTestGenerator()
	got := g.Text(model.Settings{Difficulty: model.DifficultyHard, TextSource: model.SourceCustom, CustomText: " \t "})
	if got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestTextRandomWordCounts(t *testing.T) {
	g := newTestGenerator()
	for difficulty, want := range wordCounts {
		got := g.Text(model.Settings{Difficulty: difficulty, TextSource: model.SourceRandom})
		if n := len(strings.Split(got, " ")); n != want {
			t.Fatalf("%s: expected %d words, got %d", difficulty, want, n)
		}
	}
}

func TestTextRandomUsesCorpusWords(t *testing.T) {
	g := newTestGenerator()
	known := map[string]struct{}{}
	for _, w := range strings.Split(corpus[model.SourceRandom][model.DifficultyEasy], " ") {
		known[w] = struct{}{}
	}
	got := g.Text(model.Settings{Difficulty: model.DifficultyEasy, TextSource: model.SourceRandom})
	seen := map[string]struct{}{}
	for _, w := range strings.Split(got, " ") {
		if _, ok := known[w]; !ok {
			t.Fatalf("unexpected word %q", w)
		}
		if _, dup := seen[w]; dup {
			t.Fatalf("shuffle repeated word %q", w)
		}
		seen[w] = struct{}{}
	}
}

func TestTextQuoteIsOneSentence(t *testing.T) {
	g := newTestGenerator()
	source := corpus[model.SourceQuotes][model.DifficultyMedium]
	sentences := strings.Split(source, ". ")
	got := g.Text(model.Settings{Difficulty: model.DifficultyMedium, TextSource: model.SourceQuotes})
	found := false
	for _, s := range sentences {
		if s == got {
			found = true
		}
	}
	if !found {
		t.Fatalf("quote %q is not a corpus sentence", got)
	}
}

func TestTextPangramIsVerbatim(t *testing.T) {
	g := newTestGenerator()
	got := g.Text(model.Settings{Difficulty: model.DifficultyMedium, TextSource: model.SourcePangram})
	if got != corpus[model.SourcePangram][model.DifficultyMedium] {
		t.Fatalf("unexpected pangram: %q", got)
	}
}

func TestTextUnknownSettingsFallBackToDefaults(t *testing.T) {
	g := newTestGenerator()
	got := g.Text(model.Settings{Difficulty: "insane", TextSource: "poems"})
	if got == "" {
		t.Fatalf("expected text for normalized settings")
	}
}

func TestTextWordListEasyFiltersNonASCII(t *testing.T) {
	g := newTestGenerator(WithWords([]string{"Zebra", "naïve", "plain"}))
	got := g.Text(model.Settings{Difficulty: model.DifficultyEasy, TextSource: model.SourceRandom})
	for _, w := range strings.Split(got, " ") {
		if w != "plain" {
			t.Fatalf("expected only filtered words, got %q", w)
		}
	}
}

func TestTextWordListHardKeepsAllWords(t *testing.T) {
	g := newTestGenerator(WithWords([]string{"Zebra"}))
	got := g.Text(model.Settings{Difficulty: model.DifficultyHard, TextSource: model.SourceRandom})
	if n := len(strings.Split(got, " ")); n != wordCounts[model.DifficultyHard] {
		t.Fatalf("expected %d words, got %d", wordCounts[model.DifficultyHard], n)
	}
	if !strings.HasPrefix(got, "Zebra") {
		t.Fatalf("expected word list words, got %q", got)
	}
}
