// Package generator builds practice text for typing sessions.
package generator

import (
	"math/rand"
	"strings"
	"time"

	"github.com/verte-zerg/typetastic/internal/model"
	"github.com/verte-zerg/typetastic/internal/wordlist"
)

// Generator produces practice text from the built-in corpus or a word list.
type Generator struct {
	rnd   *rand.Rand
	words []string
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the random source, mainly for tests.
func WithRand(rnd *rand.Rand) Option {
	return func(g *Generator) {
		g.rnd = rnd
	}
}

// WithWords makes the random source draw from words instead of the corpus.
func WithWords(words []string) Option {
	return func(g *Generator) {
		g.words = words
	}
}

// New returns a Generator seeded with the current time.
func New(opts ...Option) *Generator {
	g := &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Text returns a practice string for the given settings. Custom text that is
// blank yields an empty string; callers decide how to report it.
func (g *Generator) Text(settings model.Settings) string {
	settings = settings.Normalize()
	if settings.TextSource == model.SourceCustom {
		return strings.TrimSpace(settings.CustomText)
	}

	source, ok := corpus[settings.TextSource][settings.Difficulty]
	if !ok {
		return fallbackText
	}
	switch settings.TextSource {
	case model.SourceRandom:
		return g.randomWords(source, settings.Difficulty)
	case model.SourceQuotes:
		sentences := strings.Split(source, ". ")
		return sentences[g.rnd.Intn(len(sentences))]
	case model.SourcePangram:
		return source
	}
	return fallbackText
}

func (g *Generator) randomWords(source string, difficulty model.Difficulty) string {
	count := wordCounts[difficulty]
	if len(g.words) > 0 {
		// Word lists are sampled with replacement.
		pool := g.wordListFor(difficulty)
		out := make([]string, 0, count)
		for i := 0; i < count; i++ {
			out = append(out, pool[g.rnd.Intn(len(pool))])
		}
		return strings.Join(out, " ")
	}
	shuffled := g.shuffle(strings.Split(source, " "))
	if count > len(shuffled) {
		count = len(shuffled)
	}
	return strings.Join(shuffled[:count], " ")
}

func (g *Generator) wordListFor(difficulty model.Difficulty) []string {
	filtered := wordlist.Filter(g.words, wordlist.ForDifficulty(difficulty))
	if len(filtered) == 0 {
		return g.words
	}
	return filtered
}

func (g *Generator) shuffle(words []string) []string {
	out := append([]string(nil), words...)
	for i := len(out) - 1; i > 0; i-- {
		j := g.rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
