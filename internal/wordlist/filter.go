package wordlist

import (
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/verte-zerg/typetastic/internal/model"
)

// easyMaxLen caps word length for the easy tier.
const easyMaxLen = 7

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// ForDifficulty returns the filter that keeps words suited to d. Easy keeps
// short lowercase ASCII words, medium keeps letter-only words and hard keeps
// everything.
func ForDifficulty(d model.Difficulty) FilterFunc {
	switch d {
	case model.DifficultyEasy:
		return isEasyWord
	case model.DifficultyMedium:
		return isLetterWord
	default:
		return func(string) bool { return true }
	}
}

// Filter returns the words accepted by keep.
func Filter(words []string, keep FilterFunc) []string {
	return lo.Filter(words, func(word string, _ int) bool {
		return keep(word)
	})
}

func isEasyWord(word string) bool {
	if word == "" || len(word) > easyMaxLen {
		return false
	}
	for i := 0; i < len(word); i++ {
		if ch := word[i]; ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}

func isLetterWord(word string) bool {
	if !utf8.ValidString(word) || word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
