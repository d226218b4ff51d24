package session

import (
	"math"
	"strings"
	"time"
)

// CountErrors counts typed positions that do not match the target. Positions
// past the end of the target count as errors; untyped target runes do not.
func CountErrors(target, input []rune) int {
	errors := 0
	for i, r := range input {
		if i >= len(target) || r != target[i] {
			errors++
		}
	}
	return errors
}

// Accuracy returns the percentage of typed runes that matched, in [0, 100].
// An empty input has accuracy 0.
func Accuracy(typed, errors int) float64 {
	if typed <= 0 {
		return 0
	}
	return math.Max(0, float64(typed-errors)/float64(typed)*100)
}

// WordCount counts whitespace-delimited tokens.
func WordCount(input string) int {
	return len(strings.Fields(input))
}

// WPM converts a word count over an elapsed duration to rounded words per minute.
func WPM(words int, elapsed time.Duration) int {
	minutes := elapsed.Minutes()
	if minutes <= 0 {
		return 0
	}
	return int(math.Round(float64(words) / minutes))
}
