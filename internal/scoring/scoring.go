// Package scoring derives a session score from its final metrics.
package scoring

import "math"

// Score maps final metrics to a non-negative integer score.
// A session with zero WPM and zero accuracy always scores 0.
func Score(wpm int, accuracy float64, errors int) int {
	if wpm == 0 && accuracy == 0 {
		return 0
	}
	raw := math.Round(float64(wpm)*(accuracy/100) - float64(errors)*0.5)
	if raw < 0 {
		return 0
	}
	return int(raw)
}
