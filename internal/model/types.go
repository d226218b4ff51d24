// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/samber/lo"
)

// Difficulty selects the length and complexity tier of practice text.
type Difficulty string

// Difficulty tiers.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known tier.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// TextSource selects the category of practice text.
type TextSource string

// Text source categories.
const (
	SourceRandom  TextSource = "random"
	SourceQuotes  TextSource = "quotes"
	SourcePangram TextSource = "pangram"
	SourceCustom  TextSource = "custom"
)

// Valid reports whether s is a known category.
func (s TextSource) Valid() bool {
	switch s {
	case SourceRandom, SourceQuotes, SourcePangram, SourceCustom:
		return true
	}
	return false
}

// DefaultCustomText is used when a profile has never set custom text.
const DefaultCustomText = "The quick brown fox jumps over the lazy dog."

// Settings holds per-profile practice settings.
type Settings struct {
	Difficulty Difficulty `json:"difficulty"`
	TextSource TextSource `json:"textSource"`
	CustomText string     `json:"customText"`
}

// DefaultSettings returns the settings a profile starts with.
func DefaultSettings() Settings {
	return Settings{
		Difficulty: DifficultyEasy,
		TextSource: SourceQuotes,
		CustomText: DefaultCustomText,
	}
}

// Normalize replaces unknown enum values with defaults.
func (s Settings) Normalize() Settings {
	def := DefaultSettings()
	if !s.Difficulty.Valid() {
		s.Difficulty = def.Difficulty
	}
	if !s.TextSource.Valid() {
		s.TextSource = def.TextSource
	}
	return s
}

// PerformanceEntry records one completed typing session.
type PerformanceEntry struct {
	WPM      int     `json:"wpm"`
	Accuracy float64 `json:"accuracy"`
	Errors   int     `json:"errors"`
	Score    int     `json:"score"`
}

// Profile is a user's durable performance record.
type Profile struct {
	Username           string             `json:"username"`
	PerformanceHistory []PerformanceEntry `json:"performanceHistory"`
	Streak             int                `json:"streak"`
	LastPlayDate       *time.Time         `json:"lastPlayDate"`
	BestWPM            int                `json:"bestWpm"`
	BestScore          int                `json:"bestScore"`
}

// NewProfile returns a profile with every counter zeroed.
func NewProfile(username string) Profile {
	return Profile{
		Username:           username,
		PerformanceHistory: []PerformanceEntry{},
	}
}

// AvgAccuracy is the mean accuracy over the whole history, 0 when empty.
func (p Profile) AvgAccuracy() float64 {
	if len(p.PerformanceHistory) == 0 {
		return 0
	}
	sum := lo.SumBy(p.PerformanceHistory, func(e PerformanceEntry) float64 { return e.Accuracy })
	return sum / float64(len(p.PerformanceHistory))
}

// Recent returns up to n of the most recent entries, oldest first.
func (p Profile) Recent(n int) []PerformanceEntry {
	if n <= 0 || len(p.PerformanceHistory) <= n {
		return append([]PerformanceEntry(nil), p.PerformanceHistory...)
	}
	return append([]PerformanceEntry(nil), p.PerformanceHistory[len(p.PerformanceHistory)-n:]...)
}

// Clone returns a deep copy.
func (p Profile) Clone() Profile {
	out := p
	out.PerformanceHistory = append(make([]PerformanceEntry, 0, len(p.PerformanceHistory)), p.PerformanceHistory...)
	if p.LastPlayDate != nil {
		t := *p.LastPlayDate
		out.LastPlayDate = &t
	}
	return out
}

// Metrics is a live or final snapshot of a typing session.
type Metrics struct {
	WPM      int
	Accuracy float64
	Errors   int
}

// Result is the final outcome of a finished session.
type Result struct {
	SessionID string
	StartedAt time.Time
	EndedAt   time.Time
	Metrics
	Score int
}

// Entry converts the result to a history entry.
func (r Result) Entry() PerformanceEntry {
	return PerformanceEntry{
		WPM:      r.WPM,
		Accuracy: r.Accuracy,
		Errors:   r.Errors,
		Score:    r.Score,
	}
}
