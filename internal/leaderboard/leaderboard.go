// Package leaderboard ranks profiles by their best score.
package leaderboard

import (
	"sort"

	"github.com/samber/lo"

	"github.com/verte-zerg/typetastic/internal/model"
)

// Row is one leaderboard line.
type Row struct {
	Rank        int
	Username    string
	BestScore   int
	BestWPM     int
	AvgAccuracy float64
	Streak      int
	Sessions    int
}

// Rank orders profiles by best score, highest first. Ties keep the order of
// the input, which callers pass sorted by username. Ranks start at 1.
func Rank(profiles []model.Profile) []Row {
	sorted := append([]model.Profile(nil), profiles...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BestScore > sorted[j].BestScore
	})
	return lo.Map(sorted, func(p model.Profile, i int) Row {
		return Row{
			Rank:        i + 1,
			Username:    p.Username,
			BestScore:   p.BestScore,
			BestWPM:     p.BestWPM,
			AvgAccuracy: p.AvgAccuracy(),
			Streak:      p.Streak,
			Sessions:    len(p.PerformanceHistory),
		}
	})
}
