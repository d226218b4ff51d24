// Package stats contains history projections and plain-text reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/samber/lo"

	"github.com/verte-zerg/typetastic/internal/leaderboard"
	"github.com/verte-zerg/typetastic/internal/model"
)

const sparkChars = " .:-=+*#%@"

// DefaultHistoryWindow is how many recent sessions history views show.
const DefaultHistoryWindow = 10

// trendWindow smooths the WPM trend line.
const trendWindow = 3

// History is a projection of one profile's recent performance.
type History struct {
	Username    string
	Sessions    int
	Streak      int
	BestWPM     int
	BestScore   int
	AvgAccuracy float64
	Recent      []model.PerformanceEntry
}

// BuildHistory projects the last n entries of p. n <= 0 uses DefaultHistoryWindow.
func BuildHistory(p model.Profile, n int) History {
	if n <= 0 {
		n = DefaultHistoryWindow
	}
	return History{
		Username:    p.Username,
		Sessions:    len(p.PerformanceHistory),
		Streak:      p.Streak,
		BestWPM:     p.BestWPM,
		BestScore:   p.BestScore,
		AvgAccuracy: p.AvgAccuracy(),
		Recent:      p.Recent(n),
	}
}

// Scores returns the recent scores, oldest first.
func (h History) Scores() []float64 {
	return lo.Map(h.Recent, func(e model.PerformanceEntry, _ int) float64 { return float64(e.Score) })
}

// WPMs returns the recent WPM values, oldest first.
func (h History) WPMs() []float64 {
	return lo.Map(h.Recent, func(e model.PerformanceEntry, _ int) float64 { return float64(e.WPM) })
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := lo.Min(values)
	maxVal := lo.Max(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderHistory prints a profile summary, the recent sessions table and trends.
func RenderHistory(w io.Writer, h History) error {
	if _, err := fmt.Fprintf(w, "Profile: %s\n", h.Username); err != nil {
		return err
	}
	if h.Sessions == 0 {
		_, err := fmt.Fprintln(w, "No sessions yet.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d  Streak: %d\n", h.Sessions, h.Streak); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best WPM: %d  Best Score: %d  Avg Accuracy: %.1f%%\n", h.BestWPM, h.BestScore, h.AvgAccuracy); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	first := h.Sessions - len(h.Recent) + 1
	rows := lo.Map(h.Recent, func(e model.PerformanceEntry, i int) []string {
		return []string{
			fmt.Sprintf("%d", first+i),
			fmt.Sprintf("%d", e.WPM),
			fmt.Sprintf("%.1f%%", e.Accuracy),
			fmt.Sprintf("%d", e.Errors),
			fmt.Sprintf("%d", e.Score),
		}
	})
	if err := writeLines(w, formatTable(historyColumns, rows)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Score trend: [%s]\n", Sparkline(h.Scores())); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "WPM trend:   [%s]\n", Sparkline(MovingAverage(h.WPMs(), trendWindow)))
	return err
}

// RenderLeaderboard prints ranked rows as a plain table.
func RenderLeaderboard(w io.Writer, rows []leaderboard.Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No profiles yet.")
		return err
	}
	tableRows := lo.Map(rows, func(r leaderboard.Row, _ int) []string {
		return LeaderboardCells(r)
	})
	return writeLines(w, formatTable(leaderboardColumns, tableRows))
}

// LeaderboardCells formats a row the same way for plain and interactive views.
func LeaderboardCells(r leaderboard.Row) []string {
	return []string{
		fmt.Sprintf("%d", r.Rank),
		r.Username,
		fmt.Sprintf("%d", r.BestScore),
		fmt.Sprintf("%d", r.BestWPM),
		fmt.Sprintf("%.1f%%", r.AvgAccuracy),
		fmt.Sprintf("%d", r.Streak),
		fmt.Sprintf("%d", r.Sessions),
	}
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
