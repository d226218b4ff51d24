package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/samber/lo"
)

// Column describes one column of a plain table.
type Column struct {
	Title string
	Right bool
}

var (
	historyColumns = []Column{
		{Title: "#", Right: true},
		{Title: "WPM", Right: true},
		{Title: "Accuracy", Right: true},
		{Title: "Errors", Right: true},
		{Title: "Score", Right: true},
	}
	leaderboardColumns = []Column{
		{Title: "Rank", Right: true},
		{Title: "Player"},
		{Title: "Best Score", Right: true},
		{Title: "Best WPM", Right: true},
		{Title: "Avg Accuracy", Right: true},
		{Title: "Streak", Right: true},
		{Title: "Sessions", Right: true},
	}
)

// LeaderboardColumns returns the leaderboard column set shared by the plain
// and interactive views.
func LeaderboardColumns() []Column {
	return append([]Column(nil), leaderboardColumns...)
}

// formatTable lays rows out under cols, padding every cell to the widest
// value of its column. Cells beyond the last column are dropped.
func formatTable(cols []Column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}
	widths := lo.Map(cols, func(c Column, i int) int {
		width := displayWidth(c.Title)
		for _, row := range rows {
			width = max(width, displayWidth(cellAt(row, i)))
		}
		return width
	})

	titles := lo.Map(cols, func(c Column, _ int) string { return c.Title })
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, formatRow(cols, titles, widths))
	for _, row := range rows {
		lines = append(lines, formatRow(cols, row, widths))
	}
	return lines
}

func formatRow(cols []Column, row []string, widths []int) string {
	cells := lo.Map(cols, func(c Column, i int) string {
		return padCell(cellAt(row, i), widths[i], c.Right)
	})
	return strings.Join(cells, " ")
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := strings.Repeat(" ", width-valueWidth)
	if rightAlign {
		return padding + value
	}
	return value + padding
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
