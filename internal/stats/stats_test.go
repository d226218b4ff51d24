package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/typetastic/internal/leaderboard"
	"github.com/verte-zerg/typetastic/internal/model"
)

func profileWithScores(scores ...int) model.Profile {
	p := model.NewProfile("amy")
	for _, s := range scores {
		p.PerformanceHistory = append(p.PerformanceHistory, model.PerformanceEntry{WPM: s + 5, Accuracy: 90, Errors: 1, Score: s})
		p.BestScore = max(p.BestScore, s)
		p.BestWPM = max(p.BestWPM, s+5)
	}
	p.Streak = 2
	return p
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if same := MovingAverage([]float64{1, 2}, 1); same[0] != 1 || same[1] != 2 {
		t.Fatalf("window 1 must copy values, got %v", same)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
	got := Sparkline([]float64{0, 50, 100})
	if len(got) != 3 || got[0] != ' ' || got[2] != '@' {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if flat := Sparkline([]float64{5, 5, 5}); flat != "+++" {
		t.Fatalf("unexpected flat sparkline %q", flat)
	}
}

func TestBuildHistoryKeepsLastTen(t *testing.T) {
	scores := make([]int, 12)
	for i := range scores {
		scores[i] = i + 1
	}
	h := BuildHistory(profileWithScores(scores...), 0)
	if len(h.Recent) != DefaultHistoryWindow {
		t.Fatalf("expected %d entries, got %d", DefaultHistoryWindow, len(h.Recent))
	}
	if h.Recent[0].Score != 3 || h.Recent[9].Score != 12 {
		t.Fatalf("unexpected window: first=%d last=%d", h.Recent[0].Score, h.Recent[9].Score)
	}
	if h.Sessions != 12 || h.BestScore != 12 {
		t.Fatalf("unexpected summary: %+v", h)
	}
	if got := BuildHistory(profileWithScores(scores...), 3); len(got.Recent) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got.Recent))
	}
}

func TestRenderHistory(t *testing.T) {
	scores := make([]int, 12)
	for i := range scores {
		scores[i] = (i + 1) * 10
	}
	var buf bytes.Buffer
	if err := RenderHistory(&buf, BuildHistory(profileWithScores(scores...), 0)); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Profile: amy", "Sessions: 12", "Streak: 2", "Best Score: 120", "Avg Accuracy: 90.0%", "Score trend:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	lines := strings.Split(out, "\n")
	var tableRows []string
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 5 && strings.HasSuffix(fields[2], "%") {
			tableRows = append(tableRows, line)
		}
	}
	if len(tableRows) != 10 {
		t.Fatalf("expected 10 session rows, got %d:\n%s", len(tableRows), out)
	}
	if first := strings.Fields(tableRows[0]); first[0] != "3" || first[4] != "30" {
		t.Fatalf("unexpected first row %q", tableRows[0])
	}
}

func TestRenderHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHistory(&buf, BuildHistory(model.NewProfile("new"), 0)); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No sessions yet.") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestRenderLeaderboard(t *testing.T) {
	rows := []leaderboard.Row{
		{Rank: 1, Username: "bob", BestScore: 90, BestWPM: 95, AvgAccuracy: 97.24, Streak: 3, Sessions: 8},
		{Rank: 2, Username: "amy", BestScore: 30, BestWPM: 40, AvgAccuracy: 80, Streak: 1, Sessions: 2},
	}
	var buf bytes.Buffer
	if err := RenderLeaderboard(&buf, rows); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(lines))
	}
	if got := strings.Fields(lines[1]); got[1] != "bob" || got[2] != "90" || got[4] != "97.2%" {
		t.Fatalf("unexpected first row %q", lines[1])
	}
	buf.Reset()
	if err := RenderLeaderboard(&buf, nil); err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if !strings.Contains(buf.String(), "No profiles yet.") {
		t.Fatalf("unexpected empty output %q", buf.String())
	}
}
