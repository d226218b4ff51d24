package profile

import (
	"encoding/json"

	"github.com/samber/lo"

	"github.com/verte-zerg/typetastic/internal/model"
)

// record is the persisted shape of a profile. avgAccuracy is written for
// readers of the stored JSON but always recomputed on load.
type record struct {
	model.Profile
	AvgAccuracy float64 `json:"avgAccuracy"`
}

func encodeProfiles(profiles map[string]model.Profile) (string, error) {
	records := make(map[string]record, len(profiles))
	for name, p := range profiles {
		records[name] = record{Profile: p, AvgAccuracy: p.AvgAccuracy()}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeProfiles(raw string) (map[string]model.Profile, error) {
	var records map[string]record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, err
	}
	profiles := make(map[string]model.Profile, len(records))
	for name, rec := range records {
		if name == "" {
			continue
		}
		profiles[name] = normalizeProfile(name, rec.Profile)
	}
	return profiles, nil
}

// normalizeProfile fills defaults for fields older records may lack and keeps
// bests consistent with the history.
func normalizeProfile(name string, p model.Profile) model.Profile {
	p.Username = name
	if p.PerformanceHistory == nil {
		p.PerformanceHistory = []model.PerformanceEntry{}
	}
	if p.Streak < 0 {
		p.Streak = 0
	}
	if len(p.PerformanceHistory) > 0 {
		bestWPM := lo.MaxBy(p.PerformanceHistory, func(a, b model.PerformanceEntry) bool { return a.WPM > b.WPM })
		bestScore := lo.MaxBy(p.PerformanceHistory, func(a, b model.PerformanceEntry) bool { return a.Score > b.Score })
		p.BestWPM = max(p.BestWPM, bestWPM.WPM)
		p.BestScore = max(p.BestScore, bestScore.Score)
	}
	return p
}
