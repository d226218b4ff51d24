package profile

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/verte-zerg/typetastic/internal/events"
	"github.com/verte-zerg/typetastic/internal/model"
	"github.com/verte-zerg/typetastic/internal/store"
)

// Settings returns the named profile's settings, or the defaults when none
// are stored or the stored value is unreadable.
func (s *Store) Settings(ctx context.Context, name string) model.Settings {
	raw, ok, err := s.backend.Get(ctx, store.SettingsKey(name))
	if err != nil {
		s.logger.Printf("failed to read settings for %s: %v", name, err)
		return s.defaults
	}
	if !ok {
		return s.defaults
	}
	settings := s.defaults
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		s.logger.Printf("stored settings for %s are corrupt, using defaults: %v", name, err)
		return s.defaults
	}
	return settings.Normalize()
}

// SaveSettings stores settings for an existing profile.
func (s *Store) SaveSettings(ctx context.Context, name string, settings model.Settings) error {
	if _, ok := s.Get(name); !ok {
		return ErrUnknownProfile
	}
	if !settings.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", settings.Difficulty)
	}
	if !settings.TextSource.Valid() {
		return fmt.Errorf("unknown text source %q", settings.TextSource)
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	if err := s.backend.Apply(ctx, store.Batch{Set: map[string]string{store.SettingsKey(name): string(data)}}); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.publish(ctx, events.Event{Name: events.SettingsSaved, Username: name, Payload: settings})
	return nil
}
