// Package profile keeps the durable per-user performance records, the active
// profile pointer and per-profile settings.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/verte-zerg/typetastic/internal/events"
	"github.com/verte-zerg/typetastic/internal/model"
	"github.com/verte-zerg/typetastic/internal/store"
)

var (
	// ErrInvalidName is returned for empty or whitespace-only names.
	ErrInvalidName = errors.New("profile name must not be empty")
	// ErrDuplicateName is returned when the name is already taken.
	ErrDuplicateName = errors.New("a profile with this name already exists")
	// ErrNoActiveProfile is returned when recording without a selected profile.
	ErrNoActiveProfile = errors.New("no active profile")
	// ErrUnknownProfile is returned for operations on a missing profile.
	ErrUnknownProfile = errors.New("profile does not exist")
	// ErrInvalidEntry is returned for entries outside their value ranges.
	ErrInvalidEntry = errors.New("invalid performance entry")
)

// Backend is the durable keyed storage behind a Store.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Apply(ctx context.Context, b store.Batch) error
}

// Store owns the profile collection. Every mutation builds a new profile value,
// persists it and only then swaps it in, so readers see either the old or the
// new record, never a mix.
type Store struct {
	mu       sync.RWMutex
	backend  Backend
	bus      *events.Bus
	logger   *log.Logger
	now      func() time.Time
	loc      *time.Location
	defaults model.Settings

	profiles map[string]model.Profile
	current  string
}

// Option configures a Store.
type Option func(*Store)

// WithBus publishes notifications to bus.
func WithBus(bus *events.Bus) Option {
	return func(s *Store) {
		s.bus = bus
	}
}

// WithLogger sets the logger for storage failures.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLocation sets the time zone that defines calendar days for streaks.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		s.loc = loc
	}
}

// WithDefaultSettings sets the settings returned for profiles without any.
func WithDefaultSettings(settings model.Settings) Option {
	return func(s *Store) {
		s.defaults = settings.Normalize()
	}
}

// Open loads the profile collection from backend. Unreadable or corrupt data
// is logged and replaced by an empty collection, so Open never fails.
func Open(ctx context.Context, backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:  backend,
		logger:   log.Default(),
		now:      time.Now,
		loc:      time.Local,
		defaults: model.DefaultSettings(),
		profiles: map[string]model.Profile{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	raw, ok, err := s.backend.Get(ctx, store.ProfilesKey)
	if err != nil {
		s.logger.Printf("failed to read profiles: %v", err)
		return
	}
	if ok {
		profiles, err := decodeProfiles(raw)
		if err != nil {
			s.logger.Printf("stored profiles are corrupt, starting empty: %v", err)
			return
		}
		s.profiles = profiles
	}

	stored, hasPointer, err := s.backend.Get(ctx, store.CurrentProfileKey)
	if err != nil {
		s.logger.Printf("failed to read current profile: %v", err)
		hasPointer = false
	}
	if _, exists := s.profiles[stored]; hasPointer && exists {
		s.current = stored
		return
	}
	names := s.sortedNamesLocked()
	batch := store.Batch{}
	if len(names) > 0 {
		s.current = names[0]
		batch.Set = map[string]string{store.CurrentProfileKey: s.current}
	} else if hasPointer {
		batch.Delete = []string{store.CurrentProfileKey}
	} else {
		return
	}
	if err := s.backend.Apply(ctx, batch); err != nil {
		s.logger.Printf("failed to save current profile: %v", err)
	}
}

// Create adds a profile with zeroed counters and makes it active.
func (s *Store) Create(ctx context.Context, name string) (model.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Profile{}, ErrInvalidName
	}

	s.mu.Lock()
	if _, exists := s.profiles[name]; exists {
		s.mu.Unlock()
		return model.Profile{}, ErrDuplicateName
	}
	p := model.NewProfile(name)
	next := s.withProfileLocked(p)
	if err := s.persistLocked(ctx, next, &name, nil); err != nil {
		s.mu.Unlock()
		return model.Profile{}, fmt.Errorf("failed to save profile: %w", err)
	}
	s.profiles = next
	s.current = name
	s.mu.Unlock()

	s.publish(ctx, events.Event{Name: events.ProfileCreated, Username: name})
	s.publish(ctx, events.Event{Name: events.ProfileSwitched, Username: name})
	return p.Clone(), nil
}

// Select makes name the active profile. Unknown names are ignored.
func (s *Store) Select(ctx context.Context, name string) error {
	s.mu.Lock()
	if _, exists := s.profiles[name]; !exists {
		s.mu.Unlock()
		return nil
	}
	if err := s.backend.Apply(ctx, store.Batch{Set: map[string]string{store.CurrentProfileKey: name}}); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to save current profile: %w", err)
	}
	s.current = name
	s.mu.Unlock()

	s.publish(ctx, events.Event{Name: events.ProfileSwitched, Username: name})
	return nil
}

// Delete removes a profile and its settings. When the active profile is
// deleted the first remaining profile by name becomes active, or none.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	if _, exists := s.profiles[name]; !exists {
		s.mu.Unlock()
		return nil
	}
	next := make(map[string]model.Profile, len(s.profiles))
	for k, v := range s.profiles {
		if k != name {
			next[k] = v
		}
	}
	current := s.current
	var pointer *string
	clearPointer := false
	if current == name {
		current = ""
		if names := sortedNames(next); len(names) > 0 {
			current = names[0]
			pointer = &current
		} else {
			clearPointer = true
		}
	}
	deletes := []string{store.SettingsKey(name)}
	if clearPointer {
		deletes = append(deletes, store.CurrentProfileKey)
	}
	if err := s.persistLocked(ctx, next, pointer, deletes); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	switched := current != s.current && current != ""
	s.profiles = next
	s.current = current
	s.mu.Unlock()

	s.publish(ctx, events.Event{Name: events.ProfileDeleted, Username: name})
	if switched {
		s.publish(ctx, events.Event{Name: events.ProfileSwitched, Username: current})
	}
	return nil
}

// RecordSession appends entry to the active profile's history and updates its
// bests and streak in one step.
func (s *Store) RecordSession(ctx context.Context, entry model.PerformanceEntry) (model.Profile, error) {
	if err := validateEntry(entry); err != nil {
		return model.Profile{}, err
	}

	s.mu.Lock()
	if s.current == "" {
		s.mu.Unlock()
		return model.Profile{}, ErrNoActiveProfile
	}
	now := s.now()
	p := s.profiles[s.current].Clone()
	p.PerformanceHistory = append(p.PerformanceHistory, entry)
	p.BestWPM = max(p.BestWPM, entry.WPM)
	p.BestScore = max(p.BestScore, entry.Score)
	streak, extended := nextStreak(p.Streak, p.LastPlayDate, now, s.loc)
	p.Streak = streak
	p.LastPlayDate = &now

	next := s.withProfileLocked(p)
	if err := s.persistLocked(ctx, next, nil, nil); err != nil {
		s.mu.Unlock()
		return model.Profile{}, fmt.Errorf("failed to save session: %w", err)
	}
	s.profiles = next
	s.mu.Unlock()

	s.publish(ctx, events.Event{Name: events.SessionCompleted, Username: p.Username, Payload: entry})
	if extended {
		s.publish(ctx, events.Event{Name: events.StreakExtended, Username: p.Username, Payload: p.Streak})
	}
	return p.Clone(), nil
}

// Current returns the active profile.
func (s *Store) Current() (model.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == "" {
		return model.Profile{}, false
	}
	return s.profiles[s.current].Clone(), true
}

// Get returns the named profile.
func (s *Store) Get(name string) (model.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[name]
	if !ok {
		return model.Profile{}, false
	}
	return p.Clone(), true
}

// Profiles returns every profile ordered by username.
func (s *Store) Profiles() []model.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Map(s.sortedNamesLocked(), func(name string, _ int) model.Profile {
		return s.profiles[name].Clone()
	})
}

// Len returns the number of profiles.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

func (s *Store) withProfileLocked(p model.Profile) map[string]model.Profile {
	next := make(map[string]model.Profile, len(s.profiles)+1)
	for k, v := range s.profiles {
		next[k] = v
	}
	next[p.Username] = p
	return next
}

func (s *Store) persistLocked(ctx context.Context, profiles map[string]model.Profile, current *string, deletes []string) error {
	raw, err := encodeProfiles(profiles)
	if err != nil {
		return err
	}
	batch := store.Batch{
		Set:    map[string]string{store.ProfilesKey: raw},
		Delete: deletes,
	}
	if current != nil {
		batch.Set[store.CurrentProfileKey] = *current
	}
	return s.backend.Apply(ctx, batch)
}

func (s *Store) sortedNamesLocked() []string {
	return sortedNames(s.profiles)
}

func (s *Store) publish(ctx context.Context, e events.Event) {
	s.bus.Publish(ctx, e)
}

func sortedNames(profiles map[string]model.Profile) []string {
	names := lo.Keys(profiles)
	sort.Strings(names)
	return names
}

func validateEntry(e model.PerformanceEntry) error {
	if e.WPM < 0 || e.Errors < 0 || e.Score < 0 || e.Accuracy < 0 || e.Accuracy > 100 {
		return fmt.Errorf("%w: %+v", ErrInvalidEntry, e)
	}
	return nil
}
