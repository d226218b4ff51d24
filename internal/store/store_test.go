package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "typetastic.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestGetMissingKey(t *testing.T) {
	st := openTestStore(t)
	value, ok, err := st.Get(context.Background(), ProfilesKey)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok || value != "" {
		t.Fatalf("expected missing key, got %q", value)
	}
}

func TestSetOverwritesValue(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.Set(ctx, CurrentProfileKey, "alice"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Set(ctx, CurrentProfileKey, "bob"); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, ok, err := st.Get(ctx, CurrentProfileKey)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if value != "bob" {
		t.Fatalf("expected bob, got %q", value)
	}
}

func TestApplyBatch(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.Set(ctx, SettingsKey("alice"), `{"difficulty":"hard"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	err := st.Apply(ctx, Batch{
		Set: map[string]string{
			ProfilesKey:       `{}`,
			CurrentProfileKey: "carol",
		},
		Delete: []string{SettingsKey("alice")},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, ok, _ := st.Get(ctx, SettingsKey("alice")); ok {
		t.Fatalf("expected settings key to be deleted")
	}
	if value, _, _ := st.Get(ctx, CurrentProfileKey); value != "carol" {
		t.Fatalf("expected carol, got %q", value)
	}
	if value, _, _ := st.Get(ctx, ProfilesKey); value != "{}" {
		t.Fatalf("expected {}, got %q", value)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typetastic.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := st.Set(context.Background(), CurrentProfileKey, "alice"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = st.Close() }()
	if value, ok, _ := st.Get(context.Background(), CurrentProfileKey); !ok || value != "alice" {
		t.Fatalf("expected alice after reopen, got %q ok=%v", value, ok)
	}
}

func TestSettingsKey(t *testing.T) {
	if got := SettingsKey("alice"); got != "typetastic_settings_alice" {
		t.Fatalf("unexpected settings key %q", got)
	}
}
