package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "habitflow.db"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetMissingKey(t *testing.T) {
	s := setupStore(t)

	v, found, err := s.Get("habits")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found || v != nil {
		t.Errorf("Get() = %q, %v; want nil, false", v, found)
	}
}

func TestSetOverwrites(t *testing.T) {
	s := setupStore(t)

	if err := s.Set("habits", []byte(`[]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set("habits", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	v, found, err := s.Get("habits")
	if err != nil || !found {
		t.Fatalf("Get() = %v, %v", found, err)
	}
	if string(v) != `[{"id":"a"}]` {
		t.Errorf("Get() = %s", v)
	}

	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 1 || keys[0] != "habits" {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitflow.db")

	s := NewStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if err := s.Set("unlockedAchievements", []byte(`["first-habit"]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	s.Close()

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	defer reopened.Close()

	v, found, err := reopened.Get("unlockedAchievements")
	if err != nil || !found || string(v) != `["first-habit"]` {
		t.Errorf("Get() = %s, %v, %v", v, found, err)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	s := setupStore(t)
	if err := s.Set("habits", []byte(`[]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Init(); err != nil {
		t.Fatalf("second Init() failed: %v", err)
	}
	if _, found, _ := s.Get("habits"); !found {
		t.Error("second Init() dropped existing data")
	}
}

func TestLoadUninitialized(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := s.Load(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Load() error = %v, want %v", err, ErrNotInitialized)
	}
}

func TestUseBeforeLoad(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "habitflow.db"))
	if _, _, err := s.Get("habits"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Get() error = %v, want %v", err, ErrNotLoaded)
	}
	if err := s.Set("habits", []byte(`[]`)); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Set() error = %v, want %v", err, ErrNotLoaded)
	}
}
