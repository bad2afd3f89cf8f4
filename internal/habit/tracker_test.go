package habit

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/models"
	"github.com/julianstephens/habitflow/internal/storage"
	"github.com/julianstephens/habitflow/internal/validation"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation(constants.DateFormat, s, time.UTC)
	if err != nil {
		t.Fatalf("bad test day %q: %v", s, err)
	}
	return d
}

func newTracker(t *testing.T) (*Tracker, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	tr := New(store)
	if err := tr.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return tr, store
}

// failingStore accepts reads and fails every write once armed.
type failingStore struct {
	*storage.MemoryStore
	fail bool
}

func (s *failingStore) Set(key string, value []byte) error {
	if s.fail {
		return errors.New("disk full")
	}
	return s.MemoryStore.Set(key, value)
}

func TestReadScenario(t *testing.T) {
	tr, _ := newTracker(t)

	h, err := tr.Add("Read", "Learning")
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if h.Points != 0 || h.Streak != 0 || len(h.History) != 0 || h.LastCompleted != nil || h.Archived {
		t.Fatalf("new habit = %+v", h)
	}

	steps := []struct {
		day     string
		points  int
		streak  int
		history []string
	}{
		{"2024-01-01", 10, 1, []string{"2024-01-01"}},
		{"2024-01-01", 10, 1, []string{"2024-01-01"}},
		{"2024-01-02", 20, 2, []string{"2024-01-01", "2024-01-02"}},
		{"2024-01-05", 30, 1, []string{"2024-01-01", "2024-01-02", "2024-01-05"}},
	}

	for _, step := range steps {
		got, found, err := tr.Complete(h.ID, day(t, step.day))
		if err != nil || !found {
			t.Fatalf("Complete(%s) = found %v, err %v", step.day, found, err)
		}
		if got.Points != step.points || got.Streak != step.streak || !slices.Equal(got.History, step.history) {
			t.Errorf("after %s: points=%d streak=%d history=%v; want %d %d %v",
				step.day, got.Points, got.Streak, got.History, step.points, step.streak, step.history)
		}
		if *got.LastCompleted != step.day {
			t.Errorf("after %s: lastCompleted=%s", step.day, *got.LastCompleted)
		}
	}
}

func TestAddValidation(t *testing.T) {
	tr, _ := newTracker(t)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := tr.Add(name, "Health")
		var verr *validation.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("Add(%q) error = %v, want ValidationError", name, err)
		}
	}
	if len(tr.Habits()) != 0 {
		t.Error("rejected habits were added")
	}
}

func TestAddTrimsAndDefaultsCategory(t *testing.T) {
	tr, _ := newTracker(t)

	h, err := tr.Add("  Meditate  ", "  ")
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if h.Name != "Meditate" || h.Category != constants.DefaultCategory {
		t.Errorf("Add() = %q/%q", h.Name, h.Category)
	}

	custom, _ := tr.Add("Stretch", "Mobility")
	if custom.Category != "Mobility" {
		t.Errorf("custom category = %q", custom.Category)
	}
}

func TestIDsAreUniqueAndNeverReused(t *testing.T) {
	tr, _ := newTracker(t)

	seen := map[string]bool{}
	for i := range 20 {
		h, err := tr.Add(fmt.Sprintf("habit %d", i), "Work")
		if err != nil {
			t.Fatalf("Add() failed: %v", err)
		}
		if seen[h.ID] {
			t.Fatalf("duplicate id %s", h.ID)
		}
		seen[h.ID] = true
		if i%2 == 0 {
			if err := tr.Remove(h.ID); err != nil {
				t.Fatalf("Remove() failed: %v", err)
			}
		}
	}

	again, _ := tr.Add("habit 0", "Work")
	if seen[again.ID] {
		t.Errorf("re-created habit reused id %s", again.ID)
	}
}

func TestInsertionOrder(t *testing.T) {
	tr, _ := newTracker(t)
	for _, name := range []string{"A", "B", "C"} {
		if _, err := tr.Add(name, "Other"); err != nil {
			t.Fatal(err)
		}
	}

	var names []string
	for _, h := range tr.Habits() {
		names = append(names, h.Name)
	}
	if !slices.Equal(names, []string{"A", "B", "C"}) {
		t.Errorf("order = %v", names)
	}
}

func TestMissingIDIsNoOp(t *testing.T) {
	tr, store := newTracker(t)
	h, _ := tr.Add("Run", "Health")
	if err := tr.Remove(h.ID); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	before, _, _ := store.Get(constants.KeyHabits)

	if err := tr.Remove(h.ID); err != nil {
		t.Errorf("Remove(removed) error = %v", err)
	}
	if err := tr.Archive(h.ID); err != nil {
		t.Errorf("Archive(removed) error = %v", err)
	}
	if err := tr.Restore(h.ID); err != nil {
		t.Errorf("Restore(removed) error = %v", err)
	}
	if _, found, err := tr.Complete(h.ID, day(t, "2024-01-01")); found || err != nil {
		t.Errorf("Complete(removed) = found %v, err %v", found, err)
	}

	after, _, _ := store.Get(constants.KeyHabits)
	if string(before) != string(after) {
		t.Errorf("no-op mutators changed the store: %s -> %s", before, after)
	}
}

func TestArchiveAndRestore(t *testing.T) {
	tr, _ := newTracker(t)
	run, _ := tr.Add("Run", "Health")
	read, _ := tr.Add("Read", "Learning")

	if err := tr.Archive(run.ID); err != nil {
		t.Fatalf("Archive() failed: %v", err)
	}
	if active := tr.Active(); len(active) != 1 || active[0].ID != read.ID {
		t.Errorf("Active() = %v", active)
	}
	if archived := tr.Archived(); len(archived) != 1 || archived[0].ID != run.ID {
		t.Errorf("Archived() = %v", archived)
	}
	if len(tr.Habits()) != 2 {
		t.Error("archived habit dropped from the collection")
	}

	got, found, err := tr.Complete(run.ID, day(t, "2024-03-01"))
	if err != nil || !found {
		t.Fatalf("Complete(archived) = %v, %v", found, err)
	}
	if got.Points != 0 || len(got.History) != 0 {
		t.Errorf("archived habit was completed: %+v", got)
	}

	if err := tr.Restore(run.ID); err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	if len(tr.Active()) != 2 {
		t.Error("Restore() did not reactivate the habit")
	}
	if got, _, _ := tr.Complete(run.ID, day(t, "2024-03-01")); got.Points != 10 {
		t.Errorf("restored habit points = %d, want 10", got.Points)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	tr, store := newTracker(t)
	h, _ := tr.Add("Read", "Learning")
	_, _, _ = tr.Complete(h.ID, day(t, "2024-01-01"))
	_, _, _ = tr.Complete(h.ID, day(t, "2024-01-02"))
	other, _ := tr.Add("Run", "Health")
	_ = tr.Archive(other.ID)

	reloaded := New(store)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	got, ok := reloaded.Get(h.ID)
	if !ok {
		t.Fatal("habit missing after reload")
	}
	if got.Points != 20 || got.Streak != 2 || *got.LastCompleted != "2024-01-02" {
		t.Errorf("reloaded habit = %+v", got)
	}
	if run, _ := reloaded.Get(other.ID); !run.Archived {
		t.Error("archived flag lost across reload")
	}
}

func TestLoadRejectsDuplicateHistoryDays(t *testing.T) {
	store := storage.NewMemoryStore()
	_ = store.Init()
	last := "2024-01-02"
	bad := []models.Habit{{
		ID: "h1", Name: "Read", Category: "Learning", Streak: 2, Points: 20,
		LastCompleted: &last, History: []string{"2024-01-02", "2024-01-02"},
	}}
	if err := storage.SetJSON(store, constants.KeyHabits, bad); err != nil {
		t.Fatal(err)
	}

	err := New(store).Load()
	if err == nil || !strings.Contains(err.Error(), "more than once") {
		t.Errorf("Load() error = %v, want duplicate-day error", err)
	}
}

func TestFailedWriteLeavesStateUnchanged(t *testing.T) {
	mem := storage.NewMemoryStore()
	_ = mem.Init()
	store := &failingStore{MemoryStore: mem}
	tr := New(store)
	_ = tr.Load()

	h, _ := tr.Add("Read", "Learning")
	store.fail = true

	if _, _, err := tr.Complete(h.ID, day(t, "2024-01-01")); err == nil {
		t.Fatal("Complete() should surface the write error")
	}
	if got, _ := tr.Get(h.ID); got.Points != 0 || got.LastCompleted != nil {
		t.Errorf("in-memory state changed after failed write: %+v", got)
	}
	if _, err := tr.Add("Run", "Health"); err == nil {
		t.Error("Add() should surface the write error")
	}
	if len(tr.Habits()) != 1 {
		t.Error("failed Add() changed the collection")
	}
}

func TestSubscribersSeeEveryMutation(t *testing.T) {
	tr, _ := newTracker(t)

	var sizes []int
	tr.Subscribe(func(habits []models.Habit) error {
		sizes = append(sizes, len(habits))
		return nil
	})

	h, _ := tr.Add("Read", "Learning")
	_, _ = tr.Add("Run", "Health")
	_, _, _ = tr.Complete(h.ID, day(t, "2024-01-01"))
	_, _, _ = tr.Complete(h.ID, day(t, "2024-01-01")) // same day, no write
	_ = tr.Remove(h.ID)

	if !slices.Equal(sizes, []int{1, 2, 2, 1}) {
		t.Errorf("subscriber saw %v", sizes)
	}
}

func TestSubscriberErrorKeepsSavedHabit(t *testing.T) {
	tr, _ := newTracker(t)
	tr.Subscribe(func([]models.Habit) error { return errors.New("ledger offline") })

	h, err := tr.Add("Read", "Learning")
	if !errors.Is(err, ErrSubscriber) || !strings.Contains(err.Error(), "ledger offline") {
		t.Errorf("Add() error = %v", err)
	}
	if h.ID == "" || h.Name != "Read" {
		t.Errorf("Add() returned %+v, want the saved habit", h)
	}
	if len(tr.Habits()) != 1 {
		t.Error("collection should still hold the saved habit")
	}

	done, found, err := tr.Complete(h.ID, day(t, "2024-01-01"))
	if !errors.Is(err, ErrSubscriber) || !found {
		t.Errorf("Complete() found=%v error=%v", found, err)
	}
	if done.Points != 10 || *done.LastCompleted != "2024-01-01" {
		t.Errorf("Complete() returned %+v, want the saved completion", done)
	}
}

func TestCompleteEarlierDayDoesNotScore(t *testing.T) {
	tr, store := newTracker(t)
	h, _ := tr.Add("Read", "Learning")

	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-01", "2023-12-31"} {
		if _, _, err := tr.Complete(h.ID, day(t, d)); err != nil {
			t.Fatalf("Complete(%s) failed: %v", d, err)
		}
	}

	got, _ := tr.Get(h.ID)
	if got.Points != 20 || got.Streak != 2 || *got.LastCompleted != "2024-01-02" {
		t.Errorf("habit = %+v", got)
	}
	if !slices.Equal(got.History, []string{"2024-01-01", "2024-01-02"}) {
		t.Errorf("history = %v", got.History)
	}

	reloaded := New(store)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if again, _ := reloaded.Get(h.ID); again.Points != 20 {
		t.Errorf("reloaded points = %d, want 20", again.Points)
	}
}

func TestReturnedHabitsAreCopies(t *testing.T) {
	tr, _ := newTracker(t)
	h, _ := tr.Add("Read", "Learning")
	got, _, _ := tr.Complete(h.ID, day(t, "2024-01-01"))

	got.History[0] = "1999-01-01"
	*got.LastCompleted = "1999-01-01"

	fresh, _ := tr.Get(h.ID)
	if fresh.History[0] != "2024-01-01" || *fresh.LastCompleted != "2024-01-01" {
		t.Errorf("caller mutation leaked into tracker: %+v", fresh)
	}
}

func TestResolve(t *testing.T) {
	tr, _ := newTracker(t)
	ids := []string{"aaa111", "aaa222", "bbb333"}
	next := 0
	tr.newID = func() string { id := ids[next]; next++; return id }

	_, _ = tr.Add("Read", "Learning")
	_, _ = tr.Add("Run", "Health")
	_, _ = tr.Add("Journal", "Wellness")

	tests := []struct {
		ref     string
		wantID  string
		wantErr error
	}{
		{"aaa222", "aaa222", nil},
		{"read", "aaa111", nil},
		{"bbb", "bbb333", nil},
		{"aaa", "", ErrAmbiguous},
		{"zzz", "", ErrNotFound},
		{"", "", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			h, err := tr.Resolve(tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Resolve(%q) error = %v, want %v", tt.ref, err, tt.wantErr)
				}
				return
			}
			if err != nil || h.ID != tt.wantID {
				t.Errorf("Resolve(%q) = %s, %v; want %s", tt.ref, h.ID, err, tt.wantID)
			}
		})
	}
}
