package achievement

import (
	"fmt"
	"slices"
	"testing"

	"github.com/julianstephens/habitflow/internal/models"
	"github.com/julianstephens/habitflow/internal/storage"
)

func newLedger(t *testing.T) *Ledger {
	t.Helper()
	store := storage.NewMemoryStore()
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	return NewLedger(store)
}

func habitsWith(streaks ...int) []models.Habit {
	var hs []models.Habit
	for i, s := range streaks {
		hs = append(hs, models.Habit{ID: fmt.Sprint(i), Name: fmt.Sprint("h", i), Streak: s, Points: s * 10})
	}
	return hs
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		habits []models.Habit
		want   []string
	}{
		{"no habits", nil, []string{}},
		{"one habit", habitsWith(0), []string{"first-habit"}},
		{"streak two", habitsWith(2), []string{"first-habit"}},
		{"streak three", habitsWith(0, 3), []string{"first-habit", "streak-3"}},
		{"streak ten", habitsWith(10), []string{"first-habit", "streak-3", "streak-7", "points-100"}},
		{"five habits", habitsWith(0, 0, 0, 0, 0), []string{"first-habit", "habits-5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.habits); !slices.Equal(got, tt.want) {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCatalog(t *testing.T) {
	all := All()
	if len(all) < 2 || all[0].ID != "first-habit" || all[1].ID != "streak-3" {
		t.Fatalf("catalog = %v", all)
	}
	seen := map[string]bool{}
	for _, a := range all {
		if seen[a.ID] {
			t.Errorf("duplicate achievement id %s", a.ID)
		}
		seen[a.ID] = true
		if a.Name == "" || a.Description == "" || a.IsUnlocked == nil {
			t.Errorf("incomplete achievement %+v", a)
		}
	}
	if _, ok := Lookup("streak-3"); !ok {
		t.Error("Lookup(streak-3) failed")
	}
	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup(nope) should fail")
	}
}

func TestLedgerIsMonotonic(t *testing.T) {
	l := newLedger(t)

	fresh, err := l.Sync(habitsWith(3))
	if err != nil {
		t.Fatalf("Sync() failed: %v", err)
	}
	if !slices.Equal(fresh, []string{"first-habit", "streak-3"}) {
		t.Errorf("first Sync() = %v", fresh)
	}

	// Streak broken and habit removed: nothing is taken back.
	fresh, err = l.Sync(nil)
	if err != nil || len(fresh) != 0 {
		t.Errorf("Sync(nil) = %v, %v", fresh, err)
	}
	unlocked, err := l.Unlocked()
	if err != nil {
		t.Fatalf("Unlocked() failed: %v", err)
	}
	if !slices.Equal(unlocked, []string{"first-habit", "streak-3"}) {
		t.Errorf("Unlocked() = %v", unlocked)
	}

	fresh, _ = l.Sync(habitsWith(0, 0, 0, 0, 0))
	if !slices.Equal(fresh, []string{"habits-5"}) {
		t.Errorf("third Sync() = %v", fresh)
	}
	unlocked, _ = l.Unlocked()
	if !slices.Equal(unlocked, []string{"first-habit", "streak-3", "habits-5"}) {
		t.Errorf("Unlocked() = %v", unlocked)
	}
}

func TestLedgerEmpty(t *testing.T) {
	unlocked, err := newLedger(t).Unlocked()
	if err != nil || unlocked == nil || len(unlocked) != 0 {
		t.Errorf("Unlocked() = %#v, %v", unlocked, err)
	}
}

func TestSubscriberReportsUnlocks(t *testing.T) {
	l := newLedger(t)

	var names []string
	fn := l.Subscriber(func(a models.Achievement) { names = append(names, a.Name) })
	if err := fn(habitsWith(1)); err != nil {
		t.Fatal(err)
	}
	if err := fn(habitsWith(1)); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(names, []string{"First Habit"}) {
		t.Errorf("unlock callbacks = %v", names)
	}
}
