package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/habitflow/internal/storage"
	"github.com/julianstephens/habitflow/internal/storage/sqlite"
)

func TestInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "habitflow.db")
	ctx, out := newTestContext(t, sqlite.NewStore(path))

	run(t, ctx, &InitCmd{})
	if !strings.Contains(out.String(), "Initialized habitflow storage at: "+path) {
		t.Errorf("init output = %q", out.String())
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database not created: %v", err)
	}

	// The store is usable right away
	run(t, ctx, &AddCmd{Name: "Read"})
}

func TestInitCopiesFromSource(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "old.json")
	srcStore := storage.NewJSONStore(srcPath)
	if err := srcStore.Init(); err != nil {
		t.Fatalf("source Init() error = %v", err)
	}
	src, _ := newTestContext(t, srcStore)
	run(t, src, &AddCmd{Name: "Read", Category: "Learning"})
	run(t, src, &CompleteCmd{Habit: "Read"})
	srcStore.Close()

	dest, out := newTestContext(t, sqlite.NewStore(filepath.Join(dir, "new.db")))
	run(t, dest, &InitCmd{Source: srcPath})

	for _, want := range []string{"habits: copied", "unlockedAchievements: copied", "historyLog: copied", "Migration completed successfully!"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("init output missing %q:\n%s", want, out.String())
		}
	}

	habits := dest.Tracker.Habits()
	if len(habits) != 1 || habits[0].Name != "Read" || habits[0].Points != 10 {
		t.Fatalf("copied habits = %+v", habits)
	}
	unlocked, _ := dest.Ledger.Unlocked()
	if len(unlocked) != 1 || unlocked[0] != "first-habit" {
		t.Errorf("copied ledger = %v", unlocked)
	}
}

func TestInitForceResetsFileStore(t *testing.T) {
	ctx, out := setupTestContext(t)
	run(t, ctx, &AddCmd{Name: "Read"})

	out.Reset()
	run(t, ctx, &InitCmd{Force: true})
	if !strings.Contains(out.String(), "Deleted existing store at:") {
		t.Errorf("init --force output = %q", out.String())
	}

	if err := ctx.Load(); err != nil {
		t.Fatalf("Load() after reset error = %v", err)
	}
	if n := len(ctx.Tracker.Habits()); n != 0 {
		t.Errorf("expected empty store after reset, got %d habits", n)
	}
}

func TestInitForceRejectsSameSource(t *testing.T) {
	ctx, _ := setupTestContext(t)

	err := (&InitCmd{Force: true, Source: ctx.Store.GetConfigPath()}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "source and destination are the same") {
		t.Errorf("error = %v", err)
	}
}

func TestMigrateCmd(t *testing.T) {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitflow.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	ctx, out := newTestContext(t, store)

	run(t, ctx, &MigrateCmd{})
	if !strings.Contains(out.String(), "Database is up to date") {
		t.Errorf("migrate output = %q", out.String())
	}
}

func TestMigrateUnsupportedStore(t *testing.T) {
	ctx, _ := setupTestContext(t)

	if err := (&MigrateCmd{}).Run(ctx); err == nil {
		t.Error("expected error migrating a JSON store")
	}
}
