package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/storage"
	"github.com/julianstephens/habitflow/internal/storage/sqlite"
)

// migratedKeys are copied by init --source.
var migratedKeys = []string{
	constants.KeyHabits,
	constants.KeyUnlockedAchievements,
	constants.KeyHistoryLog,
}

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting an existing store file before initialization."`
	Source string `help:"Store to copy habits, achievements and the activity log from."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if ctx.Store == nil {
		return errors.New("no store configured")
	}

	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyFrom(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Printf("Migration completed successfully!\n")
	}
	return nil
}

// reset deletes a file-backed store. Other stores are left alone.
func (c *InitCmd) reset(ctx *Context) error {
	switch ctx.Store.(type) {
	case *storage.JSONStore, *sqlite.Store:
	default:
		return nil
	}

	path := ctx.Store.GetConfigPath()
	if c.Source != "" {
		absPath, err := filepath.Abs(path)
		if err == nil {
			path = absPath
		}
		absSource, err := filepath.Abs(c.Source)
		if err == nil && absSource == path {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", path)
		}
	}

	if _, err := os.Stat(path); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing store: %w", err)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to delete existing store: %w", err)
		}
		ctx.Printf("Deleted existing store at: %s\n", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing store: %w", err)
	}
	return nil
}

func (c *InitCmd) copyFrom(ctx *Context) error {
	source, err := storage.Open(c.Source, storage.Options{})
	if err != nil {
		return err
	}
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source store: %w", err)
	}
	defer source.Close()

	for _, key := range migratedKeys {
		value, found, err := source.Get(key)
		if err != nil {
			return fmt.Errorf("failed to read %s from source: %w", key, err)
		}
		if !found {
			ctx.Printf("  %s: nothing to copy\n", key)
			continue
		}
		if err := ctx.Store.Set(key, value); err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
		ctx.Printf("  %s: copied\n", key)
	}

	// The copied collection has to satisfy the same checks as a normal load
	return ctx.Tracker.Load()
}

// Migrator is implemented by stores with a versioned schema.
type Migrator interface {
	Migrate() (int, error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *Context) error {
	m, ok := ctx.Store.(Migrator)
	if !ok {
		return fmt.Errorf("migrate only applies to SQLite and PostgreSQL stores")
	}
	defer ctx.Store.Close()

	count, err := m.Migrate()
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.Printf("No migrations to apply. Database is up to date.\n")
	} else {
		ctx.Printf("Successfully applied %d migration(s).\n", count)
	}
	return nil
}
