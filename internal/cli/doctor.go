package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habitflow/internal/achievement"
	"github.com/julianstephens/habitflow/internal/backup"
	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/keyring"
	"github.com/julianstephens/habitflow/internal/models"
	"github.com/julianstephens/habitflow/internal/storage"
	"github.com/julianstephens/habitflow/internal/storage/sqlite"
	"github.com/julianstephens/habitflow/internal/utils"
	"github.com/julianstephens/habitflow/internal/validation"
)

// errSkipped marks a warning-level check that does not apply to this store.
var errSkipped = errors.New("not applicable")

type DoctorCmd struct{}

type doctorCheck struct {
	name      string
	run       func(ctx *Context) error
	warnOnly  bool
	needStore bool
}

var doctorChecks = []doctorCheck{
	{name: "Habit data", run: checkHabitData, needStore: true},
	{name: "Achievement ledger", run: checkLedger, needStore: true},
	{name: "Activity log", run: checkActivityLog, needStore: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "OS keyring", run: checkKeyring, warnOnly: true},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.Printf("Running diagnostics...\n\n")

	hasError := false
	storeReachable := false

	if err := checkStoreReachable(ctx); err != nil {
		ctx.Printf("❌ Store reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.Printf("✓ Store reachable: OK (%s)\n", ctx.Store.GetConfigPath())
		storeReachable = true
	}

	for _, check := range doctorChecks {
		if check.needStore && !storeReachable {
			ctx.Printf("⊘ %s: SKIPPED (store not reachable)\n", check.name)
			continue
		}
		err := check.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", check.name)
		case errors.Is(err, errSkipped):
			ctx.Printf("⊘ %s: SKIPPED (%v)\n", check.name, err)
		case check.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", check.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", check.name)
			ctx.Printf("   Error: %v\n", indent(err.Error()))
			hasError = true
		}
	}

	ctx.Printf("\n")
	if hasError {
		ctx.Printf("Diagnostics completed with errors.\n")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Printf("All diagnostics passed!\n")
	return nil
}

func checkStoreReachable(ctx *Context) error {
	if ctx.Store == nil {
		return errors.New("no store configured")
	}
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	// For SQLite, also try a simple query
	if s, ok := ctx.Store.(*sqlite.Store); ok {
		if _, err := s.Keys(); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

// checkHabitData validates the stored collection directly so that problems
// are listed even when the tracker would refuse to load it.
func checkHabitData(ctx *Context) error {
	habits := []models.Habit{}
	if _, err := storage.GetJSON(ctx.Store, constants.KeyHabits, &habits); err != nil {
		return err
	}
	result := validation.ValidateHabits(habits)
	if result.HasConflicts() {
		return errors.New(strings.TrimSpace(result.FormatReport()))
	}
	return nil
}

func checkLedger(ctx *Context) error {
	unlocked, err := ctx.Ledger.Unlocked()
	if err != nil {
		return err
	}
	for _, id := range unlocked {
		if _, ok := achievement.Lookup(id); !ok {
			return fmt.Errorf("unknown achievement id %q", id)
		}
	}
	return nil
}

func checkActivityLog(ctx *Context) error {
	entries, err := ctx.Activity.Entries()
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.ID] {
			return fmt.Errorf("duplicate log entry id %s", e.ID)
		}
		seen[e.ID] = true
		if !utils.ValidateDay(e.Date) {
			return fmt.Errorf("log entry %s has invalid date %q", e.ID, e.Date)
		}
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	if ctx.Store == nil {
		return errSkipped
	}
	mgr, err := backup.NewManager(ctx.Store.GetConfigPath())
	if err != nil {
		return fmt.Errorf("%w: backups only cover file stores", errSkipped)
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkKeyring(ctx *Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkClockTimezone(ctx *Context) error {
	now, err := utils.NowInTimezone(ctx.Timezone)
	if err != nil {
		return err
	}

	// Check if time is in a reasonable range (after 2020 and before 2100)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format("2006-01-02 15:04:05 MST"))
	}
	return nil
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n   ")
}
