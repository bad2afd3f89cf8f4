package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/habitflow/internal/achievement"
	"github.com/julianstephens/habitflow/internal/activity"
	"github.com/julianstephens/habitflow/internal/backup"
	"github.com/julianstephens/habitflow/internal/habit"
	"github.com/julianstephens/habitflow/internal/logger"
	"github.com/julianstephens/habitflow/internal/models"
	"github.com/julianstephens/habitflow/internal/storage"
	"github.com/julianstephens/habitflow/internal/utils"
	"github.com/julianstephens/habitflow/internal/validation"
)

// Context is handed to every command's Run method.
type Context struct {
	Store    storage.Provider
	Tracker  *habit.Tracker
	Ledger   *achievement.Ledger
	Activity *activity.Log

	Timezone   string
	AutoBackup bool

	Out io.Writer
	In  io.Reader
	Now func() time.Time
}

// NewContext wires the tracker, achievement ledger and activity log to
// store. Newly unlocked achievements are announced on out. store may be nil
// for commands that never touch it.
func NewContext(store storage.Provider, timezone string, out io.Writer) *Context {
	if out == nil {
		out = os.Stdout
	}
	c := &Context{
		Store:    store,
		Tracker:  habit.New(store),
		Ledger:   achievement.NewLedger(store),
		Activity: activity.New(store),
		Timezone: timezone,
		Out:      out,
		In:       os.Stdin,
		Now:      time.Now,
	}
	c.Tracker.Subscribe(c.Ledger.Subscriber(func(a models.Achievement) {
		fmt.Fprintf(c.Out, "🏆 Achievement unlocked: %s %s - %s\n", a.Icon, a.Name, a.Description)
	}))
	return c
}

// Load opens the store and reads the habit collection.
func (c *Context) Load() error {
	if c.Store == nil {
		return errors.New("no store configured")
	}
	if err := c.Store.Load(); err != nil {
		if storage.IsNotInitialized(err) {
			return err
		}
		return fmt.Errorf("failed to load store: %w", err)
	}
	return c.Tracker.Load()
}

// Today returns midnight of the current day in the configured timezone.
func (c *Context) Today() (time.Time, error) {
	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return utils.StartOfDay(c.Now().In(loc)), nil
}

// Day parses a YYYY-MM-DD flag value in the configured timezone. An empty
// value or "today" means today.
func (c *Context) Day(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "today") {
		return c.Today()
	}
	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	d, err := utils.ParseDay(value, loc)
	if err != nil {
		return time.Time{}, &validation.ValidationError{Field: "date", Message: fmt.Sprintf("%q is not a YYYY-MM-DD date", value)}
	}
	return d, nil
}

// Printf writes to the command output.
func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if !c.AutoBackup || c.Store == nil {
		return
	}
	mgr, err := backup.NewManager(c.Store.GetConfigPath())
	if err != nil {
		logger.Debug("Automatic backup skipped", "store", c.Store.GetConfigPath(), "reason", err)
		return
	}
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// NeedsStore reports whether a kong command path (as returned by
// kong.Context.Command) has to open the configured store.
func NeedsStore(command string) bool {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return true
	}
	switch fields[0] {
	case "level", "secret":
		return false
	}
	return true
}

func statusLabel(h models.Habit) string {
	if h.Archived {
		return " [ARCHIVED]"
	}
	return ""
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
