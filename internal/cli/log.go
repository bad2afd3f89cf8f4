package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitflow/internal/models"
)

type LogCmd struct {
	List    LogListCmd    `cmd:"" help:"Show created and removed habits, newest first." default:"1"`
	Clear   LogClearCmd   `cmd:"" help:"Drop an entry from the log."`
	Restore LogRestoreCmd `cmd:"" help:"Re-add a removed habit with fresh stats."`
}

type LogListCmd struct {
	Deleted bool `help:"Only show removed habits."`
}

func (c *LogListCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	var (
		entries []models.ActivityEntry
		err     error
	)
	if c.Deleted {
		entries, err = ctx.Activity.Deleted()
	} else {
		entries, err = ctx.Activity.Entries()
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		ctx.Printf("Activity log is empty.\n")
		return nil
	}
	for _, e := range entries {
		action := "created"
		if e.Deleted {
			action = "removed"
		}
		ctx.Printf("%s  %s  %-8s %s [%s]\n", shortID(e.ID), e.Date, action, e.Name, e.Category)
	}
	return nil
}

type LogClearCmd struct {
	Entry string `arg:"" help:"Entry id or unique id prefix."`
}

func (c *LogClearCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	e, err := resolveEntry(ctx, c.Entry, false)
	if err != nil {
		return err
	}
	if err := ctx.Activity.Clear(e.ID); err != nil {
		return err
	}
	ctx.Printf("Cleared log entry for %s\n", e.Name)
	return nil
}

type LogRestoreCmd struct {
	Entry string `arg:"" help:"Entry id or unique id prefix of a removed habit."`
}

func (c *LogRestoreCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	e, err := resolveEntry(ctx, c.Entry, true)
	if err != nil {
		return err
	}
	h, err := ctx.Activity.Restore(ctx.Tracker, e.ID)
	if err != nil {
		return err
	}
	ctx.Printf("Restored habit: %s [%s] (%s)\n", h.Name, h.Category, shortID(h.ID))
	return nil
}

// resolveEntry matches ref against entry ids, exactly or by unique prefix.
func resolveEntry(ctx *Context, ref string, deletedOnly bool) (models.ActivityEntry, error) {
	entries, err := ctx.Activity.Entries()
	if err != nil {
		return models.ActivityEntry{}, err
	}

	ref = strings.TrimSpace(ref)
	var matches []models.ActivityEntry
	for _, e := range entries {
		if e.ID == ref {
			matches = []models.ActivityEntry{e}
			break
		}
		if ref != "" && strings.HasPrefix(e.ID, ref) {
			matches = append(matches, e)
		}
	}

	switch len(matches) {
	case 0:
		return models.ActivityEntry{}, fmt.Errorf("no log entry matches %q", ref)
	case 1:
		if deletedOnly && !matches[0].Deleted {
			return models.ActivityEntry{}, fmt.Errorf("log entry %s records a created habit; only removed habits can be restored", shortID(matches[0].ID))
		}
		return matches[0], nil
	default:
		return models.ActivityEntry{}, fmt.Errorf("%q matches %d log entries", ref, len(matches))
	}
}
