package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/habitflow/internal/achievement"
	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/habit"
	"github.com/julianstephens/habitflow/internal/models"
	"github.com/julianstephens/habitflow/internal/validation"
)

type AddCmd struct {
	Name     string `arg:"" help:"Habit name."`
	Category string `help:"Category (Health, Work, Wellness, Learning, Other or any label)." default:"General"`
}

func (c *AddCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	h, addErr := ctx.Tracker.Add(c.Name, c.Category)
	if addErr != nil && !errors.Is(addErr, habit.ErrSubscriber) {
		return addErr
	}

	today, err := ctx.Today()
	if err != nil {
		return err
	}
	if err := ctx.Activity.RecordCreated(h, today); err != nil {
		return err
	}

	ctx.Printf("Added habit: %s [%s] (%s)\n", h.Name, h.Category, shortID(h.ID))
	if !slices.Contains(constants.Categories, h.Category) && h.Category != constants.DefaultCategory {
		ctx.Printf("  Note: %q is not one of the suggested categories (%s)\n", h.Category, strings.Join(constants.Categories, ", "))
	}
	return addErr
}

type ListCmd struct {
	Archived bool `help:"Show only archived habits." xor:"scope"`
	All      bool `help:"Show active and archived habits." xor:"scope"`
}

func (c *ListCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	var habits []models.Habit
	switch {
	case c.All:
		habits = ctx.Tracker.Habits()
	case c.Archived:
		habits = ctx.Tracker.Archived()
	default:
		habits = ctx.Tracker.Active()
	}

	if len(habits) == 0 {
		ctx.Printf("No habits found.\n")
		return nil
	}

	today, err := ctx.Today()
	if err != nil {
		return err
	}
	todayKey := today.Format(constants.DateFormat)

	for _, h := range habits {
		mark := "[ ]"
		if h.CompletedOn(todayKey) {
			mark = "[x]"
		}
		ctx.Printf("%s %s  %-24s %-10s streak %-3d %4d pts  lvl %d%s\n",
			mark, shortID(h.ID), h.Name, h.Category, h.Streak, h.Points, habit.Level(h.Points), statusLabel(h))
	}
	return nil
}

type CompleteCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
	Date  string `help:"Day to record in YYYY-MM-DD format (default: today)." default:""`
}

func (c *CompleteCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	h, err := ctx.Tracker.Resolve(c.Habit)
	if err != nil {
		return err
	}
	day, err := ctx.Day(c.Date)
	if err != nil {
		return err
	}
	dayKey := day.Format(constants.DateFormat)

	if h.Archived {
		ctx.Printf("Habit %q is archived; restore it before completing.\n", h.Name)
		return nil
	}
	if latest := habit.LatestDay(h); dayKey < latest {
		return &validation.ValidationError{
			Field:   "date",
			Message: fmt.Sprintf("%s is before the last completion of %q on %s", dayKey, h.Name, latest),
		}
	}
	if h.CompletedOn(dayKey) {
		ctx.Printf("Habit %q was already completed on %s.\n", h.Name, dayKey)
		return nil
	}

	updated, _, completeErr := ctx.Tracker.Complete(h.ID, day)
	if completeErr != nil && !errors.Is(completeErr, habit.ErrSubscriber) {
		return completeErr
	}

	ctx.Printf("Completed %q for %s: streak %d, +%d pts (%d total)\n",
		updated.Name, dayKey, updated.Streak, updated.Points-h.Points, updated.Points)
	if habit.Level(updated.Points) > habit.Level(h.Points) {
		ctx.Printf("⬆ Level up! %q is now level %d\n", updated.Name, habit.Level(updated.Points))
	}
	return completeErr
}

type ArchiveCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
}

func (c *ArchiveCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	h, err := ctx.Tracker.Resolve(c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Tracker.Archive(h.ID); err != nil {
		return err
	}
	ctx.Printf("Archived habit: %s\n", h.Name)
	return nil
}

type RestoreCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
}

func (c *RestoreCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	h, err := ctx.Tracker.Resolve(c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Tracker.Restore(h.ID); err != nil {
		return err
	}
	ctx.Printf("Restored habit: %s\n", h.Name)
	return nil
}

type RemoveCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
}

func (c *RemoveCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	h, err := ctx.Tracker.Resolve(c.Habit)
	if err != nil {
		return err
	}
	today, err := ctx.Today()
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	if err := ctx.Tracker.Remove(h.ID); err != nil {
		return err
	}
	if err := ctx.Activity.RecordDeleted(h, today); err != nil {
		return err
	}
	ctx.Printf("Removed habit: %s\n", h.Name)
	ctx.Printf("Use '%s log restore' to bring it back.\n", constants.AppName)
	return nil
}

type ShowCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
	Limit int    `help:"Number of history days to print (0 for all)." default:"14"`
}

func (c *ShowCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	h, err := ctx.Tracker.Resolve(c.Habit)
	if err != nil {
		return err
	}

	ctx.Printf("%s%s\n", h.Name, statusLabel(h))
	ctx.Printf("  ID:        %s\n", h.ID)
	ctx.Printf("  Category:  %s\n", h.Category)
	ctx.Printf("  Streak:    %d\n", h.Streak)
	ctx.Printf("  Points:    %d\n", h.Points)
	ctx.Printf("  Level:     %d (%d pts to next)\n", habit.Level(h.Points), habit.PointsToNextLevel(h.Points))
	last := "never"
	if h.LastCompleted != nil {
		last = *h.LastCompleted
	}
	ctx.Printf("  Last done: %s\n", last)
	if !h.CreatedAt.IsZero() {
		ctx.Printf("  Created:   %s\n", h.CreatedAt.Format(constants.DateFormat))
	}

	history := slices.Clone(h.History)
	slices.Sort(history)
	slices.Reverse(history)
	if c.Limit > 0 && len(history) > c.Limit {
		history = history[:c.Limit]
	}
	ctx.Printf("  History (%d days):\n", len(h.History))
	for _, d := range history {
		ctx.Printf("    %s\n", d)
	}
	return nil
}

type LevelCmd struct {
	Points int `arg:"" help:"Points total."`
}

func (c *LevelCmd) Run(ctx *Context) error {
	ctx.Printf("Level %d (%d pts to next)\n", habit.Level(c.Points), habit.PointsToNextLevel(c.Points))
	return nil
}

type AchievementsCmd struct{}

func (c *AchievementsCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	unlocked, err := ctx.Ledger.Unlocked()
	if err != nil {
		return err
	}

	ctx.Printf("Achievements (%d/%d unlocked):\n\n", len(unlocked), len(achievement.All()))
	for _, a := range achievement.All() {
		mark := "  "
		if slices.Contains(unlocked, a.ID) {
			mark = "✓ "
		}
		ctx.Printf("%s%s %-16s %s\n", mark, a.Icon, a.Name, a.Description)
	}
	return nil
}
