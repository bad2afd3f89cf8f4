// Package activity keeps the log of habits created and removed, newest
// first, and can bring a removed habit back.
package activity

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/logger"
	"github.com/julianstephens/habitflow/internal/models"
	"github.com/julianstephens/habitflow/internal/storage"
	"github.com/julianstephens/habitflow/internal/utils"
)

var (
	ErrEntryNotFound = errors.New("activity entry not found")
	ErrNotDeleted    = errors.New("only removed habits can be restored")
)

// Adder creates habits. *habit.Tracker satisfies it.
type Adder interface {
	Add(name, category string) (models.Habit, error)
}

type Log struct {
	mu    sync.Mutex
	store storage.Provider
	newID func() string
}

func New(store storage.Provider) *Log {
	return &Log{
		store: store,
		newID: uuid.NewString,
	}
}

// RecordCreated notes that h was added on day.
func (l *Log) RecordCreated(h models.Habit, day time.Time) error {
	return l.record(h, day, false)
}

// RecordDeleted notes that h was removed on day.
func (l *Log) RecordDeleted(h models.Habit, day time.Time) error {
	return l.record(h, day, true)
}

func (l *Log) record(h models.Habit, day time.Time, deleted bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.read()
	if err != nil {
		return err
	}
	entry := models.ActivityEntry{
		ID:       l.newID(),
		HabitID:  h.ID,
		Name:     h.Name,
		Category: h.Category,
		Date:     utils.FormatDay(day),
		Deleted:  deleted,
	}
	return l.write(append([]models.ActivityEntry{entry}, entries...))
}

// Entries returns the whole log, newest first.
func (l *Log) Entries() ([]models.ActivityEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read()
}

// Deleted returns only the removal entries, newest first.
func (l *Log) Deleted() ([]models.ActivityEntry, error) {
	entries, err := l.Entries()
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(entries, func(e models.ActivityEntry) bool { return !e.Deleted }), nil
}

// Clear drops an entry from the log without touching habits. Unknown ids
// are ignored.
func (l *Log) Clear(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.read()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(entries, func(e models.ActivityEntry) bool { return e.ID == id })
	if i < 0 {
		return nil
	}
	return l.write(slices.Delete(entries, i, i+1))
}

// Restore re-adds the habit behind a removal entry through habits and
// clears the entry. The habit comes back with a fresh id and fresh stats.
func (l *Log) Restore(habits Adder, id string) (models.Habit, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.read()
	if err != nil {
		return models.Habit{}, err
	}
	i := slices.IndexFunc(entries, func(e models.ActivityEntry) bool { return e.ID == id })
	if i < 0 {
		return models.Habit{}, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	entry := entries[i]
	if !entry.Deleted {
		return models.Habit{}, ErrNotDeleted
	}

	h, err := habits.Add(entry.Name, entry.Category)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to restore %q: %w", entry.Name, err)
	}
	if err := l.write(slices.Delete(entries, i, i+1)); err != nil {
		return h, err
	}
	logger.Debug("Habit restored from activity log", "entry", id, "habit", h.ID)
	return h, nil
}

func (l *Log) read() ([]models.ActivityEntry, error) {
	entries := []models.ActivityEntry{}
	if _, err := storage.GetJSON(l.store, constants.KeyHistoryLog, &entries); err != nil {
		return nil, fmt.Errorf("failed to load activity log: %w", err)
	}
	return entries, nil
}

func (l *Log) write(entries []models.ActivityEntry) error {
	if err := storage.SetJSON(l.store, constants.KeyHistoryLog, entries); err != nil {
		return fmt.Errorf("failed to save activity log: %w", err)
	}
	return nil
}
