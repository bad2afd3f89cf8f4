package habit

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/logger"
	"github.com/julianstephens/habitflow/internal/models"
	"github.com/julianstephens/habitflow/internal/storage"
	"github.com/julianstephens/habitflow/internal/validation"
)

var (
	ErrNotFound  = errors.New("habit not found")
	ErrAmbiguous = errors.New("habit reference is ambiguous")
)

// Subscriber receives a snapshot of the collection after every persisted
// mutation.
type Subscriber func(habits []models.Habit) error

// Tracker owns the ordered habit collection. Every mutation rewrites the
// whole collection to the store before the in-memory copy is replaced, so
// a failed write leaves the tracker unchanged.
type Tracker struct {
	mu          sync.Mutex
	store       storage.Provider
	habits      []models.Habit
	subscribers []Subscriber

	newID func() string
	now   func() time.Time
}

func New(store storage.Provider) *Tracker {
	return &Tracker{
		store:  store,
		habits: []models.Habit{},
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

// Load replaces the in-memory collection with the stored one. A missing
// key is an empty collection; a collection that breaks an invariant is
// rejected.
func (t *Tracker) Load() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	habits := []models.Habit{}
	if _, err := storage.GetJSON(t.store, constants.KeyHabits, &habits); err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}
	for i := range habits {
		if habits[i].History == nil {
			habits[i].History = []string{}
		}
	}

	result := validation.ValidateHabits(habits)
	if err := result.Error(); err != nil {
		return err
	}

	t.habits = habits
	logger.Debug("Habits loaded", "count", len(habits))
	return nil
}

// Subscribe registers fn to run after each mutation.
func (t *Tracker) Subscribe(fn Subscriber) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribers = append(t.subscribers, fn)
}

// Add creates a habit with fresh stats. An empty category becomes
// constants.DefaultCategory.
func (t *Tracker) Add(name, category string) (models.Habit, error) {
	if err := validation.ValidateHabitName(name); err != nil {
		return models.Habit{}, err
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = constants.DefaultCategory
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	h := models.Habit{
		ID:        t.newID(),
		Name:      strings.TrimSpace(name),
		Category:  category,
		History:   []string{},
		CreatedAt: t.now().UTC(),
	}

	next := append(t.snapshot(), h)
	if err := t.commit(next); err != nil {
		if !errors.Is(err, ErrSubscriber) {
			return models.Habit{}, err
		}
		return h.Clone(), err
	}
	logger.Debug("Habit added", "id", h.ID, "name", h.Name, "category", h.Category)
	return h.Clone(), nil
}

// Remove deletes the habit with id. Unknown ids are ignored.
func (t *Tracker) Remove(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return nil
	}
	next := slices.Delete(t.snapshot(), i, i+1)
	if err := t.commit(next); err != nil {
		return err
	}
	logger.Debug("Habit removed", "id", id)
	return nil
}

// Archive hides the habit from the active view and from completion.
// Unknown ids are ignored.
func (t *Tracker) Archive(id string) error {
	return t.setArchived(id, true)
}

// Restore returns an archived habit to the active view. Unknown ids are
// ignored.
func (t *Tracker) Restore(id string) error {
	return t.setArchived(id, false)
}

func (t *Tracker) setArchived(id string, archived bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return nil
	}
	next := t.snapshot()
	next[i].Archived = archived
	if err := t.commit(next); err != nil {
		return err
	}
	logger.Debug("Habit archive flag set", "id", id, "archived", archived)
	return nil
}

// Complete applies a completion on today's calendar day. The bool reports
// whether id exists. Archived habits and days on or before the latest
// completion come back unchanged without a write.
func (t *Tracker) Complete(id string, today time.Time) (models.Habit, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return models.Habit{}, false, nil
	}
	current := t.habits[i]
	if current.Archived {
		return current.Clone(), true, nil
	}

	updated, scored := ApplyCompletion(current, today)
	if !scored {
		return current.Clone(), true, nil
	}

	next := t.snapshot()
	next[i] = updated
	if err := t.commit(next); err != nil {
		if !errors.Is(err, ErrSubscriber) {
			return models.Habit{}, true, err
		}
		return updated.Clone(), true, err
	}
	logger.Debug("Habit completed", "id", id, "day", *updated.LastCompleted, "streak", updated.Streak, "points", updated.Points)
	return updated.Clone(), true, nil
}

// Habits returns a copy of the whole collection in insertion order.
func (t *Tracker) Habits() []models.Habit {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

// Active returns the habits that are not archived.
func (t *Tracker) Active() []models.Habit {
	return t.filter(func(h models.Habit) bool { return !h.Archived })
}

// Archived returns the archived habits.
func (t *Tracker) Archived() []models.Habit {
	return t.filter(func(h models.Habit) bool { return h.Archived })
}

func (t *Tracker) filter(keep func(models.Habit) bool) []models.Habit {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := []models.Habit{}
	for _, h := range t.habits {
		if keep(h) {
			out = append(out, h.Clone())
		}
	}
	return out
}

// Get looks a habit up by exact id.
func (t *Tracker) Get(id string) (models.Habit, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return models.Habit{}, false
	}
	return t.habits[i].Clone(), true
}

// Resolve finds a habit by exact id, case-insensitive exact name, or unique
// id prefix, in that order.
func (t *Tracker) Resolve(ref string) (models.Habit, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Habit{}, ErrNotFound
	}
	if h, ok := t.Get(ref); ok {
		return h, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var byName, byPrefix []models.Habit
	for _, h := range t.habits {
		if strings.EqualFold(h.Name, ref) {
			byName = append(byName, h)
		}
		if strings.HasPrefix(h.ID, ref) {
			byPrefix = append(byPrefix, h)
		}
	}

	for _, matches := range [][]models.Habit{byName, byPrefix} {
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0].Clone(), nil
		default:
			return models.Habit{}, fmt.Errorf("%w: %q matches %d habits", ErrAmbiguous, ref, len(matches))
		}
	}
	return models.Habit{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
}

func (t *Tracker) indexOf(id string) int {
	return slices.IndexFunc(t.habits, func(h models.Habit) bool { return h.ID == id })
}

// snapshot deep-copies the collection. Callers hold t.mu.
func (t *Tracker) snapshot() []models.Habit {
	out := make([]models.Habit, len(t.habits))
	for i, h := range t.habits {
		out[i] = h.Clone()
	}
	return out
}

// ErrSubscriber marks a mutation that was saved but whose subscribers
// failed. Add and Complete still return the saved habit with it.
var ErrSubscriber = errors.New("habits saved, but a subscriber failed")

// commit persists next, swaps it in, and notifies subscribers. Callers
// hold t.mu.
func (t *Tracker) commit(next []models.Habit) error {
	if err := storage.SetJSON(t.store, constants.KeyHabits, next); err != nil {
		return fmt.Errorf("failed to save habits: %w", err)
	}
	t.habits = next

	var errs []error
	for _, fn := range t.subscribers {
		if err := fn(t.snapshot()); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrSubscriber, errors.Join(errs...))
	}
	return nil
}
