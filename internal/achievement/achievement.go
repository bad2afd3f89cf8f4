// Package achievement evaluates badge predicates over the habit collection
// and keeps the persisted, append-only set of unlocked badge ids.
package achievement

import (
	"fmt"
	"slices"
	"sync"

	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/logger"
	"github.com/julianstephens/habitflow/internal/models"
	"github.com/julianstephens/habitflow/internal/storage"
)

var catalog = []models.Achievement{
	{
		ID:          "first-habit",
		Name:        "First Habit",
		Description: "Add your first habit!",
		Icon:        "🌱",
		IsUnlocked:  func(habits []models.Habit) bool { return len(habits) > 0 },
	},
	{
		ID:          "streak-3",
		Name:        "3-Day Streak",
		Description: "Complete any habit 3 days in a row.",
		Icon:        "🔥",
		IsUnlocked:  anyHabit(func(h models.Habit) bool { return h.Streak >= 3 }),
	},
	{
		ID:          "streak-7",
		Name:        "Week Warrior",
		Description: "Complete any habit 7 days in a row.",
		Icon:        "📅",
		IsUnlocked:  anyHabit(func(h models.Habit) bool { return h.Streak >= 7 }),
	},
	{
		ID:          "points-100",
		Name:        "Centurion",
		Description: "Earn 100 points on a single habit.",
		Icon:        "💯",
		IsUnlocked:  anyHabit(func(h models.Habit) bool { return h.Points >= 100 }),
	},
	{
		ID:          "habits-5",
		Name:        "Juggler",
		Description: "Track five habits at once.",
		Icon:        "🤹",
		IsUnlocked:  func(habits []models.Habit) bool { return len(habits) >= 5 },
	},
}

func anyHabit(pred func(models.Habit) bool) func([]models.Habit) bool {
	return func(habits []models.Habit) bool {
		return slices.ContainsFunc(habits, pred)
	}
}

// All returns the catalog in display order.
func All() []models.Achievement {
	return slices.Clone(catalog)
}

// Lookup finds a catalog entry by id.
func Lookup(id string) (models.Achievement, bool) {
	i := slices.IndexFunc(catalog, func(a models.Achievement) bool { return a.ID == id })
	if i < 0 {
		return models.Achievement{}, false
	}
	return catalog[i], true
}

// Evaluate returns the ids whose predicate holds for habits right now, in
// catalog order.
func Evaluate(habits []models.Habit) []string {
	ids := []string{}
	for _, a := range catalog {
		if a.IsUnlocked(habits) {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// Ledger is the persisted unlocked set. Ids are only ever appended.
type Ledger struct {
	mu    sync.Mutex
	store storage.Provider
}

func NewLedger(store storage.Provider) *Ledger {
	return &Ledger{store: store}
}

// Unlocked returns the ids unlocked so far, in unlock order.
func (l *Ledger) Unlocked() ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read()
}

func (l *Ledger) read() ([]string, error) {
	ids := []string{}
	if _, err := storage.GetJSON(l.store, constants.KeyUnlockedAchievements, &ids); err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}
	return ids, nil
}

// Sync records every achievement newly satisfied by habits and returns just
// those new ids. Previously unlocked ids stay even when their predicate no
// longer holds.
func (l *Ledger) Sync(habits []models.Habit) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	unlocked, err := l.read()
	if err != nil {
		return nil, err
	}

	var fresh []string
	for _, id := range Evaluate(habits) {
		if !slices.Contains(unlocked, id) {
			fresh = append(fresh, id)
		}
	}
	if len(fresh) == 0 {
		return nil, nil
	}

	if err := storage.SetJSON(l.store, constants.KeyUnlockedAchievements, append(unlocked, fresh...)); err != nil {
		return nil, fmt.Errorf("failed to save achievements: %w", err)
	}
	logger.Info("Achievements unlocked", "ids", fresh)
	return fresh, nil
}

// Subscriber adapts Sync to the tracker's subscriber signature. onUnlock,
// when non-nil, is called once per newly unlocked achievement.
func (l *Ledger) Subscriber(onUnlock func(models.Achievement)) func([]models.Habit) error {
	return func(habits []models.Habit) error {
		fresh, err := l.Sync(habits)
		if err != nil {
			return err
		}
		if onUnlock != nil {
			for _, id := range fresh {
				if a, ok := Lookup(id); ok {
					onUnlock(a)
				}
			}
		}
		return nil
	}
}
