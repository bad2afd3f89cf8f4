package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/habitflow/internal/models"
	"github.com/julianstephens/habitflow/internal/utils"
)

// ValidationError reports user input the engine refuses to accept
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ValidateHabitName rejects names that are empty once trimmed.
func ValidateHabitName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: "habit name cannot be empty"}
	}
	return nil
}

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictEmptyName           ConflictType = "empty_name"
	ConflictEmptyCategory       ConflictType = "empty_category"
	ConflictDuplicateID         ConflictType = "duplicate_id"
	ConflictDuplicateHistoryDay ConflictType = "duplicate_history_day"
	ConflictInvalidDay          ConflictType = "invalid_day"
	ConflictNegativeCounter     ConflictType = "negative_counter"
	ConflictLastCompleted       ConflictType = "last_completed_mismatch"
)

// Conflict represents a detected invariant violation in the habit collection
type Conflict struct {
	Type        ConflictType
	Description string
	HabitID     string
	Day         string // YYYY-MM-DD format (if applicable)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Error summarizes the result so it can be returned from a load path.
func (vr *ValidationResult) Error() error {
	if !vr.HasConflicts() {
		return nil
	}
	first := vr.Conflicts[0]
	if len(vr.Conflicts) == 1 {
		return fmt.Errorf("habit collection is inconsistent: %s", first.Description)
	}
	return fmt.Errorf("habit collection is inconsistent: %s (and %d more)", first.Description, len(vr.Conflicts)-1)
}

// ValidateHabits checks every stored invariant of the collection.
func ValidateHabits(habits []models.Habit) ValidationResult {
	var result ValidationResult
	add := func(c Conflict) { result.Conflicts = append(result.Conflicts, c) }

	seenIDs := make(map[string]bool, len(habits))
	for _, h := range habits {
		if seenIDs[h.ID] {
			add(Conflict{
				Type:        ConflictDuplicateID,
				Description: fmt.Sprintf("habit id %q is used more than once", h.ID),
				HabitID:     h.ID,
			})
		}
		seenIDs[h.ID] = true

		if strings.TrimSpace(h.Name) == "" {
			add(Conflict{
				Type:        ConflictEmptyName,
				Description: fmt.Sprintf("habit %s has an empty name", h.ID),
				HabitID:     h.ID,
			})
		}
		if strings.TrimSpace(h.Category) == "" {
			add(Conflict{
				Type:        ConflictEmptyCategory,
				Description: fmt.Sprintf("habit %q has an empty category", h.Name),
				HabitID:     h.ID,
			})
		}
		if h.Streak < 0 || h.Points < 0 {
			add(Conflict{
				Type:        ConflictNegativeCounter,
				Description: fmt.Sprintf("habit %q has a negative streak or points value", h.Name),
				HabitID:     h.ID,
			})
		}

		result.Conflicts = append(result.Conflicts, validateHistory(h)...)
	}

	return result
}

func validateHistory(h models.Habit) []Conflict {
	var conflicts []Conflict

	seenDays := make(map[string]bool, len(h.History))
	latest := ""
	for _, day := range h.History {
		if !utils.ValidateDay(day) {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictInvalidDay,
				Description: fmt.Sprintf("habit %q has an invalid history day %q", h.Name, day),
				HabitID:     h.ID,
				Day:         day,
			})
			continue
		}
		if seenDays[day] {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictDuplicateHistoryDay,
				Description: fmt.Sprintf("habit %q records %s more than once", h.Name, day),
				HabitID:     h.ID,
				Day:         day,
			})
		}
		seenDays[day] = true
		// YYYY-MM-DD sorts lexically
		if day > latest {
			latest = day
		}
	}

	switch {
	case h.LastCompleted == nil && len(h.History) > 0:
		conflicts = append(conflicts, Conflict{
			Type:        ConflictLastCompleted,
			Description: fmt.Sprintf("habit %q has history but no last completion", h.Name),
			HabitID:     h.ID,
		})
	case h.LastCompleted != nil && !utils.ValidateDay(*h.LastCompleted):
		conflicts = append(conflicts, Conflict{
			Type:        ConflictInvalidDay,
			Description: fmt.Sprintf("habit %q has an invalid last completion %q", h.Name, *h.LastCompleted),
			HabitID:     h.ID,
			Day:         *h.LastCompleted,
		})
	case h.LastCompleted != nil && latest != "" && *h.LastCompleted != latest:
		conflicts = append(conflicts, Conflict{
			Type:        ConflictLastCompleted,
			Description: fmt.Sprintf("habit %q last completion %s does not match latest history day %s", h.Name, *h.LastCompleted, latest),
			HabitID:     h.ID,
			Day:         *h.LastCompleted,
		})
	case h.LastCompleted != nil && !slices.Contains(h.History, *h.LastCompleted):
		conflicts = append(conflicts, Conflict{
			Type:        ConflictLastCompleted,
			Description: fmt.Sprintf("habit %q last completion %s is missing from history", h.Name, *h.LastCompleted),
			HabitID:     h.ID,
			Day:         *h.LastCompleted,
		})
	}

	return conflicts
}
