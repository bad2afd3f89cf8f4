package habit

import (
	"time"

	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/models"
	"github.com/julianstephens/habitflow/internal/utils"
)

// ApplyCompletion records a completion of h on the calendar day of today
// (in today's location) and reports whether it scored. A day scores at
// most once, and only days after the latest completion score; anything
// else leaves h unchanged.
//
// Streak continuity only looks at lastCompleted, never at history.
func ApplyCompletion(h models.Habit, today time.Time) (models.Habit, bool) {
	day := utils.FormatDay(utils.StartOfDay(today))
	if day <= LatestDay(h) {
		return h, false
	}

	next := h.Clone()
	if h.LastCompleted != nil && *h.LastCompleted == utils.PreviousDay(today) {
		next.Streak = h.Streak + 1
	} else {
		next.Streak = 1
	}
	next.History = append(next.History, day)
	next.Points = h.Points + constants.PointsPerCompletion
	next.LastCompleted = &day

	return next, true
}

// LatestDay returns the most recent day h was completed on, or "" when it
// never was. YYYY-MM-DD strings order like the dates they name.
func LatestDay(h models.Habit) string {
	latest := ""
	if h.LastCompleted != nil {
		latest = *h.LastCompleted
	}
	for _, d := range h.History {
		latest = max(latest, d)
	}
	return latest
}
