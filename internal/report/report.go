// Package report buckets the completion history of all habits into
// trailing daily, weekly and monthly counts.
package report

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/models"
	"github.com/julianstephens/habitflow/internal/utils"
	"github.com/julianstephens/habitflow/internal/validation"
)

// Series is an aligned pair of bucket labels and counts, oldest first.
type Series struct {
	Labels []string `json:"labels"`
	Counts []int    `json:"counts"`
}

// Total sums all buckets.
func (s Series) Total() int {
	total := 0
	for _, c := range s.Counts {
		total += c
	}
	return total
}

// CheckWindow rejects a window of n buckets outside 1..limit.
func CheckWindow(field string, n, limit int) error {
	if n < 1 || n > limit {
		return &validation.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be between 1 and %d, got %d", limit, n),
		}
	}
	return nil
}

// Daily counts completions for each of the trailing days ending today.
// Labels are YYYY-MM-DD. Windows longer than constants.MaxReportDays are
// cut to that length.
func Daily(habits []models.Habit, today time.Time, days int) Series {
	days = min(days, constants.MaxReportDays)
	end := utils.StartOfDay(today)
	start := end.AddDate(0, 0, -(days - 1))
	return bucketize(habits, today.Location(), days,
		func(i int) time.Time { return start.AddDate(0, 0, i) },
		func(t time.Time) time.Time { return t },
		func(t time.Time) string { return utils.FormatDay(t) },
	)
}

// Weekly counts completions for each of the trailing Monday-to-Sunday
// weeks, the last one containing today. Labels are the Monday as
// YYYY-MM-DD. At most constants.MaxReportWeeks buckets are built.
func Weekly(habits []models.Habit, today time.Time, weeks int) Series {
	weeks = min(weeks, constants.MaxReportWeeks)
	start := utils.StartOfWeek(today).AddDate(0, 0, -7*(weeks-1))
	return bucketize(habits, today.Location(), weeks,
		func(i int) time.Time { return start.AddDate(0, 0, 7*i) },
		utils.StartOfWeek,
		func(t time.Time) string { return utils.FormatDay(t) },
	)
}

// Monthly counts completions for each of the trailing calendar months, the
// last one containing today. Labels are YYYY-MM. At most
// constants.MaxReportMonths buckets are built.
func Monthly(habits []models.Habit, today time.Time, months int) Series {
	months = min(months, constants.MaxReportMonths)
	start := utils.StartOfMonth(today).AddDate(0, -(months - 1), 0)
	return bucketize(habits, today.Location(), months,
		func(i int) time.Time { return start.AddDate(0, i, 0) },
		utils.StartOfMonth,
		func(t time.Time) string { return t.Format(constants.MonthFormat) },
	)
}

// bucketize builds n buckets starting at bucketStart(0) and drops every
// history day into the bucket whose start equals keyOf(day). Days outside
// the window and unparseable days are ignored.
func bucketize(
	habits []models.Habit,
	loc *time.Location,
	n int,
	bucketStart func(i int) time.Time,
	keyOf func(time.Time) time.Time,
	label func(time.Time) string,
) Series {
	if n <= 0 {
		return Series{Labels: []string{}, Counts: []int{}}
	}

	s := Series{
		Labels: make([]string, n),
		Counts: make([]int, n),
	}
	index := make(map[string]int, n)
	for i := range n {
		start := bucketStart(i)
		s.Labels[i] = label(start)
		index[utils.FormatDay(start)] = i
	}

	for _, h := range habits {
		for _, day := range h.History {
			t, err := utils.ParseDay(day, loc)
			if err != nil {
				continue
			}
			if i, ok := index[utils.FormatDay(keyOf(t))]; ok {
				s.Counts[i]++
			}
		}
	}
	return s
}

// DefaultDaily, DefaultWeekly and DefaultMonthly use the standard windows.
func DefaultDaily(habits []models.Habit, today time.Time) Series {
	return Daily(habits, today, constants.DefaultReportDays)
}

func DefaultWeekly(habits []models.Habit, today time.Time) Series {
	return Weekly(habits, today, constants.DefaultReportWeeks)
}

func DefaultMonthly(habits []models.Habit, today time.Time) Series {
	return Monthly(habits, today, constants.DefaultReportMonths)
}
