package models

import (
	"slices"
	"time"
)

// Habit represents a recurring practice to track
type Habit struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Streak        int       `json:"streak"`
	Points        int       `json:"points"`
	LastCompleted *string   `json:"lastCompleted"` // YYYY-MM-DD format
	History       []string  `json:"history"`       // YYYY-MM-DD format, no duplicates
	Archived      bool      `json:"archived"`
	CreatedAt     time.Time `json:"createdAt,omitzero"`
}

// CompletedOn reports whether day (YYYY-MM-DD) is in the habit's history.
func (h Habit) CompletedOn(day string) bool {
	return slices.Contains(h.History, day)
}

// Clone returns a copy that shares no memory with h.
func (h Habit) Clone() Habit {
	c := h
	if h.LastCompleted != nil {
		day := *h.LastCompleted
		c.LastCompleted = &day
	}
	c.History = slices.Clone(h.History)
	if c.History == nil {
		c.History = []string{}
	}
	return c
}
