package models

// Achievement is a named predicate over the full habit collection
type Achievement struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Icon        string             `json:"icon"`
	IsUnlocked  func([]Habit) bool `json:"-"`
}

// ActivityEntry is a row in the created/deleted activity log
type ActivityEntry struct {
	ID       string `json:"id"`
	HabitID  string `json:"habitId"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Date     string `json:"date"` // YYYY-MM-DD format
	Deleted  bool   `json:"deleted"`
}
