package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/habitflow/internal/models"
)

func strPtr(s string) *string { return &s }

func TestValidateHabitName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain name", "Read", false},
		{"padded name", "  Read  ", false},
		{"empty", "", true},
		{"whitespace only", " \t\n ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHabitName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateHabitName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected *ValidationError, got %T", err)
				}
				if verr.Field != "name" {
					t.Errorf("expected field %q, got %q", "name", verr.Field)
				}
			}
		})
	}
}

func TestValidateHabits_Clean(t *testing.T) {
	habits := []models.Habit{
		{ID: "1", Name: "Read", Category: "Learning", Streak: 2, Points: 30, LastCompleted: strPtr("2024-01-05"), History: []string{"2024-01-01", "2024-01-04", "2024-01-05"}},
		{ID: "2", Name: "Run", Category: "Health", History: []string{}},
	}

	result := ValidateHabits(habits)
	if result.HasConflicts() {
		t.Fatalf("expected no conflicts, got %s", result.FormatReport())
	}
	if result.Error() != nil {
		t.Errorf("expected nil error, got %v", result.Error())
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("unexpected report %q", result.FormatReport())
	}
}

func TestValidateHabits_Conflicts(t *testing.T) {
	tests := []struct {
		name   string
		habits []models.Habit
		want   ConflictType
	}{
		{
			name: "duplicate id",
			habits: []models.Habit{
				{ID: "1", Name: "Read", Category: "Learning"},
				{ID: "1", Name: "Run", Category: "Health"},
			},
			want: ConflictDuplicateID,
		},
		{
			name:   "empty name",
			habits: []models.Habit{{ID: "1", Name: "  ", Category: "Learning"}},
			want:   ConflictEmptyName,
		},
		{
			name:   "empty category",
			habits: []models.Habit{{ID: "1", Name: "Read", Category: ""}},
			want:   ConflictEmptyCategory,
		},
		{
			name:   "negative points",
			habits: []models.Habit{{ID: "1", Name: "Read", Category: "Learning", Points: -10}},
			want:   ConflictNegativeCounter,
		},
		{
			name: "duplicate history day",
			habits: []models.Habit{{
				ID: "1", Name: "Read", Category: "Learning",
				LastCompleted: strPtr("2024-01-01"),
				History:       []string{"2024-01-01", "2024-01-01"},
			}},
			want: ConflictDuplicateHistoryDay,
		},
		{
			name: "invalid history day",
			habits: []models.Habit{{
				ID: "1", Name: "Read", Category: "Learning",
				LastCompleted: strPtr("2024-01-01"),
				History:       []string{"2024-01-01", "yesterday"},
			}},
			want: ConflictInvalidDay,
		},
		{
			name: "history without last completion",
			habits: []models.Habit{{
				ID: "1", Name: "Read", Category: "Learning",
				History: []string{"2024-01-01"},
			}},
			want: ConflictLastCompleted,
		},
		{
			name: "last completion behind history",
			habits: []models.Habit{{
				ID: "1", Name: "Read", Category: "Learning",
				LastCompleted: strPtr("2024-01-01"),
				History:       []string{"2024-01-01", "2024-01-02"},
			}},
			want: ConflictLastCompleted,
		},
		{
			name: "last completion with empty history",
			habits: []models.Habit{{
				ID: "1", Name: "Read", Category: "Learning",
				LastCompleted: strPtr("2024-01-01"),
			}},
			want: ConflictLastCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateHabits(tt.habits)
			if !result.HasConflicts() {
				t.Fatal("expected conflicts")
			}
			found := false
			for _, c := range result.Conflicts {
				if c.Type == tt.want {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected %s conflict, got %+v", tt.want, result.Conflicts)
			}
			if result.Error() == nil {
				t.Error("expected Error() to be non-nil")
			}
			if !strings.HasPrefix(result.FormatReport(), "Conflicts detected:") {
				t.Errorf("unexpected report %q", result.FormatReport())
			}
		})
	}
}
