package cli

import (
	"fmt"

	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/models"
	"github.com/julianstephens/habitflow/internal/storage"
	"github.com/julianstephens/habitflow/internal/validation"
)

type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	// Read the raw collection; the tracker refuses to load an inconsistent one
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	habits := []models.Habit{}
	if _, err := storage.GetJSON(ctx.Store, constants.KeyHabits, &habits); err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}

	ctx.Printf("Validating %d habits...\n\n", len(habits))
	result := validation.ValidateHabits(habits)
	ctx.Printf("%s\n", result.FormatReport())

	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s) found", len(result.Conflicts))
	}
	return nil
}
