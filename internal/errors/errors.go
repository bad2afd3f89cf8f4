package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitflow/internal/logger"
	"github.com/julianstephens/habitflow/internal/validation"
)

// Format formats an error for the terminal. Validation failures name the
// offending field; everything else gets the "Error: " prefix.
func Format(err error) string {
	if err == nil {
		return ""
	}
	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		return fmt.Sprintf("Invalid %s: %s", verr.Field, verr.Message)
	}
	return Formatf("%v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// ExitCode maps an error to a process exit code: 2 for rejected input, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		return 2
	}
	return 1
}

// Fatal logs an error and exits the program with ExitCode(err)
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(ExitCode(err))
	}
}
