package entities

import (
	"errors"
	"fmt"
)

// ToggleResult is the outcome of one toggle execution
type ToggleResult struct {
	Disabled string
	Enabled  string
	Err      error
	// Warning holds a non-fatal problem, such as a selection that could not be saved
	Warning error
}

// ToggleSuccess builds a successful result
func ToggleSuccess(disabled, enabled string) ToggleResult {
	return ToggleResult{Disabled: disabled, Enabled: enabled}
}

// ToggleFailure builds a failed result
func ToggleFailure(err error) ToggleResult {
	return ToggleResult{Err: err}
}

// Success reports whether both actions completed
func (r ToggleResult) Success() bool {
	return r.Err == nil
}

// String renders the result as a status line
func (r ToggleResult) String() string {
	if r.Err != nil {
		if errors.Is(r.Err, ErrActionFailure) {
			return fmt.Sprintf("Error: %v (%s)", r.Err, ElevationHint)
		}
		return fmt.Sprintf("Error: %v", r.Err)
	}
	return fmt.Sprintf("Disabled: %s\nEnabled: %s", r.Disabled, r.Enabled)
}
