/*
errors.go - Error types for the presence engine

ERROR CATEGORIES:
  1. Hard validation rejections - the backend said no; nothing was written
  2. Persistence failures - the optimistic write was rolled back
  3. Controller misuse - painting without an armed target

Ineligible cells are deliberately NOT an error category: the employment
guard makes those clicks no-ops (the cell is non-interactive to begin
with), so controllers report them via a NoOp flag instead.
*/
package presence

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrRejected is the root of every hard validation rejection.
	ErrRejected = errors.New("transition rejected by leave-balance validation")

	// ErrPersistFailed is the root of every rolled-back persistence failure.
	ErrPersistFailed = errors.New("presence persistence failed")

	// ErrNotArmed is returned by paint clicks when no target state is armed.
	ErrNotArmed = errors.New("multi-select mode is not armed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// RejectedError carries the backend's rejection of a leave transition.
// The store is untouched when this is returned.
type RejectedError struct {
	Employee  EmployeeID
	Day       Day
	Code      LeaveCode
	Messaggio string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("leave %s rejected for %s on %s: %s", e.Code, e.Employee, e.Day, e.Messaggio)
}

func (e *RejectedError) Unwrap() error { return ErrRejected }

// PersistError reports a failed SetPresence call. The optimistic write has
// already been rolled back to the pre-click value when this is returned.
type PersistError struct {
	Employee EmployeeID
	Day      Day
	State    State
	Err      error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persisting %s for %s on %s: %v", e.State, e.Employee, e.Day, e.Err)
}

func (e *PersistError) Unwrap() error { return ErrPersistFailed }

// IsRejection reports whether err is a hard business-rule rejection as
// opposed to a transport failure.
func IsRejection(err error) bool { return errors.Is(err, ErrRejected) }
