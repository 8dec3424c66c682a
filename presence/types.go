/*
Package presence implements the presence calendar engine.

PURPOSE:
  This package contains the state model and interaction logic for a
  per-employee, per-day attendance calendar: a sparse in-memory store of
  presence states, a fixed click-cycle over those states, multi-select
  painting with shift-click range fills, and the gating checks (employment
  window, leave-balance validation) that run before a transition commits.

KEY CONCEPTS IN THIS FILE (types.go):
  - State: The enumerated attendance status of one employee on one day
  - Cycle: The fixed order a single click advances through
  - LeaveCode: The short backend code used for balance validation
  - CellKey: Composite (employee, day) identity of a calendar cell
  - Employee: The slice of the employee directory the engine reads

DESIGN PRINCIPLES:
  1. Sparse by default: no record means StateRiposo
  2. Optimism: local writes happen before the server confirms, with
     rollback on failure
  3. Type safety: composite struct keys instead of concatenated strings
  4. Derived states stay derived: StateCessato is produced by the
     employment guard and is never written to the store

SEE ALSO:
  - store.go: The sparse cell store
  - controller.go: Single-cell cycle clicks
  - paint.go: Multi-select painting and range fills
  - guard.go: Employment-window eligibility
*/
package presence

// =============================================================================
// STATE - Attendance status of one employee on one day
// =============================================================================

type State string

const (
	StatePresente           State = "presente"
	StateAssente            State = "assente"
	StateFerie              State = "ferie"
	StatePermesso           State = "permesso"
	StateMalattia           State = "malattia"
	StateROL                State = "rol"
	StateChiuso             State = "chiuso"
	StateRiposoSettimanale  State = "riposo_settimanale"
	StateTrasferta          State = "trasferta"
	StateRiposo             State = "riposo"

	// StateCessato is display-only: the employment guard derives it for days
	// after an employee's termination date. It is never stored and never
	// user-settable; cells in this state reject all interaction.
	StateCessato State = "cessato"
)

// Cycle is the fixed order a single click advances through. StateRiposo is
// the empty/default stop; StateCessato is excluded because it is derived.
var Cycle = [...]State{
	StatePresente,
	StateAssente,
	StateFerie,
	StatePermesso,
	StateMalattia,
	StateROL,
	StateChiuso,
	StateRiposoSettimanale,
	StateTrasferta,
	StateRiposo,
}

// Next returns the state that follows s in the click cycle.
// States outside the cycle (including StateCessato) restart at the first stop.
func (s State) Next() State {
	for i, c := range Cycle {
		if c == s {
			return Cycle[(i+1)%len(Cycle)]
		}
	}
	return Cycle[0]
}

// Settable reports whether s is a state a user may write to a cell.
func (s State) Settable() bool {
	for _, c := range Cycle {
		if c == s {
			return true
		}
	}
	return false
}

// ParseState validates a wire-level state value.
func ParseState(raw string) (State, bool) {
	s := State(raw)
	if s == StateCessato || s.Settable() {
		return s, true
	}
	return "", false
}

// =============================================================================
// LEAVE CODES - Balance validation classification
// =============================================================================

// LeaveCode is the short backend code used to validate a presence state
// against accrual/balance rules.
type LeaveCode string

const (
	CodeFerie    LeaveCode = "FER"
	CodePermesso LeaveCode = "PER"
	CodeMalattia LeaveCode = "MAL"
	CodeROL      LeaveCode = "ROL"
	CodeAssente  LeaveCode = "AI"
)

var leaveCodes = map[State]LeaveCode{
	StateFerie:    CodeFerie,
	StatePermesso: CodePermesso,
	StateMalattia: CodeMalattia,
	StateROL:      CodeROL,
	StateAssente:  CodeAssente,
}

// LeaveCodeFor returns the balance-validation code for a state, or false for
// states that consume no leave balance.
func LeaveCodeFor(s State) (LeaveCode, bool) {
	code, ok := leaveCodes[s]
	return code, ok
}

// RequiresValidation reports whether committing s needs a remote
// leave-balance check first.
func RequiresValidation(s State) bool {
	_, ok := leaveCodes[s]
	return ok
}

// StateForCode is the inverse of LeaveCodeFor: the presence state whose
// committed days consume the given leave code.
func StateForCode(code LeaveCode) (State, bool) {
	for s, c := range leaveCodes {
		if c == code {
			return s, true
		}
	}
	return "", false
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string

// CellKey identifies one calendar cell. A genuine composite key: the
// at-most-one-state-per-cell invariant lives in the type system instead of
// in string concatenation.
type CellKey struct {
	Employee EmployeeID
	Day      Day
}

// =============================================================================
// EMPLOYEE - Read-only slice of the employee directory
// =============================================================================

// Employee is what the engine reads from the external employee directory.
// HireDate and TerminationDate bound the employment window (see guard.go).
type Employee struct {
	ID              EmployeeID
	DisplayName     string
	HireDate        *Day
	TerminationDate *Day
	Active          bool
}
