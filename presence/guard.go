package presence

// =============================================================================
// EMPLOYMENT-WINDOW GUARD - Is this cell interactive at all?
// =============================================================================

// Eligible reports whether a day falls inside an employee's employment
// window. Days after the termination date render as StateCessato and reject
// clicks; days before the hire date are likewise ineligible (such months
// normally hide the whole employee row instead, see directory.VisibleIn —
// the two guards are asymmetric on purpose).
//
// The check runs before any other logic on every click. A violation is a
// no-op, not an error: the cell renders as non-interactive in the first place.
func Eligible(emp Employee, day Day) bool {
	if emp.TerminationDate != nil && day.After(*emp.TerminationDate) {
		return false
	}
	if emp.HireDate != nil && day.Before(*emp.HireDate) {
		return false
	}
	return true
}

// DisplayState is what a cell should render as: the stored state for days
// inside the employment window, StateCessato outside it.
func DisplayState(store *Store, emp Employee, day Day) State {
	if !Eligible(emp, day) {
		return StateCessato
	}
	return store.Get(emp.ID, day)
}
