package presence

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// =============================================================================
// "MARK ALL PRESENT" BULK ACTION
// =============================================================================

// EmployeeSweep is the per-employee slice of a bulk outcome.
type EmployeeSweep struct {
	Employee EmployeeID
	SweepResult
}

// BulkResult collects the outcome of a MarkAllPresent run.
type BulkResult struct {
	Employees []EmployeeSweep

	// CompanionErr is the outcome of the backend's own bulk endpoint, which
	// runs as a best-effort companion to the per-day writes. Discrepancies
	// between the two are not reconciled beyond reporting.
	CompanionErr error
}

func (r BulkResult) Applied() int {
	n := 0
	for _, e := range r.Employees {
		n += e.Applied()
	}
	return n
}

func (r BulkResult) Failed() int {
	n := 0
	for _, e := range r.Employees {
		n += e.Failed()
	}
	return n
}

// MarkAllPresent sets every empty (riposo) non-Sunday cell of the visible
// month to presente, for every employee in the roster. Per-day persistence
// is best-effort with the same continue-past-failure semantics as a range
// fill. Ineligible days and already-filled cells are left alone.
func (c *Controller) MarkAllPresent(ctx context.Context, roster []Employee, year int, month time.Month) BulkResult {
	var result BulkResult
	var ids []EmployeeID

	days := DaysInMonth(year, month)
	for _, emp := range roster {
		ids = append(ids, emp.ID)
		sweep := EmployeeSweep{Employee: emp.ID, SweepResult: SweepResult{Target: StatePresente}}

		for n := 1; n <= days; n++ {
			day := Day{Year: year, Month: month, Date: n}
			if day.IsSunday() || !Eligible(emp, day) {
				continue
			}
			if c.store.Get(emp.ID, day) != StateRiposo {
				continue
			}
			err := c.persistOnly(ctx, emp.ID, day, StatePresente)
			if err != nil {
				c.log.WithFields(logrus.Fields{
					"employee": emp.ID,
					"day":      day.String(),
				}).WithError(err).Warn("mark all present: day skipped")
			}
			sweep.Outcomes = append(sweep.Outcomes, DayOutcome{Day: day, Err: err})
		}
		result.Employees = append(result.Employees, sweep)
	}

	if err := c.sync.BulkSetAllPresent(ctx, year, int(month), ids); err != nil {
		c.log.WithError(err).Warn("bulk set-all-present companion call failed")
		result.CompanionErr = err
	}
	return result
}
