// Package directory holds the engine-side read model of the employee
// directory. The directory itself is owned by an external system; this is
// the roster cache the calendar renders from.
package directory

import (
	"sort"
	"sync"
	"time"

	"github.com/backoffice/presence-engine/presence"
)

// Roster is an in-memory employee read model. Safe for concurrent use.
type Roster struct {
	mu   sync.RWMutex
	byID map[presence.EmployeeID]presence.Employee
}

func NewRoster() *Roster {
	return &Roster{byID: make(map[presence.EmployeeID]presence.Employee)}
}

// Put inserts or replaces an employee record.
func (r *Roster) Put(emp presence.Employee) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[emp.ID] = emp
}

// Get returns an employee by ID.
func (r *Roster) Get(id presence.EmployeeID) (presence.Employee, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	emp, ok := r.byID[id]
	return emp, ok
}

// All returns every employee, ordered by display name.
func (r *Roster) All() []presence.Employee {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]presence.Employee, 0, len(r.byID))
	for _, emp := range r.byID {
		out = append(out, emp)
	}
	sortRoster(out)
	return out
}

// VisibleIn returns the employees to display for a month. Employees hired
// after the month ends are hidden entirely (pre-hire months hide the row);
// terminated employees stay visible so their post-termination days can gray
// out cell by cell. The two sides of the employment window are asymmetric
// on purpose.
func (r *Roster) VisibleIn(year int, month time.Month) []presence.Employee {
	endOfMonth := presence.Day{Year: year, Month: month, Date: presence.DaysInMonth(year, month)}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []presence.Employee
	for _, emp := range r.byID {
		if emp.HireDate != nil && emp.HireDate.After(endOfMonth) {
			continue
		}
		out = append(out, emp)
	}
	sortRoster(out)
	return out
}

func sortRoster(emps []presence.Employee) {
	sort.Slice(emps, func(i, j int) bool {
		if emps[i].DisplayName != emps[j].DisplayName {
			return emps[i].DisplayName < emps[j].DisplayName
		}
		return emps[i].ID < emps[j].ID
	})
}
