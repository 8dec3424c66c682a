// Package memory provides an in-memory twin of the sqlite store, for
// tests and development. Same composite-key semantics, no I/O.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/backoffice/presence-engine/presence"
)

// Store holds presence data in maps keyed by cell.
type Store struct {
	mu        sync.RWMutex
	records   map[presence.CellKey]presence.State
	notes     map[presence.CellKey]string
	employees map[presence.EmployeeID]presence.Employee
}

func New() *Store {
	return &Store{
		records:   make(map[presence.CellKey]presence.State),
		notes:     make(map[presence.CellKey]string),
		employees: make(map[presence.EmployeeID]presence.Employee),
	}
}

func (s *Store) SaveEmployee(_ context.Context, emp presence.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[emp.ID] = emp
	return nil
}

func (s *Store) ListEmployees(_ context.Context) ([]presence.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]presence.Employee, 0, len(s.employees))
	for _, emp := range s.employees {
		out = append(out, emp)
	}
	return out, nil
}

func (s *Store) SavePresence(_ context.Context, emp presence.EmployeeID, day presence.Day, state presence.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := presence.CellKey{Employee: emp, Day: day}
	if state == presence.StateRiposo {
		delete(s.records, k)
		return nil
	}
	s.records[k] = state
	return nil
}

func (s *Store) GetPresence(_ context.Context, emp presence.EmployeeID, day presence.Day) (presence.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if st, ok := s.records[presence.CellKey{Employee: emp, Day: day}]; ok {
		return st, nil
	}
	return presence.StateRiposo, nil
}

func (s *Store) MonthRecords(_ context.Context, year int, month time.Month) (map[presence.CellKey]presence.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[presence.CellKey]presence.State)
	for k, st := range s.records {
		if k.Day.Year == year && k.Day.Month == month {
			out[k] = st
		}
	}
	return out, nil
}

func (s *Store) SaveAllPresentMonth(_ context.Context, year int, month time.Month, emps []presence.EmployeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, emp := range emps {
		for n := 1; n <= presence.DaysInMonth(year, month); n++ {
			day := presence.Day{Year: year, Month: month, Date: n}
			if day.IsSunday() {
				continue
			}
			k := presence.CellKey{Employee: emp, Day: day}
			if _, ok := s.records[k]; !ok {
				s.records[k] = presence.StatePresente
			}
		}
	}
	return nil
}

func (s *Store) SaveNote(_ context.Context, emp presence.EmployeeID, day presence.Day, protocol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[presence.CellKey{Employee: emp, Day: day}] = protocol
	return nil
}

func (s *Store) GetNote(_ context.Context, emp presence.EmployeeID, day presence.Day) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notes[presence.CellKey{Employee: emp, Day: day}], nil
}

// ConsumedDays implements balance.ConsumptionSource.
func (s *Store) ConsumedDays(_ context.Context, emp presence.EmployeeID, code presence.LeaveCode, year int) (decimal.Decimal, error) {
	state, ok := presence.StateForCode(code)
	if !ok {
		return decimal.Zero, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for k, st := range s.records {
		if k.Employee == emp && k.Day.Year == year && st == state {
			n++
		}
	}
	return decimal.NewFromInt(n), nil
}
