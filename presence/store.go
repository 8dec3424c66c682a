/*
store.go - Sparse in-memory presence cell store

PURPOSE:
  Holds the authoritative-so-far mapping (employee, day) -> state: the
  single source of truth for what is rendered and what has been confirmed
  by the server, to the extent the client knows.

CONTRACT:
  - Get returns StateRiposo for absent cells (sparse map semantics).
  - Set overwrites in place and never fails. It is used both for optimistic
    writes and for rollback writes.
  - No network I/O happens here. This is a pure cache; persistence belongs
    to the RemoteSync adapter (sync.go).

NOTES:
  Notes are a side-record keyed by the same cell: the free-text medical
  certificate protocol number attached after a committed malattia. They are
  independent of the cell state and carry their own failure mode.
*/
package presence

import (
	"sync"
	"time"
)

// Store is the presence state cache. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	cells map[CellKey]State
	notes map[CellKey]string
}

func NewStore() *Store {
	return &Store{
		cells: make(map[CellKey]State),
		notes: make(map[CellKey]string),
	}
}

// Get returns the state of a cell, StateRiposo if none was ever set.
func (s *Store) Get(emp EmployeeID, day Day) State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if st, ok := s.cells[CellKey{Employee: emp, Day: day}]; ok {
		return st
	}
	return StateRiposo
}

// Set overwrites a cell. Writing StateRiposo removes the entry so the map
// stays sparse; the two are indistinguishable through Get.
func (s *Store) Set(emp EmployeeID, day Day, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := CellKey{Employee: emp, Day: day}
	if state == StateRiposo {
		delete(s.cells, k)
		return
	}
	s.cells[k] = state
}

// SetNote attaches a certificate protocol number to a cell.
func (s *Store) SetNote(emp EmployeeID, day Day, protocol string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := CellKey{Employee: emp, Day: day}
	if protocol == "" {
		delete(s.notes, k)
		return
	}
	s.notes[k] = protocol
}

// Note returns the certificate protocol number for a cell, if any.
func (s *Store) Note(emp EmployeeID, day Day) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.notes[CellKey{Employee: emp, Day: day}]
	return p, ok
}

// Month returns one employee's states for every day of a month, with the
// sparse default already applied. Index 0 is day 1.
func (s *Store) Month(emp EmployeeID, year int, month time.Month) []State {
	n := DaysInMonth(year, month)
	out := make([]State, n)

	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := 0; i < n; i++ {
		k := CellKey{Employee: emp, Day: Day{Year: year, Month: month, Date: i + 1}}
		if st, ok := s.cells[k]; ok {
			out[i] = st
		} else {
			out[i] = StateRiposo
		}
	}
	return out
}

// Len reports how many non-riposo cells are held. Mostly useful in tests.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cells)
}
