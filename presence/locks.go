package presence

import "sync"

// =============================================================================
// PER-CELL LOCKS - Serializes click chains touching the same cell
// =============================================================================

// cellLocks hands out one mutex per live CellKey so that the
// validate -> optimistic write -> persist -> rollback chain of one click
// cannot interleave with another click on the same cell. Entries are
// reference-counted and removed when the last holder releases, so the map
// does not grow with the calendar.
type cellLocks struct {
	mu    sync.Mutex
	cells map[CellKey]*cellLock
}

type cellLock struct {
	sync.Mutex
	refs int
}

func newCellLocks() *cellLocks {
	return &cellLocks{cells: make(map[CellKey]*cellLock)}
}

// acquire blocks until the cell is exclusively held and returns the release
// function.
func (c *cellLocks) acquire(k CellKey) func() {
	c.mu.Lock()
	l, ok := c.cells[k]
	if !ok {
		l = &cellLock{}
		c.cells[k] = l
	}
	l.refs++
	c.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		c.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(c.cells, k)
		}
		c.mu.Unlock()
	}
}
