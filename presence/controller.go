/*
controller.go - Single-cell cycle controller

The default (non-multi-select) interaction: a click advances the cell to
the next state in the fixed cycle, runs the pre-commit checks, writes
optimistically, persists, and rolls back on failure.

CLICK PROTOCOL:
  1. Employment guard; ineligible cells are a silent no-op
  2. next = cycle successor of the current state
  3. Leave states get a remote balance check (hard rejection aborts,
     transport failure is soft)
  4. Optimistic store write
  5. SetPresence on the adapter
  6. On failure: roll the cell back to the pre-click value
  7. A committed malattia asks the caller to offer the certificate prompt

SERIALIZATION:
  Each chain runs under a per-cell lock (locks.go), so two rapid clicks on
  the same cell cannot overwrite each other's rollback values. The original
  interaction model left this racy; serializing it preserves every other
  observable behavior while removing the out-of-order-completion hazard.
*/
package presence

import (
	"context"

	"github.com/sirupsen/logrus"
)

// ClickResult reports what a click did to a cell.
type ClickResult struct {
	// NoOp is set when the employment guard rejected the click. Nothing was
	// written and no network call was made.
	NoOp bool

	Previous  State
	Committed State

	// Warning is a non-blocking notice from the balance validation.
	Warning string

	// NeedsNote is set when the committed state is malattia: the caller
	// should offer the optional certificate-protocol prompt (AttachNote).
	NeedsNote bool
}

// Controller owns the single-cell click interaction.
type Controller struct {
	store  *Store
	policy *Policy
	sync   RemoteSync
	log    logrus.FieldLogger
	locks  *cellLocks
}

func NewController(store *Store, sync RemoteSync, log logrus.FieldLogger) *Controller {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{
		store:  store,
		policy: NewPolicy(sync, log),
		sync:   sync,
		log:    log,
		locks:  newCellLocks(),
	}
}

// Store exposes the underlying cell store for rendering.
func (c *Controller) Store() *Store { return c.store }

// Click advances a cell to the next state in the cycle.
func (c *Controller) Click(ctx context.Context, emp Employee, day Day) (ClickResult, error) {
	if !Eligible(emp, day) {
		return ClickResult{NoOp: true}, nil
	}

	release := c.locks.acquire(CellKey{Employee: emp.ID, Day: day})
	defer release()

	prev := c.store.Get(emp.ID, day)
	return c.commitLocked(ctx, emp.ID, day, prev, prev.Next())
}

// apply writes an explicit target state instead of a cycle advance. Used by
// the paint controller, which shares the exact commit sequence.
func (c *Controller) apply(ctx context.Context, emp Employee, day Day, next State) (ClickResult, error) {
	if !Eligible(emp, day) {
		return ClickResult{NoOp: true}, nil
	}

	release := c.locks.acquire(CellKey{Employee: emp.ID, Day: day})
	defer release()

	prev := c.store.Get(emp.ID, day)
	return c.commitLocked(ctx, emp.ID, day, prev, next)
}

// commitLocked runs validate -> optimistic write -> persist -> rollback.
// The cell lock must be held; prev is the value read under that lock, and
// it is exactly what a failed persist restores.
func (c *Controller) commitLocked(ctx context.Context, emp EmployeeID, day Day, prev, next State) (ClickResult, error) {
	warning, err := c.policy.Authorize(ctx, emp, day, next)
	if err != nil {
		return ClickResult{Previous: prev, Committed: prev}, err
	}

	c.store.Set(emp, day, next)

	if err := c.sync.SetPresence(ctx, emp, day, next); err != nil {
		c.store.Set(emp, day, prev)
		return ClickResult{Previous: prev, Committed: prev},
			&PersistError{Employee: emp, Day: day, State: next, Err: err}
	}

	return ClickResult{
		Previous:  prev,
		Committed: next,
		Warning:   warning,
		NeedsNote: next == StateMalattia,
	}, nil
}

// persistOnly skips validation: used by range fills and the bulk action,
// whose per-day writes are best-effort and rely on the server-side check.
func (c *Controller) persistOnly(ctx context.Context, emp EmployeeID, day Day, next State) error {
	release := c.locks.acquire(CellKey{Employee: emp, Day: day})
	defer release()

	prev := c.store.Get(emp, day)
	c.store.Set(emp, day, next)
	if err := c.sync.SetPresence(ctx, emp, day, next); err != nil {
		c.store.Set(emp, day, prev)
		return &PersistError{Employee: emp, Day: day, State: next, Err: err}
	}
	return nil
}

// AttachNote saves the medical-certificate protocol number for a committed
// malattia cell. It is a separate follow-up command with its own failure
// mode: a failed note never touches the committed presence state.
func (c *Controller) AttachNote(ctx context.Context, emp EmployeeID, day Day, protocol string) error {
	if err := c.sync.SetNote(ctx, emp, day, protocol); err != nil {
		c.log.WithFields(logrus.Fields{
			"employee": emp,
			"day":      day.String(),
		}).WithError(err).Warn("certificate note not saved")
		return err
	}
	c.store.SetNote(emp, day, protocol)
	return nil
}
