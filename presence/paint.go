/*
paint.go - Multi-select paint controller

"Arm a target state, then apply/remove it across many cells." A plain click
while armed toggles the target on/off for one cell and records the range
anchor; a modifier-click fills the whole anchor..click interval.

RANGE FILLS ARE BEST-EFFORT:
  The sweep walks the interval sequentially, skipping Sundays, and persists
  one day at a time. A failed day is rolled back locally, logged, and
  skipped; the sweep never aborts. The outcome list is returned so a caller
  can report "7 of 10 days succeeded" instead of a single boolean. Sweep
  parameters are captured by value at start: disarming mid-sweep does not
  stop a running sweep.
*/
package presence

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// DayOutcome is the per-day result of a best-effort sweep.
type DayOutcome struct {
	Day Day
	Err error
}

// SweepResult collects the outcome of a range fill or bulk write.
type SweepResult struct {
	Target   State
	Outcomes []DayOutcome
}

func (r SweepResult) Applied() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

func (r SweepResult) Failed() int { return len(r.Outcomes) - r.Applied() }

// Painter implements multi-select painting on top of the single-cell
// controller's commit sequence.
type Painter struct {
	ctrl *Controller
	log  logrus.FieldLogger

	mu     sync.Mutex
	target *State
	anchor *Day
}

func NewPainter(ctrl *Controller) *Painter {
	return &Painter{ctrl: ctrl, log: ctrl.log}
}

// Toggle arms state for painting, or disarms when state is already armed.
// Arming clears the range anchor; disarming clears both and never rolls
// back already-applied changes. Returns whether painting is now armed.
func (p *Painter) Toggle(state State) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.target != nil && *p.target == state {
		p.target = nil
		p.anchor = nil
		return false
	}
	s := state
	p.target = &s
	p.anchor = nil
	return true
}

// Armed returns the currently armed target state, if any.
func (p *Painter) Armed() (State, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.target == nil {
		return "", false
	}
	return *p.target, true
}

// Click paints one cell: the target state if the cell differs from it,
// StateRiposo when it already matches (toggle semantics). The clicked day
// becomes the anchor for a subsequent range fill. The commit sequence is
// the same as a cycle click, only the next state differs.
func (p *Painter) Click(ctx context.Context, emp Employee, day Day) (ClickResult, error) {
	p.mu.Lock()
	if p.target == nil {
		p.mu.Unlock()
		return ClickResult{}, ErrNotArmed
	}
	target := *p.target
	p.mu.Unlock()

	if !Eligible(emp, day) {
		return ClickResult{NoOp: true}, nil
	}

	// Anchor even if the commit later fails: the user's click did land.
	p.mu.Lock()
	d := day
	p.anchor = &d
	p.mu.Unlock()

	next := target
	if p.ctrl.store.Get(emp.ID, day) == target {
		next = StateRiposo
	}
	return p.ctrl.apply(ctx, emp, day, next)
}

// RangeFill paints the closed interval between the current anchor and day,
// excluding Sundays (Saturdays are included). Requires an armed target and
// a prior anchor; the anchor is cleared afterwards, so a new one must be
// established before the next fill.
func (p *Painter) RangeFill(ctx context.Context, emp Employee, day Day) (SweepResult, error) {
	p.mu.Lock()
	if p.target == nil {
		p.mu.Unlock()
		return SweepResult{}, ErrNotArmed
	}
	if p.anchor == nil {
		p.mu.Unlock()
		// No anchor yet: treat as a plain paint click instead.
		res, err := p.Click(ctx, emp, day)
		if err != nil {
			return SweepResult{}, err
		}
		out := SweepResult{Target: res.Committed}
		if !res.NoOp {
			out.Outcomes = []DayOutcome{{Day: day}}
		}
		return out, nil
	}
	// Capture by value: the sweep keeps these even if the session is
	// disarmed while it runs.
	target := *p.target
	anchor := *p.anchor
	p.anchor = nil
	p.mu.Unlock()

	result := SweepResult{Target: target}
	for _, d := range MonthRange(anchor, day) {
		if d.IsSunday() {
			continue
		}
		if !Eligible(emp, d) {
			continue
		}
		err := p.ctrl.persistOnly(ctx, emp.ID, d, target)
		if err != nil {
			p.log.WithFields(logrus.Fields{
				"employee": emp.ID,
				"day":      d.String(),
				"state":    target,
			}).WithError(err).Warn("range fill: day skipped")
		}
		result.Outcomes = append(result.Outcomes, DayOutcome{Day: d, Err: err})
	}
	return result, nil
}
