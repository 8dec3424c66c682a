// Package remote provides implementations of the presence.RemoteSync
// contract: a local adapter composing the reference validator with a
// persistence store, and an HTTP client for an external backend.
package remote

import (
	"context"
	"time"

	"github.com/backoffice/presence-engine/balance"
	"github.com/backoffice/presence-engine/presence"
)

// Persistence is the storage surface the local adapter needs. Both
// store/sqlite and store/memory satisfy it.
type Persistence interface {
	SavePresence(ctx context.Context, emp presence.EmployeeID, day presence.Day, state presence.State) error
	SaveNote(ctx context.Context, emp presence.EmployeeID, day presence.Day, protocol string) error
	SaveAllPresentMonth(ctx context.Context, year int, month time.Month, emps []presence.EmployeeID) error
}

// Local implements presence.RemoteSync in-process: validation against the
// reference balance rules, persistence straight into the store.
type Local struct {
	Validator *balance.Validator
	Store     Persistence
}

var _ presence.RemoteSync = (*Local)(nil)

func NewLocal(validator *balance.Validator, store Persistence) *Local {
	return &Local{Validator: validator, Store: store}
}

func (l *Local) Validate(ctx context.Context, emp presence.EmployeeID, code presence.LeaveCode, day presence.Day, hours float64) (presence.ValidationResult, error) {
	return l.Validator.Validate(ctx, emp, code, day, hours)
}

func (l *Local) SetPresence(ctx context.Context, emp presence.EmployeeID, day presence.Day, state presence.State) error {
	return l.Store.SavePresence(ctx, emp, day, state)
}

func (l *Local) SetNote(ctx context.Context, emp presence.EmployeeID, day presence.Day, protocol string) error {
	return l.Store.SaveNote(ctx, emp, day, protocol)
}

func (l *Local) BulkSetAllPresent(ctx context.Context, year int, month int, emps []presence.EmployeeID) error {
	return l.Store.SaveAllPresentMonth(ctx, year, time.Month(month), emps)
}
