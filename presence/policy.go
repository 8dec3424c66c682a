/*
policy.go - Transition policy: when does a state change need validation?

The policy classifies a requested next state (via LeaveCodeFor in types.go)
and, when a leave code is involved, runs the remote balance check before
anything is written.

AVAILABILITY OVER STRICTNESS:
  A transport failure while validating is deliberately soft: it is logged
  and the transition proceeds. The authoritative balance check also happens
  server-side on persistence, and a transient validation-endpoint outage
  must never make the calendar unusable. Only an explicit valido=false is
  a hard stop.
*/
package presence

import (
	"context"

	"github.com/sirupsen/logrus"
)

// hoursPerDay is the conversion the backend expects for whole-day leave.
const hoursPerDay = 8

// Policy decides whether a transition may commit.
type Policy struct {
	Sync RemoteSync
	Log  logrus.FieldLogger
}

func NewPolicy(sync RemoteSync, log logrus.FieldLogger) *Policy {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Policy{Sync: sync, Log: log}
}

// Authorize runs the pre-commit check for a requested next state.
// It returns the first non-blocking warning, if any, and a *RejectedError
// when the backend rejects the transition outright. States without a leave
// code pass through untouched.
func (p *Policy) Authorize(ctx context.Context, emp EmployeeID, day Day, next State) (warning string, err error) {
	code, ok := LeaveCodeFor(next)
	if !ok {
		return "", nil
	}

	res, err := p.Sync.Validate(ctx, emp, code, day, hoursPerDay)
	if err != nil {
		// Soft failure: proceed without validation.
		p.Log.WithFields(logrus.Fields{
			"employee": emp,
			"day":      day.String(),
			"code":     code,
		}).WithError(err).Warn("leave validation unreachable, proceeding without it")
		return "", nil
	}

	if !res.Valido {
		return "", &RejectedError{Employee: emp, Day: day, Code: code, Messaggio: res.Messaggio}
	}
	if len(res.Warnings) > 0 {
		return res.Warnings[0], nil
	}
	return "", nil
}
