/*
Package balance implements the reference leave-balance validator behind the
engine's validate contract.

PURPOSE:
  Answers "may this employee take one more day of code X?" against yearly
  entitlements. This is the server-side rule the calendar consults before
  committing ferie/permesso/malattia/rol/assente transitions. The real ERP
  backend owns the authoritative version; this one has production-shaped
  semantics so the engine runs end to end.

RULES:
  - Each leave code has a yearly entitlement in days (decimal, so half days
    and hour conversions stay exact).
  - Consumed days come from a ConsumptionSource (the persistence layer).
  - remaining < requested        -> valido=false, "Limite <x> superato"
  - remaining-requested <= warn  -> valido=true plus a residual warning
  - AI (unjustified absence) has no quota: always valido, warning only.

PRECISION:
  Uses decimal.Decimal throughout. Leave balances are money-adjacent
  (TFR/payroll feeds off them); floating point is not acceptable here.
*/
package balance

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/backoffice/presence-engine/presence"
)

// ConsumptionSource reports how many days of a leave code an employee has
// already committed in a calendar year.
type ConsumptionSource interface {
	ConsumedDays(ctx context.Context, emp presence.EmployeeID, code presence.LeaveCode, year int) (decimal.Decimal, error)
}

// Entitlements maps leave codes to yearly allowances in days. Codes absent
// from the map are unlimited.
type Entitlements map[presence.LeaveCode]decimal.Decimal

// DefaultEntitlements mirrors the contract values of the reference tenant:
// 26 days of ferie, 8 ROL days, 7 permesso days, 180 malattia days.
func DefaultEntitlements() Entitlements {
	return Entitlements{
		presence.CodeFerie:    decimal.NewFromInt(26),
		presence.CodeROL:      decimal.NewFromInt(8),
		presence.CodePermesso: decimal.NewFromInt(7),
		presence.CodeMalattia: decimal.NewFromInt(180),
	}
}

var codeLabels = map[presence.LeaveCode]string{
	presence.CodeFerie:    "ferie",
	presence.CodePermesso: "permessi",
	presence.CodeMalattia: "malattia",
	presence.CodeROL:      "ROL",
	presence.CodeAssente:  "assenze",
}

const hoursPerDay = 8

// Validator checks leave requests against yearly entitlements.
type Validator struct {
	Source       ConsumptionSource
	Entitlements Entitlements

	// WarnWithin is the residual-days threshold below which a passing
	// validation still carries a warning. Defaults to 2 via NewValidator.
	WarnWithin decimal.Decimal

	Log logrus.FieldLogger
}

func NewValidator(source ConsumptionSource, ents Entitlements, log logrus.FieldLogger) *Validator {
	if ents == nil {
		ents = DefaultEntitlements()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Validator{
		Source:       source,
		Entitlements: ents,
		WarnWithin:   decimal.NewFromInt(2),
		Log:          log,
	}
}

// Validate implements the balance check consumed by presence.RemoteSync.
// hours converts at 8h/day; zero means one whole day.
func (v *Validator) Validate(ctx context.Context, emp presence.EmployeeID, code presence.LeaveCode, day presence.Day, hours float64) (presence.ValidationResult, error) {
	quota, limited := v.Entitlements[code]
	if !limited {
		return presence.ValidationResult{Valido: true}, nil
	}

	requested := decimal.NewFromInt(1)
	if hours > 0 {
		requested = decimal.NewFromFloat(hours).Div(decimal.NewFromInt(hoursPerDay))
	}

	consumed, err := v.Source.ConsumedDays(ctx, emp, code, day.Year)
	if err != nil {
		return presence.ValidationResult{}, fmt.Errorf("loading consumed days: %w", err)
	}

	label := codeLabels[code]
	remaining := quota.Sub(consumed)

	if remaining.LessThan(requested) {
		v.Log.WithFields(logrus.Fields{
			"employee": emp,
			"code":     code,
			"consumed": consumed.String(),
			"quota":    quota.String(),
		}).Info("leave request over quota")
		return presence.ValidationResult{
			Valido:    false,
			Messaggio: fmt.Sprintf("Limite %s superato", label),
		}, nil
	}

	left := remaining.Sub(requested)
	if left.LessThanOrEqual(v.WarnWithin) {
		return presence.ValidationResult{
			Valido:   true,
			Warnings: []string{fmt.Sprintf("Restano %s giorni di %s per il %d", left.String(), label, day.Year)},
		}, nil
	}
	return presence.ValidationResult{Valido: true}, nil
}
