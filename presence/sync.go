package presence

import "context"

// =============================================================================
// REMOTE SYNC ADAPTER - The two-and-a-half contracts the engine consumes
// =============================================================================

// ValidationResult is the backend's answer to a leave-balance check.
// Valido=false is a business-rule rejection (hard: the transition aborts);
// warnings alongside Valido=true are surfaced but do not block.
type ValidationResult struct {
	Valido    bool     `json:"valido"`
	Messaggio string   `json:"messaggio"`
	Warnings  []string `json:"warnings"`
}

// RemoteSync is the persistence/validation boundary of the engine. The real
// backend is an external collaborator; the engine only consumes this shape.
//
// Error semantics matter: a non-nil error from Validate is a transport
// failure and is treated as soft (the transition proceeds, see policy.go),
// while a non-nil error from SetPresence triggers the rollback path.
// SetNote and BulkSetAllPresent are best-effort companions.
type RemoteSync interface {
	Validate(ctx context.Context, emp EmployeeID, code LeaveCode, day Day, hours float64) (ValidationResult, error)
	SetPresence(ctx context.Context, emp EmployeeID, day Day, state State) error
	SetNote(ctx context.Context, emp EmployeeID, day Day, protocol string) error
	BulkSetAllPresent(ctx context.Context, year int, month int, emps []EmployeeID) error
}
