package api

// =============================================================================
// REQUEST / RESPONSE DTOs
// =============================================================================

// EmployeeDTO mirrors the directory read model on the wire.
type EmployeeDTO struct {
	ID              string `json:"id"`
	DisplayName     string `json:"display_name"`
	HireDate        string `json:"hire_date,omitempty"`
	TerminationDate string `json:"termination_date,omitempty"`
	Active          bool   `json:"active"`
}

// CellDTO is one rendered calendar cell. State already includes the derived
// cessato for days outside the employment window.
type CellDTO struct {
	Day      string `json:"day"`
	State    string `json:"state"`
	Editable bool   `json:"editable"`
	Note     string `json:"note,omitempty"`
}

// RowDTO is one employee's month.
type RowDTO struct {
	Employee EmployeeDTO `json:"employee"`
	Cells    []CellDTO   `json:"cells"`
}

// MonthDTO is the full grid for a displayed month.
type MonthDTO struct {
	Year  int      `json:"year"`
	Month int      `json:"month"`
	Rows  []RowDTO `json:"rows"`
}

type CreateEmployeeRequest struct {
	ID              string `json:"id"`
	DisplayName     string `json:"display_name"`
	HireDate        string `json:"hire_date,omitempty"`
	TerminationDate string `json:"termination_date,omitempty"`
	Active          *bool  `json:"active,omitempty"`
}

// ClickRequest is a single-cell cycle click.
type ClickRequest struct {
	EmployeeID string `json:"employee_id"`
	Day        string `json:"day"`
}

type ClickResponse struct {
	NoOp      bool   `json:"no_op"`
	Previous  string `json:"previous"`
	Committed string `json:"committed"`
	Warning   string `json:"warning,omitempty"`
	NeedsNote bool   `json:"needs_note"`
}

// PaintRequest covers arming, armed clicks and range fills.
type PaintRequest struct {
	EmployeeID string `json:"employee_id"`
	Day        string `json:"day"`
	// Shift marks the modifier-click range fill from the current anchor.
	Shift bool `json:"shift"`
}

type ToggleRequest struct {
	State string `json:"state"`
}

type ToggleResponse struct {
	Armed  bool   `json:"armed"`
	Target string `json:"target,omitempty"`
}

// DayOutcomeDTO is one day of a best-effort sweep.
type DayOutcomeDTO struct {
	Day   string `json:"day"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type SweepResponse struct {
	Target  string          `json:"target"`
	Applied int             `json:"applied"`
	Failed  int             `json:"failed"`
	Days    []DayOutcomeDTO `json:"days"`
}

// AllPresentRequest is the confirmation-gated bulk action.
type AllPresentRequest struct {
	Year    int  `json:"year"`
	Month   int  `json:"month"`
	Confirm bool `json:"confirm"`
}

type AllPresentResponse struct {
	Applied      int    `json:"applied"`
	Failed       int    `json:"failed"`
	CompanionErr string `json:"companion_error,omitempty"`
}

type NoteRequest struct {
	EmployeeID string `json:"employee_id"`
	Day        string `json:"day"`
	Protocol   string `json:"protocol"`
}

type ValidateRequest struct {
	EmployeeID string  `json:"employee_id"`
	Code       string  `json:"code"`
	Day        string  `json:"day"`
	Hours      float64 `json:"hours"`
}

// ErrorDTO is the uniform error envelope.
type ErrorDTO struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
