/*
handlers.go - HTTP handlers for the presence calendar

PURPOSE:
  Exposes the presence engine over REST. Handlers parse the request,
  delegate to the engine, and translate its outcomes back to JSON.

ENDPOINTS:
  GET    /api/calendar/{year}/{month}   Month grid (cessato materialized)
  POST   /api/calendar/click            Single-cell cycle click
  POST   /api/calendar/paint/toggle     Arm/disarm multi-select painting
  POST   /api/calendar/paint            Armed click or shift range fill
  POST   /api/calendar/all-present      Confirmation-gated bulk action
  PUT    /api/calendar/note             Attach certificate protocol number
  GET    /api/employees                 Roster
  POST   /api/employees                 Create/update roster entry
  POST   /api/leave/validate            Leave-balance check passthrough

ERROR HANDLING:
  - 400: malformed input
  - 404: unknown employee
  - 409: hard validation rejection (body carries the backend messaggio)
  - 502: persistence failure (the engine already rolled the cell back)
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/backoffice/presence-engine/directory"
	"github.com/backoffice/presence-engine/presence"
)

// EmployeeSaver persists roster changes behind POST /api/employees.
type EmployeeSaver interface {
	SaveEmployee(ctx context.Context, emp presence.Employee) error
}

// Handler holds all dependencies for the HTTP layer.
type Handler struct {
	Roster  *directory.Roster
	Ctrl    *presence.Controller
	Painter *presence.Painter
	Sync    presence.RemoteSync
	Saver   EmployeeSaver
	Log     logrus.FieldLogger
}

func NewHandler(roster *directory.Roster, ctrl *presence.Controller, sync presence.RemoteSync, saver EmployeeSaver, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{
		Roster:  roster,
		Ctrl:    ctrl,
		Painter: presence.NewPainter(ctrl),
		Sync:    sync,
		Saver:   saver,
		Log:     log,
	}
}

// =============================================================================
// CALENDAR
// =============================================================================

// GetMonth renders the month grid for every visible employee.
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year", err)
		return
	}
	monthNum, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		writeError(w, http.StatusBadRequest, "invalid month", err)
		return
	}
	month := time.Month(monthNum)

	store := h.Ctrl.Store()
	out := MonthDTO{Year: year, Month: monthNum}
	for _, emp := range h.Roster.VisibleIn(year, month) {
		row := RowDTO{Employee: employeeDTO(emp)}
		for n := 1; n <= presence.DaysInMonth(year, month); n++ {
			day := presence.Day{Year: year, Month: month, Date: n}
			cell := CellDTO{
				Day:      day.String(),
				State:    string(presence.DisplayState(store, emp, day)),
				Editable: presence.Eligible(emp, day),
			}
			if note, ok := store.Note(emp.ID, day); ok {
				cell.Note = note
			}
			row.Cells = append(row.Cells, cell)
		}
		out.Rows = append(out.Rows, row)
	}
	writeJSON(w, http.StatusOK, out)
}

// Click advances one cell through the state cycle.
func (h *Handler) Click(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	emp, day, ok := h.resolveCell(w, req.EmployeeID, req.Day)
	if !ok {
		return
	}

	res, err := h.Ctrl.Click(r.Context(), emp, day)
	h.writeClickOutcome(w, res, err)
}

// PaintToggle arms or disarms the multi-select target state.
func (h *Handler) PaintToggle(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	state, ok := presence.ParseState(req.State)
	if !ok || !state.Settable() {
		writeError(w, http.StatusBadRequest, "state is not paintable", nil)
		return
	}

	armed := h.Painter.Toggle(state)
	resp := ToggleResponse{Armed: armed}
	if armed {
		resp.Target = string(state)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Paint handles armed clicks; with shift set it runs the range fill.
func (h *Handler) Paint(w http.ResponseWriter, r *http.Request) {
	var req PaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	emp, day, ok := h.resolveCell(w, req.EmployeeID, req.Day)
	if !ok {
		return
	}

	if req.Shift {
		sweep, err := h.Painter.RangeFill(r.Context(), emp, day)
		if errors.Is(err, presence.ErrNotArmed) {
			writeError(w, http.StatusConflict, "multi-select mode is not armed", nil)
			return
		}
		if err != nil {
			writeError(w, http.StatusBadGateway, "range fill failed", err)
			return
		}
		writeJSON(w, http.StatusOK, sweepDTO(sweep))
		return
	}

	res, err := h.Painter.Click(r.Context(), emp, day)
	if errors.Is(err, presence.ErrNotArmed) {
		writeError(w, http.StatusConflict, "multi-select mode is not armed", nil)
		return
	}
	h.writeClickOutcome(w, res, err)
}

// AllPresent fills every empty non-Sunday cell of the month with presente.
func (h *Handler) AllPresent(w http.ResponseWriter, r *http.Request) {
	var req AllPresentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if !req.Confirm {
		writeError(w, http.StatusBadRequest, "bulk action requires confirm=true", nil)
		return
	}
	if req.Month < 1 || req.Month > 12 {
		writeError(w, http.StatusBadRequest, "invalid month", nil)
		return
	}

	month := time.Month(req.Month)
	result := h.Ctrl.MarkAllPresent(r.Context(), h.Roster.VisibleIn(req.Year, month), req.Year, month)

	resp := AllPresentResponse{Applied: result.Applied(), Failed: result.Failed()}
	if result.CompanionErr != nil {
		resp.CompanionErr = result.CompanionErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// PutNote attaches a medical-certificate protocol number.
func (h *Handler) PutNote(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	emp, day, ok := h.resolveCell(w, req.EmployeeID, req.Day)
	if !ok {
		return
	}

	if err := h.Ctrl.AttachNote(r.Context(), emp.ID, day, req.Protocol); err != nil {
		writeError(w, http.StatusBadGateway, "note not saved", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	emps := h.Roster.All()
	dtos := make([]EmployeeDTO, len(emps))
	for i, emp := range emps {
		dtos[i] = employeeDTO(emp)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.ID == "" || req.DisplayName == "" {
		writeError(w, http.StatusBadRequest, "id and display_name are required", nil)
		return
	}

	emp := presence.Employee{
		ID:          presence.EmployeeID(req.ID),
		DisplayName: req.DisplayName,
		Active:      true,
	}
	if req.Active != nil {
		emp.Active = *req.Active
	}
	var err error
	if emp.HireDate, err = parseOptionalDay(req.HireDate); err != nil {
		writeError(w, http.StatusBadRequest, "invalid hire_date (use YYYY-MM-DD)", err)
		return
	}
	if emp.TerminationDate, err = parseOptionalDay(req.TerminationDate); err != nil {
		writeError(w, http.StatusBadRequest, "invalid termination_date (use YYYY-MM-DD)", err)
		return
	}

	if err := h.Saver.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save employee", err)
		return
	}
	h.Roster.Put(emp)
	writeJSON(w, http.StatusCreated, employeeDTO(emp))
}

// =============================================================================
// LEAVE VALIDATION PASSTHROUGH
// =============================================================================

func (h *Handler) ValidateLeave(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	day, err := presence.ParseDay(req.Day)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid day", err)
		return
	}

	res, err := h.Sync.Validate(r.Context(), presence.EmployeeID(req.EmployeeID),
		presence.LeaveCode(req.Code), day, req.Hours)
	if err != nil {
		writeError(w, http.StatusBadGateway, "validation unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) resolveCell(w http.ResponseWriter, employeeID, dayStr string) (presence.Employee, presence.Day, bool) {
	emp, ok := h.Roster.Get(presence.EmployeeID(employeeID))
	if !ok {
		writeError(w, http.StatusNotFound, "employee not found", nil)
		return presence.Employee{}, presence.Day{}, false
	}
	day, err := presence.ParseDay(dayStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid day (use YYYY-MM-DD)", err)
		return presence.Employee{}, presence.Day{}, false
	}
	return emp, day, true
}

func (h *Handler) writeClickOutcome(w http.ResponseWriter, res presence.ClickResult, err error) {
	var rejected *presence.RejectedError
	if errors.As(err, &rejected) {
		writeError(w, http.StatusConflict, rejected.Messaggio, nil)
		return
	}
	if err != nil {
		// The engine already rolled the cell back.
		writeError(w, http.StatusBadGateway, "presence not saved", err)
		return
	}
	writeJSON(w, http.StatusOK, ClickResponse{
		NoOp:      res.NoOp,
		Previous:  string(res.Previous),
		Committed: string(res.Committed),
		Warning:   res.Warning,
		NeedsNote: res.NeedsNote,
	})
}

func employeeDTO(emp presence.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:          string(emp.ID),
		DisplayName: emp.DisplayName,
		Active:      emp.Active,
	}
	if emp.HireDate != nil {
		dto.HireDate = emp.HireDate.String()
	}
	if emp.TerminationDate != nil {
		dto.TerminationDate = emp.TerminationDate.String()
	}
	return dto
}

func sweepDTO(sweep presence.SweepResult) SweepResponse {
	resp := SweepResponse{
		Target:  string(sweep.Target),
		Applied: sweep.Applied(),
		Failed:  sweep.Failed(),
	}
	for _, o := range sweep.Outcomes {
		d := DayOutcomeDTO{Day: o.Day.String(), OK: o.Err == nil}
		if o.Err != nil {
			d.Error = o.Err.Error()
		}
		resp.Days = append(resp.Days, d)
	}
	return resp
}

func parseOptionalDay(s string) (*presence.Day, error) {
	if s == "" {
		return nil, nil
	}
	d, err := presence.ParseDay(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	dto := ErrorDTO{Error: msg}
	if err != nil {
		dto.Details = err.Error()
	}
	writeJSON(w, status, dto)
}
