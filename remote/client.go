package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/backoffice/presence-engine/presence"
)

// =============================================================================
// HTTP CLIENT - RemoteSync against a real backend
// =============================================================================

// Client talks to an external backend implementing the four presence
// endpoints. All payloads are plain JSON; the engine treats transport
// errors from Validate as soft and persistence errors as rollback triggers,
// so the client only has to distinguish "HTTP said no" from "HTTP said yes".
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

var _ presence.RemoteSync = (*Client)(nil)

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

type validateRequest struct {
	EmployeeID string  `json:"employee_id"`
	Code       string  `json:"code"`
	Day        string  `json:"day"`
	Hours      float64 `json:"hours"`
}

type setPresenceRequest struct {
	EmployeeID string `json:"employee_id"`
	Day        string `json:"day"`
	State      string `json:"state"`
}

type setNoteRequest struct {
	EmployeeID string `json:"employee_id"`
	Day        string `json:"day"`
	Protocol   string `json:"protocol"`
}

type bulkRequest struct {
	Year      int      `json:"year"`
	Month     int      `json:"month"`
	Employees []string `json:"employees"`
}

func (c *Client) Validate(ctx context.Context, emp presence.EmployeeID, code presence.LeaveCode, day presence.Day, hours float64) (presence.ValidationResult, error) {
	var out presence.ValidationResult
	err := c.post(ctx, "/api/leave/validate", validateRequest{
		EmployeeID: string(emp),
		Code:       string(code),
		Day:        day.String(),
		Hours:      hours,
	}, &out)
	return out, err
}

func (c *Client) SetPresence(ctx context.Context, emp presence.EmployeeID, day presence.Day, state presence.State) error {
	return c.post(ctx, "/api/presences", setPresenceRequest{
		EmployeeID: string(emp),
		Day:        day.String(),
		State:      string(state),
	}, nil)
}

func (c *Client) SetNote(ctx context.Context, emp presence.EmployeeID, day presence.Day, protocol string) error {
	return c.post(ctx, "/api/presences/note", setNoteRequest{
		EmployeeID: string(emp),
		Day:        day.String(),
		Protocol:   protocol,
	}, nil)
}

func (c *Client) BulkSetAllPresent(ctx context.Context, year int, month int, emps []presence.EmployeeID) error {
	ids := make([]string, len(emps))
	for i, id := range emps {
		ids[i] = string(id)
	}
	return c.post(ctx, "/api/presences/bulk-all-present", bulkRequest{
		Year: year, Month: month, Employees: ids,
	}, nil)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: backend returned %s", path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
