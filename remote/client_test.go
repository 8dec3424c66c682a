package remote_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/backoffice/presence-engine/presence"
	"github.com/backoffice/presence-engine/remote"
)

func mar(d int) presence.Day {
	return presence.Day{Year: 2026, Month: time.March, Date: d}
}

func TestClient_Validate_DecodesBackendVerdict(t *testing.T) {
	// GIVEN: A backend rejecting FER with an Italian messaggio
	// WHEN: The client validates a ferie request
	// THEN: The verdict comes back verbatim, transport error nil

	var gotPath string
	var gotBody map[string]any
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(presence.ValidationResult{
			Valido:    false,
			Messaggio: "Limite ferie superato",
		})
	}))
	defer backend.Close()

	c := remote.NewClient(backend.URL)
	res, err := c.Validate(context.Background(), "emp-1", presence.CodeFerie, mar(10), 0)
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if res.Valido || res.Messaggio != "Limite ferie superato" {
		t.Errorf("verdict not preserved: %+v", res)
	}
	if gotPath != "/api/leave/validate" {
		t.Errorf("wrong endpoint: %s", gotPath)
	}
	if gotBody["code"] != "FER" || gotBody["day"] != "2026-03-10" {
		t.Errorf("unexpected payload: %v", gotBody)
	}
}

func TestClient_SetPresence_Non2xxIsError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}))
	defer backend.Close()

	c := remote.NewClient(backend.URL)
	err := c.SetPresence(context.Background(), "emp-1", mar(10), presence.StateFerie)
	if err == nil {
		t.Fatal("a 503 must surface as an error so the engine rolls back")
	}
}

func TestClient_SetPresence_SendsStateString(t *testing.T) {
	var gotBody map[string]any
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	c := remote.NewClient(backend.URL)
	if err := c.SetPresence(context.Background(), "emp-1", mar(10), presence.StateMalattia); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody["state"] != "malattia" || gotBody["employee_id"] != "emp-1" {
		t.Errorf("unexpected payload: %v", gotBody)
	}
}

func TestClient_BulkSetAllPresent_PostsRoster(t *testing.T) {
	var gotBody map[string]any
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	c := remote.NewClient(backend.URL)
	err := c.BulkSetAllPresent(context.Background(), 2026, 3, []presence.EmployeeID{"emp-1", "emp-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	emps, _ := gotBody["employees"].([]any)
	if len(emps) != 2 {
		t.Errorf("expected 2 employee ids, got %v", gotBody)
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer backend.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := remote.NewClient(backend.URL)
	if _, err := c.Validate(ctx, "emp-1", presence.CodeFerie, mar(10), 0); err == nil {
		t.Fatal("cancelled context must abort the call")
	}
}
