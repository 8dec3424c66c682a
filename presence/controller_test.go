package presence_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/backoffice/presence-engine/presence"
)

// =============================================================================
// TEST FAKE - Recording RemoteSync
// =============================================================================

type fakeSync struct {
	mu sync.Mutex

	validateFn func(code presence.LeaveCode, day presence.Day) (presence.ValidationResult, error)
	persistFn  func(day presence.Day, state presence.State) error
	noteErr    error
	bulkErr    error

	validateCalls int
	persistCalls  int
	bulkCalls     int
}

func (f *fakeSync) Validate(_ context.Context, _ presence.EmployeeID, code presence.LeaveCode, day presence.Day, _ float64) (presence.ValidationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.validateCalls++
	if f.validateFn != nil {
		return f.validateFn(code, day)
	}
	return presence.ValidationResult{Valido: true}, nil
}

func (f *fakeSync) SetPresence(_ context.Context, _ presence.EmployeeID, day presence.Day, state presence.State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.persistCalls++
	if f.persistFn != nil {
		return f.persistFn(day, state)
	}
	return nil
}

func (f *fakeSync) SetNote(context.Context, presence.EmployeeID, presence.Day, string) error {
	return f.noteErr
}

func (f *fakeSync) BulkSetAllPresent(context.Context, int, int, []presence.EmployeeID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulkCalls++
	return f.bulkErr
}

func (f *fakeSync) calls() (validate, persist int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validateCalls, f.persistCalls
}

// =============================================================================
// FIXTURES
// =============================================================================

func day(d int) presence.Day {
	// March 2026: the 1st, 8th, 15th, 22nd and 29th are Sundays.
	return presence.Day{Year: 2026, Month: time.March, Date: d}
}

func employee() presence.Employee {
	return presence.Employee{ID: "emp-1", DisplayName: "Mario Rossi", Active: true}
}

func newController(sync *fakeSync) *presence.Controller {
	return presence.NewController(presence.NewStore(), sync, nil)
}

// =============================================================================
// SINGLE-CELL CYCLE CLICKS
// =============================================================================

func TestClick_EmptyCell_BecomesPresente_NoValidation(t *testing.T) {
	// GIVEN: An empty (riposo) cell
	// WHEN: A single click lands
	// THEN: The cell commits presente without any validation call

	sync := &fakeSync{}
	ctrl := newController(sync)
	emp := employee()

	res, err := ctrl.Click(context.Background(), emp, day(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Committed != presence.StatePresente {
		t.Errorf("expected presente, got %s", res.Committed)
	}

	validate, persist := sync.calls()
	if validate != 0 {
		t.Errorf("presente needs no validation, got %d calls", validate)
	}
	if persist != 1 {
		t.Errorf("expected 1 persist call, got %d", persist)
	}
}

func TestClick_SecondClick_ValidatesAssente(t *testing.T) {
	// Scenario A: riposo -> presente -> assente, the second transition
	// validated with code AI.

	var seenCode presence.LeaveCode
	sync := &fakeSync{
		validateFn: func(code presence.LeaveCode, _ presence.Day) (presence.ValidationResult, error) {
			seenCode = code
			return presence.ValidationResult{Valido: true}, nil
		},
	}
	ctrl := newController(sync)
	emp := employee()
	ctx := context.Background()

	if _, err := ctrl.Click(ctx, emp, day(10)); err != nil {
		t.Fatalf("first click: %v", err)
	}
	res, err := ctrl.Click(ctx, emp, day(10))
	if err != nil {
		t.Fatalf("second click: %v", err)
	}

	if res.Committed != presence.StateAssente {
		t.Errorf("expected assente, got %s", res.Committed)
	}
	if seenCode != presence.CodeAssente {
		t.Errorf("expected validation with code AI, got %q", seenCode)
	}
	if ctrl.Store().Get(emp.ID, day(10)) != presence.StateAssente {
		t.Error("store should hold the committed state")
	}
}

func TestClick_AfterTermination_NoOp(t *testing.T) {
	// Scenario B / eligibility gating: clicks past the termination date
	// change nothing and reach no network call.

	term := day(15)
	emp := employee()
	emp.TerminationDate = &term

	sync := &fakeSync{}
	ctrl := newController(sync)

	res, err := ctrl.Click(context.Background(), emp, day(20))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.NoOp {
		t.Error("expected a no-op result")
	}
	if got := ctrl.Store().Get(emp.ID, day(20)); got != presence.StateRiposo {
		t.Errorf("store should be untouched, got %s", got)
	}
	if v, p := sync.calls(); v != 0 || p != 0 {
		t.Errorf("expected no network calls, got validate=%d persist=%d", v, p)
	}
}

func TestClick_BeforeHire_NoOp(t *testing.T) {
	hire := day(15)
	emp := employee()
	emp.HireDate = &hire

	sync := &fakeSync{}
	ctrl := newController(sync)

	res, _ := ctrl.Click(context.Background(), emp, day(10))
	if !res.NoOp {
		t.Error("pre-hire days must reject clicks")
	}
}

func TestClick_HardRejection_StoreUntouched(t *testing.T) {
	// Scenario D: valido=false aborts before any write and carries the
	// backend messaggio.

	sync := &fakeSync{
		validateFn: func(code presence.LeaveCode, _ presence.Day) (presence.ValidationResult, error) {
			if code == presence.CodeMalattia {
				return presence.ValidationResult{Valido: false, Messaggio: "Limite malattia superato"}, nil
			}
			return presence.ValidationResult{Valido: true}, nil
		},
	}
	ctrl := newController(sync)
	emp := employee()
	d := day(12)

	// Walk the cycle up to permesso so the next click requests malattia.
	ctrl.Store().Set(emp.ID, d, presence.StatePermesso)

	_, err := ctrl.Click(context.Background(), emp, d)
	if !presence.IsRejection(err) {
		t.Fatalf("expected a rejection, got %v", err)
	}
	var rejected *presence.RejectedError
	if !errors.As(err, &rejected) || rejected.Messaggio != "Limite malattia superato" {
		t.Errorf("expected backend messaggio, got %v", err)
	}
	if got := ctrl.Store().Get(emp.ID, d); got != presence.StatePermesso {
		t.Errorf("store must equal pre-click value, got %s", got)
	}
}

func TestClick_SoftValidationFailure_Proceeds(t *testing.T) {
	// A transport failure while validating must not block the calendar.

	sync := &fakeSync{
		validateFn: func(presence.LeaveCode, presence.Day) (presence.ValidationResult, error) {
			return presence.ValidationResult{}, errors.New("connection refused")
		},
	}
	ctrl := newController(sync)
	emp := employee()
	d := day(12)
	ctrl.Store().Set(emp.ID, d, presence.StateAssente) // next: ferie (code FER)

	res, err := ctrl.Click(context.Background(), emp, d)
	if err != nil {
		t.Fatalf("soft failure should not surface: %v", err)
	}
	if res.Committed != presence.StateFerie {
		t.Errorf("expected ferie committed, got %s", res.Committed)
	}
}

func TestClick_PersistFailure_RollsBack(t *testing.T) {
	// Rollback correctness: a failed SetPresence restores the value that
	// was current immediately before this click.

	sync := &fakeSync{
		persistFn: func(presence.Day, presence.State) error {
			return errors.New("503 service unavailable")
		},
	}
	ctrl := newController(sync)
	emp := employee()
	d := day(12)
	ctrl.Store().Set(emp.ID, d, presence.StatePresente)

	_, err := ctrl.Click(context.Background(), emp, d)
	if !errors.Is(err, presence.ErrPersistFailed) {
		t.Fatalf("expected persist error, got %v", err)
	}
	if got := ctrl.Store().Get(emp.ID, d); got != presence.StatePresente {
		t.Errorf("expected rollback to presente, got %s", got)
	}
}

func TestClick_Malattia_SignalsNotePrompt(t *testing.T) {
	sync := &fakeSync{}
	ctrl := newController(sync)
	emp := employee()
	d := day(12)
	ctrl.Store().Set(emp.ID, d, presence.StatePermesso) // next: malattia

	res, err := ctrl.Click(context.Background(), emp, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.NeedsNote {
		t.Error("a committed malattia should ask for the certificate prompt")
	}
}

func TestAttachNote_FailureDoesNotRollBackState(t *testing.T) {
	// Malattia side effect isolation: the note is a decoupled follow-up
	// with its own failure mode.

	sync := &fakeSync{noteErr: errors.New("timeout")}
	ctrl := newController(sync)
	emp := employee()
	d := day(12)
	ctrl.Store().Set(emp.ID, d, presence.StatePermesso)

	res, err := ctrl.Click(context.Background(), emp, d)
	if err != nil || res.Committed != presence.StateMalattia {
		t.Fatalf("setup: expected committed malattia, got %s err=%v", res.Committed, err)
	}

	if err := ctrl.AttachNote(context.Background(), emp.ID, d, "PROT-2026-001"); err == nil {
		t.Error("expected the note save to fail")
	}
	if got := ctrl.Store().Get(emp.ID, d); got != presence.StateMalattia {
		t.Errorf("committed state must survive note failure, got %s", got)
	}
	if _, ok := ctrl.Store().Note(emp.ID, d); ok {
		t.Error("failed note must not be cached locally")
	}
}

func TestClick_ConcurrentClicksOnSameCell_Serialized(t *testing.T) {
	// Ten concurrent clicks on one cell run one at a time, so they advance
	// the cycle ten times and land back where they started.

	fs := &fakeSync{}
	ctrl := newController(fs)
	emp := employee()
	d := day(10)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ctrl.Click(context.Background(), emp, d); err != nil {
				t.Errorf("click failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := ctrl.Store().Get(emp.ID, d); got != presence.StateRiposo {
		t.Errorf("ten advances close the cycle, got %s", got)
	}
	if _, persist := fs.calls(); persist != 10 {
		t.Errorf("expected 10 persist calls, got %d", persist)
	}
}

func TestAttachNote_SavedLocallyOnSuccess(t *testing.T) {
	sync := &fakeSync{}
	ctrl := newController(sync)
	emp := employee()
	d := day(12)

	if err := ctrl.AttachNote(context.Background(), emp.ID, d, "PROT-2026-002"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if note, ok := ctrl.Store().Note(emp.ID, d); !ok || note != "PROT-2026-002" {
		t.Errorf("expected cached note, got %q ok=%v", note, ok)
	}
}
