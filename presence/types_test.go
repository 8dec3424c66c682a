package presence_test

import (
	"testing"

	"github.com/backoffice/presence-engine/presence"
)

func TestCycle_Closure(t *testing.T) {
	// Applying the advance ten times from any state returns to it.
	for _, start := range presence.Cycle {
		s := start
		for i := 0; i < len(presence.Cycle); i++ {
			s = s.Next()
		}
		if s != start {
			t.Errorf("cycle from %s did not close, ended at %s", start, s)
		}
	}
}

func TestCycle_RiposoAdvancesToPresente(t *testing.T) {
	if next := presence.StateRiposo.Next(); next != presence.StatePresente {
		t.Errorf("expected riposo -> presente, got %s", next)
	}
}

func TestCycle_CessatoRestartsAtFirstStop(t *testing.T) {
	if next := presence.StateCessato.Next(); next != presence.Cycle[0] {
		t.Errorf("states outside the cycle restart at %s, got %s", presence.Cycle[0], next)
	}
}

func TestLeaveCodeFor_Mapping(t *testing.T) {
	cases := []struct {
		state presence.State
		code  presence.LeaveCode
	}{
		{presence.StateFerie, presence.CodeFerie},
		{presence.StatePermesso, presence.CodePermesso},
		{presence.StateMalattia, presence.CodeMalattia},
		{presence.StateROL, presence.CodeROL},
		{presence.StateAssente, presence.CodeAssente},
	}
	for _, tc := range cases {
		code, ok := presence.LeaveCodeFor(tc.state)
		if !ok || code != tc.code {
			t.Errorf("%s: expected code %s, got %s ok=%v", tc.state, tc.code, code, ok)
		}
		if !presence.RequiresValidation(tc.state) {
			t.Errorf("%s should require validation", tc.state)
		}
	}

	for _, state := range []presence.State{
		presence.StatePresente, presence.StateChiuso, presence.StateRiposo,
		presence.StateRiposoSettimanale, presence.StateTrasferta,
	} {
		if presence.RequiresValidation(state) {
			t.Errorf("%s should not require validation", state)
		}
	}
}

func TestStateForCode_RoundTrips(t *testing.T) {
	for state, wantCode := range map[presence.State]presence.LeaveCode{
		presence.StateFerie:   presence.CodeFerie,
		presence.StateAssente: presence.CodeAssente,
	} {
		got, ok := presence.StateForCode(wantCode)
		if !ok || got != state {
			t.Errorf("StateForCode(%s) = %s ok=%v, want %s", wantCode, got, ok, state)
		}
	}
}

func TestParseState(t *testing.T) {
	if s, ok := presence.ParseState("ferie"); !ok || s != presence.StateFerie {
		t.Errorf("expected ferie, got %s ok=%v", s, ok)
	}
	if s, ok := presence.ParseState("cessato"); !ok || s != presence.StateCessato {
		t.Errorf("cessato parses (but is not settable), got %s ok=%v", s, ok)
	}
	if _, ok := presence.ParseState("vacanza"); ok {
		t.Error("unknown states must not parse")
	}
	if presence.StateCessato.Settable() {
		t.Error("cessato is never user-settable")
	}
}
