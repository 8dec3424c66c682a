package presence_test

import (
	"testing"
	"time"

	"github.com/backoffice/presence-engine/presence"
)

func TestParseDay(t *testing.T) {
	d, err := presence.ParseDay("2026-03-08")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year != 2026 || d.Month != time.March || d.Date != 8 {
		t.Errorf("got %+v", d)
	}
	if !d.IsSunday() {
		t.Error("2026-03-08 is a Sunday")
	}
	if d.String() != "2026-03-08" {
		t.Errorf("round trip failed: %s", d.String())
	}

	if _, err := presence.ParseDay("08/03/2026"); err == nil {
		t.Error("only ISO dates parse")
	}
}

func TestDay_Comparison(t *testing.T) {
	a := presence.NewDay(2026, time.March, 5)
	b := presence.NewDay(2026, time.March, 10)

	if !a.Before(b) || b.Before(a) {
		t.Error("ordering broken")
	}
	if !a.Equal(presence.NewDay(2026, time.March, 5)) {
		t.Error("value equality broken")
	}
}

func TestNewDay_Normalizes(t *testing.T) {
	d := presence.NewDay(2026, time.March, 32)
	if d.Month != time.April || d.Date != 1 {
		t.Errorf("expected April 1, got %+v", d)
	}
}

func TestDaysInMonth(t *testing.T) {
	cases := map[time.Month]int{
		time.February: 28,
		time.March:    31,
		time.April:    30,
	}
	for month, want := range cases {
		if got := presence.DaysInMonth(2026, month); got != want {
			t.Errorf("%s 2026: expected %d days, got %d", month, want, got)
		}
	}
	if got := presence.DaysInMonth(2028, time.February); got != 29 {
		t.Errorf("leap February: expected 29, got %d", got)
	}
}

func TestMonthRange_OrderIndependent(t *testing.T) {
	a := presence.NewDay(2026, time.March, 10)
	b := presence.NewDay(2026, time.March, 5)

	days := presence.MonthRange(a, b)
	if len(days) != 6 {
		t.Fatalf("expected 6 days, got %d", len(days))
	}
	if days[0].Date != 5 || days[5].Date != 10 {
		t.Errorf("expected 5..10, got %d..%d", days[0].Date, days[5].Date)
	}
}

func TestMonthRange_SingleDay(t *testing.T) {
	d := presence.NewDay(2026, time.March, 5)
	days := presence.MonthRange(d, d)
	if len(days) != 1 || days[0] != d {
		t.Errorf("expected just the anchor day, got %+v", days)
	}
}
