package presence

import (
	"fmt"
	"time"
)

// =============================================================================
// DAY - Calendar-day value type (comparable, usable inside map keys)
// =============================================================================

type Day struct {
	Year  int
	Month time.Month
	Date  int
}

const dayLayout = "2006-01-02"

func NewDay(year int, month time.Month, date int) Day {
	// Normalize through time.Date so "March 32" becomes April 1.
	t := time.Date(year, month, date, 0, 0, 0, 0, time.UTC)
	return Day{Year: t.Year(), Month: t.Month(), Date: t.Day()}
}

func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q: %w", s, err)
	}
	return Day{Year: t.Year(), Month: t.Month(), Date: t.Day()}, nil
}

func Today() Day {
	now := time.Now()
	return Day{Year: now.Year(), Month: now.Month(), Date: now.Day()}
}

func (d Day) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Date, 0, 0, 0, 0, time.UTC)
}

func (d Day) String() string { return d.Time().Format(dayLayout) }

// Comparison
func (d Day) Before(other Day) bool { return d.Time().Before(other.Time()) }
func (d Day) After(other Day) bool  { return d.Time().After(other.Time()) }
func (d Day) Equal(other Day) bool  { return d == other }
func (d Day) IsZero() bool          { return d == Day{} }

// Arithmetic
func (d Day) AddDays(n int) Day {
	t := d.Time().AddDate(0, 0, n)
	return Day{Year: t.Year(), Month: t.Month(), Date: t.Day()}
}

// Properties
func (d Day) Weekday() time.Weekday { return d.Time().Weekday() }
func (d Day) IsSunday() bool        { return d.Weekday() == time.Sunday }

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthRange returns the closed interval of days-of-month between a and b,
// order-independent, within a single displayed month. The month and year are
// taken from the anchor a.
func MonthRange(a, b Day) []Day {
	lo, hi := a.Date, b.Date
	if lo > hi {
		lo, hi = hi, lo
	}
	days := make([]Day, 0, hi-lo+1)
	for n := lo; n <= hi; n++ {
		days = append(days, Day{Year: a.Year, Month: a.Month, Date: n})
	}
	return days
}
