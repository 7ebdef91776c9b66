package habit

import (
	"fmt"
	"time"
)

// DateLayout is the text form used for dates at the storage boundary.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component.
type Date struct {
	t time.Time // always midnight UTC
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return Date{t: t}, nil
}

func (d Date) String() string {
	return d.t.Format(DateLayout)
}

func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// DaysSince returns the whole number of days from earlier to d.
// The result is negative when earlier is after d.
func (d Date) DaysSince(earlier Date) int {
	return int(d.t.Sub(earlier.t).Hours() / 24)
}

func (d Date) Equal(o Date) bool {
	return d.t.Equal(o.t)
}
