package daterange

import (
	"fmt"
	"time"
)

// Layout is the canonical calendar-date format used on the wire and in storage.
const Layout = "2006-01-02"

const day = 24 * time.Hour

// Parse reads a strict YYYY-MM-DD date. The result is midnight UTC.
func Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Format renders t as YYYY-MM-DD using its own calendar fields.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Truncate drops the clock part of t, keeping the calendar day t falls on in its location.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from one date to another.
// Negative when to is before from.
func DaysBetween(from, to time.Time) int {
	return int(Truncate(to).Sub(Truncate(from)) / day)
}

// ExpandDays lists every day from..to inclusive as YYYY-MM-DD strings.
// Returns an empty slice when from is after to.
func ExpandDays(from, to time.Time) []string {
	from, to = Truncate(from), Truncate(to)
	n := DaysBetween(from, to) + 1
	if n <= 0 {
		return []string{}
	}

	days := make([]string, 0, n)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, Format(d))
	}
	return days
}
