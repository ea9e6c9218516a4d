package pkg

import "time"

const DateLayout = "2006-01-02"

// DateString formats t as YYYY-MM-DD in UTC, the shape claim records and
// streak state use for calendar-day comparisons.
func DateString(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayRange returns the half-open interval [today, tomorrow) for t's calendar day.
func DayRange(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t)
	return start, start.Add(24 * time.Hour)
}
