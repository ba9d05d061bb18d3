package timeutil

import "time"

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// StampLayout is the UTC timestamp format The Odds API expects for window bounds.
const StampLayout = "2006-01-02T15:04:05Z"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatStamp formats an instant as a UTC timestamp in StampLayout.
func FormatStamp(t time.Time) string {
	return t.UTC().Format(StampLayout)
}

// SameDate reports whether a and b fall on the same calendar date in loc.
func SameDate(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// DayWindow returns the UTC instants bounding the calendar date of t in loc:
// startHour:00:00 local through 23:59:59 local.
func DayWindow(t time.Time, loc *time.Location, startHour int) (start, end time.Time) {
	y, m, d := t.In(loc).Date()
	start = time.Date(y, m, d, startHour, 0, 0, 0, loc).UTC()
	end = time.Date(y, m, d, 23, 59, 59, 0, loc).UTC()
	return start, end
}
