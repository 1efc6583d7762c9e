package timegrid

import "time"

// WeekColumns is the number of columns in week view. The calendar renders
// Monday through Saturday; Sunday is never shown.
const WeekColumns = 6

// WeekStart returns the Monday at 00:00 of the week containing t, in t's
// location. Sundays roll back six days; the week never advances forward.
func WeekStart(t time.Time) time.Time {
	offset := int(t.Weekday()) - 1 // Monday=1 in time.Weekday
	if t.Weekday() == time.Sunday {
		offset = 6
	}
	d := t.AddDate(0, 0, -offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
}

// ColumnDate returns the calendar date of a week-view column.
// PRE: weekStart is a Monday at 00:00 and 0 <= col < WeekColumns.
func ColumnDate(weekStart time.Time, col int) time.Time {
	return weekStart.AddDate(0, 0, col)
}

// MondayIndex returns the 0-based Monday-first weekday index of t
// (Monday=0 .. Sunday=6).
func MondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
