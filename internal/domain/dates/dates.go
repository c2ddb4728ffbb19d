package dates

import (
	"time"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
)

// Calendar dates move through the system as YYYY-MM-DD strings and are
// compared date-only in UTC. Weeks run Sunday through Saturday.

const Layout = "2006-01-02"

// Parse reads a YYYY-MM-DD string into a date-only UTC time.
func Parse(value string) (time.Time, error) {
	parsed, err := time.Parse(Layout, value)
	if err != nil {
		return time.Time{}, fault.Validation("invalid_date", "date %q is not in YYYY-MM-DD form", value)
	}
	return parsed, nil
}

func Format(t time.Time) string {
	return t.Format(Layout)
}

// Truncate drops the clock and zone, leaving the calendar date in UTC.
func Truncate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func AddDays(t time.Time, days int) time.Time {
	return Truncate(t).AddDate(0, 0, days)
}

// WeekStart returns the Sunday on or before t.
func WeekStart(t time.Time) time.Time {
	t = Truncate(t)
	return t.AddDate(0, 0, -int(t.Weekday()))
}

func IsSunday(t time.Time) bool {
	return t.Weekday() == time.Sunday
}

// DayOfWeek numbers days Sunday=0 through Saturday=6.
func DayOfWeek(t time.Time) int {
	return int(t.Weekday())
}

// MonthBounds returns the first and last day of a month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}
