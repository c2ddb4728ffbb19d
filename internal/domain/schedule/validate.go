package schedule

import (
	"strconv"
	"time"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/dates"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/timecodec"
)

// TimeWindow is the comparable slice of an existing shift for the same
// employee and day.
type TimeWindow struct {
	StartMin int
	EndMin   int
}

// CheckShiftTimes rejects minutes outside the canonical day range.
func CheckShiftTimes(startMin, endMin int) error {
	if startMin < 0 || startMin >= timecodec.MinutesPerDay {
		return fault.Validation("invalid_shift_time", "start minute %d is outside 0-1439", startMin)
	}
	if endMin < 0 || endMin >= timecodec.MinutesPerDay {
		return fault.Validation("invalid_shift_time", "end minute %d is outside 0-1439", endMin)
	}
	return nil
}

func CheckDayOfWeek(day int) error {
	if day < 0 || day > 6 {
		return fault.Validation("invalid_day_of_week", "day %d is outside 0 (Sunday) to 6 (Saturday)", day)
	}
	return nil
}

// CheckNotPast rejects shifts whose calendar date is before today. The
// comparison is date-only; a shift later today is allowed.
func CheckNotPast(weekStart time.Time, dayOfWeek int, today time.Time) error {
	shiftDate := dates.AddDays(weekStart, dayOfWeek)
	if shiftDate.Before(dates.Truncate(today)) {
		return fault.BusinessRule("shift_in_past", "cannot schedule a shift on %s: the date has already passed", dates.Format(shiftDate))
	}
	return nil
}

// CheckDuplicate rejects a shift byte-identical in (start, end) to one
// already scheduled for the same employee and day.
func CheckDuplicate(existing []TimeWindow, startMin, endMin int) error {
	for _, window := range existing {
		if window.StartMin == startMin && window.EndMin == endMin {
			return fault.Conflict("duplicate_shift", "an identical shift %s to %s already exists for that day", labelFor(startMin), labelFor(endMin))
		}
	}
	return nil
}

// CheckOverlap rejects a shift that shares time with an existing window
// for the same employee and day. Overnight windows are compared on a
// 48-hour axis so an 11 PM to 6 AM shift conflicts with 5 AM to 8 AM
// only when the clock time truly overlaps. Touching boundaries are
// allowed: a shift may start exactly when another ends.
func CheckOverlap(existing []TimeWindow, startMin, endMin int) error {
	s1, e1 := normalizeWindow(startMin, endMin)
	for _, window := range existing {
		s2, e2 := normalizeWindow(window.StartMin, window.EndMin)
		if s1 < e2 && s2 < e1 {
			return fault.Conflict("shift_overlap", "overlaps an existing shift %s to %s on that day", labelFor(window.StartMin), labelFor(window.EndMin))
		}
	}
	return nil
}

func normalizeWindow(startMin, endMin int) (int, int) {
	if endMin < startMin {
		endMin += timecodec.MinutesPerDay
	}
	return startMin, endMin
}

func labelFor(minute int) string {
	label, err := timecodec.FormatMinute(minute)
	if err != nil {
		return strconv.Itoa(minute)
	}
	return label
}
