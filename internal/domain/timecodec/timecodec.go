package timecodec

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
)

// Times of day are stored as minutes from midnight: 0 is 12:00 AM and
// 1439 is 11:59 PM. Labels and legacy clock strings are projections of
// that minute and are never used for arithmetic.

const MinutesPerDay = 1440

var (
	labelPattern  = regexp.MustCompile(`^([0-9]{1,2})(?::([0-9]{2}))? ?([AaPp][Mm])$`)
	legacyPattern = regexp.MustCompile(`^([0-9]{1,2}):([0-9]{2})(?::([0-9]{2}))?$`)
)

// ParseLabel converts a 12-hour label such as "9 AM" or "11:30 pm" to a
// minute of day.
func ParseLabel(label string) (int, error) {
	match := labelPattern.FindStringSubmatch(strings.TrimSpace(label))
	if match == nil {
		return 0, fault.Validation("invalid_time_label", "time %q is not in H:MM AM/PM form", label)
	}

	hour, _ := strconv.Atoi(match[1])
	if hour < 1 || hour > 12 {
		return 0, fault.Validation("invalid_time_label", "hour in %q must be between 1 and 12", label)
	}
	minute := 0
	if match[2] != "" {
		minute, _ = strconv.Atoi(match[2])
		if minute > 59 {
			return 0, fault.Validation("invalid_time_label", "minutes in %q must be between 00 and 59", label)
		}
	}

	if strings.EqualFold(match[3], "AM") {
		if hour == 12 {
			hour = 0
		}
	} else if hour != 12 {
		hour += 12
	}
	return hour*60 + minute, nil
}

// FormatMinute renders a minute of day as "H:MM AM/PM" with no leading
// zero on the hour.
func FormatMinute(minute int) (string, error) {
	if minute < 0 || minute >= MinutesPerDay {
		return "", fault.Validation("minute_out_of_range", "minute %d is outside 0-1439", minute)
	}

	hour := minute / 60
	meridiem := "AM"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		meridiem = "PM"
	case hour > 12:
		hour -= 12
		meridiem = "PM"
	}
	return strconv.Itoa(hour) + ":" + pad2(minute%60) + " " + meridiem, nil
}

// Canonicalize parses a label and re-renders it in canonical form, so
// "9 am" becomes "9:00 AM". Canonical labels pass through unchanged.
func Canonicalize(label string) (string, error) {
	minute, err := ParseLabel(label)
	if err != nil {
		return "", err
	}
	return FormatMinute(minute)
}

// DurationMinutes returns the elapsed minutes from start to end. An end
// before the start means the shift crosses midnight.
func DurationMinutes(startMin, endMin int) int {
	if endMin < startMin {
		return MinutesPerDay - startMin + endMin
	}
	return endMin - startMin
}

// DurationHours converts a start/end minute pair to hours, rounded to
// two decimals.
func DurationHours(startMin, endMin int) float64 {
	return Round2(float64(DurationMinutes(startMin, endMin)) / 60)
}

// Duration computes hours between two 12-hour labels, wrapping past
// midnight when the end label is earlier than the start label.
func Duration(startLabel, endLabel string) (float64, error) {
	startMin, err := ParseLabel(startLabel)
	if err != nil {
		return 0, err
	}
	endMin, err := ParseLabel(endLabel)
	if err != nil {
		return 0, err
	}
	return DurationHours(startMin, endMin), nil
}

// Legacy renders a minute of day as the 24-hour "HH:MM:SS" string older
// rows and clients still carry. Seconds are always zero.
func Legacy(minute int) (string, error) {
	if minute < 0 || minute >= MinutesPerDay {
		return "", fault.Validation("minute_out_of_range", "minute %d is outside 0-1439", minute)
	}
	return pad2(minute/60) + ":" + pad2(minute%60) + ":00", nil
}

// ParseLegacy accepts "HH:MM" or "HH:MM:SS" and returns the minute of
// day. Seconds are ignored.
func ParseLegacy(value string) (int, error) {
	match := legacyPattern.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return 0, fault.Validation("invalid_time_value", "time %q is not in HH:MM:SS form", value)
	}
	hour, _ := strconv.Atoi(match[1])
	minute, _ := strconv.Atoi(match[2])
	if hour > 23 {
		return 0, fault.Validation("invalid_time_value", "hour in %q must be between 00 and 23", value)
	}
	if minute > 59 {
		return 0, fault.Validation("invalid_time_value", "minutes in %q must be between 00 and 59", value)
	}
	return hour*60 + minute, nil
}

// ParseAny accepts either label or legacy form. Unparseable input is an
// error; callers must not substitute a default duration.
func ParseAny(value string) (int, error) {
	if minute, err := ParseLabel(value); err == nil {
		return minute, nil
	}
	if minute, err := ParseLegacy(value); err == nil {
		return minute, nil
	}
	return 0, fault.Validation("invalid_time_value", "time %q is neither H:MM AM/PM nor HH:MM:SS", value)
}

// Round2 rounds to two decimals with halves away from zero. Every
// accumulation of hours or pay applies this at each step so totals match
// what a person adding rounded rows would get.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func pad2(v int) string {
	if v < 10 {
		return "0" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}
