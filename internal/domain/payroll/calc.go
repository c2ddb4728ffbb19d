package payroll

import (
	"time"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/dates"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/timecodec"
)

// MonthShare returns the part of one week's daily hours that falls
// inside the given month. Each of the seven buckets is attributed by
// its absolute date (week start + offset), so a week straddling a
// month boundary contributes a subset of its values to each side.
func MonthShare(weekStart time.Time, daily [7]float64, year int, month time.Month) float64 {
	var total float64
	for i, hours := range daily {
		day := dates.AddDays(weekStart, i)
		if day.Year() == year && day.Month() == month {
			total = timecodec.Round2(total + hours)
		}
	}
	return total
}

// ComputePay prices hours at an hourly rate. Net equals gross until
// manual adjustments are applied on a payment record.
func ComputePay(hours, rate float64) (gross, net float64) {
	gross = timecodec.Round2(hours * rate)
	net = gross
	return gross, net
}

// NetFromParts applies record-level adjustments to a gross amount.
func NetFromParts(gross, bonuses, advances, deductions float64) float64 {
	return timecodec.Round2(gross + bonuses - advances - deductions)
}

// ExactCalendarMonth reports whether [start, end] covers exactly one
// calendar month, first day through last day.
func ExactCalendarMonth(start, end time.Time) (int, time.Month, bool) {
	first, last := dates.MonthBounds(start.Year(), start.Month())
	if dates.Truncate(start).Equal(first) && dates.Truncate(end).Equal(last) {
		return start.Year(), start.Month(), true
	}
	return 0, 0, false
}
