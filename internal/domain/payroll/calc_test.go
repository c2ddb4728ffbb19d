package payroll

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthShareSplitsBoundaryWeek(t *testing.T) {
	// Week starting 2025-01-31 runs Jan 31 then Feb 1 through Feb 6:
	// one day belongs to January, six to February.
	weekStart := date(2025, time.January, 31)
	daily := [7]float64{8, 7.5, 6, 8, 4.25, 8, 5}

	jan := MonthShare(weekStart, daily, 2025, time.January)
	if jan != 8 {
		t.Fatalf("expected 8.00 hours attributed to January, got %v", jan)
	}
	feb := MonthShare(weekStart, daily, 2025, time.February)
	if feb != 38.75 {
		t.Fatalf("expected 38.75 hours attributed to February, got %v", feb)
	}
}

func TestMonthShareFullWeekInside(t *testing.T) {
	weekStart := date(2025, time.September, 7)
	daily := [7]float64{0, 8, 8, 8, 8, 8, 0}

	got := MonthShare(weekStart, daily, 2025, time.September)
	if got != 40 {
		t.Fatalf("expected 40.00, got %v", got)
	}
	if other := MonthShare(weekStart, daily, 2025, time.October); other != 0 {
		t.Fatalf("expected 0 for a month the week never touches, got %v", other)
	}
}

func TestMonthShareAccumulatesWithoutDrift(t *testing.T) {
	weekStart := date(2025, time.June, 1)
	daily := [7]float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1}

	if got := MonthShare(weekStart, daily, 2025, time.June); got != 0.7 {
		t.Fatalf("expected exactly 0.7, got %v", got)
	}
}

func TestComputePay(t *testing.T) {
	gross, net := ComputePay(16, 18.5)
	if gross != 296 {
		t.Fatalf("expected gross 296.00, got %v", gross)
	}
	if net != gross {
		t.Fatalf("net should equal gross before adjustments, got %v", net)
	}
}

func TestNetFromParts(t *testing.T) {
	net := NetFromParts(1000, 50, 200, 75.25)
	if net != 774.75 {
		t.Fatalf("expected 774.75, got %v", net)
	}
}

func TestExactCalendarMonth(t *testing.T) {
	if _, _, ok := ExactCalendarMonth(date(2025, time.February, 1), date(2025, time.February, 28)); !ok {
		t.Fatal("February 2025 should be recognized as an exact month")
	}
	if y, m, ok := ExactCalendarMonth(date(2024, time.February, 1), date(2024, time.February, 29)); !ok || y != 2024 || m != time.February {
		t.Fatalf("leap February should be exact, got %d %v %v", y, m, ok)
	}
	if _, _, ok := ExactCalendarMonth(date(2025, time.February, 1), date(2025, time.February, 27)); ok {
		t.Fatal("a short range should not be an exact month")
	}
	if _, _, ok := ExactCalendarMonth(date(2025, time.January, 15), date(2025, time.February, 14)); ok {
		t.Fatal("a mid-month range should not be an exact month")
	}
}
