package dates

import (
	"testing"
	"time"
)

func TestParseAndFormat(t *testing.T) {
	parsed, err := Parse("2025-09-21")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if Format(parsed) != "2025-09-21" {
		t.Fatalf("round trip = %q", Format(parsed))
	}
	if parsed.Location() != time.UTC {
		t.Fatal("parsed date must be UTC")
	}

	if _, err := Parse("09/21/2025"); err == nil {
		t.Fatal("expected slash-formatted date to fail")
	}
	if _, err := Parse(""); err == nil {
		t.Fatal("expected empty date to fail")
	}
}

func TestWeekStart(t *testing.T) {
	// 2025-09-21 is a Sunday.
	sunday, _ := Parse("2025-09-21")
	if !IsSunday(sunday) {
		t.Fatal("2025-09-21 should be a Sunday")
	}
	if got := WeekStart(sunday); !got.Equal(sunday) {
		t.Fatalf("WeekStart(sunday) = %s", Format(got))
	}

	monday, _ := Parse("2025-09-22")
	if IsSunday(monday) {
		t.Fatal("2025-09-22 should not be a Sunday")
	}
	if got := WeekStart(monday); !got.Equal(sunday) {
		t.Fatalf("WeekStart(monday) = %s, want 2025-09-21", Format(got))
	}

	saturday, _ := Parse("2025-09-27")
	if got := WeekStart(saturday); !got.Equal(sunday) {
		t.Fatalf("WeekStart(saturday) = %s, want 2025-09-21", Format(got))
	}
}

func TestAddDaysCrossesMonths(t *testing.T) {
	jan31, _ := Parse("2025-01-31")
	if got := Format(AddDays(jan31, 6)); got != "2025-02-06" {
		t.Fatalf("AddDays(jan31, 6) = %s", got)
	}
	if DayOfWeek(jan31) != 5 {
		t.Fatalf("2025-01-31 should be a Friday (5), got %d", DayOfWeek(jan31))
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(2025, time.February)
	if Format(start) != "2025-02-01" || Format(end) != "2025-02-28" {
		t.Fatalf("February 2025 bounds = %s..%s", Format(start), Format(end))
	}

	start, end = MonthBounds(2024, time.February)
	if Format(end) != "2024-02-29" {
		t.Fatalf("leap February end = %s", Format(end))
	}

	start, end = MonthBounds(2025, time.December)
	if Format(start) != "2025-12-01" || Format(end) != "2025-12-31" {
		t.Fatalf("December 2025 bounds = %s..%s", Format(start), Format(end))
	}
}
