package schedule

import (
	"testing"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/dates"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
)

func TestCheckOverlap(t *testing.T) {
	existing := []TimeWindow{{StartMin: 540, EndMin: 1020}} // 9:00 AM - 5:00 PM

	if err := CheckOverlap(existing, 600, 720); err == nil {
		t.Fatal("contained window should overlap")
	}
	if err := CheckOverlap(existing, 480, 600); err == nil {
		t.Fatal("leading window should overlap")
	}
	if err := CheckOverlap(existing, 1000, 1100); err == nil {
		t.Fatal("trailing window should overlap")
	}
	if err := CheckOverlap(existing, 1020, 1260); err != nil {
		t.Fatalf("shift starting at the other's end should be allowed: %v", err)
	}
	if err := CheckOverlap(existing, 480, 540); err != nil {
		t.Fatalf("shift ending at the other's start should be allowed: %v", err)
	}
}

func TestCheckOverlapOvernight(t *testing.T) {
	// 11:00 PM - 6:00 AM wraps midnight.
	overnight := []TimeWindow{{StartMin: 1380, EndMin: 360}}

	// 5:00 AM - 8:00 AM the same calendar day is that morning, hours
	// before the overnight shift clocks in.
	if err := CheckOverlap(overnight, 300, 480); err != nil {
		t.Fatalf("early-morning window should not conflict with overnight: %v", err)
	}
	// 10:00 PM - 11:30 PM collides with the overnight start.
	if err := CheckOverlap(overnight, 1320, 1410); err == nil {
		t.Fatal("late-evening window should conflict with overnight")
	}
	// Another overnight sharing the small hours collides too.
	if err := CheckOverlap(overnight, 1410, 300); err == nil {
		t.Fatal("second overnight window should conflict")
	}
	if fault.KindOf(CheckOverlap(overnight, 1320, 1410)) != fault.KindConflict {
		t.Fatal("overlap should be a conflict fault")
	}
}

func TestCheckDuplicate(t *testing.T) {
	existing := []TimeWindow{{StartMin: 540, EndMin: 1020}}

	err := CheckDuplicate(existing, 540, 1020)
	if err == nil {
		t.Fatal("identical window should be rejected")
	}
	if fault.KindOf(err) != fault.KindConflict {
		t.Fatalf("duplicate kind = %s, want conflict", fault.KindOf(err))
	}
	if err := CheckDuplicate(existing, 540, 1021); err != nil {
		t.Fatalf("near-identical window is not a duplicate: %v", err)
	}
}

func TestCheckNotPast(t *testing.T) {
	weekStart, _ := dates.Parse("2025-09-21")
	today, _ := dates.Parse("2025-09-24") // Wednesday of that week

	if err := CheckNotPast(weekStart, 1, today); err == nil {
		t.Fatal("Monday shift should be in the past")
	} else if fault.KindOf(err) != fault.KindBusinessRule {
		t.Fatalf("past-shift kind = %s, want business rule", fault.KindOf(err))
	}
	if err := CheckNotPast(weekStart, 3, today); err != nil {
		t.Fatalf("same-day shift should be allowed: %v", err)
	}
	if err := CheckNotPast(weekStart, 5, today); err != nil {
		t.Fatalf("future shift should be allowed: %v", err)
	}
}

func TestCheckShiftTimesAndDay(t *testing.T) {
	if err := CheckShiftTimes(0, 1439); err != nil {
		t.Fatalf("boundary minutes should be valid: %v", err)
	}
	if err := CheckShiftTimes(-1, 600); err == nil {
		t.Fatal("negative start should fail")
	}
	if err := CheckShiftTimes(600, 1440); err == nil {
		t.Fatal("end of 1440 should fail")
	}
	if err := CheckDayOfWeek(7); err == nil {
		t.Fatal("day 7 should fail")
	}
	if err := CheckDayOfWeek(0); err != nil {
		t.Fatalf("day 0 should pass: %v", err)
	}
}
