package schedule

import (
	"context"
	"log"
	"time"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/dates"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/timecodec"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

// ParseWeek validates a week-start string: it must be a real date and
// fall on a Sunday.
func ParseWeek(value string) (time.Time, error) {
	week, err := dates.Parse(value)
	if err != nil {
		return time.Time{}, err
	}
	if !dates.IsSunday(week) {
		return time.Time{}, fault.BusinessRule("week_not_sunday", "week start %s is a %s; weeks begin on Sunday", value, week.Weekday())
	}
	return week, nil
}

// GetOrCreate returns the schedule for a week, materializing an empty
// draft when none exists yet. A concurrent create degrades to reading
// the row the other writer won with.
func (s *Service) GetOrCreate(ctx context.Context, businessID, weekStart string) (WeeklySchedule, error) {
	week, err := ParseWeek(weekStart)
	if err != nil {
		return WeeklySchedule{}, err
	}

	sched, err := s.Store.GetByWeek(ctx, businessID, week)
	if fault.IsKind(err, fault.KindNotFound) {
		if _, createErr := s.Store.Create(ctx, businessID, week); createErr != nil && !fault.IsKind(createErr, fault.KindConflict) {
			return WeeklySchedule{}, createErr
		}
		sched, err = s.Store.GetByWeek(ctx, businessID, week)
	}
	if err != nil {
		return WeeklySchedule{}, err
	}
	return s.withShifts(ctx, sched)
}

func (s *Service) Get(ctx context.Context, businessID, scheduleID string) (WeeklySchedule, error) {
	sched, err := s.Store.GetByID(ctx, businessID, scheduleID)
	if err != nil {
		return WeeklySchedule{}, err
	}
	return s.withShifts(ctx, sched)
}

// GetWeek is the read-only lookup used by employee views. Unlike
// GetOrCreate it never materializes a draft.
func (s *Service) GetWeek(ctx context.Context, businessID, weekStart string) (WeeklySchedule, error) {
	week, err := ParseWeek(weekStart)
	if err != nil {
		return WeeklySchedule{}, err
	}
	sched, err := s.Store.GetByWeek(ctx, businessID, week)
	if err != nil {
		return WeeklySchedule{}, err
	}
	return s.withShifts(ctx, sched)
}

func (s *Service) Create(ctx context.Context, businessID, weekStart string) (WeeklySchedule, error) {
	week, err := ParseWeek(weekStart)
	if err != nil {
		return WeeklySchedule{}, err
	}
	if _, err := s.Store.Create(ctx, businessID, week); err != nil {
		return WeeklySchedule{}, err
	}
	sched, err := s.Store.GetByWeek(ctx, businessID, week)
	if err != nil {
		return WeeklySchedule{}, err
	}
	sched.Shifts = []Shift{}
	return sched, nil
}

// Post publishes a week to employees. Only status and posted_at change;
// the shifts themselves are untouched.
func (s *Service) Post(ctx context.Context, businessID, scheduleID string) (WeeklySchedule, error) {
	if err := s.Store.SetPosted(ctx, businessID, scheduleID, true); err != nil {
		return WeeklySchedule{}, err
	}
	return s.Get(ctx, businessID, scheduleID)
}

// Unpost pulls a week back to draft so it can be reworked.
func (s *Service) Unpost(ctx context.Context, businessID, scheduleID string) (WeeklySchedule, error) {
	if err := s.Store.SetPosted(ctx, businessID, scheduleID, false); err != nil {
		return WeeklySchedule{}, err
	}
	return s.Get(ctx, businessID, scheduleID)
}

func (s *Service) ListByStatus(ctx context.Context, businessID, status string) ([]WeeklySchedule, error) {
	if status != "" && status != StatusDraft && status != StatusPosted {
		return nil, fault.Validation("invalid_status", "status %q must be draft or posted", status)
	}
	return s.Store.ListByStatus(ctx, businessID, status)
}

// EmployeeHours totals scheduled hours per employee for one week,
// rounding after every added shift.
func (s *Service) EmployeeHours(ctx context.Context, businessID, scheduleID string) (map[string]float64, error) {
	if _, err := s.Store.GetByID(ctx, businessID, scheduleID); err != nil {
		return nil, err
	}
	shifts, err := s.Store.ListShifts(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64)
	for _, sh := range shifts {
		totals[sh.EmployeeID] = timecodec.Round2(totals[sh.EmployeeID] + sh.DurationHours)
	}
	return totals, nil
}

// CopyPreviousWeek clones the prior week's posted shifts into the given
// week, skipping shifts that land in the past or collide with ones
// already there. It fails only when nothing at all could be copied.
func (s *Service) CopyPreviousWeek(ctx context.Context, businessID, weekStart string) (CopyResult, error) {
	target, err := ParseWeek(weekStart)
	if err != nil {
		return CopyResult{}, err
	}
	source := dates.AddDays(target, -DaysPerWeek)

	srcSched, err := s.Store.GetByWeek(ctx, businessID, source)
	if fault.IsKind(err, fault.KindNotFound) {
		return CopyResult{}, fault.BusinessRule("no_previous_week", "no schedule exists for week %s to copy from", dates.Format(source))
	}
	if err != nil {
		return CopyResult{}, err
	}
	if srcSched.Status != StatusPosted {
		return CopyResult{}, fault.BusinessRule("previous_week_not_posted", "week %s was never posted; only posted weeks can be copied", dates.Format(source))
	}

	srcShifts, err := s.Store.ListShifts(ctx, srcSched.ID)
	if err != nil {
		return CopyResult{}, err
	}
	if len(srcShifts) == 0 {
		return CopyResult{}, fault.BusinessRule("previous_week_empty", "week %s has no shifts to copy", dates.Format(source))
	}

	targetSched, err := s.GetOrCreate(ctx, businessID, weekStart)
	if err != nil {
		return CopyResult{}, err
	}

	result := CopyResult{ScheduleID: targetSched.ID}
	today := time.Now()
	for _, src := range srcShifts {
		if err := s.copyShift(ctx, targetSched.ID, target, src, today); err != nil {
			log.Printf("copy week %s: skipping shift %s: %v", weekStart, src.ID, err)
			result.Skipped++
			continue
		}
		result.Copied++
	}

	if result.Copied == 0 {
		return result, fault.BusinessRule("copy_failed", "no shifts could be copied into week %s", weekStart)
	}
	return result, nil
}

func (s *Service) copyShift(ctx context.Context, targetScheduleID string, targetWeek time.Time, src Shift, today time.Time) error {
	if err := CheckNotPast(targetWeek, src.DayOfWeek, today); err != nil {
		return err
	}
	windows, err := s.Store.ListWindows(ctx, targetScheduleID, src.EmployeeID, src.DayOfWeek, "")
	if err != nil {
		return err
	}
	if err := CheckDuplicate(windows, src.StartMin, src.EndMin); err != nil {
		return err
	}
	if err := CheckOverlap(windows, src.StartMin, src.EndMin); err != nil {
		return err
	}

	clone := src
	clone.ID = ""
	clone.ScheduleID = targetScheduleID
	_, err = s.Store.InsertShift(ctx, targetScheduleID, clone)
	return err
}

func (s *Service) withShifts(ctx context.Context, sched WeeklySchedule) (WeeklySchedule, error) {
	shifts, err := s.Store.ListShifts(ctx, sched.ID)
	if err != nil {
		return WeeklySchedule{}, err
	}
	if shifts == nil {
		shifts = []Shift{}
	}
	sched.Shifts = shifts
	return sched, nil
}
