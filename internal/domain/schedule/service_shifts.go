package schedule

import (
	"context"
	"strings"
	"time"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/dates"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/timecodec"
)

// CreateShift validates and stores a shift, deriving the canonical
// minutes, display labels, legacy clock strings and duration from the
// submitted times.
func (s *Service) CreateShift(ctx context.Context, businessID, scheduleID string, input ShiftInput) (Shift, error) {
	sched, err := s.Store.GetByID(ctx, businessID, scheduleID)
	if err != nil {
		return Shift{}, err
	}

	sh, err := s.buildShift(sched, input)
	if err != nil {
		return Shift{}, err
	}

	windows, err := s.Store.ListWindows(ctx, scheduleID, sh.EmployeeID, sh.DayOfWeek, "")
	if err != nil {
		return Shift{}, err
	}
	if err := CheckDuplicate(windows, sh.StartMin, sh.EndMin); err != nil {
		return Shift{}, err
	}
	if err := CheckOverlap(windows, sh.StartMin, sh.EndMin); err != nil {
		return Shift{}, err
	}

	id, err := s.Store.InsertShift(ctx, scheduleID, sh)
	if err != nil {
		return Shift{}, err
	}
	sh.ID = id
	sh.ScheduleID = scheduleID
	sh.CreatedAt = time.Now().UTC()
	return sh, nil
}

// UpdateShift replaces a shift's fields wholesale, recomputing every
// derived value and re-running the collision checks against the other
// shifts for that employee and day.
func (s *Service) UpdateShift(ctx context.Context, businessID, scheduleID, shiftID string, input ShiftInput) (Shift, error) {
	sched, err := s.Store.GetByID(ctx, businessID, scheduleID)
	if err != nil {
		return Shift{}, err
	}
	existing, err := s.Store.GetShift(ctx, scheduleID, shiftID)
	if err != nil {
		return Shift{}, err
	}

	sh, err := s.buildShift(sched, input)
	if err != nil {
		return Shift{}, err
	}
	sh.ID = existing.ID
	sh.ScheduleID = existing.ScheduleID
	sh.CreatedAt = existing.CreatedAt

	windows, err := s.Store.ListWindows(ctx, scheduleID, sh.EmployeeID, sh.DayOfWeek, shiftID)
	if err != nil {
		return Shift{}, err
	}
	if err := CheckDuplicate(windows, sh.StartMin, sh.EndMin); err != nil {
		return Shift{}, err
	}
	if err := CheckOverlap(windows, sh.StartMin, sh.EndMin); err != nil {
		return Shift{}, err
	}

	if err := s.Store.UpdateShift(ctx, scheduleID, sh); err != nil {
		return Shift{}, err
	}
	return sh, nil
}

func (s *Service) DeleteShift(ctx context.Context, businessID, scheduleID, shiftID string) error {
	if _, err := s.Store.GetByID(ctx, businessID, scheduleID); err != nil {
		return err
	}
	return s.Store.DeleteShift(ctx, scheduleID, shiftID)
}

func (s *Service) buildShift(sched WeeklySchedule, input ShiftInput) (Shift, error) {
	if strings.TrimSpace(input.EmployeeID) == "" {
		return Shift{}, fault.Validation("missing_employee", "a shift needs an employee")
	}
	if err := CheckDayOfWeek(input.DayOfWeek); err != nil {
		return Shift{}, err
	}

	startMin, err := timecodec.ParseAny(input.StartTime)
	if err != nil {
		return Shift{}, err
	}
	endMin, err := timecodec.ParseAny(input.EndTime)
	if err != nil {
		return Shift{}, err
	}
	if err := CheckShiftTimes(startMin, endMin); err != nil {
		return Shift{}, err
	}

	weekStart, err := dates.Parse(sched.WeekStartDate)
	if err != nil {
		return Shift{}, err
	}
	if err := CheckNotPast(weekStart, input.DayOfWeek, time.Now()); err != nil {
		return Shift{}, err
	}

	startLabel, err := timecodec.FormatMinute(startMin)
	if err != nil {
		return Shift{}, err
	}
	endLabel, err := timecodec.FormatMinute(endMin)
	if err != nil {
		return Shift{}, err
	}
	startLegacy, err := timecodec.Legacy(startMin)
	if err != nil {
		return Shift{}, err
	}
	endLegacy, err := timecodec.Legacy(endMin)
	if err != nil {
		return Shift{}, err
	}

	return Shift{
		EmployeeID:    strings.TrimSpace(input.EmployeeID),
		DayOfWeek:     input.DayOfWeek,
		StartMin:      startMin,
		EndMin:        endMin,
		StartLabel:    startLabel,
		EndLabel:      endLabel,
		StartTime:     startLegacy,
		EndTime:       endLegacy,
		DurationHours: timecodec.DurationHours(startMin, endMin),
		TemplateID:    strings.TrimSpace(input.TemplateID),
		Notes:         strings.TrimSpace(input.Notes),
	}, nil
}
