package schedule

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/dates"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/timecodec"
)

// CalendarICS renders a posted week as an iCalendar feed, one event per
// shift with wall-clock times anchored to the shift's calendar date.
// Overnight shifts end on the following day.
func (s *Service) CalendarICS(ctx context.Context, businessID, scheduleID string) (string, string, error) {
	sched, err := s.Store.GetByID(ctx, businessID, scheduleID)
	if err != nil {
		return "", "", err
	}
	if sched.Status != StatusPosted {
		return "", "", fault.BusinessRule("week_not_posted", "week %s is not posted; only posted schedules can be exported", sched.WeekStartDate)
	}

	weekStart, err := dates.Parse(sched.WeekStartDate)
	if err != nil {
		return "", "", err
	}
	shifts, err := s.Store.ListShiftsWithEmployees(ctx, scheduleID)
	if err != nil {
		return "", "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	now := time.Now().UTC()

	for _, sh := range shifts {
		day := dates.AddDays(weekStart, sh.DayOfWeek)
		start := time.Date(day.Year(), day.Month(), day.Day(), sh.StartMin/60, sh.StartMin%60, 0, 0, time.UTC)
		end := start.Add(time.Duration(timecodec.DurationMinutes(sh.StartMin, sh.EndMin)) * time.Minute)

		event := cal.AddEvent(fmt.Sprintf("shift-%s@timebuddy", sh.ID))
		event.SetCreatedTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		summary := fmt.Sprintf("%s %s - %s", sh.EmployeeName, sh.StartLabel, sh.EndLabel)
		if sh.EmployeeName == "" {
			summary = fmt.Sprintf("Shift %s - %s", sh.StartLabel, sh.EndLabel)
		}
		event.SetSummary(summary)
		if sh.Notes != "" {
			event.SetDescription(sh.Notes)
		}
	}

	filename := fmt.Sprintf("schedule-%s.ics", sched.WeekStartDate)
	return cal.Serialize(), filename, nil
}
