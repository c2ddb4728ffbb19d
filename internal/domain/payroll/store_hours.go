package payroll

import (
	"context"
	"time"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/schedule"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/timecodec"
)

// ConfirmedWeeks returns every confirmed-hours week for the business
// whose week_start_date falls in [firstWeekStart, lastWeekStart], any
// status, with the seven daily buckets.
func (s *Store) ConfirmedWeeks(ctx context.Context, businessID string, firstWeekStart, lastWeekStart time.Time) ([]confirmedWeek, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT employee_id, week_start_date,
           sunday_hours, monday_hours, tuesday_hours, wednesday_hours,
           thursday_hours, friday_hours, saturday_hours, total_hours, status
    FROM confirmed_hours
    WHERE business_id = $1 AND week_start_date >= $2 AND week_start_date <= $3
    ORDER BY employee_id, week_start_date
  `, businessID, firstWeekStart, lastWeekStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var weeks []confirmedWeek
	for rows.Next() {
		var week confirmedWeek
		if err := rows.Scan(&week.EmployeeID, &week.WeekStart,
			&week.Daily[0], &week.Daily[1], &week.Daily[2], &week.Daily[3],
			&week.Daily[4], &week.Daily[5], &week.Daily[6], &week.Total, &week.Status); err != nil {
			return nil, err
		}
		weeks = append(weeks, week)
	}
	return weeks, nil
}

// ScheduledTotals sums posted-schedule shift durations per employee for
// shifts whose absolute date (week start + day offset) falls in
// [start, end]. Partial sums round at each step.
func (s *Store) ScheduledTotals(ctx context.Context, businessID string, start, end time.Time) (map[string]float64, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT sh.employee_id, sh.duration_hours
    FROM shifts sh
    JOIN weekly_schedules ws ON sh.schedule_id = ws.id
    WHERE ws.business_id = $1 AND ws.status = $2
      AND ws.week_start_date + sh.day_of_week >= $3
      AND ws.week_start_date + sh.day_of_week <= $4
    ORDER BY sh.employee_id
  `, businessID, schedule.StatusPosted, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := map[string]float64{}
	for rows.Next() {
		var employeeID string
		var duration float64
		if err := rows.Scan(&employeeID, &duration); err != nil {
			return nil, err
		}
		totals[employeeID] = timecodec.Round2(totals[employeeID] + duration)
	}
	return totals, nil
}

// EmployeeNames maps associated employee IDs to display names.
func (s *Store) EmployeeNames(ctx context.Context, businessID string) (map[string]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, COALESCE(e.full_name, '')
    FROM employees e
    JOIN business_employees be ON be.employee_id = e.id
    WHERE be.business_id = $1
  `, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := map[string]string{}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, nil
}
