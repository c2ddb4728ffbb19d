package schedule

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
)

const shiftColumns = `
    id, schedule_id, employee_id, day_of_week, start_min, end_min,
    start_label, end_label, start_time, end_time, duration_hours,
    COALESCE(template_id::text, ''), COALESCE(notes, ''), created_at
`

func (s *Store) ListShifts(ctx context.Context, scheduleID string) ([]Shift, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+shiftColumns+`
    FROM shifts
    WHERE schedule_id = $1
    ORDER BY day_of_week, start_min
  `, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []Shift
	for rows.Next() {
		var sh Shift
		if err := rows.Scan(&sh.ID, &sh.ScheduleID, &sh.EmployeeID, &sh.DayOfWeek, &sh.StartMin, &sh.EndMin,
			&sh.StartLabel, &sh.EndLabel, &sh.StartTime, &sh.EndTime, &sh.DurationHours,
			&sh.TemplateID, &sh.Notes, &sh.CreatedAt); err != nil {
			return nil, err
		}
		shifts = append(shifts, sh)
	}
	return shifts, nil
}

func (s *Store) GetShift(ctx context.Context, scheduleID, shiftID string) (Shift, error) {
	var sh Shift
	err := s.DB.QueryRow(ctx, `
    SELECT `+shiftColumns+`
    FROM shifts
    WHERE id = $1 AND schedule_id = $2
  `, shiftID, scheduleID).Scan(&sh.ID, &sh.ScheduleID, &sh.EmployeeID, &sh.DayOfWeek, &sh.StartMin, &sh.EndMin,
		&sh.StartLabel, &sh.EndLabel, &sh.StartTime, &sh.EndTime, &sh.DurationHours,
		&sh.TemplateID, &sh.Notes, &sh.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return sh, fault.NotFound("shift_not_found", "shift %s not found", shiftID)
	}
	if err != nil {
		return sh, err
	}
	return sh, nil
}

// ListWindows returns the existing time windows for an employee on one
// day of a schedule, optionally excluding the shift being edited.
func (s *Store) ListWindows(ctx context.Context, scheduleID, employeeID string, dayOfWeek int, excludeShiftID string) ([]TimeWindow, error) {
	query := `
    SELECT start_min, end_min
    FROM shifts
    WHERE schedule_id = $1 AND employee_id = $2 AND day_of_week = $3
  `
	args := []any{scheduleID, employeeID, dayOfWeek}
	if excludeShiftID != "" {
		query += " AND id <> $4"
		args = append(args, excludeShiftID)
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var windows []TimeWindow
	for rows.Next() {
		var window TimeWindow
		if err := rows.Scan(&window.StartMin, &window.EndMin); err != nil {
			return nil, err
		}
		windows = append(windows, window)
	}
	return windows, nil
}

func (s *Store) InsertShift(ctx context.Context, scheduleID string, sh Shift) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO shifts (schedule_id, employee_id, day_of_week, start_min, end_min,
                        start_label, end_label, start_time, end_time, duration_hours,
                        template_id, notes)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    RETURNING id
  `, scheduleID, sh.EmployeeID, sh.DayOfWeek, sh.StartMin, sh.EndMin,
		sh.StartLabel, sh.EndLabel, sh.StartTime, sh.EndTime, sh.DurationHours,
		nullIfEmpty(sh.TemplateID), nullIfEmpty(sh.Notes)).Scan(&id)
	if isUniqueViolation(err) {
		return "", fault.Conflict("duplicate_shift", "an identical shift %s to %s already exists for that day", sh.StartLabel, sh.EndLabel)
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateShift(ctx context.Context, scheduleID string, sh Shift) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE shifts
    SET employee_id = $1, day_of_week = $2, start_min = $3, end_min = $4,
        start_label = $5, end_label = $6, start_time = $7, end_time = $8,
        duration_hours = $9, template_id = $10, notes = $11
    WHERE id = $12 AND schedule_id = $13
  `, sh.EmployeeID, sh.DayOfWeek, sh.StartMin, sh.EndMin,
		sh.StartLabel, sh.EndLabel, sh.StartTime, sh.EndTime,
		sh.DurationHours, nullIfEmpty(sh.TemplateID), nullIfEmpty(sh.Notes), sh.ID, scheduleID)
	if isUniqueViolation(err) {
		return fault.Conflict("duplicate_shift", "an identical shift %s to %s already exists for that day", sh.StartLabel, sh.EndLabel)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("shift_not_found", "shift %s not found", sh.ID)
	}
	return nil
}

func (s *Store) DeleteShift(ctx context.Context, scheduleID, shiftID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM shifts WHERE id = $1 AND schedule_id = $2", shiftID, scheduleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("shift_not_found", "shift %s not found", shiftID)
	}
	return nil
}

type ShiftWithEmployee struct {
	Shift
	EmployeeName string
}

func (s *Store) ListShiftsWithEmployees(ctx context.Context, scheduleID string) ([]ShiftWithEmployee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT sh.id, sh.schedule_id, sh.employee_id, sh.day_of_week, sh.start_min, sh.end_min,
           sh.start_label, sh.end_label, sh.start_time, sh.end_time, sh.duration_hours,
           COALESCE(sh.template_id::text, ''), COALESCE(sh.notes, ''), sh.created_at,
           COALESCE(e.full_name, '')
    FROM shifts sh
    LEFT JOIN employees e ON sh.employee_id = e.id
    WHERE sh.schedule_id = $1
    ORDER BY sh.day_of_week, sh.start_min
  `, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ShiftWithEmployee
	for rows.Next() {
		var row ShiftWithEmployee
		if err := rows.Scan(&row.ID, &row.ScheduleID, &row.EmployeeID, &row.DayOfWeek, &row.StartMin, &row.EndMin,
			&row.StartLabel, &row.EndLabel, &row.StartTime, &row.EndTime, &row.DurationHours,
			&row.TemplateID, &row.Notes, &row.CreatedAt, &row.EmployeeName); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}
