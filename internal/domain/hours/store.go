package hours

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/dates"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/schedule"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/timecodec"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const hoursColumns = `
    ch.id, ch.employee_id, ch.business_id, ch.week_start_date,
    ch.sunday_hours, ch.monday_hours, ch.tuesday_hours, ch.wednesday_hours,
    ch.thursday_hours, ch.friday_hours, ch.saturday_hours, ch.total_hours,
    ch.status, ch.submitted_at, ch.approved_at, COALESCE(ch.approved_by::text, ''),
    ch.rejected_at, COALESCE(ch.rejected_by::text, ''), COALESCE(ch.rejection_reason, ''),
    COALESCE(ch.notes, ''), ch.created_at, ch.updated_at
`

func scanRecord(row pgx.Row) (ConfirmedHours, error) {
	var ch ConfirmedHours
	var week time.Time
	err := row.Scan(&ch.ID, &ch.EmployeeID, &ch.BusinessID, &week,
		&ch.SundayHours, &ch.MondayHours, &ch.TuesdayHours, &ch.WednesdayHours,
		&ch.ThursdayHours, &ch.FridayHours, &ch.SaturdayHours, &ch.TotalHours,
		&ch.Status, &ch.SubmittedAt, &ch.ApprovedAt, &ch.ApprovedBy,
		&ch.RejectedAt, &ch.RejectedBy, &ch.RejectionReason,
		&ch.Notes, &ch.CreatedAt, &ch.UpdatedAt)
	if err != nil {
		return ch, err
	}
	ch.WeekStartDate = dates.Format(week)
	return ch, nil
}

func (s *Store) GetWeekly(ctx context.Context, employeeID, businessID string, week time.Time) (ConfirmedHours, error) {
	ch, err := scanRecord(s.DB.QueryRow(ctx, `
    SELECT `+hoursColumns+`
    FROM confirmed_hours ch
    WHERE ch.employee_id = $1 AND ch.business_id = $2 AND ch.week_start_date = $3
  `, employeeID, businessID, week))
	if errors.Is(err, pgx.ErrNoRows) {
		return ch, fault.NotFound("hours_not_found", "no confirmed hours for week %s", dates.Format(week))
	}
	return ch, err
}

func (s *Store) GetByID(ctx context.Context, id string) (ConfirmedHours, error) {
	ch, err := scanRecord(s.DB.QueryRow(ctx, `
    SELECT `+hoursColumns+`
    FROM confirmed_hours ch
    WHERE ch.id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return ch, fault.NotFound("hours_not_found", "confirmed hours record not found")
	}
	return ch, err
}

func (s *Store) Insert(ctx context.Context, ch ConfirmedHours, week time.Time) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO confirmed_hours (employee_id, business_id, week_start_date,
                                 sunday_hours, monday_hours, tuesday_hours, wednesday_hours,
                                 thursday_hours, friday_hours, saturday_hours, total_hours,
                                 status, notes)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    RETURNING id
  `, ch.EmployeeID, ch.BusinessID, week,
		ch.SundayHours, ch.MondayHours, ch.TuesdayHours, ch.WednesdayHours,
		ch.ThursdayHours, ch.FridayHours, ch.SaturdayHours, ch.TotalHours,
		StatusDraft, nullIfEmpty(ch.Notes)).Scan(&id)
	if isUniqueViolation(err) {
		return "", fault.Conflict("hours_exist", "confirmed hours for week %s already exist", dates.Format(week))
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateDraft rewrites the daily values in one conditional statement.
// The status predicate makes the edit race-safe: an already-submitted
// or approved row matches zero rows and the caller sees not-found.
func (s *Store) UpdateDraft(ctx context.Context, id, employeeID string, values [7]float64, total float64, notes string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE confirmed_hours
    SET sunday_hours = $1, monday_hours = $2, tuesday_hours = $3, wednesday_hours = $4,
        thursday_hours = $5, friday_hours = $6, saturday_hours = $7, total_hours = $8,
        notes = $9, status = $10,
        rejected_at = NULL, rejected_by = NULL, rejection_reason = NULL,
        updated_at = now()
    WHERE id = $11 AND employee_id = $12 AND status IN ($13, $14)
  `, values[0], values[1], values[2], values[3], values[4], values[5], values[6], total,
		nullIfEmpty(notes), StatusDraft, id, employeeID, StatusDraft, StatusRejected)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("hours_not_editable", "confirmed hours record not found or not in an editable state")
	}
	return nil
}

func (s *Store) Submit(ctx context.Context, id, employeeID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE confirmed_hours
    SET status = $1, submitted_at = now(),
        rejected_at = NULL, rejected_by = NULL, rejection_reason = NULL,
        updated_at = now()
    WHERE id = $2 AND employee_id = $3 AND status IN ($4, $5)
  `, StatusSubmitted, id, employeeID, StatusDraft, StatusRejected)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("hours_not_submittable", "confirmed hours record not found or not in a submittable state")
	}
	return nil
}

// Approve gates on both ownership and status inside the statement, so
// concurrent approve/reject calls resolve to exactly one winner.
func (s *Store) Approve(ctx context.Context, id, ownerUserID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE confirmed_hours ch
    SET status = $1, approved_at = now(), approved_by = $2, updated_at = now()
    FROM businesses b
    WHERE ch.id = $3 AND b.id = ch.business_id AND b.owner_id = $2 AND ch.status = $4
  `, StatusApproved, ownerUserID, id, StatusSubmitted)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("hours_not_approvable", "confirmed hours record not found or not in the required state")
	}
	return nil
}

func (s *Store) Reject(ctx context.Context, id, ownerUserID, reason string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE confirmed_hours ch
    SET status = $1, rejected_at = now(), rejected_by = $2, rejection_reason = $3, updated_at = now()
    FROM businesses b
    WHERE ch.id = $4 AND b.id = ch.business_id AND b.owner_id = $2 AND ch.status = $5
  `, StatusRejected, ownerUserID, reason, id, StatusSubmitted)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("hours_not_rejectable", "confirmed hours record not found or not in the required state")
	}
	return nil
}

func (s *Store) ListForEmployee(ctx context.Context, employeeID string) ([]ConfirmedHours, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+hoursColumns+`, COALESCE(b.name, '')
    FROM confirmed_hours ch
    LEFT JOIN businesses b ON ch.business_id = b.id
    WHERE ch.employee_id = $1
    ORDER BY ch.week_start_date DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanList(rows, func(ch *ConfirmedHours) []any { return []any{&ch.BusinessName} })
}

func (s *Store) ListForBusiness(ctx context.Context, businessID, status string) ([]ConfirmedHours, error) {
	query := `
    SELECT ` + hoursColumns + `, COALESCE(e.full_name, '')
    FROM confirmed_hours ch
    LEFT JOIN employees e ON ch.employee_id = e.id
    WHERE ch.business_id = $1
  `
	args := []any{businessID}
	if status != "" {
		query += " AND ch.status = $2"
		args = append(args, status)
	}
	query += " ORDER BY ch.week_start_date DESC, e.full_name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanList(rows, func(ch *ConfirmedHours) []any { return []any{&ch.EmployeeName} })
}

func scanList(rows pgx.Rows, extra func(*ConfirmedHours) []any) ([]ConfirmedHours, error) {
	var out []ConfirmedHours
	for rows.Next() {
		var ch ConfirmedHours
		var week time.Time
		targets := []any{&ch.ID, &ch.EmployeeID, &ch.BusinessID, &week,
			&ch.SundayHours, &ch.MondayHours, &ch.TuesdayHours, &ch.WednesdayHours,
			&ch.ThursdayHours, &ch.FridayHours, &ch.SaturdayHours, &ch.TotalHours,
			&ch.Status, &ch.SubmittedAt, &ch.ApprovedAt, &ch.ApprovedBy,
			&ch.RejectedAt, &ch.RejectedBy, &ch.RejectionReason,
			&ch.Notes, &ch.CreatedAt, &ch.UpdatedAt}
		targets = append(targets, extra(&ch)...)
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		ch.WeekStartDate = dates.Format(week)
		out = append(out, ch)
	}
	return out, nil
}

// ScheduledDaily sums posted-schedule shift durations into seven daily
// buckets for one employee and week.
func (s *Store) ScheduledDaily(ctx context.Context, employeeID, businessID string, week time.Time) ([7]float64, error) {
	var daily [7]float64
	rows, err := s.DB.Query(ctx, `
    SELECT sh.day_of_week, sh.duration_hours
    FROM shifts sh
    JOIN weekly_schedules ws ON sh.schedule_id = ws.id
    WHERE ws.business_id = $1 AND ws.week_start_date = $2 AND ws.status = $3 AND sh.employee_id = $4
  `, businessID, week, schedule.StatusPosted, employeeID)
	if err != nil {
		return daily, err
	}
	defer rows.Close()

	for rows.Next() {
		var day int
		var duration float64
		if err := rows.Scan(&day, &duration); err != nil {
			return daily, err
		}
		if day < 0 || day > 6 {
			continue
		}
		daily[day] = timecodec.Round2(daily[day] + duration)
	}
	return daily, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
