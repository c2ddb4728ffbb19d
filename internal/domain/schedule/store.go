package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/dates"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) GetByWeek(ctx context.Context, businessID string, weekStart time.Time) (WeeklySchedule, error) {
	var out WeeklySchedule
	var week time.Time
	err := s.DB.QueryRow(ctx, `
    SELECT id, business_id, week_start_date, status, posted_at, created_at, updated_at
    FROM weekly_schedules
    WHERE business_id = $1 AND week_start_date = $2
  `, businessID, weekStart).Scan(&out.ID, &out.BusinessID, &week, &out.Status, &out.PostedAt, &out.CreatedAt, &out.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return out, fault.NotFound("schedule_not_found", "no schedule for week %s", dates.Format(weekStart))
	}
	if err != nil {
		return out, err
	}
	out.WeekStartDate = dates.Format(week)
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, businessID, scheduleID string) (WeeklySchedule, error) {
	var out WeeklySchedule
	var week time.Time
	err := s.DB.QueryRow(ctx, `
    SELECT id, business_id, week_start_date, status, posted_at, created_at, updated_at
    FROM weekly_schedules
    WHERE id = $1 AND business_id = $2
  `, scheduleID, businessID).Scan(&out.ID, &out.BusinessID, &week, &out.Status, &out.PostedAt, &out.CreatedAt, &out.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return out, fault.NotFound("schedule_not_found", "schedule %s not found", scheduleID)
	}
	if err != nil {
		return out, err
	}
	out.WeekStartDate = dates.Format(week)
	return out, nil
}

func (s *Store) Create(ctx context.Context, businessID string, weekStart time.Time) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO weekly_schedules (business_id, week_start_date, status)
    VALUES ($1,$2,$3)
    RETURNING id
  `, businessID, weekStart, StatusDraft).Scan(&id)
	if isUniqueViolation(err) {
		return "", fault.Conflict("schedule_exists", "a schedule for week %s already exists", dates.Format(weekStart))
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) SetPosted(ctx context.Context, businessID, scheduleID string, posted bool) error {
	var tag pgconn.CommandTag
	var err error
	if posted {
		tag, err = s.DB.Exec(ctx, `
      UPDATE weekly_schedules
      SET status = $1, posted_at = now(), updated_at = now()
      WHERE id = $2 AND business_id = $3
    `, StatusPosted, scheduleID, businessID)
	} else {
		tag, err = s.DB.Exec(ctx, `
      UPDATE weekly_schedules
      SET status = $1, posted_at = NULL, updated_at = now()
      WHERE id = $2 AND business_id = $3
    `, StatusDraft, scheduleID, businessID)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("schedule_not_found", "schedule %s not found", scheduleID)
	}
	return nil
}

func (s *Store) ListByStatus(ctx context.Context, businessID, status string) ([]WeeklySchedule, error) {
	query := `
    SELECT id, business_id, week_start_date, status, posted_at, created_at, updated_at
    FROM weekly_schedules
    WHERE business_id = $1
  `
	args := []any{businessID}
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
	}
	query += " ORDER BY week_start_date DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []WeeklySchedule
	for rows.Next() {
		var sched WeeklySchedule
		var week time.Time
		if err := rows.Scan(&sched.ID, &sched.BusinessID, &week, &sched.Status, &sched.PostedAt, &sched.CreatedAt, &sched.UpdatedAt); err != nil {
			return nil, err
		}
		sched.WeekStartDate = dates.Format(week)
		schedules = append(schedules, sched)
	}
	return schedules, nil
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
