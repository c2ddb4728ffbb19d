package payroll

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/dates"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
)

func (s *Store) InsertRate(ctx context.Context, businessID, employeeID string, hourlyRate float64, effectiveFrom time.Time) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employee_rates (business_id, employee_id, hourly_rate, effective_from)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, businessID, employeeID, hourlyRate, effectiveFrom).Scan(&id)
	if isUniqueViolation(err) {
		return "", fault.Conflict("rate_exists", "a rate for employee %s effective %s already exists", employeeID, dates.Format(effectiveFrom))
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListRates(ctx context.Context, businessID, employeeID string) ([]EmployeeRate, error) {
	query := `
    SELECT id, business_id, employee_id, hourly_rate, effective_from, created_at
    FROM employee_rates
    WHERE business_id = $1
  `
	args := []any{businessID}
	if employeeID != "" {
		query += " AND employee_id = $2"
		args = append(args, employeeID)
	}
	query += " ORDER BY employee_id, effective_from DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []EmployeeRate
	for rows.Next() {
		var rate EmployeeRate
		var effective time.Time
		if err := rows.Scan(&rate.ID, &rate.BusinessID, &rate.EmployeeID, &rate.HourlyRate, &effective, &rate.CreatedAt); err != nil {
			return nil, err
		}
		rate.EffectiveFrom = dates.Format(effective)
		rates = append(rates, rate)
	}
	return rates, nil
}

// CurrentRate resolves the rate in force on asOf: the row with the
// latest effective_from on or before that date.
func (s *Store) CurrentRate(ctx context.Context, businessID, employeeID string, asOf time.Time) (EmployeeRate, error) {
	var rate EmployeeRate
	var effective time.Time
	err := s.DB.QueryRow(ctx, `
    SELECT id, business_id, employee_id, hourly_rate, effective_from, created_at
    FROM employee_rates
    WHERE business_id = $1 AND employee_id = $2 AND effective_from <= $3
    ORDER BY effective_from DESC
    LIMIT 1
  `, businessID, employeeID, asOf).Scan(&rate.ID, &rate.BusinessID, &rate.EmployeeID, &rate.HourlyRate, &effective, &rate.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return rate, errNoRate(employeeID, dates.Format(asOf))
	}
	if err != nil {
		return rate, err
	}
	rate.EffectiveFrom = dates.Format(effective)
	return rate, nil
}
