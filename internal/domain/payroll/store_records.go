package payroll

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/dates"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
)

const recordColumns = `
    pr.id, pr.business_id, pr.employee_id, pr.period_start, pr.period_end,
    pr.total_hours, pr.hourly_rate, pr.gross_pay, pr.advances, pr.bonuses,
    pr.deductions, pr.net_pay, pr.status, COALESCE(pr.payment_method, ''),
    pr.paid_at, COALESCE(pr.notes, ''), pr.created_at, pr.updated_at
`

func scanRecordInto(row pgx.Row, rec *PaymentRecord, extra ...any) error {
	var start, end time.Time
	targets := []any{&rec.ID, &rec.BusinessID, &rec.EmployeeID, &start, &end,
		&rec.TotalHours, &rec.HourlyRate, &rec.GrossPay, &rec.Advances, &rec.Bonuses,
		&rec.Deductions, &rec.NetPay, &rec.Status, &rec.PaymentMethod,
		&rec.PaidAt, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt}
	targets = append(targets, extra...)
	if err := row.Scan(targets...); err != nil {
		return err
	}
	rec.PeriodStart = dates.Format(start)
	rec.PeriodEnd = dates.Format(end)
	return nil
}

func (s *Store) InsertRecord(ctx context.Context, rec PaymentRecord, start, end time.Time) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payment_records (business_id, employee_id, period_start, period_end,
                                 total_hours, hourly_rate, gross_pay, advances, bonuses,
                                 deductions, net_pay, status, notes)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    RETURNING id
  `, rec.BusinessID, rec.EmployeeID, start, end,
		rec.TotalHours, rec.HourlyRate, rec.GrossPay, rec.Advances, rec.Bonuses,
		rec.Deductions, rec.NetPay, RecordStatusCalculated, nullIfEmpty(rec.Notes)).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetRecord(ctx context.Context, businessID, id string) (PaymentRecord, error) {
	var rec PaymentRecord
	err := scanRecordInto(s.DB.QueryRow(ctx, `
    SELECT `+recordColumns+`
    FROM payment_records pr
    WHERE pr.id = $1 AND pr.business_id = $2
  `, id, businessID), &rec)
	if errors.Is(err, pgx.ErrNoRows) {
		return rec, errRecordNotFound()
	}
	return rec, err
}

// UpdateRecord rewrites an unpaid record. Paid records are immutable;
// a paid target matches zero rows and reads as not found.
func (s *Store) UpdateRecord(ctx context.Context, businessID, id string, rec PaymentRecord, start, end time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payment_records
    SET employee_id = $1, period_start = $2, period_end = $3, total_hours = $4,
        hourly_rate = $5, gross_pay = $6, advances = $7, bonuses = $8,
        deductions = $9, net_pay = $10, notes = $11, updated_at = now()
    WHERE id = $12 AND business_id = $13 AND status = $14
  `, rec.EmployeeID, start, end, rec.TotalHours,
		rec.HourlyRate, rec.GrossPay, rec.Advances, rec.Bonuses,
		rec.Deductions, rec.NetPay, nullIfEmpty(rec.Notes), id, businessID, RecordStatusCalculated)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("record_not_editable", "payment record not found or already paid")
	}
	return nil
}

func (s *Store) DeleteRecord(ctx context.Context, businessID, id string) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM payment_records
    WHERE id = $1 AND business_id = $2 AND status = $3
  `, id, businessID, RecordStatusCalculated)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("record_not_deletable", "payment record not found or already paid")
	}
	return nil
}

// MarkPaid flips a calculated record to paid in one conditional update,
// so two concurrent calls resolve to a single payment.
func (s *Store) MarkPaid(ctx context.Context, businessID, id, method string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payment_records
    SET status = $1, paid_at = now(), payment_method = $2, updated_at = now()
    WHERE id = $3 AND business_id = $4 AND status = $5
  `, RecordStatusPaid, nullIfEmpty(method), id, businessID, RecordStatusCalculated)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("record_not_payable", "payment record not found or not in the required state")
	}
	return nil
}

// ListRecords returns records whose period overlaps [start, end],
// newest first, optionally filtered by status.
func (s *Store) ListRecords(ctx context.Context, businessID string, start, end time.Time, status string) ([]PaymentRecord, error) {
	query := `
    SELECT ` + recordColumns + `, COALESCE(e.full_name, '')
    FROM payment_records pr
    LEFT JOIN employees e ON pr.employee_id = e.id
    WHERE pr.business_id = $1 AND pr.period_start <= $2 AND pr.period_end >= $3
  `
	args := []any{businessID, end, start}
	if status != "" {
		query += " AND pr.status = $4"
		args = append(args, status)
	}
	query += " ORDER BY pr.period_start DESC, pr.created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PaymentRecord
	for rows.Next() {
		var rec PaymentRecord
		if err := scanRecordInto(rows, &rec, &rec.EmployeeName); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
