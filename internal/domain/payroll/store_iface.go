package payroll

import (
	"context"
	"time"
)

// StoreAPI is the storage surface the engine computes over. The
// concrete Store implements it against Postgres; tests substitute an
// in-memory fake for the pure reconciliation logic.
type StoreAPI interface {
	ConfirmedWeeks(ctx context.Context, businessID string, firstWeekStart, lastWeekStart time.Time) ([]confirmedWeek, error)
	ScheduledTotals(ctx context.Context, businessID string, start, end time.Time) (map[string]float64, error)
	EmployeeNames(ctx context.Context, businessID string) (map[string]string, error)

	InsertRate(ctx context.Context, businessID, employeeID string, hourlyRate float64, effectiveFrom time.Time) (string, error)
	ListRates(ctx context.Context, businessID, employeeID string) ([]EmployeeRate, error)
	CurrentRate(ctx context.Context, businessID, employeeID string, asOf time.Time) (EmployeeRate, error)

	InsertRecord(ctx context.Context, rec PaymentRecord, start, end time.Time) (string, error)
	GetRecord(ctx context.Context, businessID, id string) (PaymentRecord, error)
	UpdateRecord(ctx context.Context, businessID, id string, rec PaymentRecord, start, end time.Time) error
	DeleteRecord(ctx context.Context, businessID, id string) error
	MarkPaid(ctx context.Context, businessID, id, method string) error
	ListRecords(ctx context.Context, businessID string, start, end time.Time, status string) ([]PaymentRecord, error)
}
