package payroll

import (
	"context"
	"strings"
	"time"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/dates"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/timecodec"
)

func (s *Service) SetRate(ctx context.Context, businessID string, in RateInput) (EmployeeRate, error) {
	if strings.TrimSpace(in.EmployeeID) == "" {
		return EmployeeRate{}, fault.Validation("employee_required", "an employee is required")
	}
	if in.HourlyRate <= 0 {
		return EmployeeRate{}, fault.Validation("invalid_rate", "hourly rate %.2f must be greater than zero", in.HourlyRate)
	}
	effective, err := dates.Parse(in.EffectiveFrom)
	if err != nil {
		return EmployeeRate{}, err
	}

	rate := timecodec.Round2(in.HourlyRate)
	id, err := s.store.InsertRate(ctx, businessID, in.EmployeeID, rate, effective)
	if err != nil {
		return EmployeeRate{}, err
	}
	return EmployeeRate{
		ID:            id,
		BusinessID:    businessID,
		EmployeeID:    in.EmployeeID,
		HourlyRate:    rate,
		EffectiveFrom: dates.Format(effective),
	}, nil
}

func (s *Service) ListRates(ctx context.Context, businessID, employeeID string) ([]EmployeeRate, error) {
	rates, err := s.store.ListRates(ctx, businessID, employeeID)
	if err != nil {
		return nil, err
	}
	if rates == nil {
		rates = []EmployeeRate{}
	}
	return rates, nil
}

// CreateRecord stores an explicit payment record. Gross and net are
// always recomputed from the inputs, never trusted from the caller.
func (s *Service) CreateRecord(ctx context.Context, businessID string, in RecordInput) (PaymentRecord, error) {
	rec, start, end, err := s.buildRecord(ctx, businessID, in)
	if err != nil {
		return PaymentRecord{}, err
	}
	id, err := s.store.InsertRecord(ctx, rec, start, end)
	if err != nil {
		return PaymentRecord{}, err
	}
	return s.store.GetRecord(ctx, businessID, id)
}

func (s *Service) UpdateRecord(ctx context.Context, businessID, id string, in RecordInput) (PaymentRecord, error) {
	rec, start, end, err := s.buildRecord(ctx, businessID, in)
	if err != nil {
		return PaymentRecord{}, err
	}
	if err := s.store.UpdateRecord(ctx, businessID, id, rec, start, end); err != nil {
		return PaymentRecord{}, err
	}
	return s.store.GetRecord(ctx, businessID, id)
}

func (s *Service) DeleteRecord(ctx context.Context, businessID, id string) error {
	return s.store.DeleteRecord(ctx, businessID, id)
}

func (s *Service) MarkPaid(ctx context.Context, businessID, id, method string) (PaymentRecord, error) {
	if err := s.store.MarkPaid(ctx, businessID, id, strings.TrimSpace(method)); err != nil {
		return PaymentRecord{}, err
	}
	return s.store.GetRecord(ctx, businessID, id)
}

func (s *Service) GetRecord(ctx context.Context, businessID, id string) (PaymentRecord, error) {
	return s.store.GetRecord(ctx, businessID, id)
}

func (s *Service) ListRecords(ctx context.Context, businessID, startDate, endDate, status string) ([]PaymentRecord, error) {
	if status != "" && status != RecordStatusCalculated && status != RecordStatusPaid {
		return nil, fault.Validation("invalid_status", "unknown status %q", status)
	}
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListRecords(ctx, businessID, start, end, status)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []PaymentRecord{}
	}
	return records, nil
}

func (s *Service) buildRecord(ctx context.Context, businessID string, in RecordInput) (PaymentRecord, time.Time, time.Time, error) {
	var zero time.Time
	if strings.TrimSpace(in.EmployeeID) == "" {
		return PaymentRecord{}, zero, zero, fault.Validation("employee_required", "an employee is required")
	}
	start, end, err := parseRange(in.PeriodStart, in.PeriodEnd)
	if err != nil {
		return PaymentRecord{}, zero, zero, err
	}
	if in.TotalHours < 0 {
		return PaymentRecord{}, zero, zero, fault.Validation("invalid_hours", "total hours %.2f must not be negative", in.TotalHours)
	}
	if in.Advances < 0 || in.Bonuses < 0 || in.Deductions < 0 {
		return PaymentRecord{}, zero, zero, fault.Validation("invalid_adjustment", "advances, bonuses and deductions must not be negative")
	}

	rate := in.HourlyRate
	if rate <= 0 {
		current, err := s.store.CurrentRate(ctx, businessID, in.EmployeeID, end)
		if err != nil {
			return PaymentRecord{}, zero, zero, err
		}
		rate = current.HourlyRate
	}

	hoursTotal := timecodec.Round2(in.TotalHours)
	gross, _ := ComputePay(hoursTotal, rate)
	rec := PaymentRecord{
		BusinessID: businessID,
		EmployeeID: in.EmployeeID,
		TotalHours: hoursTotal,
		HourlyRate: timecodec.Round2(rate),
		GrossPay:   gross,
		Advances:   timecodec.Round2(in.Advances),
		Bonuses:    timecodec.Round2(in.Bonuses),
		Deductions: timecodec.Round2(in.Deductions),
		Notes:      strings.TrimSpace(in.Notes),
	}
	rec.NetPay = NetFromParts(rec.GrossPay, rec.Bonuses, rec.Advances, rec.Deductions)
	return rec, start, end, nil
}
