// Package payroll reconciles scheduled and confirmed hours into pay.
// Approved confirmed hours are authoritative; employees without any
// fall back to hours derived from posted schedules. Every accumulation
// step rounds to two decimals so repeated sums stay drift-free.
package payroll

import (
	"context"
	"sort"
	"time"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/dates"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/hours"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/timecodec"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/platform/workers"
)

type Service struct {
	store StoreAPI
	pool  *workers.Pool
}

func NewService(store StoreAPI, pool *workers.Pool) *Service {
	return &Service{store: store, pool: pool}
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	from, err := dates.Parse(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := dates.Parse(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, errInvalidRange(start, end)
	}
	return from, to, nil
}

// hoursByEmployee resolves the authoritative hours per employee for a
// range: the rounded sum of approved confirmed weeks overlapping it,
// or the scheduled total for employees with no approved week at all.
// The fallback is decided per employee, never for the whole business.
func (s *Service) hoursByEmployee(ctx context.Context, businessID string, start, end time.Time) (map[string]float64, map[string]string, error) {
	weeks, err := s.store.ConfirmedWeeks(ctx, businessID, dates.AddDays(start, -6), end)
	if err != nil {
		return nil, nil, err
	}

	totals := map[string]float64{}
	source := map[string]string{}
	for _, week := range weeks {
		if week.Status != hours.StatusApproved {
			continue
		}
		totals[week.EmployeeID] = timecodec.Round2(totals[week.EmployeeID] + week.Total)
		source[week.EmployeeID] = SourceConfirmed
	}

	scheduled, err := s.store.ScheduledTotals(ctx, businessID, start, end)
	if err != nil {
		return nil, nil, err
	}
	for employeeID, total := range scheduled {
		if _, ok := source[employeeID]; ok {
			continue
		}
		totals[employeeID] = total
		source[employeeID] = SourceScheduled
	}
	return totals, source, nil
}

// EmployeeHours returns each employee's authoritative hours for the
// range, tagged with the source that produced them.
func (s *Service) EmployeeHours(ctx context.Context, businessID, startDate, endDate string) ([]HoursRow, error) {
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	totals, source, err := s.hoursByEmployee(ctx, businessID, start, end)
	if err != nil {
		return nil, err
	}
	names, err := s.store.EmployeeNames(ctx, businessID)
	if err != nil {
		return nil, err
	}

	rows := make([]HoursRow, 0, len(totals))
	for employeeID, total := range totals {
		rows = append(rows, HoursRow{
			EmployeeID:   employeeID,
			EmployeeName: names[employeeID],
			Hours:        total,
			Source:       source[employeeID],
		})
	}
	sortHoursRows(rows)
	return rows, nil
}

// DetailedEmployeeHours lays the confirmed total (any status) and the
// independently computed scheduled total side by side for discrepancy
// review. Source marks which figure pay would be based on, using the
// same per-employee rule as EmployeeHours.
func (s *Service) DetailedEmployeeHours(ctx context.Context, businessID, startDate, endDate string) ([]DetailedHoursRow, error) {
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	weeks, err := s.store.ConfirmedWeeks(ctx, businessID, dates.AddDays(start, -6), end)
	if err != nil {
		return nil, err
	}
	scheduled, err := s.store.ScheduledTotals(ctx, businessID, start, end)
	if err != nil {
		return nil, err
	}
	names, err := s.store.EmployeeNames(ctx, businessID)
	if err != nil {
		return nil, err
	}

	confirmed := map[string]float64{}
	approved := map[string]bool{}
	for _, week := range weeks {
		confirmed[week.EmployeeID] = timecodec.Round2(confirmed[week.EmployeeID] + week.Total)
		if week.Status == hours.StatusApproved {
			approved[week.EmployeeID] = true
		}
	}

	seen := map[string]bool{}
	var rows []DetailedHoursRow
	appendRow := func(employeeID string) {
		if seen[employeeID] {
			return
		}
		seen[employeeID] = true
		src := SourceScheduled
		if approved[employeeID] {
			src = SourceConfirmed
		}
		rows = append(rows, DetailedHoursRow{
			EmployeeID:     employeeID,
			EmployeeName:   names[employeeID],
			ConfirmedHours: confirmed[employeeID],
			ScheduledHours: scheduled[employeeID],
			Source:         src,
		})
	}
	for employeeID := range confirmed {
		appendRow(employeeID)
	}
	for employeeID := range scheduled {
		appendRow(employeeID)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].EmployeeName != rows[j].EmployeeName {
			return rows[i].EmployeeName < rows[j].EmployeeName
		}
		return rows[i].EmployeeID < rows[j].EmployeeID
	})
	return rows, nil
}

// MonthlyEmployeeHours attributes confirmed-hours weeks to a calendar
// month day by day. Any week starting within six days before the month
// can reach into it; each daily bucket counts only when its absolute
// date falls inside the month.
func (s *Service) MonthlyEmployeeHours(ctx context.Context, businessID string, year int, month time.Month) ([]HoursRow, error) {
	first, last := dates.MonthBounds(year, month)
	weeks, err := s.store.ConfirmedWeeks(ctx, businessID, dates.AddDays(first, -6), last)
	if err != nil {
		return nil, err
	}
	names, err := s.store.EmployeeNames(ctx, businessID)
	if err != nil {
		return nil, err
	}

	totals := map[string]float64{}
	for _, week := range weeks {
		if week.Status != hours.StatusApproved {
			continue
		}
		share := MonthShare(week.WeekStart, week.Daily, year, month)
		if share == 0 {
			continue
		}
		totals[week.EmployeeID] = timecodec.Round2(totals[week.EmployeeID] + share)
	}

	rows := make([]HoursRow, 0, len(totals))
	for employeeID, total := range totals {
		rows = append(rows, HoursRow{
			EmployeeID:   employeeID,
			EmployeeName: names[employeeID],
			Hours:        total,
			Source:       SourceConfirmed,
		})
	}
	sortHoursRows(rows)
	return rows, nil
}

// CalculatePay prices one employee's hours for the range at their
// effective rate. A missing rate is a business-rule failure; zero
// hours is not.
func (s *Service) CalculatePay(ctx context.Context, businessID, employeeID, startDate, endDate string) (PayCalculation, error) {
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return PayCalculation{}, err
	}
	totals, source, err := s.hoursByEmployee(ctx, businessID, start, end)
	if err != nil {
		return PayCalculation{}, err
	}
	return s.priceHours(ctx, businessID, employeeID, start, end, totals[employeeID], source[employeeID])
}

// priceHours is the rate-lookup half of CalculatePay, shared with the
// bulk path which resolves hours for everyone up front.
func (s *Service) priceHours(ctx context.Context, businessID, employeeID string, start, end time.Time, total float64, source string) (PayCalculation, error) {
	rate, err := s.store.CurrentRate(ctx, businessID, employeeID, end)
	if err != nil {
		return PayCalculation{}, err
	}
	if source == "" {
		source = SourceScheduled
	}
	gross, net := ComputePay(total, rate.HourlyRate)
	return PayCalculation{
		EmployeeID:  employeeID,
		PeriodStart: dates.Format(start),
		PeriodEnd:   dates.Format(end),
		Hours:       total,
		HourlyRate:  rate.HourlyRate,
		GrossPay:    gross,
		NetPay:      net,
		Source:      source,
	}, nil
}

func sortHoursRows(rows []HoursRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].EmployeeName != rows[j].EmployeeName {
			return rows[i].EmployeeName < rows[j].EmployeeName
		}
		return rows[i].EmployeeID < rows[j].EmployeeID
	})
}
