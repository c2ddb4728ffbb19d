package payroll

import (
	"context"
	"sort"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/platform/workers"
)

// BulkCalculate prices a set of employees for the range through the
// worker pool. An empty employee list means everyone with hours in the
// range. Per-employee failures land in the result items; the batch
// itself never aborts.
func (s *Service) BulkCalculate(ctx context.Context, businessID string, employeeIDs []string, startDate, endDate string) (BulkResult, error) {
	return s.fanOut(ctx, businessID, employeeIDs, startDate, endDate, func(ctx context.Context, calc PayCalculation) (BulkItem, error) {
		return BulkItem{EmployeeID: calc.EmployeeID, Calculation: &calc}, nil
	})
}

// BulkCreateRecords calculates pay like BulkCalculate and persists a
// payment record per successful calculation.
func (s *Service) BulkCreateRecords(ctx context.Context, businessID string, employeeIDs []string, startDate, endDate string) (BulkResult, error) {
	return s.fanOut(ctx, businessID, employeeIDs, startDate, endDate, func(ctx context.Context, calc PayCalculation) (BulkItem, error) {
		rec := PaymentRecord{
			BusinessID:  businessID,
			EmployeeID:  calc.EmployeeID,
			PeriodStart: calc.PeriodStart,
			PeriodEnd:   calc.PeriodEnd,
			TotalHours:  calc.Hours,
			HourlyRate:  calc.HourlyRate,
			GrossPay:    calc.GrossPay,
			NetPay:      calc.NetPay,
			Status:      RecordStatusCalculated,
		}
		start, end, err := parseRange(calc.PeriodStart, calc.PeriodEnd)
		if err != nil {
			return BulkItem{}, err
		}
		id, err := s.store.InsertRecord(ctx, rec, start, end)
		if err != nil {
			return BulkItem{}, err
		}
		rec.ID = id
		return BulkItem{EmployeeID: calc.EmployeeID, Record: &rec}, nil
	})
}

func (s *Service) fanOut(ctx context.Context, businessID string, employeeIDs []string, startDate, endDate string, finish func(context.Context, PayCalculation) (BulkItem, error)) (BulkResult, error) {
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return BulkResult{}, err
	}
	totals, source, err := s.hoursByEmployee(ctx, businessID, start, end)
	if err != nil {
		return BulkResult{}, err
	}
	if len(employeeIDs) == 0 {
		for employeeID := range totals {
			employeeIDs = append(employeeIDs, employeeID)
		}
		sort.Strings(employeeIDs)
	}

	resultC := make(chan workers.Result, len(employeeIDs))
	for _, employeeID := range employeeIDs {
		s.pool.Submit(workers.Task{
			Fn: func() (any, error) {
				calc, err := s.priceHours(ctx, businessID, employeeID, start, end, totals[employeeID], source[employeeID])
				if err != nil {
					return BulkItem{EmployeeID: employeeID, Error: fault.MessageOf(err)}, nil
				}
				item, err := finish(ctx, calc)
				if err != nil {
					return BulkItem{EmployeeID: employeeID, Error: fault.MessageOf(err)}, nil
				}
				return item, nil
			},
			ResultC: resultC,
		})
	}

	result := BulkResult{Items: make([]BulkItem, 0, len(employeeIDs))}
	for range employeeIDs {
		res := <-resultC
		item := res.Value.(BulkItem)
		if item.Error != "" {
			result.Failed++
		} else {
			result.Succeeded++
		}
		result.Items = append(result.Items, item)
	}
	sort.Slice(result.Items, func(i, j int) bool { return result.Items[i].EmployeeID < result.Items[j].EmployeeID })
	return result, nil
}
