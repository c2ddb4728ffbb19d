package payroll

import (
	"context"
	"sort"
	"time"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/dates"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/timecodec"
)

// PayrollReport summarizes a range. An exact calendar month reports
// confirmed hours attributed day by day, priced at current rates; any
// other range aggregates paid payment records and adds a payment
// timeline.
func (s *Service) PayrollReport(ctx context.Context, businessID, startDate, endDate string) (Report, error) {
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return Report{}, err
	}
	report := Report{
		PeriodStart: dates.Format(start),
		PeriodEnd:   dates.Format(end),
		Employees:   []ReportEmployee{},
	}

	if year, month, ok := ExactCalendarMonth(start, end); ok {
		rows, err := s.MonthlyEmployeeHours(ctx, businessID, year, month)
		if err != nil {
			return Report{}, err
		}
		for _, row := range rows {
			// An employee without a rate still shows their hours;
			// the paid column stays zero.
			var paid float64
			rate, err := s.store.CurrentRate(ctx, businessID, row.EmployeeID, end)
			switch {
			case err == nil:
				paid, _ = ComputePay(row.Hours, rate.HourlyRate)
			case fault.KindOf(err) != fault.KindBusinessRule:
				return Report{}, err
			}
			report.Employees = append(report.Employees, ReportEmployee{
				EmployeeID:   row.EmployeeID,
				EmployeeName: row.EmployeeName,
				Hours:        row.Hours,
				Paid:         paid,
			})
			report.TotalHours = timecodec.Round2(report.TotalHours + row.Hours)
			report.TotalPaid = timecodec.Round2(report.TotalPaid + paid)
		}
		return report, nil
	}

	records, err := s.store.ListRecords(ctx, businessID, start, end, RecordStatusPaid)
	if err != nil {
		return Report{}, err
	}

	type agg struct {
		name  string
		hours float64
		paid  float64
	}
	perEmployee := map[string]*agg{}
	buckets := map[string]*TimelineBucket{}
	for _, rec := range records {
		entry := perEmployee[rec.EmployeeID]
		if entry == nil {
			entry = &agg{name: rec.EmployeeName}
			perEmployee[rec.EmployeeID] = entry
		}
		entry.hours = timecodec.Round2(entry.hours + rec.TotalHours)
		entry.paid = timecodec.Round2(entry.paid + rec.NetPay)
		report.TotalHours = timecodec.Round2(report.TotalHours + rec.TotalHours)
		report.TotalPaid = timecodec.Round2(report.TotalPaid + rec.NetPay)

		if rec.PaidAt == nil {
			continue
		}
		day := dates.Format(*rec.PaidAt)
		bucket := buckets[day]
		if bucket == nil {
			bucket = &TimelineBucket{Date: day}
			buckets[day] = bucket
		}
		bucket.Total = timecodec.Round2(bucket.Total + rec.NetPay)
		bucket.Count++
	}

	for employeeID, entry := range perEmployee {
		report.Employees = append(report.Employees, ReportEmployee{
			EmployeeID:   employeeID,
			EmployeeName: entry.name,
			Hours:        entry.hours,
			Paid:         entry.paid,
		})
	}
	sort.Slice(report.Employees, func(i, j int) bool {
		if report.Employees[i].EmployeeName != report.Employees[j].EmployeeName {
			return report.Employees[i].EmployeeName < report.Employees[j].EmployeeName
		}
		return report.Employees[i].EmployeeID < report.Employees[j].EmployeeID
	})

	report.Timeline = make([]TimelineBucket, 0, len(buckets))
	for _, bucket := range buckets {
		report.Timeline = append(report.Timeline, *bucket)
	}
	sort.Slice(report.Timeline, func(i, j int) bool { return report.Timeline[i].Date < report.Timeline[j].Date })
	return report, nil
}

// MonthlyBreakdown walks every calendar month the range touches and
// totals attributed hours and paid amounts per month.
func (s *Service) MonthlyBreakdown(ctx context.Context, businessID, startDate, endDate string) ([]MonthBreakdown, error) {
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	breakdown := []MonthBreakdown{}
	for cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC); !cursor.After(end); cursor = cursor.AddDate(0, 1, 0) {
		year, month := cursor.Year(), cursor.Month()
		rows, err := s.MonthlyEmployeeHours(ctx, businessID, year, month)
		if err != nil {
			return nil, err
		}
		var monthHours float64
		for _, row := range rows {
			monthHours = timecodec.Round2(monthHours + row.Hours)
		}

		first, last := dates.MonthBounds(year, month)
		records, err := s.store.ListRecords(ctx, businessID, first, last, RecordStatusPaid)
		if err != nil {
			return nil, err
		}
		var monthPaid float64
		for _, rec := range records {
			monthPaid = timecodec.Round2(monthPaid + rec.NetPay)
		}

		breakdown = append(breakdown, MonthBreakdown{
			Year:       year,
			Month:      int(month),
			TotalHours: monthHours,
			TotalPaid:  monthPaid,
		})
	}
	return breakdown, nil
}
