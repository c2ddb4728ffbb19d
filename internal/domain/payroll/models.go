package payroll

import "time"

// EmployeeRate is one row of the rate history. The rate in force on a
// given date is the row with the latest effective_from on or before it.
type EmployeeRate struct {
	ID            string    `json:"id"`
	BusinessID    string    `json:"businessId"`
	EmployeeID    string    `json:"employeeId"`
	HourlyRate    float64   `json:"hourlyRate"`
	EffectiveFrom string    `json:"effectiveFrom"`
	CreatedAt     time.Time `json:"createdAt"`
}

type RateInput struct {
	EmployeeID    string  `json:"employeeId"`
	HourlyRate    float64 `json:"hourlyRate"`
	EffectiveFrom string  `json:"effectiveFrom"`
}

type PaymentRecord struct {
	ID            string     `json:"id"`
	BusinessID    string     `json:"businessId"`
	EmployeeID    string     `json:"employeeId"`
	EmployeeName  string     `json:"employeeName,omitempty"`
	PeriodStart   string     `json:"periodStart"`
	PeriodEnd     string     `json:"periodEnd"`
	TotalHours    float64    `json:"totalHours"`
	HourlyRate    float64    `json:"hourlyRate"`
	GrossPay      float64    `json:"grossPay"`
	Advances      float64    `json:"advances"`
	Bonuses       float64    `json:"bonuses"`
	Deductions    float64    `json:"deductions"`
	NetPay        float64    `json:"netPay"`
	Status        string     `json:"status"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type RecordInput struct {
	EmployeeID  string  `json:"employeeId"`
	PeriodStart string  `json:"periodStart"`
	PeriodEnd   string  `json:"periodEnd"`
	TotalHours  float64 `json:"totalHours"`
	HourlyRate  float64 `json:"hourlyRate"`
	Advances    float64 `json:"advances"`
	Bonuses     float64 `json:"bonuses"`
	Deductions  float64 `json:"deductions"`
	Notes       string  `json:"notes"`
}

// HoursRow is one employee's authoritative hours for a range, tagged
// with the source that produced them.
type HoursRow struct {
	EmployeeID   string  `json:"employeeId"`
	EmployeeName string  `json:"employeeName,omitempty"`
	Hours        float64 `json:"hours"`
	Source       string  `json:"source"`
}

// DetailedHoursRow carries both totals side by side for discrepancy
// review, plus which one pay would be based on.
type DetailedHoursRow struct {
	EmployeeID     string  `json:"employeeId"`
	EmployeeName   string  `json:"employeeName,omitempty"`
	ConfirmedHours float64 `json:"confirmedHours"`
	ScheduledHours float64 `json:"scheduledHours"`
	Source         string  `json:"source"`
}

type PayCalculation struct {
	EmployeeID  string  `json:"employeeId"`
	PeriodStart string  `json:"periodStart"`
	PeriodEnd   string  `json:"periodEnd"`
	Hours       float64 `json:"hours"`
	HourlyRate  float64 `json:"hourlyRate"`
	GrossPay    float64 `json:"grossPay"`
	NetPay      float64 `json:"netPay"`
	Source      string  `json:"source"`
}

type Report struct {
	PeriodStart string           `json:"periodStart"`
	PeriodEnd   string           `json:"periodEnd"`
	TotalPaid   float64          `json:"totalPaid"`
	TotalHours  float64          `json:"totalHours"`
	Employees   []ReportEmployee `json:"employees"`
	Timeline    []TimelineBucket `json:"timeline,omitempty"`
}

type ReportEmployee struct {
	EmployeeID   string  `json:"employeeId"`
	EmployeeName string  `json:"employeeName,omitempty"`
	Hours        float64 `json:"hours"`
	Paid         float64 `json:"paid"`
}

// TimelineBucket groups paid records by payment date.
type TimelineBucket struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

type MonthBreakdown struct {
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	TotalHours float64 `json:"totalHours"`
	TotalPaid  float64 `json:"totalPaid"`
}

// BulkItem is one employee's outcome inside a bulk operation. Exactly
// one of the payload fields or Error is set.
type BulkItem struct {
	EmployeeID  string          `json:"employeeId"`
	Calculation *PayCalculation `json:"calculation,omitempty"`
	Record      *PaymentRecord  `json:"record,omitempty"`
	Error       string          `json:"error,omitempty"`
}

type BulkResult struct {
	Succeeded int        `json:"succeeded"`
	Failed    int        `json:"failed"`
	Items     []BulkItem `json:"items"`
}

// confirmedWeek is one confirmed-hours week with its daily buckets,
// used by the monthly splitter and the detailed view.
type confirmedWeek struct {
	EmployeeID string
	WeekStart  time.Time
	Daily      [7]float64
	Total      float64
	Status     string
}
