package payroll

import (
	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/fault"
)

func errNoRate(employeeID, asOf string) error {
	return fault.BusinessRule("rate_missing", "no hourly rate on file for employee %s on or before %s", employeeID, asOf)
}

func errRecordNotFound() error {
	return fault.NotFound("record_not_found", "payment record not found")
}

func errInvalidRange(start, end string) error {
	return fault.Validation("invalid_range", "period start %s must not be after end %s", start, end)
}
