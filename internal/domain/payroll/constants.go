package payroll

const (
	RecordStatusCalculated = "calculated"
	RecordStatusPaid       = "paid"

	SourceConfirmed = "confirmed"
	SourceScheduled = "scheduled"
)
