package schedule

const (
	StatusDraft  = "draft"
	StatusPosted = "posted"
)

const DaysPerWeek = 7
