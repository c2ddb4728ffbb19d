package schedule

import "time"

type WeeklySchedule struct {
	ID            string     `json:"id"`
	BusinessID    string     `json:"businessId"`
	WeekStartDate string     `json:"weekStartDate"`
	Status        string     `json:"status"`
	PostedAt      *time.Time `json:"postedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	Shifts        []Shift    `json:"shifts"`
}

type Shift struct {
	ID         string `json:"id"`
	ScheduleID string `json:"scheduleId"`
	EmployeeID string `json:"employeeId"`
	DayOfWeek  int    `json:"dayOfWeek"`
	StartMin   int    `json:"startMin"`
	EndMin     int    `json:"endMin"`
	StartLabel string `json:"startLabel"`
	EndLabel   string `json:"endLabel"`
	// Legacy 24-hour projections kept for older clients. Written on every
	// mutation, never read back for arithmetic.
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	DurationHours float64   `json:"durationHours"`
	TemplateID    string    `json:"templateId,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ShiftInput struct {
	EmployeeID string `json:"employeeId"`
	DayOfWeek  int    `json:"dayOfWeek"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	TemplateID string `json:"templateId"`
	Notes      string `json:"notes"`
}

type ShiftTemplate struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"businessId"`
	Name       string    `json:"name"`
	StartMin   int       `json:"startMin"`
	EndMin     int       `json:"endMin"`
	StartLabel string    `json:"startLabel"`
	EndLabel   string    `json:"endLabel"`
	Color      string    `json:"color"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

type TemplateInput struct {
	Name      string `json:"name"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Color     string `json:"color"`
}

type CopyResult struct {
	ScheduleID string `json:"scheduleId"`
	Copied     int    `json:"copied"`
	Skipped    int    `json:"skipped"`
}
