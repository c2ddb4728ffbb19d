package hours

import "time"

type ConfirmedHours struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employeeId"`
	BusinessID      string     `json:"businessId"`
	WeekStartDate   string     `json:"weekStartDate"`
	SundayHours     float64    `json:"sundayHours"`
	MondayHours     float64    `json:"mondayHours"`
	TuesdayHours    float64    `json:"tuesdayHours"`
	WednesdayHours  float64    `json:"wednesdayHours"`
	ThursdayHours   float64    `json:"thursdayHours"`
	FridayHours     float64    `json:"fridayHours"`
	SaturdayHours   float64    `json:"saturdayHours"`
	TotalHours      float64    `json:"totalHours"`
	Status          string     `json:"status"`
	SubmittedAt     *time.Time `json:"submittedAt,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	ApprovedBy      string     `json:"approvedBy,omitempty"`
	RejectedAt      *time.Time `json:"rejectedAt,omitempty"`
	RejectedBy      string     `json:"rejectedBy,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	EmployeeName    string     `json:"employeeName,omitempty"`
	BusinessName    string     `json:"businessName,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (c *ConfirmedHours) Daily() [7]float64 {
	return [7]float64{
		c.SundayHours, c.MondayHours, c.TuesdayHours, c.WednesdayHours,
		c.ThursdayHours, c.FridayHours, c.SaturdayHours,
	}
}

func (c *ConfirmedHours) SetDaily(values [7]float64) {
	c.SundayHours = values[0]
	c.MondayHours = values[1]
	c.TuesdayHours = values[2]
	c.WednesdayHours = values[3]
	c.ThursdayHours = values[4]
	c.FridayHours = values[5]
	c.SaturdayHours = values[6]
	c.TotalHours = Total(values)
}

type HoursInput struct {
	SundayHours    float64 `json:"sundayHours"`
	MondayHours    float64 `json:"mondayHours"`
	TuesdayHours   float64 `json:"tuesdayHours"`
	WednesdayHours float64 `json:"wednesdayHours"`
	ThursdayHours  float64 `json:"thursdayHours"`
	FridayHours    float64 `json:"fridayHours"`
	SaturdayHours  float64 `json:"saturdayHours"`
	Notes          string  `json:"notes"`
}

func (i HoursInput) Daily() [7]float64 {
	return [7]float64{
		i.SundayHours, i.MondayHours, i.TuesdayHours, i.WednesdayHours,
		i.ThursdayHours, i.FridayHours, i.SaturdayHours,
	}
}

type CreateInput struct {
	BusinessID    string `json:"businessId"`
	WeekStartDate string `json:"weekStartDate"`
	HoursInput
}
