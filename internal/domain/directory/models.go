package directory

import "time"

type Business struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type BusinessInput struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type Employee struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Member is an employee as seen from a business roster.
type Member struct {
	EmployeeID string    `json:"employeeId"`
	FullName   string    `json:"fullName"`
	Phone      string    `json:"phone,omitempty"`
	JoinedAt   time.Time `json:"joinedAt"`
}
