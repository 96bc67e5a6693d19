package attendance

import "time"

type Record struct {
	ID               string     `json:"id"`
	EmployeeID       string     `json:"employeeId"`
	EmployeeFullName string     `json:"employeeFullName"`
	CheckInTime      time.Time  `json:"checkInTime"`
	CheckOutTime     *time.Time `json:"checkOutTime,omitempty"`
	Date             time.Time  `json:"date"`
}

type ListFilter struct {
	EmployeeID string
	Date       *time.Time
}
