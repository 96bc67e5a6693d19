package leave

import "time"

type Leave struct {
	ID                 string    `json:"id"`
	EmployeeID         string    `json:"employeeId"`
	EmployeeFullName   string    `json:"employeeFullName"`
	LeaveType          string    `json:"leaveType"`
	StartDate          time.Time `json:"startDate"`
	EndDate            time.Time `json:"endDate"`
	Status             string    `json:"status"`
	Reason             string    `json:"reason"`
	ApprovedBy         string    `json:"approvedBy,omitempty"`
	ApprovedByUsername string    `json:"approvedByUsername,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Scope restricts listings to what the caller may see. All wins over
// EmployeeID; a scope with neither set yields nothing.
type Scope struct {
	All        bool
	EmployeeID string
}
