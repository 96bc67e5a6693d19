package documents

import "time"

const (
	TypeContract = "contract"
	TypePolicy   = "policy"
	TypeTraining = "training"
)

var Types = []string{TypeContract, TypePolicy, TypeTraining}

type Document struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	UploadedBy         string     `json:"uploadedBy,omitempty"`
	UploadedByUsername string     `json:"uploadedByUsername,omitempty"`
	UploadedAt         time.Time  `json:"uploadedAt"`
	EmployeeID         string     `json:"employeeId,omitempty"`
	EmployeeFullName   string     `json:"employeeFullName,omitempty"`
	DocumentType       string     `json:"documentType"`
	IsPublic           bool       `json:"isPublic"`
	EffectiveDate      *time.Time `json:"effectiveDate,omitempty"`
	ContractEndDate    *time.Time `json:"contractEndDate,omitempty"`
	IsExpiringSoon     bool       `json:"isExpiringSoon"`
	HasExpired         bool       `json:"hasExpired"`
}

type ListFilter struct {
	EmployeeID   string
	DocumentType string
	PublicOnly   bool
}
