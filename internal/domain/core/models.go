package core

import "time"

type Employee struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId,omitempty"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Position       string     `json:"position"`
	DepartmentID   string     `json:"departmentId,omitempty"`
	DepartmentName string     `json:"departmentName,omitempty"`
	Email          string     `json:"email"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	Phone          string     `json:"phone"`
	Location       string     `json:"location"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

type Department struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Employees   []Employee `json:"employees"`
}

type CompanyStats struct {
	TotalEmployees   int `json:"totalEmployees"`
	TotalDepartments int `json:"totalDepartments"`
}
