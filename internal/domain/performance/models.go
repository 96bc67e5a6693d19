package performance

import "time"

type Review struct {
	ID                  string    `json:"id"`
	EmployeeID          string    `json:"employeeId"`
	EmployeeFullName    string    `json:"employeeFullName,omitempty"`
	ReviewDate          time.Time `json:"reviewDate"`
	Period              string    `json:"period"`
	QualityOfWork       int       `json:"qualityOfWork"`
	Attendance          int       `json:"attendance"`
	Communication       int       `json:"communication"`
	Teamwork            int       `json:"teamwork"`
	Initiative          int       `json:"initiative"`
	Comments            string    `json:"comments"`
	RecommendedTraining string    `json:"recommendedTraining"`
	ReviewerID          string    `json:"reviewerId,omitempty"`
	ReviewerUsername    string    `json:"reviewerUsername,omitempty"`
}
