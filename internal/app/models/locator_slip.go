package models

import "time"

// LocatorSlip records an employee leaving the office during work hours
type LocatorSlip struct {
	ID          int64          `json:"id"`
	EmployeeID  int64          `json:"employeeId"`
	Destination string         `json:"destination"`
	Purpose     string         `json:"purpose"`
	SlipDate    time.Time      `json:"slipDate"`
	TimeOut     time.Time      `json:"timeOut"`
	TimeIn      *time.Time     `json:"timeIn,omitempty"`
	IsOfficial  bool           `json:"isOfficial"`
	Status      WorkflowStatus `json:"status"`
	ApprovedBy  *int64         `json:"approvedBy,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}
