package models

import "time"

// LeaveType follows civil service leave categories
type LeaveType string

const (
	LeaveVacation  LeaveType = "VACATION"
	LeaveSick      LeaveType = "SICK"
	LeaveSpecial   LeaveType = "SPECIAL"
	LeaveMaternity LeaveType = "MATERNITY"
	LeavePaternity LeaveType = "PATERNITY"
	LeaveForced    LeaveType = "FORCED"
)

// Valid reports whether t is a known leave type
func (t LeaveType) Valid() bool {
	switch t {
	case LeaveVacation, LeaveSick, LeaveSpecial, LeaveMaternity, LeavePaternity, LeaveForced:
		return true
	}
	return false
}

// LeaveApplication is an employee's request for leave
type LeaveApplication struct {
	ID         int64          `json:"id"`
	EmployeeID int64          `json:"employeeId"`
	LeaveType  LeaveType      `json:"leaveType"`
	StartDate  time.Time      `json:"startDate"`
	EndDate    time.Time      `json:"endDate"`
	Days       int            `json:"days"`
	Reason     string         `json:"reason"`
	Status     WorkflowStatus `json:"status"`
	ApprovedBy *int64         `json:"approvedBy,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}
