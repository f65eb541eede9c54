package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AcademicStatus records the outcome of an enrolled term
type AcademicStatus string

const (
	AcademicEnrolled  AcademicStatus = "ENROLLED"
	AcademicCompleted AcademicStatus = "COMPLETED"
	AcademicDropped   AcademicStatus = "DROPPED"
	AcademicFailed    AcademicStatus = "FAILED"
)

// Valid reports whether s is a known academic status
func (s AcademicStatus) Valid() bool {
	switch s {
	case AcademicEnrolled, AcademicCompleted, AcademicDropped, AcademicFailed:
		return true
	}
	return false
}

// Semester 3 is the summer term
const (
	SemesterFirst  = 1
	SemesterSecond = 2
	SemesterSummer = 3
)

// AcademicRecord is one term of a scholar's enrollment
type AcademicRecord struct {
	ID            int64          `json:"id"`
	ScholarID     int64          `json:"scholarId"`
	HEIID         int64          `json:"heiId"`
	HEIName       string         `json:"heiName,omitempty"`
	Course        string         `json:"course"`
	YearLevel     int            `json:"yearLevel"`
	AcademicYear  string         `json:"academicYear"`
	Semester      int            `json:"semester"`
	GWA           *float64       `json:"gwa,omitempty"`
	UnitsEnrolled int            `json:"unitsEnrolled"`
	GrantAmount   float64        `json:"grantAmount"`
	Status        AcademicStatus `json:"status"`
	Remarks       string         `json:"remarks"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// ValidateAcademicYear checks the "YYYY-YYYY" format with consecutive years.
func ValidateAcademicYear(ay string) error {
	parts := strings.Split(strings.TrimSpace(ay), "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 4 {
		return fmt.Errorf("academic year %q must look like 2024-2025", ay)
	}
	start, err1 := strconv.Atoi(parts[0])
	end, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return fmt.Errorf("academic year %q must be numeric", ay)
	}
	if end != start+1 {
		return fmt.Errorf("academic year %q must span consecutive years", ay)
	}
	return nil
}

// TermKey identifies the term an academic record covers
func (r *AcademicRecord) TermKey() string {
	return fmt.Sprintf("%s/%d", r.AcademicYear, r.Semester)
}
