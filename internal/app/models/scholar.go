package models

import (
	"strings"
	"time"
)

// ScholarStatus tracks where a scholar is in the grant life cycle
type ScholarStatus string

const (
	ScholarApplicant  ScholarStatus = "APPLICANT"
	ScholarVerified   ScholarStatus = "VERIFIED"
	ScholarActive     ScholarStatus = "ACTIVE"
	ScholarOnLeave    ScholarStatus = "ON_LEAVE"
	ScholarGraduated  ScholarStatus = "GRADUATED"
	ScholarTerminated ScholarStatus = "TERMINATED"
	ScholarWaived     ScholarStatus = "WAIVED"
)

var scholarTransitions = map[ScholarStatus][]ScholarStatus{
	ScholarApplicant: {ScholarVerified, ScholarWaived},
	ScholarVerified:  {ScholarActive, ScholarWaived},
	ScholarActive:    {ScholarOnLeave, ScholarGraduated, ScholarTerminated},
	ScholarOnLeave:   {ScholarActive, ScholarTerminated},
}

// Valid reports whether s is a known status
func (s ScholarStatus) Valid() bool {
	switch s {
	case ScholarApplicant, ScholarVerified, ScholarActive, ScholarOnLeave,
		ScholarGraduated, ScholarTerminated, ScholarWaived:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status may change from s to next.
func (s ScholarStatus) CanTransitionTo(next ScholarStatus) bool {
	for _, allowed := range scholarTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// EligibleForNOA reports whether a Notice of Award may be issued.
func (s ScholarStatus) EligibleForNOA() bool {
	return s == ScholarVerified || s == ScholarActive
}

// Sex as recorded on the scholar's application
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// ParseSex accepts M/F and the spelled-out forms used in spreadsheets.
func ParseSex(v string) (Sex, bool) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "M", "MALE":
		return SexMale, true
	case "F", "FEMALE":
		return SexFemale, true
	}
	return "", false
}

// Scholar represents a grantee of one program
type Scholar struct {
	ID            int64         `json:"id"`
	ProgramID     int64         `json:"programId"`
	ProgramCode   ProgramCode   `json:"programCode,omitempty"`
	AwardNumber   string        `json:"awardNumber"`
	LastName      string        `json:"lastName"`
	FirstName     string        `json:"firstName"`
	MiddleName    string        `json:"middleName"`
	NameExtension string        `json:"nameExtension"`
	Sex           Sex           `json:"sex"`
	Birthdate     *time.Time    `json:"birthdate,omitempty"`
	ContactNumber string        `json:"contactNumber"`
	Email         string        `json:"email"`
	ProvinceID    *int64        `json:"provinceId,omitempty"`
	CityID        *int64        `json:"cityId,omitempty"`
	DistrictID    *int64        `json:"districtId,omitempty"`
	Barangay      string        `json:"barangay"`
	Status        ScholarStatus `json:"status"`
	Remarks       string        `json:"remarks"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`

	ProvinceName string          `json:"provinceName,omitempty"`
	CityName     string          `json:"cityName,omitempty"`
	LatestRecord *AcademicRecord `json:"latestRecord,omitempty"`
}

// FullName renders "LAST, First Middle Ext." as printed on masterlists.
func (s *Scholar) FullName() string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(s.LastName))
	b.WriteString(", ")
	b.WriteString(s.FirstName)
	if s.MiddleName != "" {
		b.WriteString(" ")
		b.WriteString(s.MiddleName)
	}
	if s.NameExtension != "" {
		b.WriteString(" ")
		b.WriteString(s.NameExtension)
	}
	return b.String()
}

// ScholarFilter narrows scholar listings and exports
type ScholarFilter struct {
	ProgramID    int64
	Search       string
	Status       ScholarStatus
	HEIID        int64
	ProvinceID   int64
	AcademicYear string
	Sex          Sex
	SortBy       string
	SortOrder    string
}
