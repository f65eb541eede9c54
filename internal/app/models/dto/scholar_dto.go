package dto

import "github.com/yigit/scholaris/internal/app/models"

// ScholarRequest carries the editable fields of a scholar
type ScholarRequest struct {
	AwardNumber   string `json:"awardNumber" binding:"required,award_number"`
	LastName      string `json:"lastName" binding:"required,max=100"`
	FirstName     string `json:"firstName" binding:"required,max=100"`
	MiddleName    string `json:"middleName" binding:"max=100"`
	NameExtension string `json:"nameExtension" binding:"max=16"`
	Sex           string `json:"sex" binding:"required,oneof=M F"`
	Birthdate     string `json:"birthdate" binding:"omitempty,datetime=2006-01-02"`
	ContactNumber string `json:"contactNumber" binding:"max=32"`
	Email         string `json:"email" binding:"omitempty,email"`
	ProvinceID    *int64 `json:"provinceId" binding:"omitempty,gt=0"`
	CityID        *int64 `json:"cityId" binding:"omitempty,gt=0"`
	DistrictID    *int64 `json:"districtId" binding:"omitempty,gt=0"`
	Barangay      string `json:"barangay" binding:"max=150"`
	Remarks       string `json:"remarks"`
}

// ChangeScholarStatusRequest moves a scholar along its life cycle
type ChangeScholarStatusRequest struct {
	Status  models.ScholarStatus `json:"status" binding:"required,oneof=APPLICANT VERIFIED ACTIVE ON_LEAVE GRADUATED TERMINATED WAIVED"`
	Remarks string               `json:"remarks"`
}

// ScholarListResponse represents a page of scholars
type ScholarListResponse struct {
	Scholars []models.Scholar `json:"scholars"`
}

// AcademicRecordRequest carries one term of enrollment
type AcademicRecordRequest struct {
	HEIID         int64    `json:"heiId" binding:"required,gt=0"`
	Course        string   `json:"course" binding:"required,max=255"`
	YearLevel     int      `json:"yearLevel" binding:"required,min=1,max=7"`
	AcademicYear  string   `json:"academicYear" binding:"required,academic_year"`
	Semester      int      `json:"semester" binding:"required,min=1,max=3"`
	GWA           *float64 `json:"gwa" binding:"omitempty,gte=1,lte=5"`
	UnitsEnrolled int      `json:"unitsEnrolled" binding:"gte=0"`
	GrantAmount   float64  `json:"grantAmount" binding:"gte=0"`
	Status        string   `json:"status" binding:"omitempty,oneof=ENROLLED COMPLETED DROPPED FAILED"`
	Remarks       string   `json:"remarks"`
}

// DisbursementRequest records a payment for a term
type DisbursementRequest struct {
	AcademicRecordID int64   `json:"academicRecordId" binding:"required,gt=0"`
	Amount           float64 `json:"amount" binding:"required,gt=0"`
	DisbursedOn      string  `json:"disbursedOn" binding:"required,datetime=2006-01-02"`
	Mode             string  `json:"mode" binding:"required,oneof=CHECK ATM CASH BANK_TRANSFER"`
	ReferenceNo      string  `json:"referenceNo" binding:"max=64"`
}

// DisbursementStatusRequest releases or cancels a pending disbursement
type DisbursementStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=RELEASED CANCELLED"`
}

// NOASendResponse reports where a Notice of Award was sent
type NOASendResponse struct {
	Recipient string `json:"recipient"`
	Delivered bool   `json:"delivered"`
}
