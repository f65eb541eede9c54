package dto

import "github.com/yigit/scholaris/internal/app/models"

// HEIRequest represents HEI creation and update data
type HEIRequest struct {
	UII        string `json:"uii" binding:"required,max=32"`
	Name       string `json:"name" binding:"required,max=255"`
	Type       string `json:"type" binding:"required,oneof=PUBLIC PRIVATE SUC LUC"`
	ProvinceID *int64 `json:"provinceId" binding:"omitempty,gt=0"`
	CityID     *int64 `json:"cityId" binding:"omitempty,gt=0"`
	DistrictID *int64 `json:"districtId" binding:"omitempty,gt=0"`
}

// HEIListResponse represents a page of HEIs
type HEIListResponse struct {
	HEIs []models.HEI `json:"heis"`
}

// ProvinceRequest names a province
type ProvinceRequest struct {
	Name string `json:"name" binding:"required,max=150"`
}

// LocalityRequest names a city or district under a province
type LocalityRequest struct {
	ProvinceID int64  `json:"provinceId" binding:"required,gt=0"`
	Name       string `json:"name" binding:"required,max=150"`
}

// RequirementRequest defines a document a program asks for
type RequirementRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
	IsRequired  *bool  `json:"isRequired"`
}

// ComplianceResponse lists the required documents a scholar has not submitted
type ComplianceResponse struct {
	ScholarID int64                `json:"scholarId"`
	Complete  bool                 `json:"complete"`
	Missing   []models.Requirement `json:"missing"`
}
