package models

import "time"

// HEIType classifies a higher education institution
type HEIType string

const (
	HEIPublic  HEIType = "PUBLIC"
	HEIPrivate HEIType = "PRIVATE"
	HEISUC     HEIType = "SUC" // state university or college
	HEILUC     HEIType = "LUC" // local university or college
)

// Valid reports whether t is a known HEI type
func (t HEIType) Valid() bool {
	switch t {
	case HEIPublic, HEIPrivate, HEISUC, HEILUC:
		return true
	}
	return false
}

// HEI represents a higher education institution
type HEI struct {
	ID           int64     `json:"id"`
	UII          string    `json:"uii"`
	Name         string    `json:"name"`
	Type         HEIType   `json:"type"`
	ProvinceID   *int64    `json:"provinceId,omitempty"`
	CityID       *int64    `json:"cityId,omitempty"`
	DistrictID   *int64    `json:"districtId,omitempty"`
	ProvinceName string    `json:"provinceName,omitempty"`
	CityName     string    `json:"cityName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
