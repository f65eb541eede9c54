package models

// Province is the top level of the address hierarchy
type Province struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Locality is a child of a province: a city/municipality or a congressional district.
type Locality struct {
	ID         int64  `json:"id"`
	ProvinceID int64  `json:"provinceId"`
	Name       string `json:"name"`
}

type (
	City     = Locality
	District = Locality
)
