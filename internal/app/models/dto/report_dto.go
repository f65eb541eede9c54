package dto

// CountBucket is one group of a scholar count aggregate
type CountBucket struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// AmountBucket is one group of a money aggregate
type AmountBucket struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

// DashboardResponse holds the dashboard aggregates
type DashboardResponse struct {
	AcademicYear       string         `json:"academicYear,omitempty"`
	TotalScholars      int64          `json:"totalScholars"`
	ByProgram          []CountBucket  `json:"byProgram"`
	ByStatus           []CountBucket  `json:"byStatus"`
	BySex              []CountBucket  `json:"bySex"`
	ByProvince         []CountBucket  `json:"byProvince"`
	TopHEIs            []CountBucket  `json:"topHeis"`
	DisbursedByProgram []AmountBucket `json:"disbursedByProgram"`
}
