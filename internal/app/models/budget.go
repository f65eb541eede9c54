package models

import "time"

// SubAllotment is a released budget (SARO) for a program and fiscal year
type SubAllotment struct {
	ID          int64     `json:"id"`
	ProgramID   int64     `json:"programId"`
	SARONumber  string    `json:"saroNumber"`
	FiscalYear  int       `json:"fiscalYear"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Obligated   float64   `json:"obligated"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Balance is the amount still available for obligation
func (s *SubAllotment) Balance() float64 {
	return s.Amount - s.Obligated
}

// Obligation commits part of a sub-allotment to a payee
type Obligation struct {
	ID                 int64     `json:"id"`
	SubAllotmentID     int64     `json:"subAllotmentId"`
	ORSNumber          string    `json:"orsNumber"`
	Payee              string    `json:"payee"`
	Particulars        string    `json:"particulars"`
	Amount             float64   `json:"amount"`
	ObligatedOn        time.Time `json:"obligatedOn"`
	FinancialRequestID *int64    `json:"financialRequestId,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}
