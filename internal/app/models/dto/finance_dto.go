package dto

import "github.com/yigit/scholaris/internal/app/models"

// SubAllotmentRequest creates or updates a SARO
type SubAllotmentRequest struct {
	SARONumber  string  `json:"saroNumber" binding:"required,max=64"`
	FiscalYear  int     `json:"fiscalYear" binding:"required,min=2000,max=2100"`
	Amount      float64 `json:"amount" binding:"gte=0"`
	Description string  `json:"description"`
}

// SubAllotmentListResponse lists sub-allotments with their balances
type SubAllotmentListResponse struct {
	SubAllotments []models.SubAllotment `json:"subAllotments"`
}

// ObligationRequest obligates part of a sub-allotment
type ObligationRequest struct {
	ORSNumber   string  `json:"orsNumber" binding:"required,max=64"`
	Payee       string  `json:"payee" binding:"required,max=255"`
	Particulars string  `json:"particulars"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	ObligatedOn string  `json:"obligatedOn" binding:"required,datetime=2006-01-02"`
}

// FinancialRequestCreate files a request for funds
type FinancialRequestCreate struct {
	SubAllotmentID int64   `json:"subAllotmentId" binding:"required,gt=0"`
	Purpose        string  `json:"purpose" binding:"required"`
	Payee          string  `json:"payee" binding:"required,max=255"`
	Amount         float64 `json:"amount" binding:"required,gt=0"`
}

// DecisionRequest approves or rejects the current step of a document
type DecisionRequest struct {
	Remarks string `json:"remarks"`
	// ORSNumber is used when the final approval creates an obligation
	ORSNumber string `json:"orsNumber"`
}
