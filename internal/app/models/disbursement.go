package models

import "time"

// DisbursementMode is how a grant is paid out
type DisbursementMode string

const (
	DisbursementCheck        DisbursementMode = "CHECK"
	DisbursementATM          DisbursementMode = "ATM"
	DisbursementCash         DisbursementMode = "CASH"
	DisbursementBankTransfer DisbursementMode = "BANK_TRANSFER"
)

// Valid reports whether m is a known mode
func (m DisbursementMode) Valid() bool {
	switch m {
	case DisbursementCheck, DisbursementATM, DisbursementCash, DisbursementBankTransfer:
		return true
	}
	return false
}

// DisbursementStatus tracks payment release
type DisbursementStatus string

const (
	DisbursementPending   DisbursementStatus = "PENDING"
	DisbursementReleased  DisbursementStatus = "RELEASED"
	DisbursementCancelled DisbursementStatus = "CANCELLED"
)

// Disbursement is a payment of a grant to a scholar for a term
type Disbursement struct {
	ID               int64              `json:"id"`
	ScholarID        int64              `json:"scholarId"`
	AcademicRecordID int64              `json:"academicRecordId"`
	Amount           float64            `json:"amount"`
	DisbursedOn      time.Time          `json:"disbursedOn"`
	Mode             DisbursementMode   `json:"mode"`
	ReferenceNo      string             `json:"referenceNo"`
	Status           DisbursementStatus `json:"status"`
	CreatedAt        time.Time          `json:"createdAt"`
}
