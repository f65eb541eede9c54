package models

import "time"

// FinancialRequestStatus tracks a request through its approval chain
type FinancialRequestStatus string

const (
	FinancialPending   FinancialRequestStatus = "PENDING"
	FinancialApproved  FinancialRequestStatus = "APPROVED"
	FinancialRejected  FinancialRequestStatus = "REJECTED"
	FinancialCancelled FinancialRequestStatus = "CANCELLED"
)

// ApprovalDecision is recorded for each acted-upon step
type ApprovalDecision string

const (
	DecisionApproved ApprovalDecision = "APPROVED"
	DecisionRejected ApprovalDecision = "REJECTED"
)

// ApprovalChain lists the role that must act at each step (index 0 is step 1).
var ApprovalChain = []Role{RoleSupervisor, RoleAccountant, RoleRegionalDirector}

// ApproverForStep returns the role expected at a 1-based step.
func ApproverForStep(step int) (Role, bool) {
	if step < 1 || step > len(ApprovalChain) {
		return "", false
	}
	return ApprovalChain[step-1], true
}

// FinancialRequest asks for funds to be obligated against a sub-allotment
type FinancialRequest struct {
	ID             int64                  `json:"id"`
	ProgramID      int64                  `json:"programId"`
	SubAllotmentID int64                  `json:"subAllotmentId"`
	RequestedBy    int64                  `json:"requestedBy"`
	Purpose        string                 `json:"purpose"`
	Payee          string                 `json:"payee"`
	Amount         float64                `json:"amount"`
	Status         FinancialRequestStatus `json:"status"`
	CurrentStep    int                    `json:"currentStep"`
	CreatedAt      time.Time              `json:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt"`
	Approvals      []FinancialApproval    `json:"approvals,omitempty"`
}

// IsFinalStep reports whether the current step is the last in the chain
func (r *FinancialRequest) IsFinalStep() bool {
	return r.CurrentStep == len(ApprovalChain)
}

// FinancialApproval is one decision on a financial request
type FinancialApproval struct {
	ID           int64            `json:"id"`
	RequestID    int64            `json:"requestId"`
	Step         int              `json:"step"`
	ApproverRole Role             `json:"approverRole"`
	ApproverID   *int64           `json:"approverId,omitempty"`
	Decision     ApprovalDecision `json:"decision"`
	Remarks      string           `json:"remarks"`
	DecidedAt    time.Time        `json:"decidedAt"`
}
