package models

import "time"

// AttachableType names the record an attachment belongs to
type AttachableType string

const (
	AttachableScholar          AttachableType = "SCHOLAR"
	AttachableFinancialRequest AttachableType = "FINANCIAL_REQUEST"
	AttachableTravelClaim      AttachableType = "TRAVEL_CLAIM"
	AttachableLeave            AttachableType = "LEAVE_APPLICATION"
)

// Valid reports whether t is a known attachable type
func (t AttachableType) Valid() bool {
	switch t {
	case AttachableScholar, AttachableFinancialRequest, AttachableTravelClaim, AttachableLeave:
		return true
	}
	return false
}

// Requirement is a document a program asks its scholars to submit
type Requirement struct {
	ID          int64  `json:"id"`
	ProgramID   int64  `json:"programId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsRequired  bool   `json:"isRequired"`
}

// Attachment is an uploaded file linked to any attachable record
type Attachment struct {
	ID             int64          `json:"id"`
	RequirementID  *int64         `json:"requirementId,omitempty"`
	AttachableType AttachableType `json:"attachableType"`
	AttachableID   int64          `json:"attachableId"`
	FileName       string         `json:"fileName"`
	FileURL        string         `json:"fileUrl"`
	FileSize       int64          `json:"fileSize"`
	MimeType       string         `json:"mimeType"`
	UploadedBy     *int64         `json:"uploadedBy,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}
