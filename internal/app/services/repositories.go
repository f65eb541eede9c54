package services

import (
	"context"
	"time"

	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/app/repositories"
)

// The interfaces below are the slices of the repositories each service uses.
// *repositories.XRepository satisfies them; tests substitute mocks.

// ProgramRepository reads the program catalogue
type ProgramRepository interface {
	List(ctx context.Context) ([]models.Program, error)
	GetByCode(ctx context.Context, code models.ProgramCode) (*models.Program, error)
	GetByID(ctx context.Context, id int64) (*models.Program, error)
}

// LocationRepository manages provinces, cities and districts
type LocationRepository interface {
	ListProvinces(ctx context.Context) ([]models.Province, error)
	GetProvince(ctx context.Context, id int64) (*models.Province, error)
	CreateProvince(ctx context.Context, p *models.Province) error
	UpdateProvince(ctx context.Context, p *models.Province) error
	DeleteProvince(ctx context.Context, id int64) error
	FindProvinceByName(ctx context.Context, name string) (*models.Province, error)
	ListLocalities(ctx context.Context, kind repositories.LocalityKind, provinceID int64) ([]models.Locality, error)
	CreateLocality(ctx context.Context, kind repositories.LocalityKind, l *models.Locality) error
	UpdateLocality(ctx context.Context, kind repositories.LocalityKind, l *models.Locality) error
	DeleteLocality(ctx context.Context, kind repositories.LocalityKind, id int64) error
	FindLocalityByName(ctx context.Context, kind repositories.LocalityKind, provinceID int64, name string) (*models.Locality, error)
}

// HEIRepository manages higher education institutions
type HEIRepository interface {
	Create(ctx context.Context, h *models.HEI) error
	GetByID(ctx context.Context, id int64) (*models.HEI, error)
	FindByNameOrUII(ctx context.Context, ref string) (*models.HEI, error)
	List(ctx context.Context, params repositories.HEIListParams) ([]models.HEI, dto.PaginationInfo, error)
	Update(ctx context.Context, h *models.HEI) error
	Delete(ctx context.Context, id int64) error
}

// ScholarRepository manages scholars
type ScholarRepository interface {
	List(ctx context.Context, f models.ScholarFilter, page, size int) ([]models.Scholar, dto.PaginationInfo, error)
	ListAll(ctx context.Context, f models.ScholarFilter) ([]models.Scholar, error)
	GetByID(ctx context.Context, id int64) (*models.Scholar, error)
	GetByAwardNumber(ctx context.Context, programID int64, awardNumber string) (*models.Scholar, error)
	Create(ctx context.Context, s *models.Scholar) error
	Update(ctx context.Context, s *models.Scholar) error
	UpdateStatus(ctx context.Context, id int64, status models.ScholarStatus, remarks string) error
	Delete(ctx context.Context, id int64) error
}

// AcademicRecordRepository manages per-term enrollment records
type AcademicRecordRepository interface {
	ListByScholar(ctx context.Context, scholarID int64) ([]models.AcademicRecord, error)
	GetByID(ctx context.Context, id int64) (*models.AcademicRecord, error)
	GetByTerm(ctx context.Context, scholarID int64, academicYear string, semester int) (*models.AcademicRecord, error)
	Create(ctx context.Context, a *models.AcademicRecord) error
	Update(ctx context.Context, a *models.AcademicRecord) error
	Delete(ctx context.Context, id int64) error
}

// DisbursementRepository manages grant payments
type DisbursementRepository interface {
	ListByScholar(ctx context.Context, scholarID int64) ([]models.Disbursement, error)
	GetByID(ctx context.Context, id int64) (*models.Disbursement, error)
	Create(ctx context.Context, d *models.Disbursement) error
	UpdateStatus(ctx context.Context, id int64, status models.DisbursementStatus) error
	Delete(ctx context.Context, id int64) error
}

// RequirementRepository manages program requirements and uploaded attachments
type RequirementRepository interface {
	ListRequirements(ctx context.Context, programID int64) ([]models.Requirement, error)
	GetRequirement(ctx context.Context, id int64) (*models.Requirement, error)
	CreateRequirement(ctx context.Context, req *models.Requirement) error
	UpdateRequirement(ctx context.Context, req *models.Requirement) error
	DeleteRequirement(ctx context.Context, id int64) error
	MissingRequired(ctx context.Context, programID, scholarID int64) ([]models.Requirement, error)
	CreateAttachment(ctx context.Context, a *models.Attachment) error
	ListAttachments(ctx context.Context, t models.AttachableType, id int64) ([]models.Attachment, error)
	GetAttachment(ctx context.Context, id int64) (*models.Attachment, error)
	DeleteAttachment(ctx context.Context, id int64) error
}

// ReportRepository runs the dashboard aggregates
type ReportRepository interface {
	CountByProgram(ctx context.Context, f repositories.ReportFilter) ([]dto.CountBucket, error)
	CountByStatus(ctx context.Context, f repositories.ReportFilter) ([]dto.CountBucket, error)
	CountBySex(ctx context.Context, f repositories.ReportFilter) ([]dto.CountBucket, error)
	CountByProvince(ctx context.Context, f repositories.ReportFilter) ([]dto.CountBucket, error)
	TopHEIs(ctx context.Context, f repositories.ReportFilter, limit uint64) ([]dto.CountBucket, error)
	DisbursedByProgram(ctx context.Context, f repositories.ReportFilter) ([]dto.AmountBucket, error)
	TotalScholars(ctx context.Context, f repositories.ReportFilter) (int64, error)
}

// BudgetRepository manages sub-allotments and obligations
type BudgetRepository interface {
	ListSubAllotments(ctx context.Context, programID int64, fiscalYear int) ([]models.SubAllotment, error)
	GetSubAllotment(ctx context.Context, id int64) (*models.SubAllotment, error)
	LockSubAllotment(ctx context.Context, id int64) (*models.SubAllotment, error)
	CreateSubAllotment(ctx context.Context, s *models.SubAllotment) error
	UpdateSubAllotment(ctx context.Context, s *models.SubAllotment) error
	DeleteSubAllotment(ctx context.Context, id int64) error
	ListObligations(ctx context.Context, subAllotmentID int64) ([]models.Obligation, error)
	CreateObligation(ctx context.Context, o *models.Obligation) error
	DeleteObligation(ctx context.Context, id int64) error
}

// FinancialRequestRepository manages financial requests and their approvals
type FinancialRequestRepository interface {
	Create(ctx context.Context, f *models.FinancialRequest) error
	GetByID(ctx context.Context, id int64, forUpdate bool) (*models.FinancialRequest, error)
	List(ctx context.Context, f repositories.FinancialRequestFilter) ([]models.FinancialRequest, error)
	UpdateProgress(ctx context.Context, f *models.FinancialRequest) error
	AddApproval(ctx context.Context, a *models.FinancialApproval) error
	ListApprovals(ctx context.Context, requestID int64) ([]models.FinancialApproval, error)
}

// TravelRepository manages travel orders and claims
type TravelRepository interface {
	CreateOrder(ctx context.Context, o *models.TravelOrder) error
	GetOrder(ctx context.Context, id int64) (*models.TravelOrder, error)
	ListOrders(ctx context.Context, f repositories.StaffDocumentFilter) ([]models.TravelOrder, error)
	SetOrderStatus(ctx context.Context, id int64, status models.WorkflowStatus, approverID *int64) error
	CreateClaim(ctx context.Context, c *models.TravelClaim) error
	GetClaim(ctx context.Context, id int64) (*models.TravelClaim, error)
	ListClaims(ctx context.Context, f repositories.StaffDocumentFilter) ([]models.TravelClaim, error)
	SetClaimStatus(ctx context.Context, id int64, status models.WorkflowStatus, approverID *int64) error
}

// LeaveRepository manages leave applications
type LeaveRepository interface {
	Create(ctx context.Context, l *models.LeaveApplication) error
	GetByID(ctx context.Context, id int64) (*models.LeaveApplication, error)
	List(ctx context.Context, f repositories.StaffDocumentFilter) ([]models.LeaveApplication, error)
	LockEmployee(ctx context.Context, employeeID int64) error
	HasOverlap(ctx context.Context, employeeID int64, start, end time.Time) (bool, error)
	SetStatus(ctx context.Context, id int64, status models.WorkflowStatus, approverID *int64) error
}

// LocatorSlipRepository manages locator slips
type LocatorSlipRepository interface {
	Create(ctx context.Context, s *models.LocatorSlip) error
	GetByID(ctx context.Context, id int64) (*models.LocatorSlip, error)
	List(ctx context.Context, f repositories.StaffDocumentFilter) ([]models.LocatorSlip, error)
	SetTimeIn(ctx context.Context, id int64, timeIn time.Time) error
	SetStatus(ctx context.Context, id int64, status models.WorkflowStatus, approverID *int64) error
}

// TripTicketRepository manages vehicle trip tickets
type TripTicketRepository interface {
	Create(ctx context.Context, t *models.TripTicket) error
	GetByID(ctx context.Context, id int64) (*models.TripTicket, error)
	List(ctx context.Context, f repositories.StaffDocumentFilter) ([]models.TripTicket, error)
	Complete(ctx context.Context, id int64, odometerEnd int, fuel float64) error
	SetStatus(ctx context.Context, id int64, status models.WorkflowStatus, approverID *int64) error
}

// UserRepository manages office accounts
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, role models.Role) ([]models.User, error)
	Update(ctx context.Context, u *models.User) error
}

// TokenRepository stores refresh tokens
type TokenRepository interface {
	CreateToken(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	GetToken(ctx context.Context, token string) (*models.RefreshToken, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
}
