package services

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/app/repositories"
	"github.com/yigit/scholaris/internal/pkg/email"
)

// fakeTx runs fn inline, standing in for a database transaction
type fakeTx struct {
	calls int
}

func (f *fakeTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// MockScholarRepository implements ScholarRepository using testify/mock
type MockScholarRepository struct {
	mock.Mock
}

func (m *MockScholarRepository) List(ctx context.Context, f models.ScholarFilter, page, size int) ([]models.Scholar, dto.PaginationInfo, error) {
	args := m.Called(ctx, f, page, size)
	return args.Get(0).([]models.Scholar), args.Get(1).(dto.PaginationInfo), args.Error(2)
}

func (m *MockScholarRepository) ListAll(ctx context.Context, f models.ScholarFilter) ([]models.Scholar, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Scholar), args.Error(1)
}

func (m *MockScholarRepository) GetByID(ctx context.Context, id int64) (*models.Scholar, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Scholar), args.Error(1)
}

func (m *MockScholarRepository) GetByAwardNumber(ctx context.Context, programID int64, awardNumber string) (*models.Scholar, error) {
	args := m.Called(ctx, programID, awardNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Scholar), args.Error(1)
}

func (m *MockScholarRepository) Create(ctx context.Context, s *models.Scholar) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockScholarRepository) Update(ctx context.Context, s *models.Scholar) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockScholarRepository) UpdateStatus(ctx context.Context, id int64, status models.ScholarStatus, remarks string) error {
	args := m.Called(ctx, id, status, remarks)
	return args.Error(0)
}

func (m *MockScholarRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAcademicRecordRepository implements AcademicRecordRepository using testify/mock
type MockAcademicRecordRepository struct {
	mock.Mock
}

func (m *MockAcademicRecordRepository) ListByScholar(ctx context.Context, scholarID int64) ([]models.AcademicRecord, error) {
	args := m.Called(ctx, scholarID)
	return args.Get(0).([]models.AcademicRecord), args.Error(1)
}

func (m *MockAcademicRecordRepository) GetByID(ctx context.Context, id int64) (*models.AcademicRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AcademicRecord), args.Error(1)
}

func (m *MockAcademicRecordRepository) GetByTerm(ctx context.Context, scholarID int64, academicYear string, semester int) (*models.AcademicRecord, error) {
	args := m.Called(ctx, scholarID, academicYear, semester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AcademicRecord), args.Error(1)
}

func (m *MockAcademicRecordRepository) Create(ctx context.Context, a *models.AcademicRecord) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAcademicRecordRepository) Update(ctx context.Context, a *models.AcademicRecord) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAcademicRecordRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockHEIRepository implements HEIRepository using testify/mock
type MockHEIRepository struct {
	mock.Mock
}

func (m *MockHEIRepository) Create(ctx context.Context, h *models.HEI) error {
	return m.Called(ctx, h).Error(0)
}

func (m *MockHEIRepository) GetByID(ctx context.Context, id int64) (*models.HEI, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HEI), args.Error(1)
}

func (m *MockHEIRepository) FindByNameOrUII(ctx context.Context, ref string) (*models.HEI, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HEI), args.Error(1)
}

func (m *MockHEIRepository) List(ctx context.Context, params repositories.HEIListParams) ([]models.HEI, dto.PaginationInfo, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]models.HEI), args.Get(1).(dto.PaginationInfo), args.Error(2)
}

func (m *MockHEIRepository) Update(ctx context.Context, h *models.HEI) error {
	return m.Called(ctx, h).Error(0)
}

func (m *MockHEIRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockLocationRepository implements LocationRepository using testify/mock
type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) ListProvinces(ctx context.Context) ([]models.Province, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Province), args.Error(1)
}

func (m *MockLocationRepository) GetProvince(ctx context.Context, id int64) (*models.Province, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Province), args.Error(1)
}

func (m *MockLocationRepository) CreateProvince(ctx context.Context, p *models.Province) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockLocationRepository) UpdateProvince(ctx context.Context, p *models.Province) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockLocationRepository) DeleteProvince(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLocationRepository) FindProvinceByName(ctx context.Context, name string) (*models.Province, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Province), args.Error(1)
}

func (m *MockLocationRepository) ListLocalities(ctx context.Context, kind repositories.LocalityKind, provinceID int64) ([]models.Locality, error) {
	args := m.Called(ctx, kind, provinceID)
	return args.Get(0).([]models.Locality), args.Error(1)
}

func (m *MockLocationRepository) CreateLocality(ctx context.Context, kind repositories.LocalityKind, l *models.Locality) error {
	return m.Called(ctx, kind, l).Error(0)
}

func (m *MockLocationRepository) UpdateLocality(ctx context.Context, kind repositories.LocalityKind, l *models.Locality) error {
	return m.Called(ctx, kind, l).Error(0)
}

func (m *MockLocationRepository) DeleteLocality(ctx context.Context, kind repositories.LocalityKind, id int64) error {
	return m.Called(ctx, kind, id).Error(0)
}

func (m *MockLocationRepository) FindLocalityByName(ctx context.Context, kind repositories.LocalityKind, provinceID int64, name string) (*models.Locality, error) {
	args := m.Called(ctx, kind, provinceID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Locality), args.Error(1)
}

// MockBudgetRepository implements BudgetRepository using testify/mock
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) ListSubAllotments(ctx context.Context, programID int64, fiscalYear int) ([]models.SubAllotment, error) {
	args := m.Called(ctx, programID, fiscalYear)
	return args.Get(0).([]models.SubAllotment), args.Error(1)
}

func (m *MockBudgetRepository) GetSubAllotment(ctx context.Context, id int64) (*models.SubAllotment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubAllotment), args.Error(1)
}

func (m *MockBudgetRepository) LockSubAllotment(ctx context.Context, id int64) (*models.SubAllotment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubAllotment), args.Error(1)
}

func (m *MockBudgetRepository) CreateSubAllotment(ctx context.Context, s *models.SubAllotment) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockBudgetRepository) UpdateSubAllotment(ctx context.Context, s *models.SubAllotment) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockBudgetRepository) DeleteSubAllotment(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBudgetRepository) ListObligations(ctx context.Context, subAllotmentID int64) ([]models.Obligation, error) {
	args := m.Called(ctx, subAllotmentID)
	return args.Get(0).([]models.Obligation), args.Error(1)
}

func (m *MockBudgetRepository) CreateObligation(ctx context.Context, o *models.Obligation) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockBudgetRepository) DeleteObligation(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockFinancialRequestRepository implements FinancialRequestRepository using testify/mock
type MockFinancialRequestRepository struct {
	mock.Mock
}

func (m *MockFinancialRequestRepository) Create(ctx context.Context, f *models.FinancialRequest) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockFinancialRequestRepository) GetByID(ctx context.Context, id int64, forUpdate bool) (*models.FinancialRequest, error) {
	args := m.Called(ctx, id, forUpdate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FinancialRequest), args.Error(1)
}

func (m *MockFinancialRequestRepository) List(ctx context.Context, f repositories.FinancialRequestFilter) ([]models.FinancialRequest, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.FinancialRequest), args.Error(1)
}

func (m *MockFinancialRequestRepository) UpdateProgress(ctx context.Context, f *models.FinancialRequest) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockFinancialRequestRepository) AddApproval(ctx context.Context, a *models.FinancialApproval) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockFinancialRequestRepository) ListApprovals(ctx context.Context, requestID int64) ([]models.FinancialApproval, error) {
	args := m.Called(ctx, requestID)
	return args.Get(0).([]models.FinancialApproval), args.Error(1)
}

// MockTravelRepository implements TravelRepository using testify/mock
type MockTravelRepository struct {
	mock.Mock
}

func (m *MockTravelRepository) CreateOrder(ctx context.Context, o *models.TravelOrder) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockTravelRepository) GetOrder(ctx context.Context, id int64) (*models.TravelOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TravelOrder), args.Error(1)
}

func (m *MockTravelRepository) ListOrders(ctx context.Context, f repositories.StaffDocumentFilter) ([]models.TravelOrder, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.TravelOrder), args.Error(1)
}

func (m *MockTravelRepository) SetOrderStatus(ctx context.Context, id int64, status models.WorkflowStatus, approverID *int64) error {
	return m.Called(ctx, id, status, approverID).Error(0)
}

func (m *MockTravelRepository) CreateClaim(ctx context.Context, c *models.TravelClaim) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockTravelRepository) GetClaim(ctx context.Context, id int64) (*models.TravelClaim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TravelClaim), args.Error(1)
}

func (m *MockTravelRepository) ListClaims(ctx context.Context, f repositories.StaffDocumentFilter) ([]models.TravelClaim, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.TravelClaim), args.Error(1)
}

func (m *MockTravelRepository) SetClaimStatus(ctx context.Context, id int64, status models.WorkflowStatus, approverID *int64) error {
	return m.Called(ctx, id, status, approverID).Error(0)
}

// MockLeaveRepository implements LeaveRepository using testify/mock
type MockLeaveRepository struct {
	mock.Mock
}

func (m *MockLeaveRepository) Create(ctx context.Context, l *models.LeaveApplication) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLeaveRepository) GetByID(ctx context.Context, id int64) (*models.LeaveApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LeaveApplication), args.Error(1)
}

func (m *MockLeaveRepository) List(ctx context.Context, f repositories.StaffDocumentFilter) ([]models.LeaveApplication, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.LeaveApplication), args.Error(1)
}

func (m *MockLeaveRepository) LockEmployee(ctx context.Context, employeeID int64) error {
	return m.Called(ctx, employeeID).Error(0)
}

func (m *MockLeaveRepository) HasOverlap(ctx context.Context, employeeID int64, start, end time.Time) (bool, error) {
	args := m.Called(ctx, employeeID, start, end)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeaveRepository) SetStatus(ctx context.Context, id int64, status models.WorkflowStatus, approverID *int64) error {
	return m.Called(ctx, id, status, approverID).Error(0)
}

// MockUserRepository implements UserRepository using testify/mock
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, role models.Role) ([]models.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

// MockTokenRepository implements TokenRepository using testify/mock
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) CreateToken(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	return m.Called(ctx, token, userID, expiresAt).Error(0)
}

func (m *MockTokenRepository) GetToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockTokenRepository) RevokeToken(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockTokenRepository) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

// MockReportRepository implements ReportRepository using testify/mock
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) CountByProgram(ctx context.Context, f repositories.ReportFilter) ([]dto.CountBucket, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]dto.CountBucket), args.Error(1)
}

func (m *MockReportRepository) CountByStatus(ctx context.Context, f repositories.ReportFilter) ([]dto.CountBucket, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]dto.CountBucket), args.Error(1)
}

func (m *MockReportRepository) CountBySex(ctx context.Context, f repositories.ReportFilter) ([]dto.CountBucket, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]dto.CountBucket), args.Error(1)
}

func (m *MockReportRepository) CountByProvince(ctx context.Context, f repositories.ReportFilter) ([]dto.CountBucket, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]dto.CountBucket), args.Error(1)
}

func (m *MockReportRepository) TopHEIs(ctx context.Context, f repositories.ReportFilter, limit uint64) ([]dto.CountBucket, error) {
	args := m.Called(ctx, f, limit)
	return args.Get(0).([]dto.CountBucket), args.Error(1)
}

func (m *MockReportRepository) DisbursedByProgram(ctx context.Context, f repositories.ReportFilter) ([]dto.AmountBucket, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]dto.AmountBucket), args.Error(1)
}

func (m *MockReportRepository) TotalScholars(ctx context.Context, f repositories.ReportFilter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

// MockLocatorSlipRepository implements LocatorSlipRepository using testify/mock
type MockLocatorSlipRepository struct {
	mock.Mock
}

func (m *MockLocatorSlipRepository) Create(ctx context.Context, s *models.LocatorSlip) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockLocatorSlipRepository) GetByID(ctx context.Context, id int64) (*models.LocatorSlip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LocatorSlip), args.Error(1)
}

func (m *MockLocatorSlipRepository) List(ctx context.Context, f repositories.StaffDocumentFilter) ([]models.LocatorSlip, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.LocatorSlip), args.Error(1)
}

func (m *MockLocatorSlipRepository) SetTimeIn(ctx context.Context, id int64, timeIn time.Time) error {
	return m.Called(ctx, id, timeIn).Error(0)
}

func (m *MockLocatorSlipRepository) SetStatus(ctx context.Context, id int64, status models.WorkflowStatus, approverID *int64) error {
	return m.Called(ctx, id, status, approverID).Error(0)
}

// MockTripTicketRepository implements TripTicketRepository using testify/mock
type MockTripTicketRepository struct {
	mock.Mock
}

func (m *MockTripTicketRepository) Create(ctx context.Context, t *models.TripTicket) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTripTicketRepository) GetByID(ctx context.Context, id int64) (*models.TripTicket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TripTicket), args.Error(1)
}

func (m *MockTripTicketRepository) List(ctx context.Context, f repositories.StaffDocumentFilter) ([]models.TripTicket, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.TripTicket), args.Error(1)
}

func (m *MockTripTicketRepository) Complete(ctx context.Context, id int64, odometerEnd int, fuel float64) error {
	return m.Called(ctx, id, odometerEnd, fuel).Error(0)
}

func (m *MockTripTicketRepository) SetStatus(ctx context.Context, id int64, status models.WorkflowStatus, approverID *int64) error {
	return m.Called(ctx, id, status, approverID).Error(0)
}

// MockProgramRepository implements ProgramRepository using testify/mock
type MockProgramRepository struct {
	mock.Mock
}

func (m *MockProgramRepository) List(ctx context.Context) ([]models.Program, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Program), args.Error(1)
}

func (m *MockProgramRepository) GetByCode(ctx context.Context, code models.ProgramCode) (*models.Program, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Program), args.Error(1)
}

func (m *MockProgramRepository) GetByID(ctx context.Context, id int64) (*models.Program, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Program), args.Error(1)
}

// MockDisbursementRepository implements DisbursementRepository using testify/mock
type MockDisbursementRepository struct {
	mock.Mock
}

func (m *MockDisbursementRepository) ListByScholar(ctx context.Context, scholarID int64) ([]models.Disbursement, error) {
	args := m.Called(ctx, scholarID)
	return args.Get(0).([]models.Disbursement), args.Error(1)
}

func (m *MockDisbursementRepository) GetByID(ctx context.Context, id int64) (*models.Disbursement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Disbursement), args.Error(1)
}

func (m *MockDisbursementRepository) Create(ctx context.Context, d *models.Disbursement) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDisbursementRepository) UpdateStatus(ctx context.Context, id int64, status models.DisbursementStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockDisbursementRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockRequirementRepository implements RequirementRepository using testify/mock
type MockRequirementRepository struct {
	mock.Mock
}

func (m *MockRequirementRepository) ListRequirements(ctx context.Context, programID int64) ([]models.Requirement, error) {
	args := m.Called(ctx, programID)
	return args.Get(0).([]models.Requirement), args.Error(1)
}

func (m *MockRequirementRepository) GetRequirement(ctx context.Context, id int64) (*models.Requirement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Requirement), args.Error(1)
}

func (m *MockRequirementRepository) CreateRequirement(ctx context.Context, req *models.Requirement) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockRequirementRepository) UpdateRequirement(ctx context.Context, req *models.Requirement) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockRequirementRepository) DeleteRequirement(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRequirementRepository) MissingRequired(ctx context.Context, programID, scholarID int64) ([]models.Requirement, error) {
	args := m.Called(ctx, programID, scholarID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Requirement), args.Error(1)
}

func (m *MockRequirementRepository) CreateAttachment(ctx context.Context, a *models.Attachment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockRequirementRepository) ListAttachments(ctx context.Context, t models.AttachableType, id int64) ([]models.Attachment, error) {
	args := m.Called(ctx, t, id)
	return args.Get(0).([]models.Attachment), args.Error(1)
}

func (m *MockRequirementRepository) GetAttachment(ctx context.Context, id int64) (*models.Attachment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Attachment), args.Error(1)
}

func (m *MockRequirementRepository) DeleteAttachment(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockFileStorage implements filestorage.FileStorage using testify/mock
type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	args := m.Called(fileHeader, subPath)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) DeleteFile(filePath string) error {
	return m.Called(filePath).Error(0)
}

func (m *MockFileStorage) GetFullPath(fileURL string) string {
	return m.Called(fileURL).String(0)
}

// MockMailer implements email.EmailService using testify/mock
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendAwardNotice(toEmail string, notice email.AwardNotice, pdf *email.Attachment) (bool, error) {
	args := m.Called(toEmail, notice, pdf)
	return args.Bool(0), args.Error(1)
}
