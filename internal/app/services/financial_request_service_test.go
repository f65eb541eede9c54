package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
)

type financeFixture struct {
	requests *MockFinancialRequestRepository
	budget   *MockBudgetRepository
	svc      *FinancialRequestService
}

func newFinanceFixture() *financeFixture {
	tx := &fakeTx{}
	f := &financeFixture{requests: &MockFinancialRequestRepository{}, budget: &MockBudgetRepository{}}
	f.svc = NewFinancialRequestService(tx, f.requests, NewBudgetService(tx, f.budget))
	f.svc.now = func() time.Time { return time.Date(2026, time.October, 15, 9, 0, 0, 0, time.UTC) }
	return f
}

func (f *financeFixture) stored(req *models.FinancialRequest) {
	f.requests.On("GetByID", mock.Anything, req.ID, true).Return(req, nil)
	f.requests.On("GetByID", mock.Anything, req.ID, false).Return(req, nil)
	f.requests.On("ListApprovals", mock.Anything, req.ID).Return([]models.FinancialApproval{}, nil)
}

func pendingRequest(step int) *models.FinancialRequest {
	return &models.FinancialRequest{
		ID: 9, ProgramID: 1, SubAllotmentID: 3, RequestedBy: 20, Purpose: "Stipend release",
		Payee: "Sample State University", Amount: 250000, Status: models.FinancialPending, CurrentStep: step,
	}
}

func TestCreateFinancialRequestChecksBalance(t *testing.T) {
	f := newFinanceFixture()
	f.budget.On("GetSubAllotment", mock.Anything, int64(3)).
		Return(&models.SubAllotment{ID: 3, ProgramID: 1, Amount: 100000, Obligated: 90000}, nil)

	_, err := f.svc.CreateRequest(context.Background(), 1, Actor{UserID: 20, Role: models.RoleStaff},
		&dto.FinancialRequestCreate{SubAllotmentID: 3, Purpose: "Stipends", Payee: "HEI", Amount: 10000.01})
	assert.ErrorIs(t, err, apperrors.ErrBudgetExceeded)
	f.requests.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDecideRequiresCurrentApprover(t *testing.T) {
	f := newFinanceFixture()
	f.stored(pendingRequest(1))

	_, err := f.svc.Decide(context.Background(), 1, 9, Actor{UserID: 30, Role: models.RoleAccountant},
		models.DecisionApproved, &dto.DecisionRequest{})
	assert.ErrorIs(t, err, apperrors.ErrNotCurrentApprover)
	f.requests.AssertNotCalled(t, "AddApproval", mock.Anything, mock.Anything)
}

func TestDecideAdvancesStep(t *testing.T) {
	f := newFinanceFixture()
	req := pendingRequest(1)
	f.stored(req)
	f.requests.On("AddApproval", mock.Anything, mock.MatchedBy(func(a *models.FinancialApproval) bool {
		return a.Step == 1 && a.ApproverRole == models.RoleSupervisor && a.Decision == models.DecisionApproved
	})).Return(nil).Once()
	f.requests.On("UpdateProgress", mock.Anything, req).Return(nil).Once()

	got, err := f.svc.Decide(context.Background(), 1, 9, Actor{UserID: 31, Role: models.RoleSupervisor},
		models.DecisionApproved, &dto.DecisionRequest{Remarks: "ok"})
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentStep)
	assert.Equal(t, models.FinancialPending, got.Status)
	f.budget.AssertNotCalled(t, "CreateObligation", mock.Anything, mock.Anything)
	f.requests.AssertExpectations(t)
}

func TestDecideFinalStepObligates(t *testing.T) {
	f := newFinanceFixture()
	req := pendingRequest(3)
	f.stored(req)
	f.requests.On("AddApproval", mock.Anything, mock.Anything).Return(nil).Once()
	f.requests.On("UpdateProgress", mock.Anything, req).Return(nil).Once()
	f.budget.On("LockSubAllotment", mock.Anything, int64(3)).
		Return(&models.SubAllotment{ID: 3, ProgramID: 1, Amount: 1000000, Obligated: 0}, nil)
	f.budget.On("CreateObligation", mock.Anything, mock.MatchedBy(func(o *models.Obligation) bool {
		return o.ORSNumber == "ORS-2026-000009" && o.Amount == 250000 &&
			o.FinancialRequestID != nil && *o.FinancialRequestID == 9
	})).Return(nil).Once()

	got, err := f.svc.Decide(context.Background(), 1, 9, Actor{UserID: 32, Role: models.RoleRegionalDirector},
		models.DecisionApproved, &dto.DecisionRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.FinancialApproved, got.Status)
	f.budget.AssertExpectations(t)
}

func TestDecideFinalStepOverBudget(t *testing.T) {
	f := newFinanceFixture()
	req := pendingRequest(3)
	f.stored(req)
	f.requests.On("AddApproval", mock.Anything, mock.Anything).Return(nil)
	f.budget.On("LockSubAllotment", mock.Anything, int64(3)).
		Return(&models.SubAllotment{ID: 3, ProgramID: 1, Amount: 300000, Obligated: 100000}, nil)

	_, err := f.svc.Decide(context.Background(), 1, 9, Actor{UserID: 32, Role: models.RoleRegionalDirector},
		models.DecisionApproved, &dto.DecisionRequest{})
	assert.ErrorIs(t, err, apperrors.ErrBudgetExceeded)
	f.requests.AssertNotCalled(t, "UpdateProgress", mock.Anything, mock.Anything)
}

func TestDecideRejects(t *testing.T) {
	f := newFinanceFixture()
	req := pendingRequest(2)
	f.stored(req)
	f.requests.On("AddApproval", mock.Anything, mock.Anything).Return(nil)
	f.requests.On("UpdateProgress", mock.Anything, req).Return(nil)

	got, err := f.svc.Decide(context.Background(), 1, 9, Actor{UserID: 33, Role: models.RoleAccountant},
		models.DecisionRejected, &dto.DecisionRequest{Remarks: "incomplete documents"})
	require.NoError(t, err)
	assert.Equal(t, models.FinancialRejected, got.Status)
	assert.Equal(t, 2, got.CurrentStep)
}

func TestCancelRequestOnlyByRequester(t *testing.T) {
	f := newFinanceFixture()
	f.stored(pendingRequest(1))

	_, err := f.svc.CancelRequest(context.Background(), 1, 9, Actor{UserID: 99, Role: models.RoleSuperAdmin})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
