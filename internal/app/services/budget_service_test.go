package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
)

func obligationRequest(amount float64) *dto.ObligationRequest {
	return &dto.ObligationRequest{
		ORSNumber:   "ORS-2026-0001",
		Payee:       "Sample State University",
		Particulars: "Tuition subsidy, first semester",
		Amount:      amount,
		ObligatedOn: "2026-10-01",
	}
}

func TestCreateObligationWithinCeiling(t *testing.T) {
	repo := &MockBudgetRepository{}
	tx := &fakeTx{}
	svc := NewBudgetService(tx, repo)

	repo.On("LockSubAllotment", mock.Anything, int64(3)).
		Return(&models.SubAllotment{ID: 3, ProgramID: 1, Amount: 1000000, Obligated: 400000}, nil)
	repo.On("CreateObligation", mock.Anything, mock.AnythingOfType("*models.Obligation")).Return(nil).Once()

	o, err := svc.CreateObligation(context.Background(), 1, 3, obligationRequest(600000))
	require.NoError(t, err)
	assert.Equal(t, int64(3), o.SubAllotmentID)
	assert.Equal(t, "2026-10-01", o.ObligatedOn.Format("2006-01-02"))
	assert.Equal(t, 1, tx.calls)
	repo.AssertExpectations(t)
}

func TestCreateObligationOverCeiling(t *testing.T) {
	repo := &MockBudgetRepository{}
	svc := NewBudgetService(&fakeTx{}, repo)

	repo.On("LockSubAllotment", mock.Anything, int64(3)).
		Return(&models.SubAllotment{ID: 3, ProgramID: 1, Amount: 1000000, Obligated: 400000}, nil)

	_, err := svc.CreateObligation(context.Background(), 1, 3, obligationRequest(600000.01))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBudgetExceeded)

	var custom *apperrors.CustomError
	require.True(t, errors.As(err, &custom))
	assert.InDelta(t, 600000.0, custom.Details["balance"], 0.001)
	repo.AssertNotCalled(t, "CreateObligation", mock.Anything, mock.Anything)
}

func TestCreateObligationOtherProgram(t *testing.T) {
	repo := &MockBudgetRepository{}
	svc := NewBudgetService(&fakeTx{}, repo)

	repo.On("LockSubAllotment", mock.Anything, int64(3)).
		Return(&models.SubAllotment{ID: 3, ProgramID: 2, Amount: 1000000}, nil)

	_, err := svc.CreateObligation(context.Background(), 1, 3, obligationRequest(10))
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestUpdateSubAllotmentBelowObligated(t *testing.T) {
	repo := &MockBudgetRepository{}
	svc := NewBudgetService(&fakeTx{}, repo)

	repo.On("LockSubAllotment", mock.Anything, int64(3)).
		Return(&models.SubAllotment{ID: 3, ProgramID: 1, Amount: 1000000, Obligated: 400000}, nil)

	_, err := svc.UpdateSubAllotment(context.Background(), 1, 3, &dto.SubAllotmentRequest{
		SARONumber: "SARO-ROXII-26-0001", FiscalYear: 2026, Amount: 300000,
	})
	assert.ErrorIs(t, err, apperrors.ErrBudgetExceeded)
	repo.AssertNotCalled(t, "UpdateSubAllotment", mock.Anything, mock.Anything)
}
