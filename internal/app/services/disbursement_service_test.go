package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
)

func newDisbursementFixture() (*DisbursementService, *MockScholarRepository, *MockAcademicRecordRepository, *MockDisbursementRepository) {
	scholars := &MockScholarRepository{}
	records := &MockAcademicRecordRepository{}
	disbursements := &MockDisbursementRepository{}
	scholars.On("GetByID", mock.Anything, int64(7)).Return(&models.Scholar{ID: 7, ProgramID: 1}, nil)
	return NewDisbursementService(scholars, records, disbursements), scholars, records, disbursements
}

func disbursementRequest(recordID int64) *dto.DisbursementRequest {
	return &dto.DisbursementRequest{
		AcademicRecordID: recordID,
		Amount:           7500,
		DisbursedOn:      "2026-10-01",
		Mode:             "atm",
		ReferenceNo:      " REF-1 ",
	}
}

func TestCreateDisbursement(t *testing.T) {
	svc, _, records, disbursements := newDisbursementFixture()
	records.On("GetByID", mock.Anything, int64(40)).Return(&models.AcademicRecord{ID: 40, ScholarID: 7}, nil)
	disbursements.On("Create", mock.Anything, mock.AnythingOfType("*models.Disbursement")).Return(nil).Once()

	d, err := svc.CreateDisbursement(context.Background(), 1, 7, disbursementRequest(40))
	require.NoError(t, err)
	assert.Equal(t, models.DisbursementPending, d.Status)
	assert.Equal(t, models.DisbursementATM, d.Mode)
	assert.Equal(t, "REF-1", d.ReferenceNo)
	disbursements.AssertExpectations(t)
}

func TestCreateDisbursementRequiresScholarsOwnRecord(t *testing.T) {
	svc, _, records, disbursements := newDisbursementFixture()
	records.On("GetByID", mock.Anything, int64(41)).Return(&models.AcademicRecord{ID: 41, ScholarID: 8}, nil)

	_, err := svc.CreateDisbursement(context.Background(), 1, 7, disbursementRequest(41))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	disbursements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDisbursementChangesOnlyWhilePending(t *testing.T) {
	for _, status := range []models.DisbursementStatus{models.DisbursementReleased, models.DisbursementCancelled} {
		t.Run(string(status), func(t *testing.T) {
			svc, _, _, disbursements := newDisbursementFixture()
			disbursements.On("GetByID", mock.Anything, int64(90)).
				Return(&models.Disbursement{ID: 90, ScholarID: 7, Status: status}, nil)

			_, err := svc.UpdateStatus(context.Background(), 1, 7, 90, models.DisbursementCancelled)
			assert.ErrorIs(t, err, apperrors.ErrDisbursementNotPending)
			assert.ErrorIs(t, svc.DeleteDisbursement(context.Background(), 1, 7, 90), apperrors.ErrDisbursementNotPending)

			disbursements.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
			disbursements.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		})
	}
}

func TestReleasePendingDisbursement(t *testing.T) {
	svc, _, _, disbursements := newDisbursementFixture()
	disbursements.On("GetByID", mock.Anything, int64(90)).
		Return(&models.Disbursement{ID: 90, ScholarID: 7, Status: models.DisbursementPending}, nil).Once()
	disbursements.On("UpdateStatus", mock.Anything, int64(90), models.DisbursementReleased).Return(nil).Once()
	disbursements.On("GetByID", mock.Anything, int64(90)).
		Return(&models.Disbursement{ID: 90, ScholarID: 7, Status: models.DisbursementReleased}, nil).Once()

	d, err := svc.UpdateStatus(context.Background(), 1, 7, 90, models.DisbursementReleased)
	require.NoError(t, err)
	assert.Equal(t, models.DisbursementReleased, d.Status)
	disbursements.AssertExpectations(t)
}

func TestDisbursementOfAnotherScholar(t *testing.T) {
	svc, _, _, disbursements := newDisbursementFixture()
	disbursements.On("GetByID", mock.Anything, int64(91)).
		Return(&models.Disbursement{ID: 91, ScholarID: 8, Status: models.DisbursementPending}, nil)

	assert.ErrorIs(t, svc.DeleteDisbursement(context.Background(), 1, 7, 91), apperrors.ErrResourceNotFound)
	disbursements.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDisbursementStatusMustBeFinal(t *testing.T) {
	svc, _, _, _ := newDisbursementFixture()
	_, err := svc.UpdateStatus(context.Background(), 1, 7, 90, models.DisbursementPending)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
