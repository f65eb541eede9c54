package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/app/repositories"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"go.uber.org/goleak"
)

func TestDashboard(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := &MockReportRepository{}
	f := repositories.ReportFilter{AcademicYear: "2024-2025"}
	byProgram := []dto.CountBucket{{Key: "TDP", Label: "Tertiary Education Subsidy", Count: 40}}

	repo.On("TotalScholars", mock.Anything, f).Return(int64(40), nil)
	repo.On("CountByProgram", mock.Anything, f).Return(byProgram, nil)
	repo.On("CountByStatus", mock.Anything, f).Return([]dto.CountBucket{{Key: "ACTIVE", Count: 40}}, nil)
	repo.On("CountBySex", mock.Anything, f).Return([]dto.CountBucket{{Key: "F", Count: 25}, {Key: "M", Count: 15}}, nil)
	repo.On("CountByProvince", mock.Anything, f).Return([]dto.CountBucket{}, nil)
	repo.On("TopHEIs", mock.Anything, f, uint64(TopHEILimit)).Return([]dto.CountBucket{{Key: "5", Count: 12}}, nil)
	repo.On("DisbursedByProgram", mock.Anything, f).Return([]dto.AmountBucket{{Key: "TDP", Amount: 300000}}, nil)

	resp, err := NewReportService(repo).Dashboard(context.Background(), f)
	require.NoError(t, err)

	assert.Equal(t, int64(40), resp.TotalScholars)
	assert.Equal(t, "2024-2025", resp.AcademicYear)
	assert.Equal(t, byProgram, resp.ByProgram)
	assert.Len(t, resp.BySex, 2)
	assert.Equal(t, 300000.0, resp.DisbursedByProgram[0].Amount)
	repo.AssertExpectations(t)
}

func TestDashboardPropagatesFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := &MockReportRepository{}
	boom := errors.New("connection reset")
	f := repositories.ReportFilter{}

	repo.On("TotalScholars", mock.Anything, f).Return(int64(0), boom)
	repo.On("CountByProgram", mock.Anything, f).Return([]dto.CountBucket{}, nil).Maybe()
	repo.On("CountByStatus", mock.Anything, f).Return([]dto.CountBucket{}, nil).Maybe()
	repo.On("CountBySex", mock.Anything, f).Return([]dto.CountBucket{}, nil).Maybe()
	repo.On("CountByProvince", mock.Anything, f).Return([]dto.CountBucket{}, nil).Maybe()
	repo.On("TopHEIs", mock.Anything, f, uint64(TopHEILimit)).Return([]dto.CountBucket{}, nil).Maybe()
	repo.On("DisbursedByProgram", mock.Anything, f).Return([]dto.AmountBucket{}, nil).Maybe()

	_, err := NewReportService(repo).Dashboard(context.Background(), f)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestDashboardValidatesAcademicYear(t *testing.T) {
	_, err := NewReportService(&MockReportRepository{}).Dashboard(context.Background(),
		repositories.ReportFilter{AcademicYear: "2024"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
