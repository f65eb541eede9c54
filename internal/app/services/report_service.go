package services

import (
	"context"
	"fmt"

	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/app/repositories"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"golang.org/x/sync/errgroup"
)

// TopHEILimit caps the HEI ranking on the dashboard
const TopHEILimit = 10

// ReportService builds dashboard and summary aggregates
type ReportService struct {
	reportRepo ReportRepository
}

// NewReportService creates a new report service instance
func NewReportService(reportRepo ReportRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo}
}

// Dashboard runs every aggregate concurrently. The first failure cancels the
// others and is returned.
func (s *ReportService) Dashboard(ctx context.Context, f repositories.ReportFilter) (*dto.DashboardResponse, error) {
	if f.AcademicYear != "" {
		if err := models.ValidateAcademicYear(f.AcademicYear); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
		}
	}

	resp := &dto.DashboardResponse{AcademicYear: f.AcademicYear}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		resp.TotalScholars, err = s.reportRepo.TotalScholars(ctx, f)
		return err
	})
	g.Go(func() (err error) {
		resp.ByProgram, err = s.reportRepo.CountByProgram(ctx, f)
		return err
	})
	g.Go(func() (err error) {
		resp.ByStatus, err = s.reportRepo.CountByStatus(ctx, f)
		return err
	})
	g.Go(func() (err error) {
		resp.BySex, err = s.reportRepo.CountBySex(ctx, f)
		return err
	})
	g.Go(func() (err error) {
		resp.ByProvince, err = s.reportRepo.CountByProvince(ctx, f)
		return err
	})
	g.Go(func() (err error) {
		resp.TopHEIs, err = s.reportRepo.TopHEIs(ctx, f, TopHEILimit)
		return err
	})
	g.Go(func() (err error) {
		resp.DisbursedByProgram, err = s.reportRepo.DisbursedByProgram(ctx, f)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("error building dashboard: %w", err)
	}
	return resp, nil
}
