package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/helpers"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

// DisbursementService records grant payments to scholars
type DisbursementService struct {
	scholarRepo      ScholarRepository
	recordRepo       AcademicRecordRepository
	disbursementRepo DisbursementRepository
}

// NewDisbursementService creates a new disbursement service instance
func NewDisbursementService(scholarRepo ScholarRepository, recordRepo AcademicRecordRepository, disbursementRepo DisbursementRepository) *DisbursementService {
	return &DisbursementService{
		scholarRepo:      scholarRepo,
		recordRepo:       recordRepo,
		disbursementRepo: disbursementRepo,
	}
}

// ListDisbursements returns a scholar's payments, newest first
func (s *DisbursementService) ListDisbursements(ctx context.Context, programID, scholarID int64) ([]models.Disbursement, error) {
	if _, err := scholarInProgram(ctx, s.scholarRepo, programID, scholarID); err != nil {
		return nil, err
	}
	return s.disbursementRepo.ListByScholar(ctx, scholarID)
}

// CreateDisbursement records a pending payment against one of the scholar's terms
func (s *DisbursementService) CreateDisbursement(ctx context.Context, programID, scholarID int64, req *dto.DisbursementRequest) (*models.Disbursement, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidationFailed)
	}
	mode := models.DisbursementMode(strings.ToUpper(req.Mode))
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: unknown disbursement mode %q", apperrors.ErrValidationFailed, req.Mode)
	}
	disbursedOn, err := time.Parse(helpers.DateLayout, req.DisbursedOn)
	if err != nil {
		return nil, fmt.Errorf("%w: disbursedOn must be YYYY-MM-DD", apperrors.ErrValidationFailed)
	}

	if _, err := scholarInProgram(ctx, s.scholarRepo, programID, scholarID); err != nil {
		return nil, err
	}
	record, err := s.recordRepo.GetByID(ctx, req.AcademicRecordID)
	if err != nil {
		return nil, err
	}
	if record.ScholarID != scholarID {
		return nil, apperrors.NewValidationError("academic record does not belong to the scholar", map[string]interface{}{
			"academicRecordId": req.AcademicRecordID,
		})
	}

	d := &models.Disbursement{
		ScholarID:        scholarID,
		AcademicRecordID: record.ID,
		Amount:           req.Amount,
		DisbursedOn:      disbursedOn,
		Mode:             mode,
		ReferenceNo:      strings.TrimSpace(req.ReferenceNo),
		Status:           models.DisbursementPending,
	}
	if err := s.disbursementRepo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DisbursementService) disbursementOfScholar(ctx context.Context, programID, scholarID, id int64) (*models.Disbursement, error) {
	if _, err := scholarInProgram(ctx, s.scholarRepo, programID, scholarID); err != nil {
		return nil, err
	}
	d, err := s.disbursementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.ScholarID != scholarID {
		return nil, apperrors.NewResourceNotFoundError("disbursement not found")
	}
	return d, nil
}

// pendingDisbursement loads a disbursement that can still be changed.
// The repository repeats the check in its WHERE clause.
func (s *DisbursementService) pendingDisbursement(ctx context.Context, programID, scholarID, id int64) (*models.Disbursement, error) {
	d, err := s.disbursementOfScholar(ctx, programID, scholarID, id)
	if err != nil {
		return nil, err
	}
	if d.Status != models.DisbursementPending {
		return nil, fmt.Errorf("%w: status is %s", apperrors.ErrDisbursementNotPending, d.Status)
	}
	return d, nil
}

// UpdateStatus releases or cancels a pending disbursement
func (s *DisbursementService) UpdateStatus(ctx context.Context, programID, scholarID, id int64, status models.DisbursementStatus) (*models.Disbursement, error) {
	if status != models.DisbursementReleased && status != models.DisbursementCancelled {
		return nil, fmt.Errorf("%w: status must be RELEASED or CANCELLED", apperrors.ErrValidationFailed)
	}
	if _, err := s.pendingDisbursement(ctx, programID, scholarID, id); err != nil {
		return nil, err
	}
	if err := s.disbursementRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	logger.Info().Int64("disbursementID", id).Str("status", string(status)).Msg("Disbursement status updated")
	return s.disbursementRepo.GetByID(ctx, id)
}

// DeleteDisbursement removes a pending disbursement
func (s *DisbursementService) DeleteDisbursement(ctx context.Context, programID, scholarID, id int64) error {
	if _, err := s.pendingDisbursement(ctx, programID, scholarID, id); err != nil {
		return err
	}
	return s.disbursementRepo.Delete(ctx, id)
}
