package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
)

// AcademicRecordService handles the per-term history of scholars
type AcademicRecordService struct {
	scholarRepo ScholarRepository
	recordRepo  AcademicRecordRepository
}

// NewAcademicRecordService creates a new academic record service instance
func NewAcademicRecordService(scholarRepo ScholarRepository, recordRepo AcademicRecordRepository) *AcademicRecordService {
	return &AcademicRecordService{scholarRepo: scholarRepo, recordRepo: recordRepo}
}

func applyRecordRequest(r *models.AcademicRecord, req *dto.AcademicRecordRequest) error {
	if err := models.ValidateAcademicYear(req.AcademicYear); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}
	status := models.AcademicStatus(strings.ToUpper(req.Status))
	if status == "" {
		status = models.AcademicEnrolled
	}
	if !status.Valid() {
		return fmt.Errorf("%w: unknown academic status %q", apperrors.ErrValidationFailed, req.Status)
	}

	r.HEIID = req.HEIID
	r.Course = strings.TrimSpace(req.Course)
	r.YearLevel = req.YearLevel
	r.AcademicYear = strings.TrimSpace(req.AcademicYear)
	r.Semester = req.Semester
	r.GWA = req.GWA
	r.UnitsEnrolled = req.UnitsEnrolled
	r.GrantAmount = req.GrantAmount
	r.Status = status
	r.Remarks = strings.TrimSpace(req.Remarks)
	return nil
}

// recordOfScholar loads a record and checks it belongs to the scholar
func (s *AcademicRecordService) recordOfScholar(ctx context.Context, programID, scholarID, recordID int64) (*models.AcademicRecord, error) {
	if _, err := scholarInProgram(ctx, s.scholarRepo, programID, scholarID); err != nil {
		return nil, err
	}
	record, err := s.recordRepo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record.ScholarID != scholarID {
		return nil, apperrors.ErrAcademicRecordMissing
	}
	return record, nil
}

// ListRecords returns a scholar's terms ordered by academic year and semester
func (s *AcademicRecordService) ListRecords(ctx context.Context, programID, scholarID int64) ([]models.AcademicRecord, error) {
	if _, err := scholarInProgram(ctx, s.scholarRepo, programID, scholarID); err != nil {
		return nil, err
	}
	return s.recordRepo.ListByScholar(ctx, scholarID)
}

// CreateRecord adds a term to a scholar's history
func (s *AcademicRecordService) CreateRecord(ctx context.Context, programID, scholarID int64, req *dto.AcademicRecordRequest) (*models.AcademicRecord, error) {
	if _, err := scholarInProgram(ctx, s.scholarRepo, programID, scholarID); err != nil {
		return nil, err
	}
	record := &models.AcademicRecord{ScholarID: scholarID}
	if err := applyRecordRequest(record, req); err != nil {
		return nil, err
	}
	if err := s.recordRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	return s.recordRepo.GetByID(ctx, record.ID)
}

// UpdateRecord replaces a term's fields
func (s *AcademicRecordService) UpdateRecord(ctx context.Context, programID, scholarID, recordID int64, req *dto.AcademicRecordRequest) (*models.AcademicRecord, error) {
	record, err := s.recordOfScholar(ctx, programID, scholarID, recordID)
	if err != nil {
		return nil, err
	}
	if err := applyRecordRequest(record, req); err != nil {
		return nil, err
	}
	if err := s.recordRepo.Update(ctx, record); err != nil {
		return nil, err
	}
	return s.recordRepo.GetByID(ctx, recordID)
}

// DeleteRecord removes a term
func (s *AcademicRecordService) DeleteRecord(ctx context.Context, programID, scholarID, recordID int64) error {
	if _, err := s.recordOfScholar(ctx, programID, scholarID, recordID); err != nil {
		return err
	}
	return s.recordRepo.Delete(ctx, recordID)
}
