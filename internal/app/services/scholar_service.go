package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/db"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/filestorage"
	"github.com/yigit/scholaris/internal/pkg/helpers"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

// ScholarService handles scholar records of a program
type ScholarService struct {
	tx              db.Transactor
	scholarRepo     ScholarRepository
	requirementRepo RequirementRepository
	storage         filestorage.FileStorage
}

// NewScholarService creates a new scholar service instance
func NewScholarService(tx db.Transactor, scholarRepo ScholarRepository, requirementRepo RequirementRepository, storage filestorage.FileStorage) *ScholarService {
	return &ScholarService{
		tx:              tx,
		scholarRepo:     scholarRepo,
		requirementRepo: requirementRepo,
		storage:         storage,
	}
}

// scholarInProgram loads a scholar and hides scholars of other programs.
func scholarInProgram(ctx context.Context, repo ScholarRepository, programID, id int64) (*models.Scholar, error) {
	s, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.ProgramID != programID {
		return nil, apperrors.ErrScholarNotFound
	}
	return s, nil
}

func parseOptionalDate(field, v string) (*time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	t, err := helpers.ParseFlexibleDate(v)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid %s", field), map[string]interface{}{
			field: err.Error(),
		})
	}
	return &t, nil
}

// applyScholarRequest copies the editable fields of req onto s
func applyScholarRequest(s *models.Scholar, req *dto.ScholarRequest) error {
	sex, ok := models.ParseSex(req.Sex)
	if !ok {
		return fmt.Errorf("%w: sex must be M or F", apperrors.ErrValidationFailed)
	}
	birthdate, err := parseOptionalDate("birthdate", req.Birthdate)
	if err != nil {
		return err
	}

	s.AwardNumber = strings.TrimSpace(req.AwardNumber)
	s.LastName = strings.TrimSpace(req.LastName)
	s.FirstName = strings.TrimSpace(req.FirstName)
	s.MiddleName = strings.TrimSpace(req.MiddleName)
	s.NameExtension = strings.TrimSpace(req.NameExtension)
	s.Sex = sex
	s.Birthdate = birthdate
	s.ContactNumber = strings.TrimSpace(req.ContactNumber)
	s.Email = strings.ToLower(strings.TrimSpace(req.Email))
	s.ProvinceID = req.ProvinceID
	s.CityID = req.CityID
	s.DistrictID = req.DistrictID
	s.Barangay = strings.TrimSpace(req.Barangay)
	s.Remarks = strings.TrimSpace(req.Remarks)
	return nil
}

// ValidateScholarFilter checks the enumerated fields of a list or export filter
func ValidateScholarFilter(filter models.ScholarFilter) error {
	if filter.Status != "" && !filter.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", apperrors.ErrValidationFailed, filter.Status)
	}
	if filter.Sex != "" && filter.Sex != models.SexMale && filter.Sex != models.SexFemale {
		return fmt.Errorf("%w: sex must be M or F", apperrors.ErrValidationFailed)
	}
	if filter.AcademicYear != "" {
		if err := models.ValidateAcademicYear(filter.AcademicYear); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
		}
	}
	return nil
}

// ListScholars returns a filtered page of a program's scholars
func (s *ScholarService) ListScholars(ctx context.Context, filter models.ScholarFilter, page, size int) ([]models.Scholar, dto.PaginationInfo, error) {
	if err := ValidateScholarFilter(filter); err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	scholars, pagination, err := s.scholarRepo.List(ctx, filter, page, size)
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("error retrieving scholars: %w", err)
	}
	return scholars, pagination, nil
}

// GetScholar retrieves a scholar with the latest academic record
func (s *ScholarService) GetScholar(ctx context.Context, programID, id int64) (*models.Scholar, error) {
	return scholarInProgram(ctx, s.scholarRepo, programID, id)
}

// CreateScholar registers a new applicant in a program
func (s *ScholarService) CreateScholar(ctx context.Context, programID int64, req *dto.ScholarRequest) (*models.Scholar, error) {
	scholar := &models.Scholar{ProgramID: programID, Status: models.ScholarApplicant}
	if err := applyScholarRequest(scholar, req); err != nil {
		return nil, err
	}
	if err := s.scholarRepo.Create(ctx, scholar); err != nil {
		return nil, err
	}
	logger.Info().Int64("scholarID", scholar.ID).Int64("programID", programID).Str("awardNumber", scholar.AwardNumber).Msg("Scholar created")
	return s.scholarRepo.GetByID(ctx, scholar.ID)
}

// UpdateScholar replaces the editable fields of a scholar
func (s *ScholarService) UpdateScholar(ctx context.Context, programID, id int64, req *dto.ScholarRequest) (*models.Scholar, error) {
	scholar, err := scholarInProgram(ctx, s.scholarRepo, programID, id)
	if err != nil {
		return nil, err
	}
	if err := applyScholarRequest(scholar, req); err != nil {
		return nil, err
	}
	if err := s.scholarRepo.Update(ctx, scholar); err != nil {
		return nil, err
	}
	return s.scholarRepo.GetByID(ctx, id)
}

// ChangeStatus moves a scholar along the grant life cycle
func (s *ScholarService) ChangeStatus(ctx context.Context, programID, id int64, status models.ScholarStatus, remarks string) (*models.Scholar, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidationFailed, status)
	}
	scholar, err := scholarInProgram(ctx, s.scholarRepo, programID, id)
	if err != nil {
		return nil, err
	}
	if !scholar.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", apperrors.ErrInvalidTransition, scholar.Status, status)
	}
	if err := s.scholarRepo.UpdateStatus(ctx, id, status, strings.TrimSpace(remarks)); err != nil {
		return nil, err
	}
	logger.Info().Int64("scholarID", id).Str("from", string(scholar.Status)).Str("to", string(status)).Msg("Scholar status changed")
	return s.scholarRepo.GetByID(ctx, id)
}

// DeleteScholar removes a scholar with its academic records, disbursements
// and attachments. Stored files are removed once the rows are gone.
func (s *ScholarService) DeleteScholar(ctx context.Context, programID, id int64) error {
	var files []string
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := scholarInProgram(ctx, s.scholarRepo, programID, id); err != nil {
			return err
		}
		attachments, err := s.requirementRepo.ListAttachments(ctx, models.AttachableScholar, id)
		if err != nil {
			return err
		}
		for _, a := range attachments {
			if err := s.requirementRepo.DeleteAttachment(ctx, a.ID); err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
				return err
			}
			files = append(files, a.FileURL)
		}
		return s.scholarRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	for _, f := range files {
		if err := s.storage.DeleteFile(f); err != nil {
			logger.Warn().Err(err).Str("file", f).Int64("scholarID", id).Msg("Failed to remove attachment file of deleted scholar")
		}
	}
	return nil
}
