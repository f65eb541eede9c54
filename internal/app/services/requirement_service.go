package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/filestorage"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

// MaxAttachmentSize caps a single uploaded file
const MaxAttachmentSize = 10 << 20

var allowedAttachmentExt = map[string]bool{
	".pdf": true, ".jpg": true, ".jpeg": true, ".png": true,
	".doc": true, ".docx": true, ".xlsx": true,
}

// RequirementService manages program requirements and uploaded attachments
type RequirementService struct {
	requirementRepo RequirementRepository
	scholarRepo     ScholarRepository
	financeRepo     FinancialRequestRepository
	travelRepo      TravelRepository
	leaveRepo       LeaveRepository
	storage         filestorage.FileStorage
}

// NewRequirementService creates a new requirement service instance
func NewRequirementService(requirementRepo RequirementRepository, scholarRepo ScholarRepository, financeRepo FinancialRequestRepository,
	travelRepo TravelRepository, leaveRepo LeaveRepository, storage filestorage.FileStorage) *RequirementService {
	return &RequirementService{
		requirementRepo: requirementRepo,
		scholarRepo:     scholarRepo,
		financeRepo:     financeRepo,
		travelRepo:      travelRepo,
		leaveRepo:       leaveRepo,
		storage:         storage,
	}
}

// ListRequirements returns a program's requirements
func (s *RequirementService) ListRequirements(ctx context.Context, programID int64) ([]models.Requirement, error) {
	return s.requirementRepo.ListRequirements(ctx, programID)
}

// CreateRequirement adds a requirement; IsRequired defaults to true
func (s *RequirementService) CreateRequirement(ctx context.Context, programID int64, req *dto.RequirementRequest) (*models.Requirement, error) {
	r := &models.Requirement{
		ProgramID:   programID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		IsRequired:  req.IsRequired == nil || *req.IsRequired,
	}
	if r.Name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}
	if err := s.requirementRepo.CreateRequirement(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RequirementService) requirementInProgram(ctx context.Context, programID, id int64) (*models.Requirement, error) {
	r, err := s.requirementRepo.GetRequirement(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.ProgramID != programID {
		return nil, apperrors.NewResourceNotFoundError("requirement not found")
	}
	return r, nil
}

// UpdateRequirement replaces a requirement's fields
func (s *RequirementService) UpdateRequirement(ctx context.Context, programID, id int64, req *dto.RequirementRequest) (*models.Requirement, error) {
	r, err := s.requirementInProgram(ctx, programID, id)
	if err != nil {
		return nil, err
	}
	r.Name = strings.TrimSpace(req.Name)
	r.Description = strings.TrimSpace(req.Description)
	if req.IsRequired != nil {
		r.IsRequired = *req.IsRequired
	}
	if r.Name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}
	if err := s.requirementRepo.UpdateRequirement(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// DeleteRequirement removes a requirement; attachments keep their files but lose the link
func (s *RequirementService) DeleteRequirement(ctx context.Context, programID, id int64) error {
	if _, err := s.requirementInProgram(ctx, programID, id); err != nil {
		return err
	}
	return s.requirementRepo.DeleteRequirement(ctx, id)
}

// Compliance lists the required documents a scholar has not submitted
func (s *RequirementService) Compliance(ctx context.Context, programID, scholarID int64) (*dto.ComplianceResponse, error) {
	if _, err := scholarInProgram(ctx, s.scholarRepo, programID, scholarID); err != nil {
		return nil, err
	}
	missing, err := s.requirementRepo.MissingRequired(ctx, programID, scholarID)
	if err != nil {
		return nil, err
	}
	if missing == nil {
		missing = []models.Requirement{}
	}
	return &dto.ComplianceResponse{ScholarID: scholarID, Complete: len(missing) == 0, Missing: missing}, nil
}

// ensureAttachable checks the target record exists. Scholars must also
// belong to the requirement's program when one is given.
func (s *RequirementService) ensureAttachable(ctx context.Context, t models.AttachableType, id int64, requirementID *int64) error {
	switch t {
	case models.AttachableScholar:
		scholar, err := s.scholarRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if requirementID != nil {
			if _, err := s.requirementInProgram(ctx, scholar.ProgramID, *requirementID); err != nil {
				return err
			}
		}
		return nil
	case models.AttachableFinancialRequest:
		_, err := s.financeRepo.GetByID(ctx, id, false)
		return err
	case models.AttachableTravelClaim:
		_, err := s.travelRepo.GetClaim(ctx, id)
		return err
	case models.AttachableLeave:
		_, err := s.leaveRepo.GetByID(ctx, id)
		return err
	}
	return fmt.Errorf("%w: unknown attachable type %q", apperrors.ErrValidationFailed, t)
}

// UploadAttachment stores the file and links it to the attachable record
func (s *RequirementService) UploadAttachment(ctx context.Context, t models.AttachableType, attachableID int64,
	requirementID *int64, file *multipart.FileHeader, uploadedBy int64) (*models.Attachment, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown attachable type %q", apperrors.ErrValidationFailed, t)
	}
	if file == nil {
		return nil, fmt.Errorf("%w: file is required", apperrors.ErrValidationFailed)
	}
	if file.Size > MaxAttachmentSize {
		return nil, fmt.Errorf("%w: file exceeds %d MB", apperrors.ErrValidationFailed, MaxAttachmentSize>>20)
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedAttachmentExt[ext] {
		return nil, fmt.Errorf("%w: file type %q is not allowed", apperrors.ErrValidationFailed, ext)
	}
	if err := s.ensureAttachable(ctx, t, attachableID, requirementID); err != nil {
		return nil, err
	}

	subPath := filepath.ToSlash(filepath.Join(strings.ToLower(string(t)), strconv.FormatInt(attachableID, 10)))
	url, err := s.storage.SaveFileWithPath(file, subPath)
	if err != nil {
		return nil, fmt.Errorf("error storing attachment: %w", err)
	}

	a := &models.Attachment{
		RequirementID:  requirementID,
		AttachableType: t,
		AttachableID:   attachableID,
		FileName:       filepath.Base(file.Filename),
		FileURL:        url,
		FileSize:       file.Size,
		MimeType:       file.Header.Get("Content-Type"),
	}
	if uploadedBy > 0 {
		a.UploadedBy = &uploadedBy
	}
	if err := s.requirementRepo.CreateAttachment(ctx, a); err != nil {
		if delErr := s.storage.DeleteFile(url); delErr != nil {
			logger.Warn().Err(delErr).Str("file", url).Msg("Failed to remove orphaned upload")
		}
		return nil, err
	}
	return a, nil
}

// ListAttachments returns the files linked to a record
func (s *RequirementService) ListAttachments(ctx context.Context, t models.AttachableType, id int64) ([]models.Attachment, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown attachable type %q", apperrors.ErrValidationFailed, t)
	}
	return s.requirementRepo.ListAttachments(ctx, t, id)
}

// DeleteAttachment removes the row, then the stored file
func (s *RequirementService) DeleteAttachment(ctx context.Context, id int64) error {
	a, err := s.requirementRepo.GetAttachment(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requirementRepo.DeleteAttachment(ctx, id); err != nil {
		return err
	}
	if err := s.storage.DeleteFile(a.FileURL); err != nil {
		logger.Warn().Err(err).Str("file", a.FileURL).Int64("attachmentID", id).Msg("Failed to remove attachment file")
	}
	return nil
}

// GetAttachment returns an attachment's metadata
func (s *RequirementService) GetAttachment(ctx context.Context, id int64) (*models.Attachment, error) {
	return s.requirementRepo.GetAttachment(ctx, id)
}
