package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/app/repositories"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
)

// HEIService handles higher education institution operations
type HEIService struct {
	heiRepo HEIRepository
}

// NewHEIService creates a new HEI service instance
func NewHEIService(heiRepo HEIRepository) *HEIService {
	return &HEIService{heiRepo: heiRepo}
}

func heiFromRequest(req *dto.HEIRequest) (*models.HEI, error) {
	h := &models.HEI{
		UII:        strings.ToUpper(strings.TrimSpace(req.UII)),
		Name:       strings.TrimSpace(req.Name),
		Type:       models.HEIType(strings.ToUpper(req.Type)),
		ProvinceID: req.ProvinceID,
		CityID:     req.CityID,
		DistrictID: req.DistrictID,
	}
	if h.UII == "" || h.Name == "" {
		return nil, fmt.Errorf("%w: uii and name are required", apperrors.ErrValidationFailed)
	}
	if !h.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown HEI type %q", apperrors.ErrValidationFailed, req.Type)
	}
	if (h.CityID != nil || h.DistrictID != nil) && h.ProvinceID == nil {
		return nil, fmt.Errorf("%w: province is required when a city or district is set", apperrors.ErrValidationFailed)
	}
	return h, nil
}

// CreateHEI registers a new institution
func (s *HEIService) CreateHEI(ctx context.Context, req *dto.HEIRequest) (*models.HEI, error) {
	h, err := heiFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.heiRepo.Create(ctx, h); err != nil {
		return nil, err
	}
	return s.heiRepo.GetByID(ctx, h.ID)
}

// GetHEI retrieves an institution by ID
func (s *HEIService) GetHEI(ctx context.Context, id int64) (*models.HEI, error) {
	return s.heiRepo.GetByID(ctx, id)
}

// ListHEIs returns a filtered page of institutions
func (s *HEIService) ListHEIs(ctx context.Context, params repositories.HEIListParams) ([]models.HEI, dto.PaginationInfo, error) {
	if params.Type != "" && !params.Type.Valid() {
		return nil, dto.PaginationInfo{}, fmt.Errorf("%w: unknown HEI type %q", apperrors.ErrValidationFailed, params.Type)
	}
	heis, pagination, err := s.heiRepo.List(ctx, params)
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("error retrieving HEIs: %w", err)
	}
	return heis, pagination, nil
}

// UpdateHEI replaces an institution's fields
func (s *HEIService) UpdateHEI(ctx context.Context, id int64, req *dto.HEIRequest) (*models.HEI, error) {
	h, err := heiFromRequest(req)
	if err != nil {
		return nil, err
	}
	h.ID = id
	if err := s.heiRepo.Update(ctx, h); err != nil {
		return nil, err
	}
	return s.heiRepo.GetByID(ctx, id)
}

// DeleteHEI removes an institution no academic record points to
func (s *HEIService) DeleteHEI(ctx context.Context, id int64) error {
	return s.heiRepo.Delete(ctx, id)
}
