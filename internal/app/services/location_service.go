package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/repositories"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
)

// LocationService maintains the province > city/district address hierarchy
type LocationService struct {
	locationRepo LocationRepository
}

// NewLocationService creates a new location service instance
func NewLocationService(locationRepo LocationRepository) *LocationService {
	return &LocationService{locationRepo: locationRepo}
}

func cleanName(name string) (string, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "", fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}
	return name, nil
}

// ListProvinces returns every province ordered by name
func (s *LocationService) ListProvinces(ctx context.Context) ([]models.Province, error) {
	return s.locationRepo.ListProvinces(ctx)
}

// CreateProvince adds a province
func (s *LocationService) CreateProvince(ctx context.Context, name string) (*models.Province, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	p := &models.Province{Name: name}
	if err := s.locationRepo.CreateProvince(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProvince renames a province
func (s *LocationService) UpdateProvince(ctx context.Context, id int64, name string) (*models.Province, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	p := &models.Province{ID: id, Name: name}
	if err := s.locationRepo.UpdateProvince(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProvince removes a province without cities, districts, HEIs or scholars
func (s *LocationService) DeleteProvince(ctx context.Context, id int64) error {
	return s.locationRepo.DeleteProvince(ctx, id)
}

// ListLocalities returns the cities or districts of a province
func (s *LocationService) ListLocalities(ctx context.Context, kind repositories.LocalityKind, provinceID int64) ([]models.Locality, error) {
	if _, err := s.locationRepo.GetProvince(ctx, provinceID); err != nil {
		return nil, err
	}
	return s.locationRepo.ListLocalities(ctx, kind, provinceID)
}

// CreateLocality adds a city or district under a province
func (s *LocationService) CreateLocality(ctx context.Context, kind repositories.LocalityKind, provinceID int64, name string) (*models.Locality, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	l := &models.Locality{ProvinceID: provinceID, Name: name}
	if err := s.locationRepo.CreateLocality(ctx, kind, l); err != nil {
		return nil, err
	}
	return l, nil
}

// UpdateLocality renames or re-parents a city or district
func (s *LocationService) UpdateLocality(ctx context.Context, kind repositories.LocalityKind, id, provinceID int64, name string) (*models.Locality, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	l := &models.Locality{ID: id, ProvinceID: provinceID, Name: name}
	if err := s.locationRepo.UpdateLocality(ctx, kind, l); err != nil {
		return nil, err
	}
	return l, nil
}

// DeleteLocality removes an unreferenced city or district
func (s *LocationService) DeleteLocality(ctx context.Context, kind repositories.LocalityKind, id int64) error {
	return s.locationRepo.DeleteLocality(ctx, kind, id)
}
