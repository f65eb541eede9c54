package services

import (
	"context"
	"fmt"

	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
)

// ProgramService resolves the scholarship programs routes are scoped by
type ProgramService struct {
	programRepo ProgramRepository
}

// NewProgramService creates a new program service instance
func NewProgramService(programRepo ProgramRepository) *ProgramService {
	return &ProgramService{programRepo: programRepo}
}

// ListPrograms returns every program in display order
func (s *ProgramService) ListPrograms(ctx context.Context) ([]models.Program, error) {
	programs, err := s.programRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving programs: %w", err)
	}
	return programs, nil
}

// Resolve maps a case-insensitive program code such as "tdp" onto its row
func (s *ProgramService) Resolve(ctx context.Context, code string) (*models.Program, error) {
	parsed, ok := models.ParseProgram(code)
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown program %q", code), map[string]interface{}{
			"program": code,
		})
	}
	return s.programRepo.GetByCode(ctx, parsed)
}
