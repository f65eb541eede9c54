package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/db"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/helpers"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

// amountEpsilon absorbs float rounding of NUMERIC(14,2) amounts
const amountEpsilon = 0.005

// BudgetService manages sub-allotments and the obligations charged to them
type BudgetService struct {
	tx         db.Transactor
	budgetRepo BudgetRepository
}

// NewBudgetService creates a new budget service instance
func NewBudgetService(tx db.Transactor, budgetRepo BudgetRepository) *BudgetService {
	return &BudgetService{tx: tx, budgetRepo: budgetRepo}
}

// ListSubAllotments returns a program's sub-allotments with obligated totals.
// fiscalYear 0 lists every year.
func (s *BudgetService) ListSubAllotments(ctx context.Context, programID int64, fiscalYear int) ([]models.SubAllotment, error) {
	return s.budgetRepo.ListSubAllotments(ctx, programID, fiscalYear)
}

// GetSubAllotment retrieves a sub-allotment of the program
func (s *BudgetService) GetSubAllotment(ctx context.Context, programID, id int64) (*models.SubAllotment, error) {
	sa, err := s.budgetRepo.GetSubAllotment(ctx, id)
	if err != nil {
		return nil, err
	}
	if sa.ProgramID != programID {
		return nil, apperrors.NewResourceNotFoundError("sub-allotment not found")
	}
	return sa, nil
}

// CreateSubAllotment registers a released SARO
func (s *BudgetService) CreateSubAllotment(ctx context.Context, programID int64, req *dto.SubAllotmentRequest) (*models.SubAllotment, error) {
	if req.Amount < 0 {
		return nil, fmt.Errorf("%w: amount cannot be negative", apperrors.ErrValidationFailed)
	}
	sa := &models.SubAllotment{
		ProgramID:   programID,
		SARONumber:  strings.TrimSpace(req.SARONumber),
		FiscalYear:  req.FiscalYear,
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.budgetRepo.CreateSubAllotment(ctx, sa); err != nil {
		return nil, err
	}
	return sa, nil
}

// UpdateSubAllotment changes a sub-allotment. The amount may not drop below
// what is already obligated.
func (s *BudgetService) UpdateSubAllotment(ctx context.Context, programID, id int64, req *dto.SubAllotmentRequest) (*models.SubAllotment, error) {
	var out *models.SubAllotment
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		sa, err := s.budgetRepo.LockSubAllotment(ctx, id)
		if err != nil {
			return err
		}
		if sa.ProgramID != programID {
			return apperrors.NewResourceNotFoundError("sub-allotment not found")
		}
		if req.Amount+amountEpsilon < sa.Obligated {
			return fmt.Errorf("%w: amount %.2f is below the obligated total %.2f", apperrors.ErrBudgetExceeded, req.Amount, sa.Obligated)
		}
		sa.SARONumber = strings.TrimSpace(req.SARONumber)
		sa.FiscalYear = req.FiscalYear
		sa.Amount = req.Amount
		sa.Description = strings.TrimSpace(req.Description)
		if err := s.budgetRepo.UpdateSubAllotment(ctx, sa); err != nil {
			return err
		}
		out = sa
		return nil
	})
	return out, err
}

// DeleteSubAllotment removes a sub-allotment nothing is charged to
func (s *BudgetService) DeleteSubAllotment(ctx context.Context, programID, id int64) error {
	if _, err := s.GetSubAllotment(ctx, programID, id); err != nil {
		return err
	}
	return s.budgetRepo.DeleteSubAllotment(ctx, id)
}

// ListObligations returns the obligations of a sub-allotment
func (s *BudgetService) ListObligations(ctx context.Context, programID, subAllotmentID int64) ([]models.Obligation, error) {
	if _, err := s.GetSubAllotment(ctx, programID, subAllotmentID); err != nil {
		return nil, err
	}
	return s.budgetRepo.ListObligations(ctx, subAllotmentID)
}

// CreateObligation charges an amount to a sub-allotment within its balance
func (s *BudgetService) CreateObligation(ctx context.Context, programID, subAllotmentID int64, req *dto.ObligationRequest) (*models.Obligation, error) {
	obligatedOn, err := time.Parse(helpers.DateLayout, req.ObligatedOn)
	if err != nil {
		return nil, fmt.Errorf("%w: obligatedOn must be YYYY-MM-DD", apperrors.ErrValidationFailed)
	}
	o := &models.Obligation{
		SubAllotmentID: subAllotmentID,
		ORSNumber:      strings.TrimSpace(req.ORSNumber),
		Payee:          strings.TrimSpace(req.Payee),
		Particulars:    strings.TrimSpace(req.Particulars),
		Amount:         req.Amount,
		ObligatedOn:    obligatedOn,
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.obligate(ctx, programID, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// obligate locks the sub-allotment, enforces the ceiling and inserts o.
// It must run inside a transaction so the lock holds until commit.
func (s *BudgetService) obligate(ctx context.Context, programID int64, o *models.Obligation) error {
	if o.Amount <= 0 {
		return fmt.Errorf("%w: obligation amount must be greater than zero", apperrors.ErrValidationFailed)
	}
	sa, err := s.budgetRepo.LockSubAllotment(ctx, o.SubAllotmentID)
	if err != nil {
		return err
	}
	if sa.ProgramID != programID {
		return apperrors.NewResourceNotFoundError("sub-allotment not found")
	}
	if sa.Obligated+o.Amount > sa.Amount+amountEpsilon {
		return apperrors.NewCustomError(apperrors.ErrBudgetExceeded,
			fmt.Sprintf("obligation of %.2f exceeds the remaining balance of %.2f", o.Amount, sa.Balance())).
			WithDetails(map[string]interface{}{
				"subAllotmentId": sa.ID,
				"amount":         sa.Amount,
				"obligated":      sa.Obligated,
				"balance":        sa.Balance(),
			})
	}
	if err := s.budgetRepo.CreateObligation(ctx, o); err != nil {
		return err
	}
	logger.Info().Int64("subAllotmentID", sa.ID).Str("ors", o.ORSNumber).Float64("amount", o.Amount).
		Float64("balance", sa.Balance()-o.Amount).Msg("Obligation recorded")
	return nil
}

// DeleteObligation removes an obligation of the sub-allotment
func (s *BudgetService) DeleteObligation(ctx context.Context, programID, subAllotmentID, id int64) error {
	obligations, err := s.ListObligations(ctx, programID, subAllotmentID)
	if err != nil {
		return err
	}
	for _, o := range obligations {
		if o.ID == id {
			return s.budgetRepo.DeleteObligation(ctx, id)
		}
	}
	return apperrors.NewResourceNotFoundError("obligation not found")
}
