package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/db"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

// FinancialRequestFilter narrows financial request listings
type FinancialRequestFilter struct {
	ProgramID   int64
	Status      models.FinancialRequestStatus
	RequestedBy int64
	// AwaitingRole lists pending requests whose current step belongs to the role
	AwaitingRole models.Role
}

// FinancialRequestRepository handles financial requests and their approvals
type FinancialRequestRepository struct {
	db *db.PostgresDB
}

// NewFinancialRequestRepository creates a new financial request repository
func NewFinancialRequestRepository(database *db.PostgresDB) *FinancialRequestRepository {
	return &FinancialRequestRepository{db: database}
}

const financialRequestColumns = "id, program_id, sub_allotment_id, requested_by, purpose, payee, amount::float8, status, current_step, created_at, updated_at"

func scanFinancialRequest(row pgx.Row) (*models.FinancialRequest, error) {
	var f models.FinancialRequest
	if err := row.Scan(&f.ID, &f.ProgramID, &f.SubAllotmentID, &f.RequestedBy, &f.Purpose, &f.Payee,
		&f.Amount, &f.Status, &f.CurrentStep, &f.CreatedAt, &f.UpdatedAt); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("financial request not found")
		}
		logger.Error().Err(err).Msg("Error scanning financial request")
		return nil, err
	}
	return &f, nil
}

// Create inserts a pending request at step 1
func (r *FinancialRequestRepository) Create(ctx context.Context, f *models.FinancialRequest) error {
	f.Status = models.FinancialPending
	f.CurrentStep = 1
	sql, args, err := psql.Insert("financial_requests").
		Columns("program_id", "sub_allotment_id", "requested_by", "purpose", "payee", "amount", "status", "current_step").
		Values(f.ProgramID, f.SubAllotmentID, f.RequestedBy, f.Purpose, f.Payee, f.Amount, f.Status, f.CurrentStep).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt); err != nil {
		logger.Error().Err(err).Int64("programID", f.ProgramID).Msg("Error creating financial request")
		return fmt.Errorf("error creating financial request: %w", err)
	}
	return nil
}

// GetByID retrieves a request. forUpdate locks the row for the current transaction.
func (r *FinancialRequestRepository) GetByID(ctx context.Context, id int64, forUpdate bool) (*models.FinancialRequest, error) {
	b := psql.Select(financialRequestColumns).From("financial_requests").Where(squirrel.Eq{"id": id})
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	return scanFinancialRequest(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
}

// List returns requests matching the filter, newest first
func (r *FinancialRequestRepository) List(ctx context.Context, f FinancialRequestFilter) ([]models.FinancialRequest, error) {
	b := psql.Select(financialRequestColumns).From("financial_requests")
	if f.ProgramID > 0 {
		b = b.Where(squirrel.Eq{"program_id": f.ProgramID})
	}
	if f.Status != "" {
		b = b.Where(squirrel.Eq{"status": f.Status})
	}
	if f.RequestedBy > 0 {
		b = b.Where(squirrel.Eq{"requested_by": f.RequestedBy})
	}
	if f.AwaitingRole != "" {
		steps := []int{}
		for i, role := range models.ApprovalChain {
			if role == f.AwaitingRole {
				steps = append(steps, i+1)
			}
		}
		b = b.Where(squirrel.Eq{"status": models.FinancialPending, "current_step": steps})
	}
	sql, args, err := b.OrderBy("created_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing financial requests")
		return nil, fmt.Errorf("error listing financial requests: %w", err)
	}
	defer rows.Close()

	out := []models.FinancialRequest{}
	for rows.Next() {
		f, err := scanFinancialRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

// UpdateProgress stores the new status and step
func (r *FinancialRequestRepository) UpdateProgress(ctx context.Context, f *models.FinancialRequest) error {
	err := r.db.Conn(ctx).QueryRow(ctx,
		`UPDATE financial_requests SET status = $1, current_step = $2, updated_at = NOW() WHERE id = $3 RETURNING updated_at`,
		f.Status, f.CurrentStep, f.ID,
	).Scan(&f.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return apperrors.NewResourceNotFoundError("financial request not found")
		}
		logger.Error().Err(err).Int64("requestID", f.ID).Msg("Error updating financial request")
		return fmt.Errorf("error updating financial request: %w", err)
	}
	return nil
}

// AddApproval records a decision on a step
func (r *FinancialRequestRepository) AddApproval(ctx context.Context, a *models.FinancialApproval) error {
	sql, args, err := psql.Insert("financial_request_approvals").
		Columns("request_id", "step", "approver_role", "approver_id", "decision", "remarks").
		Values(a.RequestID, a.Step, a.ApproverRole, a.ApproverID, a.Decision, a.Remarks).
		Suffix("RETURNING id, decided_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&a.ID, &a.DecidedAt); err != nil {
		logger.Error().Err(err).Int64("requestID", a.RequestID).Msg("Error recording approval")
		return fmt.Errorf("error recording approval: %w", err)
	}
	return nil
}

// ListApprovals returns the decisions on a request in step order
func (r *FinancialRequestRepository) ListApprovals(ctx context.Context, requestID int64) ([]models.FinancialApproval, error) {
	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT id, request_id, step, approver_role, approver_id, decision, remarks, decided_at
		 FROM financial_request_approvals WHERE request_id = $1 ORDER BY step, id`, requestID)
	if err != nil {
		return nil, fmt.Errorf("error listing approvals: %w", err)
	}
	defer rows.Close()

	out := []models.FinancialApproval{}
	for rows.Next() {
		var a models.FinancialApproval
		if err := rows.Scan(&a.ID, &a.RequestID, &a.Step, &a.ApproverRole, &a.ApproverID, &a.Decision,
			&a.Remarks, &a.DecidedAt); err != nil {
			return nil, fmt.Errorf("error scanning approval: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
