package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/db"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/dberrors"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

// BudgetRepository handles sub-allotments and their obligations
type BudgetRepository struct {
	db *db.PostgresDB
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(database *db.PostgresDB) *BudgetRepository {
	return &BudgetRepository{db: database}
}

func subAllotmentQuery() squirrel.SelectBuilder {
	return psql.Select(
		"sa.id", "sa.program_id", "sa.saro_number", "sa.fiscal_year", "sa.amount::float8", "sa.description",
		"COALESCE((SELECT SUM(o.amount) FROM obligations o WHERE o.sub_allotment_id = sa.id), 0)::float8",
		"sa.created_at",
	).From("sub_allotments sa")
}

func scanSubAllotment(row pgx.Row) (*models.SubAllotment, error) {
	var s models.SubAllotment
	if err := row.Scan(&s.ID, &s.ProgramID, &s.SARONumber, &s.FiscalYear, &s.Amount, &s.Description,
		&s.Obligated, &s.CreatedAt); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("sub-allotment not found")
		}
		logger.Error().Err(err).Msg("Error scanning sub-allotment")
		return nil, err
	}
	return &s, nil
}

// ListSubAllotments returns a program's sub-allotments with obligated totals
func (r *BudgetRepository) ListSubAllotments(ctx context.Context, programID int64, fiscalYear int) ([]models.SubAllotment, error) {
	b := subAllotmentQuery().Where(squirrel.Eq{"sa.program_id": programID})
	if fiscalYear > 0 {
		b = b.Where(squirrel.Eq{"sa.fiscal_year": fiscalYear})
	}
	sql, args, err := b.OrderBy("sa.fiscal_year DESC", "sa.saro_number").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("programID", programID).Msg("Error listing sub-allotments")
		return nil, fmt.Errorf("error listing sub-allotments: %w", err)
	}
	defer rows.Close()

	out := []models.SubAllotment{}
	for rows.Next() {
		s, err := scanSubAllotment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// GetSubAllotment retrieves a sub-allotment with its obligated total
func (r *BudgetRepository) GetSubAllotment(ctx context.Context, id int64) (*models.SubAllotment, error) {
	sql, args, err := subAllotmentQuery().Where(squirrel.Eq{"sa.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanSubAllotment(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
}

// LockSubAllotment reads a sub-allotment and locks its row until the
// surrounding transaction ends. Must be called inside RunInTx.
func (r *BudgetRepository) LockSubAllotment(ctx context.Context, id int64) (*models.SubAllotment, error) {
	var s models.SubAllotment
	err := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT id, program_id, saro_number, fiscal_year, amount::float8, description, created_at
		 FROM sub_allotments WHERE id = $1 FOR UPDATE`, id,
	).Scan(&s.ID, &s.ProgramID, &s.SARONumber, &s.FiscalYear, &s.Amount, &s.Description, &s.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("sub-allotment not found")
		}
		logger.Error().Err(err).Int64("subAllotmentID", id).Msg("Error locking sub-allotment")
		return nil, fmt.Errorf("error locking sub-allotment: %w", err)
	}

	if err := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)::float8 FROM obligations WHERE sub_allotment_id = $1`, id,
	).Scan(&s.Obligated); err != nil {
		return nil, fmt.Errorf("error summing obligations: %w", err)
	}
	return &s, nil
}

// CreateSubAllotment inserts a sub-allotment
func (r *BudgetRepository) CreateSubAllotment(ctx context.Context, s *models.SubAllotment) error {
	sql, args, err := psql.Insert("sub_allotments").
		Columns("program_id", "saro_number", "fiscal_year", "amount", "description").
		Values(s.ProgramID, s.SARONumber, s.FiscalYear, s.Amount, s.Description).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&s.ID, &s.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "sub_allotments_saro_key") {
			return apperrors.NewConflictError("SARO number already exists")
		}
		logger.Error().Err(err).Str("saro", s.SARONumber).Msg("Error creating sub-allotment")
		return fmt.Errorf("error creating sub-allotment: %w", err)
	}
	return nil
}

// UpdateSubAllotment modifies a sub-allotment
func (r *BudgetRepository) UpdateSubAllotment(ctx context.Context, s *models.SubAllotment) error {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE sub_allotments SET saro_number = $1, fiscal_year = $2, amount = $3, description = $4 WHERE id = $5`,
		s.SARONumber, s.FiscalYear, s.Amount, s.Description, s.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "sub_allotments_saro_key") {
			return apperrors.NewConflictError("SARO number already exists")
		}
		return fmt.Errorf("error updating sub-allotment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("sub-allotment not found")
	}
	return nil
}

// DeleteSubAllotment removes a sub-allotment that has no obligations or requests
func (r *BudgetRepository) DeleteSubAllotment(ctx context.Context, id int64) error {
	tag, err := r.db.Conn(ctx).Exec(ctx, `DELETE FROM sub_allotments WHERE id = $1`, id)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NewConflictError("sub-allotment has obligations or financial requests")
		}
		return fmt.Errorf("error deleting sub-allotment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("sub-allotment not found")
	}
	return nil
}

// ListObligations returns the obligations charged to a sub-allotment
func (r *BudgetRepository) ListObligations(ctx context.Context, subAllotmentID int64) ([]models.Obligation, error) {
	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT id, sub_allotment_id, ors_number, payee, particulars, amount::float8, obligated_on, financial_request_id, created_at
		 FROM obligations WHERE sub_allotment_id = $1 ORDER BY obligated_on, id`, subAllotmentID)
	if err != nil {
		return nil, fmt.Errorf("error listing obligations: %w", err)
	}
	defer rows.Close()

	out := []models.Obligation{}
	for rows.Next() {
		var o models.Obligation
		if err := rows.Scan(&o.ID, &o.SubAllotmentID, &o.ORSNumber, &o.Payee, &o.Particulars, &o.Amount,
			&o.ObligatedOn, &o.FinancialRequestID, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning obligation: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// CreateObligation inserts an obligation. Callers check the ceiling under LockSubAllotment.
func (r *BudgetRepository) CreateObligation(ctx context.Context, o *models.Obligation) error {
	sql, args, err := psql.Insert("obligations").
		Columns("sub_allotment_id", "ors_number", "payee", "particulars", "amount", "obligated_on", "financial_request_id").
		Values(o.SubAllotmentID, o.ORSNumber, o.Payee, o.Particulars, o.Amount, o.ObligatedOn, o.FinancialRequestID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&o.ID, &o.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "obligations_ors_key") {
			return apperrors.NewConflictError("ORS number already exists")
		}
		logger.Error().Err(err).Int64("subAllotmentID", o.SubAllotmentID).Msg("Error creating obligation")
		return fmt.Errorf("error creating obligation: %w", err)
	}
	return nil
}

// DeleteObligation removes an obligation, releasing its amount
func (r *BudgetRepository) DeleteObligation(ctx context.Context, id int64) error {
	tag, err := r.db.Conn(ctx).Exec(ctx, `DELETE FROM obligations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting obligation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("obligation not found")
	}
	return nil
}
