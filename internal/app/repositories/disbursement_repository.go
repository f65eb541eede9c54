package repositories

import (
	"context"
	"fmt"

	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/db"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

const disbursementColumns = `id, scholar_id, academic_record_id, amount, disbursed_on, mode, reference_no, status, created_at`

// DisbursementRepository handles database operations for disbursements
type DisbursementRepository struct {
	db *db.PostgresDB
}

// NewDisbursementRepository creates a new disbursement repository
func NewDisbursementRepository(database *db.PostgresDB) *DisbursementRepository {
	return &DisbursementRepository{db: database}
}

// ListByScholar returns a scholar's disbursements, newest first
func (r *DisbursementRepository) ListByScholar(ctx context.Context, scholarID int64) ([]models.Disbursement, error) {
	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT `+disbursementColumns+` FROM disbursements WHERE scholar_id = $1 ORDER BY disbursed_on DESC, id DESC`,
		scholarID)
	if err != nil {
		logger.Error().Err(err).Int64("scholarID", scholarID).Msg("Error listing disbursements")
		return nil, fmt.Errorf("error listing disbursements: %w", err)
	}
	defer rows.Close()

	out := []models.Disbursement{}
	for rows.Next() {
		var d models.Disbursement
		if err := rows.Scan(&d.ID, &d.ScholarID, &d.AcademicRecordID, &d.Amount, &d.DisbursedOn,
			&d.Mode, &d.ReferenceNo, &d.Status, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning disbursement: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetByID retrieves a disbursement
func (r *DisbursementRepository) GetByID(ctx context.Context, id int64) (*models.Disbursement, error) {
	var d models.Disbursement
	err := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+disbursementColumns+` FROM disbursements WHERE id = $1`, id,
	).Scan(&d.ID, &d.ScholarID, &d.AcademicRecordID, &d.Amount, &d.DisbursedOn,
		&d.Mode, &d.ReferenceNo, &d.Status, &d.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("disbursement not found")
		}
		return nil, fmt.Errorf("error retrieving disbursement: %w", err)
	}
	return &d, nil
}

// Create inserts a disbursement
func (r *DisbursementRepository) Create(ctx context.Context, d *models.Disbursement) error {
	if d.Status == "" {
		d.Status = models.DisbursementPending
	}
	sql, args, err := psql.Insert("disbursements").
		Columns("scholar_id", "academic_record_id", "amount", "disbursed_on", "mode", "reference_no", "status").
		Values(d.ScholarID, d.AcademicRecordID, d.Amount, d.DisbursedOn, d.Mode, d.ReferenceNo, d.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create disbursement SQL")
		return err
	}
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&d.ID, &d.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("scholarID", d.ScholarID).Msg("Error creating disbursement")
		return fmt.Errorf("error creating disbursement: %w", err)
	}
	return nil
}

// UpdateStatus moves a pending disbursement to released or cancelled
func (r *DisbursementRepository) UpdateStatus(ctx context.Context, id int64, status models.DisbursementStatus) error {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE disbursements SET status = $1 WHERE id = $2 AND status = $3`,
		status, id, models.DisbursementPending)
	if err != nil {
		logger.Error().Err(err).Int64("disbursementID", id).Msg("Error updating disbursement status")
		return fmt.Errorf("error updating disbursement status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrDisbursementNotPending
	}
	return nil
}

// Delete removes a pending disbursement
func (r *DisbursementRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`DELETE FROM disbursements WHERE id = $1 AND status = $2`, id, models.DisbursementPending)
	if err != nil {
		logger.Error().Err(err).Int64("disbursementID", id).Msg("Error deleting disbursement")
		return fmt.Errorf("error deleting disbursement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrDisbursementNotPending
	}
	return nil
}
