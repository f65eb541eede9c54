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

// AcademicRecordRepository handles database operations for academic records
type AcademicRecordRepository struct {
	db *db.PostgresDB
}

// NewAcademicRecordRepository creates a new academic record repository
func NewAcademicRecordRepository(database *db.PostgresDB) *AcademicRecordRepository {
	return &AcademicRecordRepository{db: database}
}

func (r *AcademicRecordRepository) selectQuery() squirrel.SelectBuilder {
	return psql.Select(
		"a.id", "a.scholar_id", "a.hei_id", "h.name", "a.course", "a.year_level", "a.academic_year",
		"a.semester", "a.gwa", "a.units_enrolled", "a.grant_amount", "a.status", "a.remarks",
		"a.created_at", "a.updated_at",
	).From("academic_records a").Join("heis h ON h.id = a.hei_id")
}

func scanAcademicRecord(row pgx.Row) (*models.AcademicRecord, error) {
	var a models.AcademicRecord
	err := row.Scan(&a.ID, &a.ScholarID, &a.HEIID, &a.HEIName, &a.Course, &a.YearLevel, &a.AcademicYear,
		&a.Semester, &a.GWA, &a.UnitsEnrolled, &a.GrantAmount, &a.Status, &a.Remarks,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrAcademicRecordMissing
		}
		logger.Error().Err(err).Msg("Error scanning academic record")
		return nil, err
	}
	return &a, nil
}

// ListByScholar returns a scholar's records ordered by academic year and semester
func (r *AcademicRecordRepository) ListByScholar(ctx context.Context, scholarID int64) ([]models.AcademicRecord, error) {
	sql, args, err := r.selectQuery().
		Where(squirrel.Eq{"a.scholar_id": scholarID}).
		OrderBy("a.academic_year", "a.semester").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("scholarID", scholarID).Msg("Error listing academic records")
		return nil, fmt.Errorf("error listing academic records: %w", err)
	}
	defer rows.Close()

	records := []models.AcademicRecord{}
	for rows.Next() {
		a, err := scanAcademicRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *a)
	}
	return records, rows.Err()
}

// GetByID retrieves an academic record
func (r *AcademicRecordRepository) GetByID(ctx context.Context, id int64) (*models.AcademicRecord, error) {
	sql, args, err := r.selectQuery().Where(squirrel.Eq{"a.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanAcademicRecord(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
}

// GetByTerm retrieves the record of a scholar for one academic year and semester
func (r *AcademicRecordRepository) GetByTerm(ctx context.Context, scholarID int64, academicYear string, semester int) (*models.AcademicRecord, error) {
	sql, args, err := r.selectQuery().
		Where(squirrel.Eq{"a.scholar_id": scholarID, "a.academic_year": academicYear, "a.semester": semester}).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanAcademicRecord(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
}

// Create inserts a new academic record
func (r *AcademicRecordRepository) Create(ctx context.Context, a *models.AcademicRecord) error {
	if a.Status == "" {
		a.Status = models.AcademicEnrolled
	}
	sql, args, err := psql.Insert("academic_records").
		Columns("scholar_id", "hei_id", "course", "year_level", "academic_year", "semester", "gwa",
			"units_enrolled", "grant_amount", "status", "remarks").
		Values(a.ScholarID, a.HEIID, a.Course, a.YearLevel, a.AcademicYear, a.Semester, a.GWA,
			a.UnitsEnrolled, a.GrantAmount, a.Status, a.Remarks).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create academic record SQL")
		return err
	}

	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return r.translate(err, a)
	}
	return nil
}

// Update writes all fields of an academic record
func (r *AcademicRecordRepository) Update(ctx context.Context, a *models.AcademicRecord) error {
	sql, args, err := psql.Update("academic_records").
		SetMap(map[string]interface{}{
			"hei_id":         a.HEIID,
			"course":         a.Course,
			"year_level":     a.YearLevel,
			"academic_year":  a.AcademicYear,
			"semester":       a.Semester,
			"gwa":            a.GWA,
			"units_enrolled": a.UnitsEnrolled,
			"grant_amount":   a.GrantAmount,
			"status":         a.Status,
			"remarks":        a.Remarks,
			"updated_at":     squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": a.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return err
	}

	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&a.UpdatedAt); err != nil {
		if isNoRows(err) {
			return apperrors.ErrAcademicRecordMissing
		}
		return r.translate(err, a)
	}
	return nil
}

func (r *AcademicRecordRepository) translate(err error, a *models.AcademicRecord) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, "academic_records_term_key"):
		return fmt.Errorf("%w: %s", apperrors.ErrAcademicRecordExists, a.TermKey())
	case dberrors.IsForeignKeyError(err):
		return apperrors.ErrHEINotFound
	case dberrors.IsCheckViolation(err):
		return apperrors.NewValidationError("academic record violates a range check", map[string]interface{}{
			"yearLevel": a.YearLevel, "semester": a.Semester,
		})
	}
	logger.Error().Err(err).Int64("scholarID", a.ScholarID).Str("term", a.TermKey()).Msg("Error writing academic record")
	return fmt.Errorf("error writing academic record: %w", err)
}

// Delete removes an academic record; its disbursements cascade
func (r *AcademicRecordRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Conn(ctx).Exec(ctx, `DELETE FROM academic_records WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Int64("recordID", id).Msg("Error deleting academic record")
		return fmt.Errorf("error deleting academic record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAcademicRecordMissing
	}
	return nil
}
