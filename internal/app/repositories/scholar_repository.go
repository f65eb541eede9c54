package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/db"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/dberrors"
	"github.com/yigit/scholaris/internal/pkg/helpers"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

var scholarSorts = map[string]string{
	"awardNumber":  "s.award_number",
	"lastName":     "s.last_name",
	"firstName":    "s.first_name",
	"status":       "s.status",
	"province":     "pr.name",
	"hei":          "h.name",
	"academicYear": "ar.academic_year",
	"createdAt":    "s.created_at",
	"updatedAt":    "s.updated_at",
}

// ScholarRepository handles database operations for scholars
type ScholarRepository struct {
	db *db.PostgresDB
}

// NewScholarRepository creates a new scholar repository
func NewScholarRepository(database *db.PostgresDB) *ScholarRepository {
	return &ScholarRepository{db: database}
}

// joins attaches program, address names and the latest academic record
// (restricted to an academic year when one is given).
func (r *ScholarRepository) joins(b squirrel.SelectBuilder, academicYear string) squirrel.SelectBuilder {
	lateral := "LEFT JOIN LATERAL (SELECT a.* FROM academic_records a WHERE a.scholar_id = s.id"
	var args []interface{}
	if academicYear != "" {
		lateral += " AND a.academic_year = ?"
		args = append(args, academicYear)
	}
	lateral += " ORDER BY a.academic_year DESC, a.semester DESC LIMIT 1) ar ON TRUE"

	return b.From("scholars s").
		Join("programs p ON p.id = s.program_id").
		LeftJoin("provinces pr ON pr.id = s.province_id").
		LeftJoin("cities c ON c.id = s.city_id").
		JoinClause(lateral, args...).
		LeftJoin("heis h ON h.id = ar.hei_id")
}

func (r *ScholarRepository) selectQuery(academicYear string) squirrel.SelectBuilder {
	return r.joins(psql.Select(
		"s.id", "s.program_id", "p.code", "s.award_number", "s.last_name", "s.first_name",
		"s.middle_name", "s.name_extension", "s.sex", "s.birthdate", "s.contact_number", "s.email",
		"s.province_id", "s.city_id", "s.district_id", "s.barangay", "s.status", "s.remarks",
		"s.created_at", "s.updated_at", "COALESCE(pr.name, '')", "COALESCE(c.name, '')",
		"ar.id", "ar.hei_id", "h.name", "ar.course", "ar.year_level", "ar.academic_year",
		"ar.semester", "ar.gwa", "ar.units_enrolled", "ar.grant_amount::float8", "ar.status", "ar.remarks",
	), academicYear)
}

func scanScholar(row pgx.Row) (*models.Scholar, error) {
	var (
		s        models.Scholar
		recID    *int64
		heiID    *int64
		heiName  *string
		course   *string
		level    *int
		ay       *string
		sem      *int
		gwa      *float64
		units    *int
		amount   *float64
		arStatus *string
		remarks  *string
	)
	err := row.Scan(
		&s.ID, &s.ProgramID, &s.ProgramCode, &s.AwardNumber, &s.LastName, &s.FirstName,
		&s.MiddleName, &s.NameExtension, &s.Sex, &s.Birthdate, &s.ContactNumber, &s.Email,
		&s.ProvinceID, &s.CityID, &s.DistrictID, &s.Barangay, &s.Status, &s.Remarks,
		&s.CreatedAt, &s.UpdatedAt, &s.ProvinceName, &s.CityName,
		&recID, &heiID, &heiName, &course, &level, &ay, &sem, &gwa, &units, &amount, &arStatus, &remarks,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrScholarNotFound
		}
		logger.Error().Err(err).Msg("Error scanning scholar")
		return nil, err
	}

	if recID != nil {
		s.LatestRecord = &models.AcademicRecord{
			ID:            *recID,
			ScholarID:     s.ID,
			HEIID:         *heiID,
			HEIName:       deref(heiName),
			Course:        deref(course),
			YearLevel:     derefInt(level),
			AcademicYear:  deref(ay),
			Semester:      derefInt(sem),
			GWA:           gwa,
			UnitsEnrolled: derefInt(units),
			Status:        models.AcademicStatus(deref(arStatus)),
			Remarks:       deref(remarks),
		}
		if amount != nil {
			s.LatestRecord.GrantAmount = *amount
		}
	}
	return &s, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

func (r *ScholarRepository) filters(f models.ScholarFilter) squirrel.And {
	where := squirrel.And{squirrel.Eq{"s.program_id": f.ProgramID}}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + term + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"s.award_number": like},
			squirrel.ILike{"s.last_name": like},
			squirrel.ILike{"s.first_name": like},
			squirrel.Expr("(s.first_name || ' ' || s.last_name) ILIKE ?", like),
		})
	}
	if f.Status != "" {
		where = append(where, squirrel.Eq{"s.status": f.Status})
	}
	if f.HEIID > 0 {
		where = append(where, squirrel.Eq{"ar.hei_id": f.HEIID})
	}
	if f.ProvinceID > 0 {
		where = append(where, squirrel.Eq{"s.province_id": f.ProvinceID})
	}
	if f.AcademicYear != "" {
		where = append(where, squirrel.NotEq{"ar.id": nil})
	}
	if f.Sex != "" {
		where = append(where, squirrel.Eq{"s.sex": f.Sex})
	}
	return where
}

// List returns a filtered, sorted page of a program's scholars
func (r *ScholarRepository) List(ctx context.Context, f models.ScholarFilter, page, size int) ([]models.Scholar, dto.PaginationInfo, error) {
	where := r.filters(f)

	countSQL, countArgs, err := r.joins(psql.Select("COUNT(*)"), f.AcademicYear).Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count scholars SQL")
		return nil, dto.PaginationInfo{}, err
	}
	var total int64
	if err := r.db.Conn(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Int64("programID", f.ProgramID).Msg("Error counting scholars")
		return nil, dto.PaginationInfo{}, fmt.Errorf("error counting scholars: %w", err)
	}

	pagination := helpers.NewPaginationInfo(total, page, size)
	if total == 0 {
		return []models.Scholar{}, pagination, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	scholars, err := r.query(ctx, r.selectQuery(f.AcademicYear).Where(where).
		OrderBy(sortColumn(scholarSorts, f.SortBy, "s.last_name")+" "+sortOrder(f.SortOrder), "s.id").
		Offset(offset).Limit(limit))
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return scholars, pagination, nil
}

// ListAll returns every scholar matching the filter, for exports
func (r *ScholarRepository) ListAll(ctx context.Context, f models.ScholarFilter) ([]models.Scholar, error) {
	return r.query(ctx, r.selectQuery(f.AcademicYear).Where(r.filters(f)).
		OrderBy(sortColumn(scholarSorts, f.SortBy, "s.last_name")+" "+sortOrder(f.SortOrder), "s.first_name", "s.id"))
}

func (r *ScholarRepository) query(ctx context.Context, b squirrel.SelectBuilder) ([]models.Scholar, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building scholar query SQL")
		return nil, err
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying scholars")
		return nil, fmt.Errorf("error querying scholars: %w", err)
	}
	defer rows.Close()

	scholars := []models.Scholar{}
	for rows.Next() {
		s, err := scanScholar(rows)
		if err != nil {
			return nil, err
		}
		scholars = append(scholars, *s)
	}
	return scholars, rows.Err()
}

// GetByID retrieves a scholar with its latest academic record
func (r *ScholarRepository) GetByID(ctx context.Context, id int64) (*models.Scholar, error) {
	sql, args, err := r.selectQuery("").Where(squirrel.Eq{"s.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanScholar(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
}

// awardNumberKey is the unique index on (program_id, LOWER(award_number))
const awardNumberKey = "scholars_program_award_ci_key"

// GetByAwardNumber looks a scholar up by its award number within a program,
// ignoring case
func (r *ScholarRepository) GetByAwardNumber(ctx context.Context, programID int64, awardNumber string) (*models.Scholar, error) {
	sql, args, err := r.selectQuery("").
		Where(squirrel.Eq{"s.program_id": programID}).
		Where(squirrel.Expr("LOWER(s.award_number) = LOWER(?)", strings.TrimSpace(awardNumber))).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanScholar(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
}

// Create inserts a new scholar
func (r *ScholarRepository) Create(ctx context.Context, s *models.Scholar) error {
	if s.Status == "" {
		s.Status = models.ScholarApplicant
	}
	sql, args, err := psql.Insert("scholars").
		Columns("program_id", "award_number", "last_name", "first_name", "middle_name", "name_extension",
			"sex", "birthdate", "contact_number", "email", "province_id", "city_id", "district_id",
			"barangay", "status", "remarks").
		Values(s.ProgramID, s.AwardNumber, s.LastName, s.FirstName, s.MiddleName, s.NameExtension,
			s.Sex, s.Birthdate, s.ContactNumber, s.Email, s.ProvinceID, s.CityID, s.DistrictID,
			s.Barangay, s.Status, s.Remarks).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create scholar SQL")
		return err
	}

	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, awardNumberKey) {
			return fmt.Errorf("%w: %s", apperrors.ErrAwardNumberExists, s.AwardNumber)
		}
		logger.Error().Err(err).Str("awardNumber", s.AwardNumber).Msg("Error creating scholar")
		return fmt.Errorf("error creating scholar: %w", err)
	}
	return nil
}

// Update writes all editable scholar fields including status
func (r *ScholarRepository) Update(ctx context.Context, s *models.Scholar) error {
	sql, args, err := psql.Update("scholars").
		SetMap(map[string]interface{}{
			"award_number":   s.AwardNumber,
			"last_name":      s.LastName,
			"first_name":     s.FirstName,
			"middle_name":    s.MiddleName,
			"name_extension": s.NameExtension,
			"sex":            s.Sex,
			"birthdate":      s.Birthdate,
			"contact_number": s.ContactNumber,
			"email":          s.Email,
			"province_id":    s.ProvinceID,
			"city_id":        s.CityID,
			"district_id":    s.DistrictID,
			"barangay":       s.Barangay,
			"status":         s.Status,
			"remarks":        s.Remarks,
			"updated_at":     squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": s.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return err
	}

	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&s.UpdatedAt); err != nil {
		switch {
		case isNoRows(err):
			return apperrors.ErrScholarNotFound
		case dberrors.IsDuplicateConstraintError(err, awardNumberKey):
			return fmt.Errorf("%w: %s", apperrors.ErrAwardNumberExists, s.AwardNumber)
		}
		logger.Error().Err(err).Int64("scholarID", s.ID).Msg("Error updating scholar")
		return fmt.Errorf("error updating scholar: %w", err)
	}
	return nil
}

// UpdateStatus changes only the status and remarks of a scholar
func (r *ScholarRepository) UpdateStatus(ctx context.Context, id int64, status models.ScholarStatus, remarks string) error {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE scholars SET status = $1, remarks = $2, updated_at = $3 WHERE id = $4`,
		status, remarks, time.Now(), id)
	if err != nil {
		logger.Error().Err(err).Int64("scholarID", id).Msg("Error updating scholar status")
		return fmt.Errorf("error updating scholar status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrScholarNotFound
	}
	return nil
}

// Delete removes a scholar; academic records and disbursements cascade
func (r *ScholarRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Conn(ctx).Exec(ctx, `DELETE FROM scholars WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Int64("scholarID", id).Msg("Error deleting scholar")
		return fmt.Errorf("error deleting scholar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrScholarNotFound
	}
	return nil
}
