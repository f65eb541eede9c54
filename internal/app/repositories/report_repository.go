package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/db"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

// ReportFilter restricts aggregates to a program and/or academic year
type ReportFilter struct {
	ProgramID    int64
	AcademicYear string
}

// ReportRepository runs the aggregate queries behind dashboards and statistics
type ReportRepository struct {
	db *db.PostgresDB
}

// NewReportRepository creates a new report repository
func NewReportRepository(database *db.PostgresDB) *ReportRepository {
	return &ReportRepository{db: database}
}

// scholarScope selects scholars matching f; the academic year filter keeps
// scholars with a record in that year.
func scholarScope(b squirrel.SelectBuilder, f ReportFilter) squirrel.SelectBuilder {
	b = b.From("scholars s")
	if f.ProgramID > 0 {
		b = b.Where(squirrel.Eq{"s.program_id": f.ProgramID})
	}
	if f.AcademicYear != "" {
		b = b.Where("EXISTS (SELECT 1 FROM academic_records a WHERE a.scholar_id = s.id AND a.academic_year = ?)", f.AcademicYear)
	}
	return b
}

func (r *ReportRepository) buckets(ctx context.Context, name string, b squirrel.SelectBuilder) ([]dto.CountBucket, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("aggregate", name).Msg("Error building report SQL")
		return nil, err
	}
	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("aggregate", name).Msg("Error running report query")
		return nil, fmt.Errorf("error running %s report: %w", name, err)
	}
	defer rows.Close()

	out := []dto.CountBucket{}
	for rows.Next() {
		var bkt dto.CountBucket
		if err := rows.Scan(&bkt.Key, &bkt.Label, &bkt.Count); err != nil {
			return nil, fmt.Errorf("error scanning %s bucket: %w", name, err)
		}
		out = append(out, bkt)
	}
	return out, rows.Err()
}

// CountByProgram counts scholars per program, including programs with none
func (r *ReportRepository) CountByProgram(ctx context.Context, f ReportFilter) ([]dto.CountBucket, error) {
	// built with ? placeholders so the outer statement numbers them
	subSQL, subArgs, err := scholarScope(squirrel.Select("s.program_id"), f).ToSql()
	if err != nil {
		return nil, err
	}
	b := psql.Select("p.code", "p.name", "COUNT(x.program_id)").
		From("programs p").
		LeftJoin("("+subSQL+") x ON x.program_id = p.id", subArgs...).
		GroupBy("p.id", "p.code", "p.name").
		OrderBy("p.id")
	return r.buckets(ctx, "program", b)
}

// CountByStatus counts scholars per status
func (r *ReportRepository) CountByStatus(ctx context.Context, f ReportFilter) ([]dto.CountBucket, error) {
	b := scholarScope(psql.Select("s.status", "s.status", "COUNT(*)"), f).
		GroupBy("s.status").
		OrderBy("s.status")
	return r.buckets(ctx, "status", b)
}

// CountBySex counts scholars per sex
func (r *ReportRepository) CountBySex(ctx context.Context, f ReportFilter) ([]dto.CountBucket, error) {
	b := scholarScope(psql.Select("s.sex", "CASE s.sex WHEN 'M' THEN 'Male' ELSE 'Female' END", "COUNT(*)"), f).
		GroupBy("s.sex").
		OrderBy("s.sex")
	return r.buckets(ctx, "sex", b)
}

// CountByProvince counts scholars per home province
func (r *ReportRepository) CountByProvince(ctx context.Context, f ReportFilter) ([]dto.CountBucket, error) {
	b := scholarScope(psql.Select("COALESCE(pr.id::text, '')", "COALESCE(pr.name, 'Unspecified')", "COUNT(*)"), f).
		LeftJoin("provinces pr ON pr.id = s.province_id").
		GroupBy("pr.id", "pr.name").
		OrderBy("COUNT(*) DESC", "2")
	return r.buckets(ctx, "province", b)
}

// TopHEIs counts distinct scholars per HEI and returns the largest limit groups
func (r *ReportRepository) TopHEIs(ctx context.Context, f ReportFilter, limit uint64) ([]dto.CountBucket, error) {
	b := psql.Select("h.id::text", "h.name", "COUNT(DISTINCT s.id)").
		From("academic_records a").
		Join("scholars s ON s.id = a.scholar_id").
		Join("heis h ON h.id = a.hei_id")
	if f.ProgramID > 0 {
		b = b.Where(squirrel.Eq{"s.program_id": f.ProgramID})
	}
	if f.AcademicYear != "" {
		b = b.Where(squirrel.Eq{"a.academic_year": f.AcademicYear})
	}
	b = b.GroupBy("h.id", "h.name").OrderBy("COUNT(DISTINCT s.id) DESC", "h.name").Limit(limit)
	return r.buckets(ctx, "hei", b)
}

// DisbursedByProgram sums released disbursements per program
func (r *ReportRepository) DisbursedByProgram(ctx context.Context, f ReportFilter) ([]dto.AmountBucket, error) {
	b := psql.Select("p.code", "p.name", "COUNT(d.id)", "COALESCE(SUM(d.amount), 0)::float8").
		From("programs p").
		LeftJoin("scholars s ON s.program_id = p.id").
		LeftJoin("academic_records a ON a.scholar_id = s.id").
		LeftJoin("disbursements d ON d.academic_record_id = a.id AND d.status = 'RELEASED'")
	if f.ProgramID > 0 {
		b = b.Where(squirrel.Eq{"p.id": f.ProgramID})
	}
	if f.AcademicYear != "" {
		b = b.Where(squirrel.Or{squirrel.Eq{"a.academic_year": f.AcademicYear}, squirrel.Eq{"a.id": nil}})
	}
	b = b.GroupBy("p.id", "p.code", "p.name").OrderBy("p.id")

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error running disbursement report")
		return nil, fmt.Errorf("error running disbursement report: %w", err)
	}
	defer rows.Close()

	out := []dto.AmountBucket{}
	for rows.Next() {
		var bkt dto.AmountBucket
		if err := rows.Scan(&bkt.Key, &bkt.Label, &bkt.Count, &bkt.Amount); err != nil {
			return nil, fmt.Errorf("error scanning disbursement bucket: %w", err)
		}
		out = append(out, bkt)
	}
	return out, rows.Err()
}

// TotalScholars counts scholars matching f
func (r *ReportRepository) TotalScholars(ctx context.Context, f ReportFilter) (int64, error) {
	sql, args, err := scholarScope(psql.Select("COUNT(*)"), f).ToSql()
	if err != nil {
		return 0, err
	}
	var total int64
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting scholars for report")
		return 0, fmt.Errorf("error counting scholars: %w", err)
	}
	return total, nil
}
