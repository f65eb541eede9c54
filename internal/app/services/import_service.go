package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/app/repositories"
	"github.com/yigit/scholaris/internal/db"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/helpers"
	"github.com/yigit/scholaris/internal/pkg/logger"
	"github.com/yigit/scholaris/internal/pkg/spreadsheet"
	"github.com/yigit/scholaris/internal/pkg/validation"
)

// ImportColumns are the normalized headers an import file may carry, in
// template order.
var ImportColumns = []string{
	"award_number", "last_name", "first_name", "middle_name", "name_extension",
	"sex", "birthdate", "contact_number", "email", "province", "city", "district",
	"barangay", "hei", "course", "year_level", "academic_year", "semester",
	"grant_amount", "status",
}

// RequiredImportColumns must be present in the header row
var RequiredImportColumns = []string{
	"award_number", "last_name", "first_name", "sex", "hei", "academic_year", "semester",
}

// ImportService loads scholars and their academic records from spreadsheets
type ImportService struct {
	tx           db.Transactor
	scholarRepo  ScholarRepository
	recordRepo   AcademicRecordRepository
	heiRepo      HEIRepository
	locationRepo LocationRepository
	maxRows      int
	validate     *validator.Validate
}

// NewImportService creates a new import service instance. maxRows <= 0 disables the limit.
func NewImportService(tx db.Transactor, scholarRepo ScholarRepository, recordRepo AcademicRecordRepository,
	heiRepo HEIRepository, locationRepo LocationRepository, maxRows int) *ImportService {
	return &ImportService{
		tx:           tx,
		scholarRepo:  scholarRepo,
		recordRepo:   recordRepo,
		heiRepo:      heiRepo,
		locationRepo: locationRepo,
		maxRows:      maxRows,
		validate:     newImportValidator(),
	}
}

// Import parses filename's content and upserts each row in its own
// transaction. Row failures are collected in the result; only an unreadable
// file or a file over the row limit fails the whole import.
func (s *ImportService) Import(ctx context.Context, programID int64, filename string, r io.Reader) (*dto.ImportResult, error) {
	format, err := spreadsheet.FormatFromFilename(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}
	table, err := spreadsheet.Read(r, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}
	if missing := table.MissingHeaders(RequiredImportColumns...); len(missing) > 0 {
		return nil, apperrors.NewValidationError("import file is missing required columns", map[string]interface{}{
			"missing": missing,
		})
	}

	var rows []spreadsheet.Row
	for _, row := range table.Rows {
		if !row.Blank() {
			rows = append(rows, row)
		}
	}
	if s.maxRows > 0 && len(rows) > s.maxRows {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("import file has %d rows, the limit is %d", len(rows), s.maxRows),
			map[string]interface{}{"rows": len(rows), "maxRows": s.maxRows},
		)
	}

	result := &dto.ImportResult{
		BatchID:   uuid.New().String(),
		TotalRows: len(rows),
		Errors:    []dto.RowError{},
	}
	log := logger.Get().With().Str("batchId", result.BatchID).Int64("programID", programID).Logger()
	log.Info().Str("file", filename).Int("rows", len(rows)).Msg("Import started")

	res := newImportResolver(s.heiRepo, s.locationRepo)
	for _, row := range rows {
		outcome, err := s.importRow(ctx, programID, row, res)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, dto.RowError{
				Row:         row.Number,
				AwardNumber: row.Get("award_number"),
				Message:     err.Error(),
				Fields:      rowFieldErrors(err),
			})
			continue
		}
		switch outcome {
		case rowCreated:
			result.Created++
		case rowUpdated:
			result.Updated++
		default:
			result.Unchanged++
		}
	}

	log.Info().Int("created", result.Created).Int("updated", result.Updated).Int("unchanged", result.Unchanged).
		Int("failed", result.Failed).Msg("Import finished")
	return result, nil
}

func (s *ImportService) importRow(ctx context.Context, programID int64, row spreadsheet.Row, res *importResolver) (rowOutcome, error) {
	incoming, record, err := s.parseImportRow(ctx, row, res)
	if err != nil {
		return rowUnchanged, err
	}
	incoming.ProgramID = programID

	outcome := rowUnchanged
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		outcome = rowUnchanged
		existing, err := s.scholarRepo.GetByAwardNumber(ctx, programID, incoming.AwardNumber)
		switch {
		case errors.Is(err, apperrors.ErrScholarNotFound):
			if incoming.Status == "" {
				incoming.Status = models.ScholarApplicant
			}
			if err := s.scholarRepo.Create(ctx, incoming); err != nil {
				return err
			}
			existing = incoming
			outcome = rowCreated
		case err != nil:
			return err
		default:
			if incoming.Status != "" && incoming.Status != existing.Status && !existing.Status.CanTransitionTo(incoming.Status) {
				return fmt.Errorf("%w: %s to %s", apperrors.ErrInvalidTransition, existing.Status, incoming.Status)
			}
			merged := overlayScholar(existing, incoming, row.Has)
			if !sameScholar(existing, merged) {
				if err := s.scholarRepo.Update(ctx, merged); err != nil {
					return err
				}
				existing = merged
				outcome = rowUpdated
			}
		}

		record.ScholarID = existing.ID
		changed, err := upsertAcademicRecord(ctx, s.recordRepo, record, nil, keepAbsentRecordColumns(row.Has))
		if err != nil {
			return err
		}
		if changed && outcome == rowUnchanged {
			outcome = rowUpdated
		}
		return nil
	})
	return outcome, err
}

// importLine is the text of one import row. The col tags name the
// normalized headers and are what row errors report.
type importLine struct {
	AwardNumber   string `col:"award_number" validate:"required,award_number"`
	LastName      string `col:"last_name" validate:"required,max=100"`
	FirstName     string `col:"first_name" validate:"required,max=100"`
	MiddleName    string `col:"middle_name" validate:"max=100"`
	NameExtension string `col:"name_extension" validate:"max=16"`
	Sex           string `col:"sex" validate:"required"`
	ContactNumber string `col:"contact_number" validate:"omitempty,contact_number"`
	Email         string `col:"email" validate:"omitempty,email,max=255"`
	Barangay      string `col:"barangay" validate:"max=150"`
	HEI           string `col:"hei" validate:"required"`
	Course        string `col:"course" validate:"max=255"`
	AcademicYear  string `col:"academic_year" validate:"required,academic_year"`
	Semester      string `col:"semester" validate:"required"`
}

func newImportValidator() *validator.Validate {
	v := validation.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("col")
	})
	return v
}

// parseImportRow turns a spreadsheet row into a scholar and a term record,
// resolving place and HEI names to ids. Column failures come back as a
// validation error whose "fields" detail lists them.
func (s *ImportService) parseImportRow(ctx context.Context, row spreadsheet.Row, res *importResolver) (*models.Scholar, *models.AcademicRecord, error) {
	line := importLine{
		AwardNumber:   row.Get("award_number"),
		LastName:      row.Get("last_name"),
		FirstName:     row.Get("first_name"),
		MiddleName:    row.Get("middle_name"),
		NameExtension: row.Get("name_extension"),
		Sex:           row.Get("sex"),
		ContactNumber: row.Get("contact_number"),
		Email:         strings.ToLower(row.Get("email")),
		Barangay:      row.Get("barangay"),
		HEI:           row.Get("hei"),
		Course:        row.Get("course"),
		AcademicYear:  row.Get("academic_year"),
		Semester:      row.Get("semester"),
	}

	var problems []dto.FieldError
	fail := func(column, format string, args ...interface{}) {
		problems = append(problems, dto.FieldError{Field: column, Message: fmt.Sprintf(format, args...)})
	}
	if err := s.validate.Struct(&line); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, nil, err
		}
		problems = append(problems, dto.ValidationMessages(verrs)...)
	}

	scholar := &models.Scholar{
		AwardNumber:   line.AwardNumber,
		LastName:      line.LastName,
		FirstName:     line.FirstName,
		MiddleName:    line.MiddleName,
		NameExtension: line.NameExtension,
		ContactNumber: line.ContactNumber,
		Email:         line.Email,
		Barangay:      line.Barangay,
	}
	if line.Sex != "" {
		if sex, ok := models.ParseSex(line.Sex); ok {
			scholar.Sex = sex
		} else {
			fail("sex", "sex must be M or F")
		}
	}
	if v := row.Get("birthdate"); v != "" {
		if t, err := helpers.ParseFlexibleDate(v); err == nil {
			scholar.Birthdate = &t
		} else {
			fail("birthdate", "birthdate: %v", err)
		}
	}
	if v := row.Get("status"); v != "" {
		status := models.ScholarStatus(strings.ToUpper(strings.ReplaceAll(v, " ", "_")))
		if status.Valid() {
			scholar.Status = status
		} else {
			fail("status", "unknown status %q", v)
		}
	}

	// resolve reports a lookup miss as a column failure and anything else as
	// a row error.
	resolve := func(column string, id int64, err error) (int64, bool, error) {
		switch {
		case err == nil:
			return id, true, nil
		case isLookupMiss(err):
			fail(column, "%v", err)
			return 0, false, nil
		default:
			return 0, false, err
		}
	}

	if v := row.Get("province"); v != "" {
		id, err := res.province(ctx, v)
		pid, ok, err := resolve("province", id, err)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			scholar.ProvinceID = &pid
			if c := row.Get("city"); c != "" {
				id, err := res.locality(ctx, repositories.LocalityCity, pid, c)
				cid, ok, err := resolve("city", id, err)
				if err != nil {
					return nil, nil, err
				}
				if ok {
					scholar.CityID = &cid
				}
			}
			if d := row.Get("district"); d != "" {
				id, err := res.locality(ctx, repositories.LocalityDistrict, pid, d)
				did, ok, err := resolve("district", id, err)
				if err != nil {
					return nil, nil, err
				}
				if ok {
					scholar.DistrictID = &did
				}
			}
		}
	} else if row.Get("city") != "" || row.Get("district") != "" {
		fail("province", "province is required when city or district is given")
	}

	record := &models.AcademicRecord{
		Course:       line.Course,
		AcademicYear: line.AcademicYear,
		Status:       models.AcademicEnrolled,
		YearLevel:    1,
	}
	if line.HEI != "" {
		id, err := res.hei(ctx, line.HEI)
		heiID, ok, err := resolve("hei", id, err)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			record.HEIID = heiID
		}
	}
	if line.Semester != "" {
		if sem, ok := parseSemester(line.Semester); ok {
			record.Semester = sem
		} else {
			fail("semester", "semester must be 1, 2 or 3 (summer)")
		}
	}
	if v := row.Get("year_level"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 7 {
			record.YearLevel = n
		} else {
			fail("year_level", "year_level must be between 1 and 7")
		}
	}
	if v := row.Get("grant_amount"); v != "" {
		if amount, err := parseAmount(v); err == nil && amount >= 0 {
			record.GrantAmount = amount
		} else {
			fail("grant_amount", "grant_amount %q is not a valid amount", v)
		}
	}

	if len(problems) > 0 {
		msgs := make([]string, len(problems))
		for i, p := range problems {
			msgs[i] = p.Message
		}
		return nil, nil, apperrors.NewValidationError(
			fmt.Sprintf("%s: %s", apperrors.ErrValidationFailed, strings.Join(msgs, "; ")),
			map[string]interface{}{"fields": problems},
		)
	}
	return scholar, record, nil
}

// rowFieldErrors extracts the column failures attached by parseImportRow
func rowFieldErrors(err error) []dto.FieldError {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) {
		if fields, ok := custom.Details["fields"].([]dto.FieldError); ok {
			return fields
		}
	}
	return nil
}

// overlayScholar returns a copy of stored with the values of the columns the
// file carries. Required columns always overwrite; an absent optional column
// keeps the stored value. A changed province drops a city or district the file
// does not restate, since those belong to the old province.
func overlayScholar(stored, incoming *models.Scholar, has func(string) bool) *models.Scholar {
	out := *stored
	out.AwardNumber = incoming.AwardNumber
	out.LastName = incoming.LastName
	out.FirstName = incoming.FirstName
	out.Sex = incoming.Sex
	if incoming.Status != "" {
		out.Status = incoming.Status
	}
	if has("middle_name") {
		out.MiddleName = incoming.MiddleName
	}
	if has("name_extension") {
		out.NameExtension = incoming.NameExtension
	}
	if has("birthdate") {
		out.Birthdate = incoming.Birthdate
	}
	if has("contact_number") {
		out.ContactNumber = incoming.ContactNumber
	}
	if has("email") {
		out.Email = incoming.Email
	}
	if has("barangay") {
		out.Barangay = incoming.Barangay
	}
	if has("province") {
		provinceChanged := !sameID(stored.ProvinceID, incoming.ProvinceID)
		out.ProvinceID = incoming.ProvinceID
		if provinceChanged || has("city") {
			out.CityID = incoming.CityID
		}
		if provinceChanged || has("district") {
			out.DistrictID = incoming.DistrictID
		}
	}
	return &out
}

// keepAbsentRecordColumns fills an incoming term from the stored one for
// every field the import file does not carry.
func keepAbsentRecordColumns(has func(string) bool) recordFill {
	return func(stored, incoming *models.AcademicRecord) {
		if !has("course") {
			incoming.Course = stored.Course
		}
		if !has("year_level") {
			incoming.YearLevel = stored.YearLevel
		}
		if !has("grant_amount") {
			incoming.GrantAmount = stored.GrantAmount
		}
		// not import columns
		incoming.GWA = stored.GWA
		incoming.UnitsEnrolled = stored.UnitsEnrolled
		incoming.Status = stored.Status
	}
}

func parseSemester(v string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "1st", "first", "first semester", "1st semester":
		return models.SemesterFirst, true
	case "2", "2nd", "second", "second semester", "2nd semester":
		return models.SemesterSecond, true
	case "3", "summer", "midyear", "mid-year":
		return models.SemesterSummer, true
	}
	return 0, false
}

func parseAmount(v string) (float64, error) {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "PHP")
	v = strings.TrimPrefix(v, "₱")
	v = strings.ReplaceAll(v, ",", "")
	return strconv.ParseFloat(strings.TrimSpace(v), 64)
}

// importResolver caches name lookups for the duration of one import.
// Only misses are remembered; other lookup errors are retried on the next row.
type importResolver struct {
	heiRepo      HEIRepository
	locationRepo LocationRepository
	ids          map[string]int64
	misses       map[string]error
}

func newImportResolver(heiRepo HEIRepository, locationRepo LocationRepository) *importResolver {
	return &importResolver{
		heiRepo:      heiRepo,
		locationRepo: locationRepo,
		ids:          make(map[string]int64),
		misses:       make(map[string]error),
	}
}

// isLookupMiss reports whether a resolver error means the name is unknown
func isLookupMiss(err error) bool {
	return apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrHEINotFound)
}

func (r *importResolver) cached(key string, load func() (int64, error)) (int64, error) {
	key = strings.ToLower(key)
	if id, ok := r.ids[key]; ok {
		return id, nil
	}
	if err, ok := r.misses[key]; ok {
		return 0, err
	}
	id, err := load()
	if err != nil {
		if isLookupMiss(err) {
			r.misses[key] = err
		}
		return 0, err
	}
	r.ids[key] = id
	return id, nil
}

func (r *importResolver) province(ctx context.Context, name string) (int64, error) {
	return r.cached("province|"+name, func() (int64, error) {
		p, err := r.locationRepo.FindProvinceByName(ctx, name)
		if err != nil {
			return 0, err
		}
		return p.ID, nil
	})
}

func (r *importResolver) locality(ctx context.Context, kind repositories.LocalityKind, provinceID int64, name string) (int64, error) {
	return r.cached(fmt.Sprintf("%s|%d|%s", kind, provinceID, name), func() (int64, error) {
		l, err := r.locationRepo.FindLocalityByName(ctx, kind, provinceID, name)
		if err != nil {
			return 0, err
		}
		return l.ID, nil
	})
}

func (r *importResolver) hei(ctx context.Context, ref string) (int64, error) {
	return r.cached("hei|"+ref, func() (int64, error) {
		h, err := r.heiRepo.FindByNameOrUII(ctx, ref)
		if err != nil {
			if errors.Is(err, apperrors.ErrHEINotFound) {
				return 0, apperrors.NewResourceNotFoundError(fmt.Sprintf("HEI %q not found", ref))
			}
			return 0, err
		}
		return h.ID, nil
	})
}
