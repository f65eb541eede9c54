package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/db"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/helpers"
	"github.com/yigit/scholaris/internal/pkg/logger"
	"github.com/yigit/scholaris/internal/pkg/validation"
)

// GridService synchronizes the bulk-edit grid with the database
type GridService struct {
	tx          db.Transactor
	scholarRepo ScholarRepository
	recordRepo  AcademicRecordRepository
	validate    *validator.Validate
}

// NewGridService creates a new grid service instance
func NewGridService(tx db.Transactor, scholarRepo ScholarRepository, recordRepo AcademicRecordRepository) *GridService {
	return &GridService{
		tx:          tx,
		scholarRepo: scholarRepo,
		recordRepo:  recordRepo,
		validate:    validation.New(),
	}
}

// ValidateRows checks every row and returns the failures, 1-based.
// Duplicate award numbers are reported on the later row.
func (s *GridService) ValidateRows(rows []dto.GridRow) []dto.RowError {
	var rowErrors []dto.RowError
	seen := make(map[string]int, len(rows))

	for i := range rows {
		row := &rows[i]
		n := i + 1

		if err := s.validate.Struct(row); err != nil {
			re := dto.RowError{Row: n, AwardNumber: row.AwardNumber, Message: "invalid row"}
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				re.Fields = dto.ValidationMessages(verrs)
			} else {
				re.Message = err.Error()
			}
			rowErrors = append(rowErrors, re)
			continue
		}

		// same folding as the scholars_program_award_ci_key index
		key := strings.ToLower(strings.TrimSpace(row.AwardNumber))
		if first, dup := seen[key]; dup {
			rowErrors = append(rowErrors, dto.RowError{
				Row:         n,
				AwardNumber: row.AwardNumber,
				Message:     fmt.Sprintf("award number duplicates row %d", first),
				Fields:      []dto.FieldError{{Field: "awardNumber", Message: "must be unique within the batch"}},
			})
			continue
		}
		seen[key] = n
	}
	return rowErrors
}

// BulkUpdate validates the whole row set, then writes it in one transaction.
// Rows identical to the stored values are counted as unchanged.
func (s *GridService) BulkUpdate(ctx context.Context, programID int64, rows []dto.GridRow) (*dto.BulkUpdateResult, error) {
	if rowErrors := s.ValidateRows(rows); len(rowErrors) > 0 {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("%d of %d rows are invalid", len(rowErrors), len(rows)),
			map[string]interface{}{"rows": rowErrors},
		)
	}

	result := &dto.BulkUpdateResult{}
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for i := range rows {
			outcome, err := s.syncRow(ctx, programID, &rows[i])
			if err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
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
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("programID", programID).Int("created", result.Created).Int("updated", result.Updated).
		Int("unchanged", result.Unchanged).Msg("Grid rows synchronized")
	return result, nil
}

type rowOutcome int

const (
	rowUnchanged rowOutcome = iota
	rowUpdated
	rowCreated
)

func (s *GridService) syncRow(ctx context.Context, programID int64, row *dto.GridRow) (rowOutcome, error) {
	incoming, err := scholarFromGridRow(row)
	if err != nil {
		return rowUnchanged, err
	}

	var scholar *models.Scholar
	outcome := rowUnchanged

	if row.ScholarID != nil {
		scholar, err = scholarInProgram(ctx, s.scholarRepo, programID, *row.ScholarID)
		if err != nil {
			return rowUnchanged, err
		}
		if incoming.Status != "" && incoming.Status != scholar.Status && !scholar.Status.CanTransitionTo(incoming.Status) {
			return rowUnchanged, fmt.Errorf("%w: %s to %s", apperrors.ErrInvalidTransition, scholar.Status, incoming.Status)
		}
		if !sameScholar(scholar, incoming) {
			mergeScholar(scholar, incoming)
			if err := s.scholarRepo.Update(ctx, scholar); err != nil {
				return rowUnchanged, err
			}
			outcome = rowUpdated
		}
	} else {
		scholar = incoming
		scholar.ProgramID = programID
		if scholar.Status == "" {
			scholar.Status = models.ScholarApplicant
		}
		if err := s.scholarRepo.Create(ctx, scholar); err != nil {
			return rowUnchanged, err
		}
		outcome = rowCreated
	}

	recordChanged, err := s.syncRecord(ctx, scholar.ID, row)
	if err != nil {
		return rowUnchanged, err
	}
	if recordChanged && outcome == rowUnchanged {
		outcome = rowUpdated
	}
	return outcome, nil
}

// syncRecord upserts the academic part of a row on (scholar, academic year, semester)
func (s *GridService) syncRecord(ctx context.Context, scholarID int64, row *dto.GridRow) (bool, error) {
	incoming := recordFromGridRow(row)
	incoming.ScholarID = scholarID
	return upsertAcademicRecord(ctx, s.recordRepo, incoming, row.AcademicRecordID, nil)
}

// recordFill copies onto incoming the stored values a partial row does not carry
type recordFill func(stored, incoming *models.AcademicRecord)

// upsertAcademicRecord writes incoming unless an identical term is stored.
// recordID, when set, pins the record to update; otherwise the term key decides.
// fill, when set, runs against the stored term before comparing.
// It reports whether anything was written.
func upsertAcademicRecord(ctx context.Context, repo AcademicRecordRepository, incoming *models.AcademicRecord,
	recordID *int64, fill recordFill) (bool, error) {
	var existing *models.AcademicRecord
	var err error
	if recordID != nil {
		existing, err = repo.GetByID(ctx, *recordID)
		if err != nil {
			return false, err
		}
		if existing.ScholarID != incoming.ScholarID {
			return false, apperrors.ErrAcademicRecordMissing
		}
	} else {
		existing, err = repo.GetByTerm(ctx, incoming.ScholarID, incoming.AcademicYear, incoming.Semester)
		if err != nil && !errors.Is(err, apperrors.ErrAcademicRecordMissing) {
			return false, err
		}
	}

	if existing == nil {
		return true, repo.Create(ctx, incoming)
	}
	if fill != nil {
		fill(existing, incoming)
	}
	if sameRecord(existing, incoming) {
		return false, nil
	}
	incoming.ID = existing.ID
	if incoming.Remarks == "" {
		incoming.Remarks = existing.Remarks
	}
	return true, repo.Update(ctx, incoming)
}

func scholarFromGridRow(row *dto.GridRow) (*models.Scholar, error) {
	sex, _ := models.ParseSex(row.Sex)
	var birthdate *time.Time
	if row.Birthdate != "" {
		t, err := time.Parse(helpers.DateLayout, row.Birthdate)
		if err != nil {
			return nil, fmt.Errorf("%w: birthdate must be YYYY-MM-DD", apperrors.ErrValidationFailed)
		}
		birthdate = &t
	}
	return &models.Scholar{
		AwardNumber:   strings.TrimSpace(row.AwardNumber),
		LastName:      strings.TrimSpace(row.LastName),
		FirstName:     strings.TrimSpace(row.FirstName),
		MiddleName:    strings.TrimSpace(row.MiddleName),
		NameExtension: strings.TrimSpace(row.NameExtension),
		Sex:           sex,
		Birthdate:     birthdate,
		ContactNumber: strings.TrimSpace(row.ContactNumber),
		Email:         strings.ToLower(strings.TrimSpace(row.Email)),
		ProvinceID:    row.ProvinceID,
		CityID:        row.CityID,
		DistrictID:    row.DistrictID,
		Barangay:      strings.TrimSpace(row.Barangay),
		Status:        models.ScholarStatus(row.Status),
	}, nil
}

func recordFromGridRow(row *dto.GridRow) *models.AcademicRecord {
	status := models.AcademicStatus(row.AcademicStatus)
	if status == "" {
		status = models.AcademicEnrolled
	}
	return &models.AcademicRecord{
		HEIID:         row.HEIID,
		Course:        strings.TrimSpace(row.Course),
		YearLevel:     row.YearLevel,
		AcademicYear:  strings.TrimSpace(row.AcademicYear),
		Semester:      row.Semester,
		GWA:           row.GWA,
		UnitsEnrolled: row.UnitsEnrolled,
		GrantAmount:   row.GrantAmount,
		Status:        status,
	}
}

// sameScholar compares the fields a grid or import row can carry.
// An empty incoming status means "keep".
func sameScholar(stored, incoming *models.Scholar) bool {
	return stored.AwardNumber == incoming.AwardNumber &&
		stored.LastName == incoming.LastName &&
		stored.FirstName == incoming.FirstName &&
		stored.MiddleName == incoming.MiddleName &&
		stored.NameExtension == incoming.NameExtension &&
		stored.Sex == incoming.Sex &&
		sameDate(stored.Birthdate, incoming.Birthdate) &&
		stored.ContactNumber == incoming.ContactNumber &&
		stored.Email == incoming.Email &&
		sameID(stored.ProvinceID, incoming.ProvinceID) &&
		sameID(stored.CityID, incoming.CityID) &&
		sameID(stored.DistrictID, incoming.DistrictID) &&
		stored.Barangay == incoming.Barangay &&
		(incoming.Status == "" || stored.Status == incoming.Status)
}

// mergeScholar copies incoming's row fields onto stored. An empty status keeps the stored one.
func mergeScholar(stored, incoming *models.Scholar) {
	if incoming.Status != "" {
		stored.Status = incoming.Status
	}
	stored.AwardNumber = incoming.AwardNumber
	stored.LastName = incoming.LastName
	stored.FirstName = incoming.FirstName
	stored.MiddleName = incoming.MiddleName
	stored.NameExtension = incoming.NameExtension
	stored.Sex = incoming.Sex
	stored.Birthdate = incoming.Birthdate
	stored.ContactNumber = incoming.ContactNumber
	stored.Email = incoming.Email
	stored.ProvinceID = incoming.ProvinceID
	stored.CityID = incoming.CityID
	stored.DistrictID = incoming.DistrictID
	stored.Barangay = incoming.Barangay
}

func sameRecord(stored, incoming *models.AcademicRecord) bool {
	return stored.HEIID == incoming.HEIID &&
		stored.Course == incoming.Course &&
		stored.YearLevel == incoming.YearLevel &&
		stored.AcademicYear == incoming.AcademicYear &&
		stored.Semester == incoming.Semester &&
		sameFloatPtr(stored.GWA, incoming.GWA) &&
		stored.UnitsEnrolled == incoming.UnitsEnrolled &&
		sameAmount(stored.GrantAmount, incoming.GrantAmount) &&
		stored.Status == incoming.Status
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Format(helpers.DateLayout) == b.Format(helpers.DateLayout)
}

func sameFloatPtr(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return sameAmount(*a, *b)
}

// sameAmount compares NUMERIC(…,2) values read back as float64
func sameAmount(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}
