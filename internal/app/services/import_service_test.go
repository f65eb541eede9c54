package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
)

const importCSV = `Award Number,Last Name,First Name,Sex,HEI,Academic Year,Semester,Grant Amount,Province
TDP-001,Dela Cruz,Juan,Male,Sample State University,2024-2025,1st,"PHP 7,500.00",Cebu
TDP-002,Santos,Maria,F,Unknown College,2024-2025,2,,
,,,,,,,,
TDP-003,Reyes,Ana,F,Sample State University,2024-2025,1,7500,Cebu
`

func TestImportCSV(t *testing.T) {
	scholars := &MockScholarRepository{}
	records := &MockAcademicRecordRepository{}
	heis := &MockHEIRepository{}
	locations := &MockLocationRepository{}
	tx := &fakeTx{}
	svc := NewImportService(tx, scholars, records, heis, locations, 100)

	// lookups are cached per import
	locations.On("FindProvinceByName", mock.Anything, "Cebu").Return(&models.Province{ID: 3, Name: "Cebu"}, nil).Once()
	heis.On("FindByNameOrUII", mock.Anything, "Sample State University").Return(&models.HEI{ID: 5}, nil).Once()
	heis.On("FindByNameOrUII", mock.Anything, "Unknown College").Return(nil, apperrors.ErrHEINotFound).Once()

	scholars.On("GetByAwardNumber", mock.Anything, int64(1), "TDP-001").Return(nil, apperrors.ErrScholarNotFound)
	scholars.On("Create", mock.Anything, mock.AnythingOfType("*models.Scholar")).Run(func(args mock.Arguments) {
		s := args.Get(1).(*models.Scholar)
		assert.Equal(t, models.SexMale, s.Sex)
		require.NotNil(t, s.ProvinceID)
		assert.Equal(t, int64(3), *s.ProvinceID)
		s.ID = 11
	}).Return(nil).Once()
	records.On("GetByTerm", mock.Anything, int64(11), "2024-2025", 1).Return(nil, apperrors.ErrAcademicRecordMissing)
	records.On("Create", mock.Anything, mock.AnythingOfType("*models.AcademicRecord")).Run(func(args mock.Arguments) {
		a := args.Get(1).(*models.AcademicRecord)
		assert.Equal(t, 7500.0, a.GrantAmount)
		assert.Equal(t, 1, a.YearLevel)
		assert.Equal(t, models.AcademicEnrolled, a.Status)
	}).Return(nil).Once()

	province := int64(3)
	existing := &models.Scholar{
		ID: 12, ProgramID: 1, AwardNumber: "TDP-003", LastName: "Reyes", FirstName: "Ana",
		Sex: models.SexFemale, ProvinceID: &province, Status: models.ScholarActive,
	}
	scholars.On("GetByAwardNumber", mock.Anything, int64(1), "TDP-003").Return(existing, nil)
	records.On("GetByTerm", mock.Anything, int64(12), "2024-2025", 1).Return(&models.AcademicRecord{
		ID: 40, ScholarID: 12, HEIID: 5, YearLevel: 1, AcademicYear: "2024-2025", Semester: 1,
		GrantAmount: 7500, Status: models.AcademicEnrolled,
	}, nil)

	result, err := svc.Import(context.Background(), 1, "cohort.csv", strings.NewReader(importCSV))
	require.NoError(t, err)

	want := &dto.ImportResult{
		TotalRows: 3,
		Created:   1,
		Unchanged: 1,
		Failed:    1,
		Errors: []dto.RowError{{
			Row:         3,
			AwardNumber: "TDP-002",
			Message:     `validation failed: HEI "Unknown College" not found`,
			Fields:      []dto.FieldError{{Field: "hei", Message: `HEI "Unknown College" not found`}},
		}},
	}
	if diff := cmp.Diff(want, result, cmpopts.IgnoreFields(dto.ImportResult{}, "BatchID")); diff != "" {
		t.Errorf("import result mismatch (-want +got):\n%s", diff)
	}
	assert.NotEmpty(t, result.BatchID)
	assert.Equal(t, 2, tx.calls, "each valid row runs in its own transaction")
	scholars.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	heis.AssertExpectations(t)
	locations.AssertExpectations(t)
}

const requiredColumnsCSV = "award_number,last_name,first_name,sex,hei,academic_year,semester\n" +
	"TDP-009,Reyes,Ana,F,Sample State University,2024-2025,1\n"

func storedScholarAndTerm() (*models.Scholar, *models.AcademicRecord) {
	province, city := int64(3), int64(31)
	birthdate := time.Date(2004, 5, 17, 0, 0, 0, 0, time.UTC)
	gwa := 1.75
	scholar := &models.Scholar{
		ID: 12, ProgramID: 1, AwardNumber: "TDP-009", LastName: "Reyes", FirstName: "Ana", MiddleName: "Lopez",
		Sex: models.SexFemale, Birthdate: &birthdate, ContactNumber: "0917 555 0101", Email: "ana@x.ph",
		ProvinceID: &province, CityID: &city, Barangay: "Poblacion", Status: models.ScholarActive,
	}
	record := &models.AcademicRecord{
		ID: 40, ScholarID: 12, HEIID: 5, Course: "BSIT", YearLevel: 3, AcademicYear: "2024-2025", Semester: 1,
		GWA: &gwa, UnitsEnrolled: 21, GrantAmount: 7500, Status: models.AcademicEnrolled,
	}
	return scholar, record
}

func TestImportKeepsValuesOfAbsentColumns(t *testing.T) {
	scholars := &MockScholarRepository{}
	records := &MockAcademicRecordRepository{}
	heis := &MockHEIRepository{}
	svc := NewImportService(&fakeTx{}, scholars, records, heis, &MockLocationRepository{}, 0)

	stored, term := storedScholarAndTerm()
	heis.On("FindByNameOrUII", mock.Anything, "Sample State University").Return(&models.HEI{ID: 5}, nil)
	scholars.On("GetByAwardNumber", mock.Anything, int64(1), "TDP-009").Return(stored, nil)
	records.On("GetByTerm", mock.Anything, int64(12), "2024-2025", 1).Return(term, nil)

	result, err := svc.Import(context.Background(), 1, "partial.csv", strings.NewReader(requiredColumnsCSV))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Unchanged, "errors: %+v", result.Errors)
	assert.Zero(t, result.Updated)
	scholars.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	records.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	assert.Equal(t, "ana@x.ph", stored.Email)
	assert.Equal(t, "BSIT", term.Course)
}

func TestImportOverwritesOnlyPresentColumns(t *testing.T) {
	scholars := &MockScholarRepository{}
	records := &MockAcademicRecordRepository{}
	heis := &MockHEIRepository{}
	svc := NewImportService(&fakeTx{}, scholars, records, heis, &MockLocationRepository{}, 0)

	stored, term := storedScholarAndTerm()
	heis.On("FindByNameOrUII", mock.Anything, "Sample State University").Return(&models.HEI{ID: 5}, nil)
	scholars.On("GetByAwardNumber", mock.Anything, int64(1), "TDP-009").Return(stored, nil)
	records.On("GetByTerm", mock.Anything, int64(12), "2024-2025", 1).Return(term, nil)

	scholars.On("Update", mock.Anything, mock.AnythingOfType("*models.Scholar")).Run(func(args mock.Arguments) {
		s := args.Get(1).(*models.Scholar)
		assert.Equal(t, "ana.reyes@x.ph", s.Email)
		assert.Equal(t, "Lopez", s.MiddleName)
		assert.Equal(t, "Poblacion", s.Barangay)
		require.NotNil(t, s.Birthdate)
		require.NotNil(t, s.CityID)
		assert.Equal(t, int64(31), *s.CityID)
	}).Return(nil).Once()
	records.On("Update", mock.Anything, mock.AnythingOfType("*models.AcademicRecord")).Run(func(args mock.Arguments) {
		a := args.Get(1).(*models.AcademicRecord)
		assert.Equal(t, int64(40), a.ID)
		assert.Equal(t, 4, a.YearLevel)
		assert.Equal(t, "BSIT", a.Course)
		assert.Equal(t, 7500.0, a.GrantAmount)
		require.NotNil(t, a.GWA)
		assert.Equal(t, 21, a.UnitsEnrolled)
	}).Return(nil).Once()

	data := "award_number,last_name,first_name,sex,hei,academic_year,semester,email,year_level\n" +
		"TDP-009,Reyes,Ana,F,Sample State University,2024-2025,1,Ana.Reyes@x.ph,4\n"
	result, err := svc.Import(context.Background(), 1, "partial.csv", strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated, "errors: %+v", result.Errors)
	scholars.AssertExpectations(t)
	records.AssertExpectations(t)
}

func TestImportValidatesRowFields(t *testing.T) {
	scholars := &MockScholarRepository{}
	heis := &MockHEIRepository{}
	svc := NewImportService(&fakeTx{}, scholars, &MockAcademicRecordRepository{}, heis, &MockLocationRepository{}, 0)

	heis.On("FindByNameOrUII", mock.Anything, "Sample State University").Return(&models.HEI{ID: 5}, nil)

	data := "award_number,last_name,first_name,sex,hei,academic_year,semester,email,contact_number\n" +
		"TDP-010,Cruz,Jose,M,Sample State University,2024-2025,1,not-an-email,call me\n" +
		"TDP-011," + strings.Repeat("x", 101) + ",Lea,F,Sample State University,2024-2026,1,,\n"
	result, err := svc.Import(context.Background(), 1, "bad.csv", strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Errors, 2)

	fieldsOf := func(re dto.RowError) []string {
		var names []string
		for _, f := range re.Fields {
			names = append(names, f.Field)
		}
		return names
	}
	assert.ElementsMatch(t, []string{"email", "contact_number"}, fieldsOf(result.Errors[0]))
	assert.Contains(t, result.Errors[0].Message, "email must be a valid email address")
	assert.ElementsMatch(t, []string{"last_name", "academic_year"}, fieldsOf(result.Errors[1]))
	scholars.AssertNotCalled(t, "GetByAwardNumber", mock.Anything, mock.Anything, mock.Anything)
	scholars.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestImportRetriesLookupAfterTransientError(t *testing.T) {
	scholars := &MockScholarRepository{}
	records := &MockAcademicRecordRepository{}
	heis := &MockHEIRepository{}
	svc := NewImportService(&fakeTx{}, scholars, records, heis, &MockLocationRepository{}, 0)

	heis.On("FindByNameOrUII", mock.Anything, "Sample State University").Return(nil, errors.New("conn reset")).Once()
	heis.On("FindByNameOrUII", mock.Anything, "Sample State University").Return(&models.HEI{ID: 5}, nil).Once()

	scholars.On("GetByAwardNumber", mock.Anything, int64(1), "TDP-021").Return(nil, apperrors.ErrScholarNotFound)
	scholars.On("Create", mock.Anything, mock.AnythingOfType("*models.Scholar")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Scholar).ID = 21
	}).Return(nil).Once()
	records.On("GetByTerm", mock.Anything, int64(21), "2024-2025", 1).Return(nil, apperrors.ErrAcademicRecordMissing)
	records.On("Create", mock.Anything, mock.AnythingOfType("*models.AcademicRecord")).Return(nil).Once()

	data := "award_number,last_name,first_name,sex,hei,academic_year,semester\n" +
		"TDP-020,Cruz,Jose,M,Sample State University,2024-2025,1\n" +
		"TDP-021,Lim,Lea,F,Sample State University,2024-2025,1\n"
	result, err := svc.Import(context.Background(), 1, "cohort.csv", strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Created)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "conn reset", result.Errors[0].Message)
	assert.Empty(t, result.Errors[0].Fields)
	heis.AssertExpectations(t)
}

func TestImportRejectsMissingColumns(t *testing.T) {
	svc := NewImportService(&fakeTx{}, &MockScholarRepository{}, &MockAcademicRecordRepository{},
		&MockHEIRepository{}, &MockLocationRepository{}, 0)

	_, err := svc.Import(context.Background(), 1, "x.csv", strings.NewReader("award_number,last_name\nTDP-1,Cruz\n"))
	require.Error(t, err)

	var custom *apperrors.CustomError
	require.True(t, errors.As(err, &custom))
	assert.ElementsMatch(t, []string{"first_name", "sex", "hei", "academic_year", "semester"}, custom.Details["missing"])
}

func TestImportRejectsTooManyRows(t *testing.T) {
	svc := NewImportService(&fakeTx{}, &MockScholarRepository{}, &MockAcademicRecordRepository{},
		&MockHEIRepository{}, &MockLocationRepository{}, 1)

	_, err := svc.Import(context.Background(), 1, "cohort.csv", strings.NewReader(importCSV))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
	assert.Contains(t, err.Error(), "the limit is 1")
}

func TestImportRejectsUnknownFormat(t *testing.T) {
	svc := NewImportService(&fakeTx{}, &MockScholarRepository{}, &MockAcademicRecordRepository{},
		&MockHEIRepository{}, &MockLocationRepository{}, 0)

	_, err := svc.Import(context.Background(), 1, "cohort.ods", strings.NewReader(""))
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
}

func TestParseImportHelpers(t *testing.T) {
	for in, want := range map[string]int{"1": 1, "2nd Semester": 2, "Summer": 3} {
		got, ok := parseSemester(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := parseSemester("4")
	assert.False(t, ok)

	amount, err := parseAmount("₱ 12,345.50")
	require.NoError(t, err)
	assert.InDelta(t, 12345.50, amount, 0.001)
}
