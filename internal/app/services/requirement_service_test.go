package services

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
)

type requirementFixture struct {
	svc          *RequirementService
	requirements *MockRequirementRepository
	scholars     *MockScholarRepository
	storage      *MockFileStorage
}

func newRequirementFixture() requirementFixture {
	f := requirementFixture{
		requirements: &MockRequirementRepository{},
		scholars:     &MockScholarRepository{},
		storage:      &MockFileStorage{},
	}
	f.svc = NewRequirementService(f.requirements, f.scholars, &MockFinancialRequestRepository{},
		&MockTravelRepository{}, &MockLeaveRepository{}, f.storage)
	return f
}

func TestComplianceListsMissingRequirements(t *testing.T) {
	f := newRequirementFixture()
	f.scholars.On("GetByID", mock.Anything, int64(7)).Return(&models.Scholar{ID: 7, ProgramID: 1}, nil)
	f.requirements.On("MissingRequired", mock.Anything, int64(1), int64(7)).
		Return([]models.Requirement{{ID: 3, ProgramID: 1, Name: "Certificate of Registration", IsRequired: true}}, nil).Once()

	resp, err := f.svc.Compliance(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.False(t, resp.Complete)
	require.Len(t, resp.Missing, 1)
	assert.Equal(t, "Certificate of Registration", resp.Missing[0].Name)

	f.requirements.On("MissingRequired", mock.Anything, int64(1), int64(7)).Return(nil, nil).Once()
	resp, err = f.svc.Compliance(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.True(t, resp.Complete)
	assert.NotNil(t, resp.Missing, "an empty list serializes as []")
}

func TestComplianceOfScholarInOtherProgram(t *testing.T) {
	f := newRequirementFixture()
	f.scholars.On("GetByID", mock.Anything, int64(7)).Return(&models.Scholar{ID: 7, ProgramID: 2}, nil)

	_, err := f.svc.Compliance(context.Background(), 1, 7)
	assert.ErrorIs(t, err, apperrors.ErrScholarNotFound)
	f.requirements.AssertNotCalled(t, "MissingRequired", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadAttachmentRejectsBadFiles(t *testing.T) {
	cases := map[string]*multipart.FileHeader{
		"missing file":      nil,
		"disallowed type":   {Filename: "payload.exe", Size: 1024},
		"no extension":      {Filename: "README", Size: 1024},
		"over the size cap": {Filename: "grades.pdf", Size: MaxAttachmentSize + 1},
	}
	for name, file := range cases {
		t.Run(name, func(t *testing.T) {
			f := newRequirementFixture()
			_, err := f.svc.UploadAttachment(context.Background(), models.AttachableScholar, 7, nil, file, 1)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			f.storage.AssertNotCalled(t, "SaveFileWithPath", mock.Anything, mock.Anything)
			f.requirements.AssertNotCalled(t, "CreateAttachment", mock.Anything, mock.Anything)
		})
	}
}

func TestUploadAttachmentRejectsUnknownTarget(t *testing.T) {
	f := newRequirementFixture()
	_, err := f.svc.UploadAttachment(context.Background(), models.AttachableType("INVOICE"), 7, nil,
		&multipart.FileHeader{Filename: "grades.pdf", Size: 10}, 1)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestUploadAttachmentRequirementOfOtherProgram(t *testing.T) {
	f := newRequirementFixture()
	f.scholars.On("GetByID", mock.Anything, int64(7)).Return(&models.Scholar{ID: 7, ProgramID: 1}, nil)
	f.requirements.On("GetRequirement", mock.Anything, int64(3)).Return(&models.Requirement{ID: 3, ProgramID: 2}, nil)

	requirementID := int64(3)
	_, err := f.svc.UploadAttachment(context.Background(), models.AttachableScholar, 7, &requirementID,
		&multipart.FileHeader{Filename: "grades.pdf", Size: 10}, 1)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	f.storage.AssertNotCalled(t, "SaveFileWithPath", mock.Anything, mock.Anything)
}

func TestUploadAttachmentStoresAndLinks(t *testing.T) {
	f := newRequirementFixture()
	file := &multipart.FileHeader{Filename: "Grades.PDF", Size: 2048}
	f.scholars.On("GetByID", mock.Anything, int64(7)).Return(&models.Scholar{ID: 7, ProgramID: 1}, nil)
	f.storage.On("SaveFileWithPath", file, "scholar/7").Return("/uploads/scholar/7/grades.pdf", nil).Once()
	f.requirements.On("CreateAttachment", mock.Anything, mock.AnythingOfType("*models.Attachment")).Return(nil).Once()

	a, err := f.svc.UploadAttachment(context.Background(), models.AttachableScholar, 7, nil, file, 5)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/scholar/7/grades.pdf", a.FileURL)
	assert.Equal(t, "Grades.PDF", a.FileName)
	require.NotNil(t, a.UploadedBy)
	assert.Equal(t, int64(5), *a.UploadedBy)
	f.storage.AssertExpectations(t)
	f.requirements.AssertExpectations(t)
}

func TestUploadAttachmentRemovesFileWhenRowFails(t *testing.T) {
	f := newRequirementFixture()
	file := &multipart.FileHeader{Filename: "grades.pdf", Size: 2048}
	f.scholars.On("GetByID", mock.Anything, int64(7)).Return(&models.Scholar{ID: 7, ProgramID: 1}, nil)
	f.storage.On("SaveFileWithPath", file, "scholar/7").Return("/uploads/scholar/7/grades.pdf", nil)
	f.requirements.On("CreateAttachment", mock.Anything, mock.Anything).Return(assert.AnError)
	f.storage.On("DeleteFile", "/uploads/scholar/7/grades.pdf").Return(nil).Once()

	_, err := f.svc.UploadAttachment(context.Background(), models.AttachableScholar, 7, nil, file, 5)
	assert.ErrorIs(t, err, assert.AnError)
	f.storage.AssertExpectations(t)
}
