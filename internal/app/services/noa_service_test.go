package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/email"
)

func newNOAFixture(scholar *models.Scholar) (*NOAService, *MockMailer) {
	scholars := &MockScholarRepository{}
	programs := &MockProgramRepository{}
	mailer := &MockMailer{}
	scholars.On("GetByID", mock.Anything, scholar.ID).Return(scholar, nil)
	programs.On("GetByID", mock.Anything, int64(1)).
		Return(&models.Program{ID: 1, Code: models.ProgramTDP, Name: "Tulong Dunong Program"}, nil)

	svc := NewNOAService(scholars, programs, mailer)
	svc.now = func() time.Time { return time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC) }
	return svc, mailer
}

func awardee(status models.ScholarStatus, mail string) *models.Scholar {
	return &models.Scholar{
		ID: 7, ProgramID: 1, AwardNumber: "TDP 2026/0007", LastName: "Reyes", FirstName: "Ana",
		Email: mail, Status: status,
		LatestRecord: &models.AcademicRecord{HEIName: "Sample State University", Course: "BSIT", AcademicYear: "2026-2027", GrantAmount: 7500},
	}
}

func TestNoticeRequiresVerifiedOrActiveScholar(t *testing.T) {
	for _, status := range []models.ScholarStatus{models.ScholarApplicant, models.ScholarOnLeave, models.ScholarGraduated, models.ScholarWaived} {
		t.Run(string(status), func(t *testing.T) {
			svc, mailer := newNOAFixture(awardee(status, "ana@x.ph"))

			var buf bytes.Buffer
			_, err := svc.WriteNotice(context.Background(), &buf, 1, 7)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			assert.Zero(t, buf.Len())

			_, err = svc.SendNotice(context.Background(), 1, 7)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			mailer.AssertNotCalled(t, "SendAwardNotice", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestWriteNoticeRendersPDF(t *testing.T) {
	for _, status := range []models.ScholarStatus{models.ScholarVerified, models.ScholarActive} {
		svc, _ := newNOAFixture(awardee(status, ""))

		var buf bytes.Buffer
		s, err := svc.WriteNotice(context.Background(), &buf, 1, 7)
		require.NoError(t, err, status)
		assert.Equal(t, int64(7), s.ID)
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), status)
	}
}

func TestSendNoticeWithoutEmail(t *testing.T) {
	svc, mailer := newNOAFixture(awardee(models.ScholarActive, ""))

	_, err := svc.SendNotice(context.Background(), 1, 7)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	mailer.AssertNotCalled(t, "SendAwardNotice", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendNotice(t *testing.T) {
	svc, mailer := newNOAFixture(awardee(models.ScholarVerified, "ana@x.ph"))
	mailer.On("SendAwardNotice", "ana@x.ph", mock.AnythingOfType("email.AwardNotice"), mock.AnythingOfType("*email.Attachment")).
		Run(func(args mock.Arguments) {
			notice := args.Get(1).(email.AwardNotice)
			assert.Equal(t, "Ana Reyes", notice.ScholarName)
			assert.Equal(t, "October 15, 2026", notice.DateIssued)
			pdf := args.Get(2).(*email.Attachment)
			assert.Equal(t, "NOA-TDP_2026-0007.pdf", pdf.Filename)
			assert.True(t, bytes.HasPrefix(pdf.Data, []byte("%PDF")))
		}).Return(true, nil).Once()

	resp, err := svc.SendNotice(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, "ana@x.ph", resp.Recipient)
	assert.True(t, resp.Delivered)
	mailer.AssertExpectations(t)
}

func TestSendNoticeMailerFailure(t *testing.T) {
	svc, mailer := newNOAFixture(awardee(models.ScholarActive, "ana@x.ph"))
	mailer.On("SendAwardNotice", mock.Anything, mock.Anything, mock.Anything).Return(false, assert.AnError)

	_, err := svc.SendNotice(context.Background(), 1, 7)
	assert.ErrorIs(t, err, apperrors.ErrExternalService)
}
