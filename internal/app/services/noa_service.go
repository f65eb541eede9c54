package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/email"
	"github.com/yigit/scholaris/internal/pkg/logger"
	"github.com/yigit/scholaris/internal/pkg/pdf"
)

// NOAService issues Notices of Award
type NOAService struct {
	scholarRepo ScholarRepository
	programRepo ProgramRepository
	mailer      email.EmailService
	now         func() time.Time
}

// NewNOAService creates a new Notice of Award service instance
func NewNOAService(scholarRepo ScholarRepository, programRepo ProgramRepository, mailer email.EmailService) *NOAService {
	return &NOAService{scholarRepo: scholarRepo, programRepo: programRepo, mailer: mailer, now: time.Now}
}

func (s *NOAService) notice(ctx context.Context, programID, scholarID int64) (*models.Scholar, pdf.AwardNotice, error) {
	scholar, err := scholarInProgram(ctx, s.scholarRepo, programID, scholarID)
	if err != nil {
		return nil, pdf.AwardNotice{}, err
	}
	if !scholar.Status.EligibleForNOA() {
		return nil, pdf.AwardNotice{}, fmt.Errorf("%w: a notice of award requires a VERIFIED or ACTIVE scholar, status is %s",
			apperrors.ErrValidationFailed, scholar.Status)
	}
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		return nil, pdf.AwardNotice{}, err
	}

	n := pdf.AwardNotice{
		ProgramName: program.Name,
		ProgramCode: string(program.Code),
		ScholarName: scholar.FullName(),
		AwardNumber: scholar.AwardNumber,
		Address:     joinNonEmpty(", ", scholar.Barangay, scholar.CityName, scholar.ProvinceName),
		DateIssued:  s.now(),
	}
	if r := scholar.LatestRecord; r != nil {
		n.HEIName = r.HEIName
		n.Course = r.Course
		n.AcademicYear = r.AcademicYear
		n.GrantAmount = r.GrantAmount
	}
	return scholar, n, nil
}

// NOAFilename names the download, e.g. "NOA-TDP-2024-0001.pdf"
func NOAFilename(awardNumber string) string {
	return "NOA-" + strings.NewReplacer(" ", "_", "/", "-").Replace(awardNumber) + ".pdf"
}

// WriteNotice renders the scholar's Notice of Award PDF to w
func (s *NOAService) WriteNotice(ctx context.Context, w io.Writer, programID, scholarID int64) (*models.Scholar, error) {
	scholar, n, err := s.notice(ctx, programID, scholarID)
	if err != nil {
		return nil, err
	}
	if err := pdf.WriteAwardNotice(w, n); err != nil {
		return nil, err
	}
	return scholar, nil
}

// SendNotice emails the Notice of Award to the scholar's address
func (s *NOAService) SendNotice(ctx context.Context, programID, scholarID int64) (*dto.NOASendResponse, error) {
	scholar, n, err := s.notice(ctx, programID, scholarID)
	if err != nil {
		return nil, err
	}
	if scholar.Email == "" {
		return nil, apperrors.NewValidationError("scholar has no email address", map[string]interface{}{
			"scholarId": scholarID,
		})
	}

	var buf bytes.Buffer
	if err := pdf.WriteAwardNotice(&buf, n); err != nil {
		return nil, err
	}

	delivered, err := s.mailer.SendAwardNotice(scholar.Email, email.AwardNotice{
		ScholarName: scholar.FirstName + " " + scholar.LastName,
		ProgramName: n.ProgramName,
		AwardNumber: n.AwardNumber,
		HEIName:     n.HEIName,
		Course:      n.Course,
		GrantAmount: pdf.FormatPeso(n.GrantAmount),
		DateIssued:  n.DateIssued.Format("January 2, 2006"),
	}, &email.Attachment{
		Filename:    NOAFilename(scholar.AwardNumber),
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
	})
	if err != nil {
		logger.Error().Err(err).Int64("scholarID", scholarID).Msg("Failed to send notice of award")
		return nil, fmt.Errorf("%w: failed to send notice of award: %v", apperrors.ErrExternalService, err)
	}

	return &dto.NOASendResponse{Recipient: scholar.Email, Delivered: delivered}, nil
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
