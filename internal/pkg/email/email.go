package email

import (
	"bytes"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"html/template"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"

	"github.com/rs/zerolog"
)

// Attachment is a file sent along with a message
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AwardNotice carries the fields of a Notice of Award message
type AwardNotice struct {
	ScholarName string
	ProgramName string
	AwardNumber string
	HEIName     string
	Course      string
	GrantAmount string
	DateIssued  string
}

// EmailService defines the interface for email operations
type EmailService interface {
	// SendAwardNotice mails a Notice of Award; it reports false when delivery was skipped.
	SendAwardNotice(toEmail string, notice AwardNotice, pdf *Attachment) (bool, error)
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		logger: logger,
	}
}

var awardTemplate = template.Must(template.New("award").Parse(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #1f3b73;">Notice of Award</h2>
		<p>Dear {{.ScholarName}},</p>
		<p>We are pleased to inform you that you have been awarded a grant under the <strong>{{.ProgramName}}</strong>.</p>
		<table style="border-collapse: collapse;">
			<tr><td style="padding: 4px 12px 4px 0;">Award number</td><td><strong>{{.AwardNumber}}</strong></td></tr>
			{{if .HEIName}}<tr><td style="padding: 4px 12px 4px 0;">Institution</td><td>{{.HEIName}}</td></tr>{{end}}
			{{if .Course}}<tr><td style="padding: 4px 12px 4px 0;">Course</td><td>{{.Course}}</td></tr>{{end}}
			<tr><td style="padding: 4px 12px 4px 0;">Grant amount</td><td>{{.GrantAmount}}</td></tr>
			<tr><td style="padding: 4px 12px 4px 0;">Date issued</td><td>{{.DateIssued}}</td></tr>
		</table>
		<p>Your Notice of Award is attached. Please sign and submit it to the regional office.</p>
	</div>
</body>
</html>`))

// SendAwardNotice sends the Notice of Award with the rendered PDF attached
func (s *EmailServiceImpl) SendAwardNotice(toEmail string, notice AwardNotice, pdf *Attachment) (bool, error) {
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("awardNumber", notice.AwardNumber).
			Str("program", notice.ProgramName).
			Msg("SMTP credentials not configured - notice of award not sent")
		return false, nil
	}

	var body bytes.Buffer
	if err := awardTemplate.Execute(&body, notice); err != nil {
		return false, fmt.Errorf("failed to render notice of award email: %w", err)
	}

	subject := fmt.Sprintf("Notice of Award - %s", notice.ProgramName)
	msg, err := s.buildMessage(toEmail, subject, body.String(), pdf)
	if err != nil {
		return false, err
	}
	if err := s.send(toEmail, msg); err != nil {
		return false, err
	}
	return true, nil
}

// buildMessage renders a multipart/mixed message with an HTML body and an optional attachment
func (s *EmailServiceImpl) buildMessage(toEmail, subject, htmlBody string, att *Attachment) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	// header values outside ASCII travel as RFC 2047 encoded words
	from := mail.Address{Name: s.config.FromName, Address: s.config.FromEmail}
	fmt.Fprintf(&buf, "From: %s\r\n", from.String())
	fmt.Fprintf(&buf, "To: %s\r\n", toEmail)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", mw.Boundary())

	htmlPart, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/html; charset=UTF-8"}})
	if err != nil {
		return nil, fmt.Errorf("failed to create html part: %w", err)
	}
	if _, err := htmlPart.Write([]byte(htmlBody)); err != nil {
		return nil, err
	}

	if att != nil {
		part, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {att.ContentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": att.Filename})},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create attachment part: %w", err)
		}
		enc := base64.StdEncoding.EncodeToString(att.Data)
		for i := 0; i < len(enc); i += 76 {
			end := i + 76
			if end > len(enc) {
				end = len(enc)
			}
			if _, err := part.Write([]byte(enc[i:end] + "\r\n")); err != nil {
				return nil, err
			}
		}
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *EmailServiceImpl) send(toEmail string, message []byte) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, message); err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		s.logger.Error().Err(err).Msg("SMTP authentication failed")
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	return w.Close()
}
